package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/daybook/pkg/app"
	"github.com/stefanpenner/daybook/pkg/focus"
	"github.com/stefanpenner/daybook/pkg/model"
	"github.com/stefanpenner/daybook/pkg/printers"
	"github.com/stefanpenner/daybook/pkg/store"
)

func addFocus(topLevel *cobra.Command, o *options) {
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Run a timed focus session on one of today's items.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return focusStatus(cmd, o)
		},
	}

	var minutes int
	start := &cobra.Command{
		Use:   "start <kind> <id>",
		Short: "Start a session. Minutes default to the item's duration, then the configured default.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := o.service()
			if err != nil {
				return err
			}
			kind, ok := model.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", store.ErrUnknownKind, args[0])
			}
			sess, err := svc.StartFocus(cmd.Context(), app.FocusRequest{Kind: kind, ID: args[1], Minutes: minutes})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return o.emit(out, sess, func() {
				fmt.Fprintf(out, "Focusing on %s for %d minutes\n", sess.Title, sess.DurationMinutes)
			})
		},
	}
	start.Flags().IntVarP(&minutes, "minutes", "m", 0, "Session length in minutes.")

	stop := &cobra.Command{
		Use:   "stop",
		Short: "End the running session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := o.service()
			if err != nil {
				return err
			}
			sess, err := svc.StopFocus(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return o.emit(out, sess, func() { fmt.Fprintf(out, "Stopped focus on %s\n", sess.Title) })
		},
	}

	pause := &cobra.Command{
		Use:   "pause",
		Short: "Pause the countdown.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return focusUpdate(cmd, o, (*focus.Tracker).Pause)
		},
	}
	resume := &cobra.Command{
		Use:   "resume",
		Short: "Resume a paused countdown.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return focusUpdate(cmd, o, (*focus.Tracker).Resume)
		},
	}
	status := &cobra.Command{
		Use:   "status",
		Short: "Show the running session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return focusStatus(cmd, o)
		},
	}

	cmd.AddCommand(start, stop, pause, resume, status)
	topLevel.AddCommand(cmd)
}

func focusUpdate(cmd *cobra.Command, o *options, fn func(*focus.Tracker) (*focus.Session, error)) error {
	svc, err := o.service()
	if err != nil {
		return err
	}
	if _, err := fn(svc.Focus); err != nil {
		return err
	}
	return focusStatus(cmd, o)
}

func focusStatus(cmd *cobra.Command, o *options) error {
	svc, err := o.service()
	if err != nil {
		return err
	}
	st, err := svc.Focus.Current()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	var payload any = st
	if st == nil {
		payload = map[string]any{"session": nil}
	}
	return o.emit(out, payload, func() { printers.Focus(out, st) })
}
