package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/daybook/pkg/agenda"
	"github.com/stefanpenner/daybook/pkg/model"
	"github.com/stefanpenner/daybook/pkg/printers"
	"github.com/stefanpenner/daybook/pkg/store"
)

func addToggle(topLevel *cobra.Command, o *options) {
	var on string
	cmd := &cobra.Command{
		Use:   "toggle <intro|review|task|habit|step> <id>",
		Short: "Mark an agenda item done, or undo it.",
		Example: `
daybook toggle task 3f2a
daybook toggle habit 9c1e --on yesterday
`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := o.service()
			if err != nil {
				return err
			}
			kind, ok := model.ParseKind(args[0])
			if !ok {
				return fmt.Errorf("%w: %q", store.ErrUnknownKind, args[0])
			}
			d, err := o.day(on)
			if err != nil {
				return err
			}
			done, err := svc.Toggle(cmd.Context(), kind, args[1], d)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			res := map[string]any{"kind": kind, "id": args[1], "date": d.String(), "done": done}
			return o.emit(out, res, func() {
				state := "not done"
				if done {
					state = "done"
				}
				fmt.Fprintf(out, "%s %s marked %s on %s\n", kind, args[1], state, d)
			})
		},
	}
	cmd.Flags().StringVar(&on, "on", "", "Day the completion counts for (default today).")
	topLevel.AddCommand(cmd)
}

func addSchedule(topLevel *cobra.Command, o *options) {
	var on string
	cmd := &cobra.Command{
		Use:   "schedule <id> [HH:MM]",
		Short: "Set an item's time for one day; omit the time to clear it.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := o.service()
			if err != nil {
				return err
			}
			d, err := o.day(on)
			if err != nil {
				return err
			}
			clock := ""
			if len(args) == 2 {
				c, ok := model.ParseClock(args[1])
				if !ok {
					return fmt.Errorf("%w: time %q is not HH:MM", store.ErrInvalid, args[1])
				}
				clock = c
			}
			if err := svc.Schedule(cmd.Context(), d, args[0], clock); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			res := map[string]string{"id": args[0], "date": d.String(), "time": clock}
			return o.emit(out, res, func() {
				if clock == "" {
					fmt.Fprintf(out, "Cleared time of %s on %s\n", args[0], d)
					return
				}
				fmt.Fprintf(out, "Scheduled %s at %s on %s\n", args[0], clock, d)
			})
		},
	}
	cmd.Flags().StringVar(&on, "on", "", "Day to schedule on (default today).")
	topLevel.AddCommand(cmd)
}

func addReorder(topLevel *cobra.Command, o *options) {
	var on string
	cmd := &cobra.Command{
		Use:   "reorder <intros|reviews|tasks|habits> <id> <up|down>",
		Short: "Move an item one slot within its section for one day.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := o.service()
			if err != nil {
				return err
			}
			c, ok := agenda.ParseCategory(args[0])
			if !ok {
				return fmt.Errorf("%w: category %q", store.ErrInvalid, args[0])
			}
			var delta int
			switch strings.ToLower(args[2]) {
			case "up":
				delta = -1
			case "down":
				delta = 1
			default:
				return fmt.Errorf("%w: direction %q (want up or down)", store.ErrInvalid, args[2])
			}
			d, err := o.day(on)
			if err != nil {
				return err
			}
			moved, err := svc.Reorder(cmd.Context(), d, c, args[1], delta)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return o.emit(out, map[string]bool{"moved": moved}, func() {
				if !moved {
					fmt.Fprintln(out, "Already at the edge, nothing moved.")
					return
				}
				fmt.Fprintf(out, "Moved %s %s\n", args[1], strings.ToLower(args[2]))
			})
		},
	}
	cmd.Flags().StringVar(&on, "on", "", "Day whose order changes (default today).")
	topLevel.AddCommand(cmd)
}

func addNote(topLevel *cobra.Command, o *options) {
	cmd := &cobra.Command{
		Use:   "note <theme|subtheme|task|goal|step> <id> <text>",
		Short: "Append a dated note to an entity.",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := o.service()
			if err != nil {
				return err
			}
			ref, err := store.ParseRef(args[0])
			if err != nil {
				return err
			}
			title, err := svc.Store.AddNote(ref, args[1], strings.Join(args[2:], " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return o.emit(out, map[string]string{"ref": string(ref), "id": args[1], "title": title}, func() {
				fmt.Fprintf(out, "Note added to %s\n", title)
			})
		},
	}
	topLevel.AddCommand(cmd)
}

func addSearch(topLevel *cobra.Command, o *options) {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find entities whose title or notes contain the query.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := o.service()
			if err != nil {
				return err
			}
			results, err := svc.Store.Search(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if results == nil {
				results = []store.SearchResult{}
			}
			out := cmd.OutOrStdout()
			return o.emit(out, results, func() { printers.Search(out, results) })
		},
	}
	topLevel.AddCommand(cmd)
}

func addDelete(topLevel *cobra.Command, o *options) {
	cmd := &cobra.Command{
		Use:   "delete <theme|subtheme|task|goal|step> <id>",
		Short: "Delete an entity and everything inside it.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := o.service()
			if err != nil {
				return err
			}
			ref, err := store.ParseRef(args[0])
			if err != nil {
				return err
			}
			if err := svc.Store.Delete(ref, args[1]); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return o.emit(out, map[string]string{"deleted": args[1], "ref": string(ref)}, func() {
				fmt.Fprintf(out, "Deleted %s %s\n", ref, args[1])
			})
		},
	}
	topLevel.AddCommand(cmd)
}
