package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/stefanpenner/daybook/pkg/logging"
	"github.com/stefanpenner/daybook/pkg/tui"
)

func addTUI(topLevel *cobra.Command, o *options) {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive agenda (the default with no command).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.runTUI(cmd.Context())
		},
	}
	topLevel.AddCommand(cmd)
}

// runTUI logs to a file under the data directory because the terminal is taken.
func (o *options) runTUI(ctx context.Context) error {
	f, err := logging.OpenFile(o.cfg.LogPath())
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()
	cfg := o.log.Config()
	cfg.Output = f
	o.log = logging.New(cfg)
	logging.SetDefault(o.log)

	svc, err := o.service()
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(ctx, svc, o.log), tea.WithAltScreen(), tea.WithContext(ctx))

	cleanup, err := tui.StartWatcher(svc.Store.Root, p, o.log)
	if err != nil {
		o.log.WithError(err).Warn("file watcher failed")
	} else {
		defer cleanup()
	}

	_, err = p.Run()
	return err
}
