package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/daybook/pkg/backup"
	gsync "github.com/stefanpenner/daybook/pkg/sync"
)

func addBackup(topLevel *cobra.Command, o *options) {
	cmd := &cobra.Command{
		Use:   "backup <file.db>",
		Short: "Export every theme, task and goal into a SQLite file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := o.service()
			if err != nil {
				return err
			}
			snap, err := svc.Store.Snapshot()
			if err != nil {
				return err
			}
			if err := backup.Export(cmd.Context(), snap, args[0]); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			res := counts(args[0], len(snap.Themes), len(snap.Tasks), len(snap.Goals))
			return o.emit(out, res, func() {
				fmt.Fprintf(out, "Backed up %d themes, %d tasks and %d goals to %s\n",
					len(snap.Themes), len(snap.Tasks), len(snap.Goals), args[0])
			})
		},
	}
	topLevel.AddCommand(cmd)
}

func addRestore(topLevel *cobra.Command, o *options) {
	cmd := &cobra.Command{
		Use:   "restore <file.db>",
		Short: "Replace all data with the contents of a backup.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := o.service()
			if err != nil {
				return err
			}
			snap, err := backup.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := svc.Store.Replace(snap); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			res := counts(args[0], len(snap.Themes), len(snap.Tasks), len(snap.Goals))
			return o.emit(out, res, func() {
				fmt.Fprintf(out, "Restored %d themes, %d tasks and %d goals from %s\n",
					len(snap.Themes), len(snap.Tasks), len(snap.Goals), args[0])
			})
		},
	}
	topLevel.AddCommand(cmd)
}

func counts(file string, themes, tasks, goals int) map[string]any {
	return map[string]any{"file": file, "themes": themes, "tasks": tasks, "goals": goals}
}

func addInit(topLevel *cobra.Command, o *options) {
	var remote string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Make the data directory a git repository, optionally with a remote.",
		Example: `
daybook init
daybook init --remote git@github.com:me/daybook-data.git
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return gsync.InitRepo(cmd.Context(), o.cfg.DataDir, remote, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&remote, "remote", "", "URL of the origin remote.")
	topLevel.AddCommand(cmd)
}

func addSync(topLevel *cobra.Command, o *options) {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Commit local changes, pull and push the data directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return gsync.SyncRepo(cmd.Context(), o.cfg.DataDir, cmd.OutOrStdout())
		},
	}
	topLevel.AddCommand(cmd)
}
