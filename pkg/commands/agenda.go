package commands

import (
	"github.com/spf13/cobra"

	"github.com/stefanpenner/daybook/pkg/printers"
)

func addAgenda(topLevel *cobra.Command, o *options) {
	var on string
	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Show the agenda for a day.",
		Example: `
daybook agenda
daybook agenda --on tomorrow
daybook agenda --on 2024-03-05 --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := o.service()
			if err != nil {
				return err
			}
			d, err := o.day(on)
			if err != nil {
				return err
			}
			view, err := svc.Agenda(cmd.Context(), d)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return o.emit(out, view, func() { printers.Agenda(out, view) })
		},
	}
	cmd.Flags().StringVar(&on, "on", "", "Day to show (YYYY-MM-DD, today, tomorrow, yesterday).")
	topLevel.AddCommand(cmd)
}
