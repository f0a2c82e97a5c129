package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/daybook/pkg/notify"
)

func addNotify(topLevel *cobra.Command, o *options) {
	var once, summary bool
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send reminders for scheduled items and a daily summary.",
		Long: `notify checks today's agenda every minute and announces items whose time has come,
on the terminal and, when notify.telegram is configured, over Telegram. The daily
summary follows notify.summary_cron.`,
		Example: `
daybook notify
daybook notify --once
daybook notify --summary
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := o.service()
			if err != nil {
				return err
			}
			out := notify.Multi{notify.NewTerminal(cmd.OutOrStdout())}
			if tg := o.cfg.Notify.Telegram; tg.Enabled() {
				bot, err := notify.NewTelegram(tg.Token, tg.ChatID)
				if err != nil {
					return fmt.Errorf("connecting to telegram: %w", err)
				}
				out = append(out, bot)
			}

			var opts []notify.Option
			if o.now != nil {
				opts = append(opts, notify.WithClock(o.now))
			}
			if !once {
				opts = append(opts, notify.WithSummarySpec(o.cfg.Notify.SummaryCron))
			}
			s := notify.NewScheduler(svc, out, o.log, opts...)

			switch {
			case summary:
				return s.SendSummary(cmd.Context())
			case once:
				_, err := s.CheckDue(cmd.Context())
				return err
			}
			return s.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "Check due items once and exit.")
	cmd.Flags().BoolVar(&summary, "summary", false, "Send today's summary now and exit.")
	topLevel.AddCommand(cmd)
}
