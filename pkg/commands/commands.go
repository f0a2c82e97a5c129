// Package commands is the daybook command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stefanpenner/daybook/pkg/app"
	"github.com/stefanpenner/daybook/pkg/config"
	"github.com/stefanpenner/daybook/pkg/logging"
	"github.com/stefanpenner/daybook/pkg/model"
	"github.com/stefanpenner/daybook/pkg/printers"
)

// Set at link time with -ldflags "-X github.com/stefanpenner/daybook/pkg/commands.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// options is shared by every subcommand.
type options struct {
	dir        string
	configFile string
	json       bool

	cfg *config.Config
	log *logging.Logger
	svc *app.Service
	now func() time.Time
}

// New returns the root command.
func New() *cobra.Command {
	return newRoot(&options{})
}

func newRoot(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daybook",
		Short: "A daily agenda of study themes, spaced reviews, tasks and habits.",
		Long: `daybook keeps themes, tasks and goals as markdown files and resolves them into
one agenda per day. Run it without a command to open the interactive view.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.setup(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.runTUI(cmd.Context())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&o.dir, "dir", "", "Data directory (default from config or $DAYBOOK_DIR).")
	flags.StringVar(&o.configFile, "config", "", "Config file to read instead of the usual search path.")
	flags.BoolVar(&o.json, "json", false, "Print machine-readable JSON.")

	addCommands(cmd, o)
	return cmd
}

// addCommands registers every subcommand on topLevel.
func addCommands(topLevel *cobra.Command, o *options) {
	addAgenda(topLevel, o)
	addAdd(topLevel, o)
	addIntroduce(topLevel, o)
	addToggle(topLevel, o)
	addSchedule(topLevel, o)
	addReorder(topLevel, o)
	addNote(topLevel, o)
	addSearch(topLevel, o)
	addDelete(topLevel, o)
	addFocus(topLevel, o)
	addNotify(topLevel, o)
	addBackup(topLevel, o)
	addRestore(topLevel, o)
	addInit(topLevel, o)
	addSync(topLevel, o)
	addMCP(topLevel, o)
	addTUI(topLevel, o)
	addVersion(topLevel)
}

// Run executes the command line and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o := &options{}
	cmd := newRoot(o)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if o.json {
			_ = printers.Error(stdout, err)
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (o *options) setup(stderr io.Writer) error {
	if o.cfg != nil {
		return nil
	}
	cfg, err := config.Load(config.Options{ConfigFile: o.configFile, DataDir: o.dir})
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.log = logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.Log.Level),
		Format: logging.ParseFormat(cfg.Log.Format),
		Output: stderr,
	})
	logging.SetDefault(o.log)
	return nil
}

// service builds the app service on first use so that commands like version never
// touch the data directory.
func (o *options) service() (*app.Service, error) {
	if o.svc != nil {
		return o.svc, nil
	}
	var opts []app.Option
	if o.now != nil {
		opts = append(opts, app.WithClock(o.now))
	}
	svc, err := app.New(o.cfg, o.log, opts...)
	if err != nil {
		return nil, err
	}
	o.svc = svc
	return svc, nil
}

// day resolves a --on style argument. Empty means today.
func (o *options) day(s string) (model.Date, error) {
	svc, err := o.service()
	if err != nil {
		return model.Date{}, err
	}
	today := svc.Today()
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	case "yesterday":
		return today.AddDays(-1), nil
	}
	d, ok := model.ParseDate(s)
	if !ok {
		return model.Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD, today, tomorrow or yesterday)", s)
	}
	return d, nil
}

// optionalDay is day for flags where empty means "no date".
func (o *options) optionalDay(s string) (model.Date, error) {
	if strings.TrimSpace(s) == "" {
		return model.Date{}, nil
	}
	return o.day(s)
}

// emit prints v as JSON under --json, otherwise calls human.
func (o *options) emit(w io.Writer, v any, human func()) error {
	if o.json {
		return printers.JSON(w, v)
	}
	human()
	return nil
}
