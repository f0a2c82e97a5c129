package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/stefanpenner/daybook/pkg/model"
)

func addAdd(topLevel *cobra.Command, o *options) {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task, goal, theme, subtheme or checklist step.",
	}
	addTask(cmd, o)
	addGoal(cmd, o)
	addTheme(cmd, o)
	addSubtheme(cmd, o)
	addStep(cmd, o)
	topLevel.AddCommand(cmd)
}

type taskFlags struct {
	kind        string
	on          string
	start       string
	end         string
	days        []string
	priority    string
	clock       string
	minutes     int
	interactive bool
}

func addTask(parent *cobra.Command, o *options) {
	f := &taskFlags{}
	cmd := &cobra.Command{
		Use:   "task [title]",
		Short: "Add a task for a day, a period or recurring weekdays.",
		Example: `
daybook add task "Write report" --on tomorrow --time 09:30 --priority high
daybook add task "Vacation prep" --type period --start 2024-03-01 --end 2024-03-10
daybook add task "Gym" --type recurring --days mon,wed,fri --minutes 60
daybook add task --interactive
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := o.service()
			if err != nil {
				return err
			}
			title := strings.Join(args, " ")
			if f.interactive {
				if err := taskForm(&title, f); err != nil {
					return err
				}
			}

			in := model.Task{
				Title:           title,
				Type:            model.TaskType(f.kind),
				Priority:        model.ParsePriority(f.priority),
				Time:            f.clock,
				DurationMinutes: f.minutes,
			}
			switch in.Type {
			case model.TaskDay:
				d, err := o.day(f.on)
				if err != nil {
					return err
				}
				in.Date = d.String()
			case model.TaskPeriod:
				start, err := o.day(f.start)
				if err != nil {
					return err
				}
				end, err := o.optionalDay(f.end)
				if err != nil {
					return err
				}
				in.StartDate, in.EndDate = start.String(), end.String()
			case model.TaskRecurring:
				if in.Recurrence, err = parseWeekdays(f.days); err != nil {
					return err
				}
			}

			t, err := svc.Store.CreateTask(in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return o.emit(out, t, func() { fmt.Fprintf(out, "Created task %s (%s)\n", t.Title, t.ID) })
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.kind, "type", string(model.TaskDay), "Task type: day, period or recurring.")
	fl.StringVar(&f.on, "on", "", "Day of a day task (default today).")
	fl.StringVar(&f.start, "start", "", "First day of a period task.")
	fl.StringVar(&f.end, "end", "", "Last day of a period task (open-ended when empty).")
	fl.StringSliceVar(&f.days, "days", nil, "Weekdays of a recurring task, e.g. mon,wed or 1,3.")
	fl.StringVarP(&f.priority, "priority", "p", "", "Priority: high, medium or low.")
	fl.StringVarP(&f.clock, "time", "t", "", "Scheduled time, HH:MM.")
	fl.IntVarP(&f.minutes, "minutes", "m", 0, "Expected duration in minutes.")
	fl.BoolVarP(&f.interactive, "interactive", "i", false, "Fill in the task with a form.")
	parent.AddCommand(cmd)
}

func taskForm(title *string, f *taskFlags) error {
	minutes := ""
	if f.minutes > 0 {
		minutes = strconv.Itoa(f.minutes)
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Key("title").
			Title("Title").
			Value(title).
			Validate(required("title")),
		huh.NewSelect[string]().
			Title("Type").
			Options(
				huh.NewOption("Single day", string(model.TaskDay)),
				huh.NewOption("Period", string(model.TaskPeriod)),
				huh.NewOption("Recurring", string(model.TaskRecurring)),
			).
			Value(&f.kind),
		huh.NewSelect[string]().
			Title("Priority").
			Options(priorityOptions()...).
			Value(&f.priority),
	), huh.NewGroup(
		huh.NewInput().
			Title("Day, or first day of a period").
			Placeholder("today").
			Value(&f.on).
			Validate(optionalDate),
		huh.NewInput().
			Title("Time").
			Placeholder("HH:MM").
			Value(&f.clock).
			Validate(optionalClock),
		huh.NewInput().
			Title("Minutes").
			Value(&minutes).
			Validate(optionalInt),
	))
	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	if f.kind == string(model.TaskPeriod) {
		f.start = f.on
	}
	if minutes != "" {
		f.minutes, _ = strconv.Atoi(minutes)
	}
	return nil
}

type goalFlags struct {
	kind        string
	deadline    string
	start       string
	days        []string
	steps       []string
	priority    string
	minutes     int
	interactive bool
}

func addGoal(parent *cobra.Command, o *options) {
	f := &goalFlags{}
	cmd := &cobra.Command{
		Use:     "goal [title]",
		Aliases: []string{"habit"},
		Short:   "Add a simple goal, a checklist or a habit.",
		Example: `
daybook add goal "Ship v1" --deadline 2024-04-01
daybook add goal "Move house" --step "Book van" --step "Pack books"
daybook add goal "Read" --type habit --days 1,2,3,4,5 --minutes 20
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := o.service()
			if err != nil {
				return err
			}
			title := strings.Join(args, " ")
			if f.interactive {
				if err := goalForm(&title, f); err != nil {
					return err
				}
			}
			if cmd.CalledAs() == "habit" && !cmd.Flags().Changed("type") && !f.interactive {
				f.kind = string(model.GoalHabit)
			}

			in := model.Goal{
				Title:           title,
				Type:            model.GoalType(f.kind),
				Priority:        model.ParsePriority(f.priority),
				DurationMinutes: f.minutes,
			}
			deadline, err := o.optionalDay(f.deadline)
			if err != nil {
				return err
			}
			start, err := o.optionalDay(f.start)
			if err != nil {
				return err
			}
			in.Deadline, in.StartDate = deadline.String(), start.String()
			if in.Recurrence, err = parseWeekdays(f.days); err != nil {
				return err
			}
			for _, s := range f.steps {
				in.Checklist = append(in.Checklist, model.ChecklistItem{Title: s})
			}
			if len(in.Checklist) > 0 && in.Type == model.GoalSimple {
				in.Type = model.GoalChecklist
			}

			g, err := svc.Store.CreateGoal(in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return o.emit(out, g, func() { fmt.Fprintf(out, "Created %s goal %s (%s)\n", g.Type, g.Title, g.ID) })
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.kind, "type", string(model.GoalSimple), "Goal type: simple, checklist or habit.")
	fl.StringVar(&f.deadline, "deadline", "", "Deadline day.")
	fl.StringVar(&f.start, "start", "", "Day the goal starts showing on the agenda.")
	fl.StringSliceVar(&f.days, "days", nil, "Weekdays of a habit, e.g. mon,wed or 1,3.")
	fl.StringArrayVar(&f.steps, "step", nil, "Checklist step; repeat for more.")
	fl.StringVarP(&f.priority, "priority", "p", "", "Priority: high, medium or low.")
	fl.IntVarP(&f.minutes, "minutes", "m", 0, "Expected duration in minutes.")
	fl.BoolVarP(&f.interactive, "interactive", "i", false, "Fill in the goal with a form.")
	parent.AddCommand(cmd)
}

func goalForm(title *string, f *goalFlags) error {
	days := strings.Join(f.days, ",")
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Key("title").
			Title("Title").
			Value(title).
			Validate(required("title")),
		huh.NewSelect[string]().
			Title("Type").
			Options(
				huh.NewOption("Simple", string(model.GoalSimple)),
				huh.NewOption("Checklist", string(model.GoalChecklist)),
				huh.NewOption("Habit", string(model.GoalHabit)),
			).
			Value(&f.kind),
		huh.NewSelect[string]().
			Title("Priority").
			Options(priorityOptions()...).
			Value(&f.priority),
	), huh.NewGroup(
		huh.NewInput().
			Title("Deadline").
			Placeholder("YYYY-MM-DD").
			Value(&f.deadline).
			Validate(optionalDate),
		huh.NewInput().
			Title("Habit weekdays").
			Placeholder("mon,wed,fri").
			Value(&days).
			Validate(func(s string) error {
				_, err := parseWeekdays(splitList(s))
				return err
			}),
	))
	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	f.days = splitList(days)
	return nil
}

func addTheme(parent *cobra.Command, o *options) {
	var color string
	cmd := &cobra.Command{
		Use:   "theme <title>",
		Short: "Add a study theme.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := o.service()
			if err != nil {
				return err
			}
			th, err := svc.Store.CreateTheme(strings.Join(args, " "), color)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return o.emit(out, th, func() { fmt.Fprintf(out, "Created theme %s (%s)\n", th.Title, th.ID) })
		},
	}
	cmd.Flags().StringVar(&color, "color", "", "Display color, e.g. #7D56F4.")
	parent.AddCommand(cmd)
}

func addSubtheme(parent *cobra.Command, o *options) {
	var on string
	cmd := &cobra.Command{
		Use:   "subtheme <theme-id> <title>",
		Short: "Add a subtheme to a theme, optionally planning its introduction.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := o.service()
			if err != nil {
				return err
			}
			sub, err := svc.Store.AddSubtheme(args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if on != "" {
				d, err := o.day(on)
				if err != nil {
					return err
				}
				if sub, err = svc.Store.ScheduleIntroduction(sub.ID, d); err != nil {
					return err
				}
			}
			out := cmd.OutOrStdout()
			return o.emit(out, sub, func() { fmt.Fprintf(out, "Created subtheme %s (%s)\n", sub.Title, sub.ID) })
		},
	}
	cmd.Flags().StringVar(&on, "introduce", "", "Plan the introduction on this day.")
	parent.AddCommand(cmd)
}

func addStep(parent *cobra.Command, o *options) {
	var deadline string
	cmd := &cobra.Command{
		Use:   "step <goal-id> <title>",
		Short: "Append a checklist step to a goal.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := o.service()
			if err != nil {
				return err
			}
			d, err := o.optionalDay(deadline)
			if err != nil {
				return err
			}
			step, err := svc.Store.AddStep(args[0], strings.Join(args[1:], " "), d)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return o.emit(out, step, func() { fmt.Fprintf(out, "Added step %s (%s)\n", step.Title, step.ID) })
		},
	}
	cmd.Flags().StringVar(&deadline, "deadline", "", "Deadline day of the step.")
	parent.AddCommand(cmd)
}

func addIntroduce(topLevel *cobra.Command, o *options) {
	var on string
	cmd := &cobra.Command{
		Use:   "introduce <subtheme-id>",
		Short: "Plan when a subtheme is introduced and lay out its reviews.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := o.service()
			if err != nil {
				return err
			}
			d, err := o.day(on)
			if err != nil {
				return err
			}
			sub, err := svc.Store.ScheduleIntroduction(args[0], d)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return o.emit(out, sub, func() { introduced(out, sub) })
		},
	}
	cmd.Flags().StringVar(&on, "on", "", "Introduction day (default today).")
	topLevel.AddCommand(cmd)
}

func introduced(w io.Writer, sub *model.Subtheme) {
	fmt.Fprintf(w, "%s introduced on %s\n", sub.Title, sub.IntroductionDate)
	for _, r := range sub.Reviews {
		fmt.Fprintf(w, "  review %d: %s\n", r.Number, r.Date)
	}
}

var weekdayNames = map[string]int{
	"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
}

// parseWeekdays reads 0-6 (Sunday first) or three-letter day names.
func parseWeekdays(in []string) ([]int, error) {
	var days []int
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if len(s) > 3 {
			s = s[:3]
		}
		if d, ok := weekdayNames[s]; ok {
			days = append(days, d)
			continue
		}
		d, err := strconv.Atoi(s)
		if err != nil || d < 0 || d > 6 {
			return nil, fmt.Errorf("invalid weekday %q", s)
		}
		days = append(days, d)
	}
	return days, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func priorityOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("None", ""),
		huh.NewOption("High", string(model.PriorityHigh)),
		huh.NewOption("Medium", string(model.PriorityMedium)),
		huh.NewOption("Low", string(model.PriorityLow)),
	}
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func optionalDate(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today", "tomorrow", "yesterday":
		return nil
	}
	if _, ok := model.ParseDate(s); !ok {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func optionalClock(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, ok := model.ParseClock(s); !ok {
		return errors.New("use HH:MM")
	}
	return nil
}

func optionalInt(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err != nil || n < 0 {
		return errors.New("enter a whole number of minutes")
	}
	return nil
}
