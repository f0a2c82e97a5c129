package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/stefanpenner/daybook/pkg/model"
)

func newID() string {
	return uuid.NewString()
}

// CreateTheme adds a theme with no subthemes.
func (s *Store) CreateTheme(title, color string) (*model.Theme, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: theme title is required", ErrInvalid)
	}
	t := &model.Theme{
		ID:        newID(),
		Title:     title,
		Color:     color,
		CreatedAt: s.now().Format(timeLayout),
	}
	if err := s.SaveTheme(t); err != nil {
		return nil, err
	}
	return t, nil
}

// AddSubtheme appends a locked subtheme to a theme.
func (s *Store) AddSubtheme(themeID, title string) (*model.Subtheme, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: subtheme title is required", ErrInvalid)
	}
	t, err := s.LoadTheme(themeID)
	if err != nil {
		return nil, err
	}
	t.Subthemes = append(t.Subthemes, model.Subtheme{
		ID:     newID(),
		Title:  title,
		Status: model.SubthemeLocked,
	})
	if err := s.SaveTheme(t); err != nil {
		return nil, err
	}
	return &t.Subthemes[len(t.Subthemes)-1], nil
}

// ScheduleIntroduction plans when a locked subtheme will be introduced.
// A zero date clears the plan.
func (s *Store) ScheduleIntroduction(subthemeID string, d model.Date) (*model.Subtheme, error) {
	t, i, err := s.findSubtheme(subthemeID)
	if err != nil {
		return nil, err
	}
	sub := &t.Subthemes[i]
	if sub.Status == model.SubthemeActive || sub.Status == model.SubthemeCompleted {
		return nil, fmt.Errorf("%w: subtheme %q is already %s", ErrInvalid, sub.Title, sub.Status)
	}
	sub.IntroductionDate = d.String()
	if err := s.SaveTheme(t); err != nil {
		return nil, err
	}
	return sub, nil
}

// ladder builds the pending reviews that follow an introduction on d.
func (s *Store) ladder(d model.Date) []model.Review {
	reviews := make([]model.Review, 0, len(s.intervals))
	for i, days := range s.intervals {
		reviews = append(reviews, model.Review{
			ID:     newID(),
			Number: i + 1,
			Date:   d.AddDays(days).String(),
			Status: model.ReviewPending,
		})
	}
	return reviews
}

// CreateTask validates and stores a new task. ID, Status and CreatedAt are assigned.
func (s *Store) CreateTask(in model.Task) (*model.Task, error) {
	t := in
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return nil, fmt.Errorf("%w: task title is required", ErrInvalid)
	}
	if t.Type == "" {
		t.Type = model.TaskDay
	}
	switch t.Type {
	case model.TaskDay:
		if t.Date == "" {
			t.Date = s.today().String()
		}
		if _, ok := model.ParseDate(t.Date); !ok {
			return nil, fmt.Errorf("%w: day task needs a date, got %q", ErrInvalid, t.Date)
		}
	case model.TaskPeriod:
		if _, ok := model.ParseDate(t.StartDate); !ok {
			return nil, fmt.Errorf("%w: period task needs a start date", ErrInvalid)
		}
	case model.TaskRecurring:
		if len(t.Recurrence) == 0 {
			return nil, fmt.Errorf("%w: recurring task needs at least one weekday", ErrInvalid)
		}
		if err := checkWeekdays(t.Recurrence); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: task type %q", ErrInvalid, t.Type)
	}
	if t.Time != "" {
		clock, ok := model.ParseClock(t.Time)
		if !ok {
			return nil, fmt.Errorf("%w: time %q is not HH:MM", ErrInvalid, t.Time)
		}
		t.Time = clock
	}
	if t.DurationMinutes < 0 {
		return nil, fmt.Errorf("%w: negative duration", ErrInvalid)
	}

	t.ID = newID()
	t.Status = model.StatusPending
	t.CompletionHistory = nil
	t.CreatedAt = s.now().Format(timeLayout)
	if err := s.SaveTask(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateGoal validates and stores a new goal. ID, Status and CreatedAt are assigned.
func (s *Store) CreateGoal(in model.Goal) (*model.Goal, error) {
	g := in
	g.Title = strings.TrimSpace(g.Title)
	if g.Title == "" {
		return nil, fmt.Errorf("%w: goal title is required", ErrInvalid)
	}
	if g.Type == "" {
		g.Type = model.GoalSimple
	}
	switch g.Type {
	case model.GoalSimple, model.GoalChecklist:
	case model.GoalHabit:
		if err := checkWeekdays(g.Recurrence); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: goal type %q", ErrInvalid, g.Type)
	}
	if g.Deadline != "" {
		if _, ok := model.ParseDate(g.Deadline); !ok {
			return nil, fmt.Errorf("%w: deadline %q", ErrInvalid, g.Deadline)
		}
	}

	g.ID = newID()
	g.Status = model.StatusPending
	g.Progress = 0
	g.CompletionHistory = nil
	for i := range g.Checklist {
		if g.Checklist[i].ID == "" {
			g.Checklist[i].ID = newID()
		}
		g.Checklist[i].Order = i
	}
	g.CreatedAt = s.now().Format(timeLayout)
	if err := s.SaveGoal(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

// AddStep appends a checklist step to a goal, converting a simple goal into a checklist.
func (s *Store) AddStep(goalID, title string, deadline model.Date) (*model.ChecklistItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: step title is required", ErrInvalid)
	}
	g, err := s.LoadGoal(goalID)
	if err != nil {
		return nil, err
	}
	switch g.Type {
	case model.GoalHabit:
		return nil, fmt.Errorf("%w: habit %q cannot have steps", ErrInvalid, g.Title)
	case model.GoalSimple, "":
		g.Type = model.GoalChecklist
	}
	order := 0
	for _, c := range g.Checklist {
		if c.Order >= order {
			order = c.Order + 1
		}
	}
	g.Checklist = append(g.Checklist, model.ChecklistItem{
		ID:       newID(),
		Title:    title,
		Deadline: deadline.String(),
		Order:    order,
	})
	g.Progress = checklistProgress(g.Checklist)
	if err := s.SaveGoal(g); err != nil {
		return nil, err
	}
	return &g.Checklist[len(g.Checklist)-1], nil
}

func checkWeekdays(days []int) error {
	for _, d := range days {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: weekday %d out of range 0-6", ErrInvalid, d)
		}
	}
	return nil
}

func checklistProgress(items []model.ChecklistItem) int {
	if len(items) == 0 {
		return 0
	}
	done := 0
	for _, c := range items {
		if c.Completed {
			done++
		}
	}
	return done * 100 / len(items)
}
