// Package agenda resolves, for one calendar date, which intros, reviews, tasks and habits
// are due, in what order, and which of them are locked.
package agenda

import (
	"sort"
	"strconv"
	"strings"

	"github.com/stefanpenner/daybook/pkg/model"
)

// OverdueScope selects which items an overdue item locks on today's agenda.
type OverdueScope string

const (
	// ScopeAgenda locks every pending item of the day while anything is overdue.
	ScopeAgenda OverdueScope = "agenda"
	// ScopeCategory locks only pending items in the same list as the overdue item.
	ScopeCategory OverdueScope = "category"
)

// ParseOverdueScope defaults to ScopeAgenda for anything unrecognized.
func ParseOverdueScope(s string) OverdueScope {
	if strings.EqualFold(strings.TrimSpace(s), string(ScopeCategory)) {
		return ScopeCategory
	}
	return ScopeAgenda
}

// Request is the full input of Resolve. Nil collections are treated as empty.
type Request struct {
	Themes []model.Theme
	Tasks  []model.Task
	Goals  []model.Goal

	// Date is the selected date; the zero value means Today.
	Date model.Date
	// Today is the wall-clock date; the zero value means model.Today().
	Today model.Date

	Prefs        DayPreferences
	Focus        *ActiveFocus
	OverdueScope OverdueScope
}

// Resolve computes the agenda for req.Date. It never mutates its input and returns the
// same View for the same Request.
func Resolve(req Request) View {
	today := req.Today
	if today.IsZero() {
		today = model.Today()
	}
	sel := req.Date
	if sel.IsZero() {
		sel = today
	}

	r := resolver{sel: sel, today: today, prefs: req.Prefs}
	v := View{
		Date:    sel,
		Today:   today,
		Intros:  []*IntroItem{},
		Reviews: []*ReviewItem{},
		Tasks:   []Item{},
		Habits:  []*HabitItem{},
	}

	for i := range req.Themes {
		r.theme(&req.Themes[i], &v)
	}
	for i := range req.Tasks {
		if it := r.task(&req.Tasks[i]); it != nil {
			v.Tasks = append(v.Tasks, it)
		}
	}
	for i := range req.Goals {
		r.goal(&req.Goals[i], &v)
	}

	r.applyLocks(&v, req.OverdueScope)
	applyFocus(&v, req.Focus)

	sortItems(v.Intros, req.Prefs.positions(CategoryIntros))
	sortItems(v.Reviews, req.Prefs.positions(CategoryReviews))
	sortItems(v.Tasks, req.Prefs.positions(CategoryTasks))
	sortItems(v.Habits, req.Prefs.positions(CategoryHabits))
	return v
}

type resolver struct {
	sel   model.Date
	today model.Date
	prefs DayPreferences
}

func (r resolver) viewingToday() bool {
	return r.sel.Equal(r.today)
}

func (r resolver) theme(th *model.Theme, v *View) {
	for i := range th.Subthemes {
		sub := &th.Subthemes[i]

		introduced := false
		if intro := parseDate(sub.IntroductionDate); !intro.IsZero() && intro.Equal(r.sel) {
			introduced = true
			v.Intros = append(v.Intros, &IntroItem{
				Base: Base{
					Kind:   model.KindIntro,
					ID:     sub.ID,
					Title:  sub.Title,
					IsDone: sub.Status == model.SubthemeActive || sub.Status == model.SubthemeCompleted,
					Date:   intro,
				},
				ThemeID:    th.ID,
				ThemeTitle: th.Title,
				Color:      th.Color,
				SubthemeID: sub.ID,
			})
		}

		found := false
		var next model.Date
		for j := range sub.Reviews {
			rv := &sub.Reviews[j]
			var completed bool
			switch rv.Status {
			case model.ReviewPending, "":
			case model.ReviewCompleted:
				completed = true
			default:
				continue
			}
			date := parseDate(rv.Date)
			if !completed && !date.IsZero() && (next.IsZero() || date.Before(next)) {
				next = date
			}

			completedHere := completed && sameDay(rv.CompletedAt, r.sel)
			var include bool
			if r.viewingToday() {
				include = (!completed && !date.IsZero() && !date.After(r.sel)) || completedHere
			} else {
				include = (!date.IsZero() && date.Equal(r.sel)) || completedHere
			}
			if !include {
				continue
			}

			found = true
			id := rv.ID
			if id == "" {
				id = sub.ID + "#" + strconv.Itoa(rv.Number)
			}
			v.Reviews = append(v.Reviews, &ReviewItem{
				Base: Base{
					Kind:   model.KindReview,
					ID:     id,
					Title:  sub.Title,
					IsDone: completed,
				},
				ThemeID:       th.ID,
				ThemeTitle:    th.Title,
				Color:         th.Color,
				SubthemeID:    sub.ID,
				Number:        rv.Number,
				ScheduledDate: date,
			})
		}

		if sub.Status == model.SubthemeActive && !found && !introduced {
			v.Reviews = append(v.Reviews, &ReviewItem{
				Base: Base{
					Kind:  model.KindReview,
					ID:    sub.ID,
					Title: sub.Title,
				},
				ThemeID:       th.ID,
				ThemeTitle:    th.Title,
				Color:         th.Color,
				SubthemeID:    sub.ID,
				ScheduledDate: next,
				Synthetic:     true,
			})
		}
	}
}

func (r resolver) task(t *model.Task) Item {
	if createdAfter(t.CreatedAt, r.sel) {
		return nil
	}

	doneHere := model.CompletedOn(t.CompletionHistory, r.sel)
	var natural, start model.Date
	switch t.Type {
	case model.TaskDay:
		date := parseDate(t.Date)
		if date.IsZero() && !doneHere {
			return nil
		}
		carried := r.viewingToday() && !date.IsZero() && date.Before(r.today) && !t.IsCompleted()
		if !date.Equal(r.sel) && !carried && !doneHere {
			return nil
		}
		natural = date
	case model.TaskRecurring:
		if !onWeekday(t.Recurrence, r.sel) {
			return nil
		}
		if end := parseDate(t.EndDate); !end.IsZero() && r.sel.After(end) {
			return nil
		}
		natural = r.sel
		start = parseDate(t.StartDate)
	case model.TaskPeriod:
		start = parseDate(t.StartDate)
		if start.IsZero() || r.sel.Before(start) {
			return nil
		}
		if end := parseDate(t.EndDate); !end.IsZero() && r.sel.After(end) {
			return nil
		}
		natural = r.sel
	default:
		return nil
	}

	done := t.IsCompleted() || doneHere
	item := &TaskItem{
		Base: Base{
			Kind:            model.KindTask,
			ID:              t.ID,
			Title:           t.Title,
			IsDone:          done,
			Priority:        t.Priority,
			IsOverdue:       !done && !natural.IsZero() && natural.Before(r.sel),
			Date:            natural,
			StartDate:       start,
			ScheduledTime:   r.timeFor(t.ID, t.Time),
			DurationMinutes: t.DurationMinutes,
		},
		TaskType: t.Type,
	}
	return item
}

func (r resolver) goal(g *model.Goal, v *View) {
	if createdAfter(g.CreatedAt, r.sel) {
		return
	}
	start := parseDate(g.StartDate)
	deadline := parseDate(g.Deadline)

	switch g.Type {
	case model.GoalHabit:
		if len(g.Recurrence) > 0 && !onWeekday(g.Recurrence, r.sel) {
			return
		}
		if !deadline.IsZero() && !r.sel.Before(deadline) {
			return
		}
		v.Habits = append(v.Habits, &HabitItem{
			Base: Base{
				Kind:            model.KindHabit,
				ID:              g.ID,
				Title:           g.Title,
				IsDone:          g.Status == model.StatusCompleted || model.CompletedOn(g.CompletionHistory, r.sel),
				Priority:        g.Priority,
				Date:            r.sel,
				StartDate:       start,
				ScheduledTime:   r.timeFor(g.ID, ""),
				DurationMinutes: g.DurationMinutes,
			},
			GoalType: g.Type,
			Progress: g.Progress,
		})
	case model.GoalSimple, model.GoalChecklist:
		if !deadline.IsZero() && deadline.Equal(r.sel) {
			done := g.IsCompleted()
			v.Habits = append(v.Habits, &HabitItem{
				Base: Base{
					Kind:            model.KindHabit,
					ID:              g.ID,
					Title:           g.Title,
					IsDone:          done,
					Priority:        g.Priority,
					Date:            deadline,
					StartDate:       start,
					ScheduledTime:   r.timeFor(g.ID, ""),
					DurationMinutes: g.DurationMinutes,
				},
				GoalType: g.Type,
				Progress: g.Progress,
			})
		}
		if g.Type == model.GoalChecklist {
			r.steps(g, start, v)
		}
	}
}

func (r resolver) steps(g *model.Goal, start model.Date, v *View) {
	steps := make([]*model.ChecklistItem, 0, len(g.Checklist))
	for i := range g.Checklist {
		steps = append(steps, &g.Checklist[i])
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })

	for _, s := range steps {
		deadline := parseDate(s.Deadline)
		if deadline.IsZero() {
			continue
		}
		carried := r.viewingToday() && deadline.Before(r.today) && !s.Completed
		if !deadline.Equal(r.sel) && !carried {
			continue
		}
		v.Tasks = append(v.Tasks, &StepItem{
			Base: Base{
				Kind:          model.KindStep,
				ID:            s.ID,
				Title:         s.Title,
				IsDone:        s.Completed,
				Priority:      g.Priority,
				IsOverdue:     !s.Completed && deadline.Before(r.sel),
				Date:          deadline,
				StartDate:     start,
				ScheduledTime: r.timeFor(s.ID, ""),
			},
			ParentID:  g.ID,
			GoalTitle: g.Title,
		})
	}
}

// timeFor prefers the day's scheduled time over the entity's own clock time.
func (r resolver) timeFor(id, fallback string) string {
	if t, ok := r.prefs.TimeFor(id); ok {
		return t
	}
	if t, ok := model.ParseClock(fallback); ok {
		return t
	}
	return ""
}

func (r resolver) applyLocks(v *View, scope OverdueScope) {
	gates := map[Category]bool{}
	gated := false
	if r.viewingToday() {
		for _, c := range Categories {
			for _, it := range v.List(c) {
				if b := it.Common(); b.IsOverdue && !b.IsDone {
					gates[c] = true
					gated = true
				}
			}
		}
	}

	for _, c := range Categories {
		ctx := LockContext{Today: r.today, Selected: r.sel, OverdueGate: gates[c]}
		if scope != ScopeCategory {
			ctx.OverdueGate = gated
		}
		for _, it := range v.List(c) {
			l := EvaluateLock(it, ctx)
			b := it.Common()
			b.IsLocked = l.Locked
			b.LockReason = l.Reason
		}
	}
}

func applyFocus(v *View, focus *ActiveFocus) {
	for _, it := range v.All() {
		b := it.Common()
		b.IsFocused = focus.Matches(b.Kind, b.ID)
		b.CanFocus = focus == nil && !b.IsDone && !b.IsLocked
	}
}
