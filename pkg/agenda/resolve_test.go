package agenda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/daybook/pkg/model"
)

func day(t testing.TB, s string) model.Date {
	t.Helper()
	d, ok := model.ParseDate(s)
	require.True(t, ok, "bad test date %q", s)
	return d
}

func taskIDs(v View) []string {
	var ids []string
	for _, it := range v.Tasks {
		ids = append(ids, it.Common().ID)
	}
	return ids
}

func TestResolveEmpty(t *testing.T) {
	v := Resolve(Request{Date: day(t, "2024-03-05"), Today: day(t, "2024-03-05")})
	assert.Empty(t, v.Intros)
	assert.Empty(t, v.Reviews)
	assert.Empty(t, v.Tasks)
	assert.Empty(t, v.Habits)
	assert.NotNil(t, v.Tasks)
}

func TestOverdueDayTaskCarriedForward(t *testing.T) {
	today := day(t, "2024-03-05")
	v := Resolve(Request{
		Tasks: []model.Task{
			{ID: "fresh", Title: "fresh", Type: model.TaskDay, Date: "2024-03-05", Status: model.StatusPending, Priority: model.PriorityHigh},
			{ID: "old", Title: "old", Type: model.TaskDay, Date: "2024-03-01", Status: model.StatusPending},
		},
		Date:  today,
		Today: today,
	})

	require.Len(t, v.Tasks, 2)
	first := v.Tasks[0].(*TaskItem)
	assert.Equal(t, "old", first.ID)
	assert.True(t, first.IsOverdue)
	assert.False(t, first.IsLocked)

	second := v.Tasks[1].(*TaskItem)
	assert.False(t, second.IsOverdue)
	assert.True(t, second.IsLocked)
	assert.Equal(t, ReasonFinishOverdue, second.LockReason)
}

func TestActiveSubthemeWithFutureReviewIsSyntheticAndLocked(t *testing.T) {
	today := day(t, "2024-03-05")
	v := Resolve(Request{
		Themes: []model.Theme{{
			ID:    "math",
			Title: "Math",
			Subthemes: []model.Subtheme{{
				ID:     "algebra",
				Title:  "Algebra",
				Status: model.SubthemeActive,
				Reviews: []model.Review{
					{ID: "r3", Number: 3, Date: "2024-03-10", Status: model.ReviewPending},
				},
			}},
		}},
		Date:  today,
		Today: today,
	})

	require.Len(t, v.Reviews, 1)
	r := v.Reviews[0]
	assert.True(t, r.Synthetic)
	assert.Equal(t, 0, r.Number)
	assert.True(t, r.IsLocked)
	assert.Contains(t, r.LockReason, "2024-03-10")
	assert.Equal(t, "Math", r.ThemeTitle)
}

func TestRecurringTaskSkipsOtherWeekdays(t *testing.T) {
	tuesday := day(t, "2024-03-05")
	v := Resolve(Request{
		Tasks: []model.Task{{ID: "gym", Type: model.TaskRecurring, Recurrence: []int{1, 3, 5}}},
		Date:  tuesday,
		Today: tuesday,
	})
	assert.Empty(t, v.Tasks)

	wednesday := tuesday.AddDays(1)
	v = Resolve(Request{
		Tasks: []model.Task{{ID: "gym", Type: model.TaskRecurring, Recurrence: []int{1, 3, 5}}},
		Date:  wednesday,
		Today: tuesday,
	})
	assert.Equal(t, []string{"gym"}, taskIDs(v))

	// Unlike a habit, a recurring task with no weekdays never shows.
	v = Resolve(Request{
		Tasks: []model.Task{{ID: "gym", Type: model.TaskRecurring}},
		Date:  wednesday,
		Today: tuesday,
	})
	assert.Empty(t, v.Tasks)
}

func TestChecklistStepDueToday(t *testing.T) {
	today := day(t, "2024-03-05")
	v := Resolve(Request{
		Goals: []model.Goal{{
			ID:    "thesis",
			Title: "Thesis",
			Type:  model.GoalChecklist,
			Checklist: []model.ChecklistItem{
				{ID: "outline", Title: "Outline", Deadline: "2024-03-05"},
			},
		}},
		Date:  today,
		Today: today,
	})

	require.Len(t, v.Tasks, 1)
	step, ok := v.Tasks[0].(*StepItem)
	require.True(t, ok)
	assert.Equal(t, "thesis", step.ParentID)
	assert.False(t, step.IsOverdue)
	assert.False(t, step.IsLocked)
	assert.Empty(t, v.Habits)
}

func TestTimedTaskSortsFirst(t *testing.T) {
	today := day(t, "2024-03-05")
	v := Resolve(Request{
		Tasks: []model.Task{
			{ID: "untimed", Type: model.TaskDay, Date: "2024-03-05", Priority: model.PriorityHigh},
			{ID: "timed", Type: model.TaskDay, Date: "2024-03-05", Priority: model.PriorityLow},
		},
		Prefs: DayPreferences{Times: map[string]string{"timed": "09:00"}},
		Date:  today,
		Today: today,
	})
	assert.Equal(t, []string{"timed", "untimed"}, taskIDs(v))
	assert.Equal(t, "09:00", v.Tasks[0].Common().ScheduledTime)
}

func TestDayTaskInclusion(t *testing.T) {
	today := day(t, "2024-03-05")
	tasks := []model.Task{
		{ID: "on-day", Type: model.TaskDay, Date: "2024-03-04"},
		{ID: "done-late", Type: model.TaskDay, Date: "2024-03-01", Status: model.StatusCompleted,
			CompletionHistory: []string{"2024-03-04T18:00:00Z"}},
		{ID: "missed", Type: model.TaskDay, Date: "2024-03-02"},
		{ID: "no-date", Type: model.TaskDay, Date: "someday"},
	}

	// A past date shows its own tasks and what was completed on it, with no carry-forward.
	v := Resolve(Request{Tasks: tasks, Date: day(t, "2024-03-04"), Today: today})
	assert.ElementsMatch(t, []string{"on-day", "done-late"}, taskIDs(v))
	for _, it := range v.Tasks {
		assert.False(t, it.Common().IsOverdue)
		assert.False(t, it.Common().IsLocked)
	}

	// Today carries forward incomplete past tasks only.
	v = Resolve(Request{Tasks: tasks, Date: today, Today: today})
	assert.Equal(t, []string{"missed", "on-day"}, taskIDs(v))
}

func TestRecurringEndDateIsInclusive(t *testing.T) {
	today := day(t, "2024-03-05")
	task := model.Task{ID: "r", Type: model.TaskRecurring, Recurrence: []int{0, 1, 2, 3, 4, 5, 6}, EndDate: "2024-03-06"}

	v := Resolve(Request{Tasks: []model.Task{task}, Date: day(t, "2024-03-06"), Today: today})
	assert.Len(t, v.Tasks, 1)

	v = Resolve(Request{Tasks: []model.Task{task}, Date: day(t, "2024-03-07"), Today: today})
	assert.Empty(t, v.Tasks)
}

func TestPeriodTask(t *testing.T) {
	today := day(t, "2024-03-05")
	task := model.Task{ID: "p", Type: model.TaskPeriod, StartDate: "2024-03-04", EndDate: "2024-03-08"}

	for _, s := range []string{"2024-03-04", "2024-03-05", "2024-03-08"} {
		v := Resolve(Request{Tasks: []model.Task{task}, Date: day(t, s), Today: today})
		assert.Len(t, v.Tasks, 1, s)
	}
	for _, s := range []string{"2024-03-03", "2024-03-09"} {
		v := Resolve(Request{Tasks: []model.Task{task}, Date: day(t, s), Today: today})
		assert.Empty(t, v.Tasks, s)
	}

	// Future occurrences are visible but locked.
	v := Resolve(Request{Tasks: []model.Task{task}, Date: day(t, "2024-03-07"), Today: today})
	require.Len(t, v.Tasks, 1)
	assert.Equal(t, "scheduled for 2024-03-07", v.Tasks[0].Common().LockReason)
}

func TestRecurringCompletionViaHistory(t *testing.T) {
	today := day(t, "2024-03-06")
	v := Resolve(Request{
		Tasks: []model.Task{{
			ID: "read", Type: model.TaskRecurring, Recurrence: []int{3},
			Status: model.StatusPending, CompletionHistory: []string{"2024-03-06T07:00:00Z"},
		}},
		Date:  today,
		Today: today,
	})
	require.Len(t, v.Tasks, 1)
	assert.True(t, v.Tasks[0].Common().IsDone)
	assert.False(t, v.Tasks[0].Common().IsLocked)
}

func TestCreatedAfterSelectedDateIsHidden(t *testing.T) {
	today := day(t, "2024-03-05")
	v := Resolve(Request{
		Tasks: []model.Task{{ID: "new", Type: model.TaskRecurring, Recurrence: []int{1}, CreatedAt: "2024-03-05T09:00:00Z"}},
		Goals: []model.Goal{{ID: "h", Type: model.GoalHabit, CreatedAt: "2024-03-05"}},
		Date:  day(t, "2024-03-04"),
		Today: today,
	})
	assert.Empty(t, v.Tasks)
	assert.Empty(t, v.Habits)
}

func TestUnknownTypesAreExcluded(t *testing.T) {
	today := day(t, "2024-03-05")
	v := Resolve(Request{
		Tasks: []model.Task{{ID: "x", Type: "weekly", Date: "2024-03-05"}},
		Goals: []model.Goal{{ID: "y", Type: "okr", Deadline: "2024-03-05"}},
		Themes: []model.Theme{{ID: "t", Subthemes: []model.Subtheme{{
			ID: "s", Reviews: []model.Review{{ID: "r", Number: 1, Date: "2024-03-05", Status: "skipped"}},
		}}}},
		Date:  today,
		Today: today,
	})
	assert.Empty(t, v.All())
}

func TestHabitRecurrenceAndDeadline(t *testing.T) {
	today := day(t, "2024-03-05") // Tuesday
	habit := model.Goal{ID: "run", Type: model.GoalHabit, Recurrence: []int{2, 4}, Deadline: "2024-03-07",
		CompletionHistory: []string{"2024-03-05T06:00:00Z"}}

	v := Resolve(Request{Goals: []model.Goal{habit}, Date: today, Today: today})
	require.Len(t, v.Habits, 1)
	assert.True(t, v.Habits[0].IsDone)
	assert.Equal(t, model.GoalHabit, v.Habits[0].GoalType)

	// Thursday is the deadline itself, which is excluded.
	v = Resolve(Request{Goals: []model.Goal{habit}, Date: day(t, "2024-03-07"), Today: today})
	assert.Empty(t, v.Habits)

	// Daily when no weekdays are given.
	habit.Recurrence = nil
	v = Resolve(Request{Goals: []model.Goal{habit}, Date: day(t, "2024-03-06"), Today: today})
	assert.Len(t, v.Habits, 1)
}

func TestGoalAppearsOnDeadline(t *testing.T) {
	today := day(t, "2024-03-05")
	goals := []model.Goal{{ID: "g", Type: model.GoalSimple, Deadline: "2024-03-08", Progress: 40}}

	v := Resolve(Request{Goals: goals, Date: day(t, "2024-03-08"), Today: today})
	require.Len(t, v.Habits, 1)
	assert.Equal(t, 40, v.Habits[0].Progress)
	assert.Equal(t, "scheduled for 2024-03-08", v.Habits[0].LockReason)

	v = Resolve(Request{Goals: goals, Date: day(t, "2024-03-07"), Today: today})
	assert.Empty(t, v.Habits)
}

func TestOverdueStepCarriesForwardOnlyToday(t *testing.T) {
	today := day(t, "2024-03-05")
	goals := []model.Goal{{
		ID: "g", Type: model.GoalChecklist,
		Checklist: []model.ChecklistItem{
			{ID: "late", Deadline: "2024-03-01", Order: 1},
			{ID: "done", Deadline: "2024-03-02", Completed: true, Order: 2},
			{ID: "undated", Order: 3},
		},
	}}

	v := Resolve(Request{Goals: goals, Date: today, Today: today})
	assert.Equal(t, []string{"late"}, taskIDs(v))
	assert.True(t, v.Tasks[0].Common().IsOverdue)

	v = Resolve(Request{Goals: goals, Date: day(t, "2024-03-04"), Today: today})
	assert.Empty(t, v.Tasks)

	v = Resolve(Request{Goals: goals, Date: day(t, "2024-03-02"), Today: today})
	require.Equal(t, []string{"done"}, taskIDs(v))
	assert.True(t, v.Tasks[0].Common().IsDone)
}

func TestReviewSelection(t *testing.T) {
	today := day(t, "2024-03-05")
	themes := []model.Theme{{ID: "bio", Subthemes: []model.Subtheme{{
		ID: "cells", Status: model.SubthemeActive,
		Reviews: []model.Review{
			{ID: "r1", Number: 1, Date: "2024-03-02", Status: model.ReviewPending},
			{ID: "r2", Number: 2, Date: "2024-03-04", Status: model.ReviewCompleted, CompletedAt: "2024-03-05T08:00:00Z"},
			{ID: "r3", Number: 3, Date: "2024-03-09", Status: model.ReviewPending},
		},
	}}}}

	v := Resolve(Request{Themes: themes, Date: today, Today: today})
	var ids []string
	for _, r := range v.Reviews {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"r1", "r2"}, ids)
	assert.False(t, v.Reviews[0].IsOverdue, "reviews follow the ladder, not the overdue rule")

	// Another date only shows reviews scheduled or completed on it.
	v = Resolve(Request{Themes: themes, Date: day(t, "2024-03-09"), Today: today})
	require.Len(t, v.Reviews, 1)
	assert.Equal(t, "r3", v.Reviews[0].ID)
	assert.Equal(t, "next review on 2024-03-09", v.Reviews[0].LockReason)

	v = Resolve(Request{Themes: themes, Date: day(t, "2024-03-02"), Today: today})
	require.Len(t, v.Reviews, 1)
	assert.Equal(t, "r1", v.Reviews[0].ID)
	assert.False(t, v.Reviews[0].IsLocked)
}

func TestIntroSuppressesSyntheticReview(t *testing.T) {
	today := day(t, "2024-03-05")
	themes := []model.Theme{{ID: "t", Subthemes: []model.Subtheme{
		{ID: "new", Title: "New", Status: model.SubthemeActive, IntroductionDate: "2024-03-05"},
		{ID: "later", Title: "Later", Status: model.SubthemeLocked, IntroductionDate: "2024-03-06"},
	}}}

	v := Resolve(Request{Themes: themes, Date: today, Today: today})
	require.Len(t, v.Intros, 1)
	assert.True(t, v.Intros[0].IsDone)
	assert.Empty(t, v.Reviews)

	v = Resolve(Request{Themes: themes, Date: day(t, "2024-03-06"), Today: today})
	require.Len(t, v.Intros, 1)
	assert.Equal(t, "later", v.Intros[0].ID)
	assert.True(t, v.Intros[0].IsLocked)
	assert.Equal(t, "scheduled for 2024-03-06", v.Intros[0].LockReason)
}

func TestOverdueGateScope(t *testing.T) {
	today := day(t, "2024-03-05")
	req := Request{
		Themes: []model.Theme{{ID: "t", Subthemes: []model.Subtheme{{
			ID: "s", Status: model.SubthemeActive,
			Reviews: []model.Review{{ID: "r", Number: 1, Date: "2024-03-05", Status: model.ReviewPending}},
		}}}},
		Tasks: []model.Task{{ID: "late", Type: model.TaskDay, Date: "2024-03-01"}},
		Date:  today,
		Today: today,
	}

	v := Resolve(req)
	require.Len(t, v.Reviews, 1)
	assert.Equal(t, ReasonFinishOverdue, v.Reviews[0].LockReason)

	req.OverdueScope = ScopeCategory
	v = Resolve(req)
	assert.False(t, v.Reviews[0].IsLocked)
}

func TestOverdueGateOnlyAppliesToday(t *testing.T) {
	today := day(t, "2024-03-05")
	v := Resolve(Request{
		Tasks: []model.Task{
			{ID: "late", Type: model.TaskDay, Date: "2024-03-01"},
			{ID: "past", Type: model.TaskDay, Date: "2024-03-03"},
		},
		Date:  day(t, "2024-03-03"),
		Today: today,
	})
	require.Equal(t, []string{"past"}, taskIDs(v))
	assert.False(t, v.Tasks[0].Common().IsLocked)
}

func TestStartsOnLock(t *testing.T) {
	today := day(t, "2024-03-05")
	v := Resolve(Request{
		Tasks: []model.Task{{ID: "r", Type: model.TaskRecurring, Recurrence: []int{2}, StartDate: "2024-03-12"}},
		Goals: []model.Goal{{ID: "h", Type: model.GoalHabit, StartDate: "garbage"}},
		Date:  today,
		Today: today,
	})
	require.Len(t, v.Tasks, 1)
	assert.Equal(t, "starts on 2024-03-12", v.Tasks[0].Common().LockReason)
	require.Len(t, v.Habits, 1)
	assert.False(t, v.Habits[0].IsLocked, "malformed start date is ignored")
}

func TestFocusMarksItems(t *testing.T) {
	today := day(t, "2024-03-05")
	req := Request{
		Tasks: []model.Task{
			{ID: "a", Type: model.TaskDay, Date: "2024-03-05"},
			{ID: "b", Type: model.TaskDay, Date: "2024-03-05"},
		},
		Date:  today,
		Today: today,
	}

	v := Resolve(req)
	for _, it := range v.Tasks {
		assert.True(t, it.Common().CanFocus)
		assert.False(t, it.Common().IsFocused)
	}

	req.Focus = &ActiveFocus{ItemID: "b", Kind: model.KindTask, Title: "b", DurationMinutes: 25}
	v = Resolve(req)
	it, ok := v.Find(model.KindTask, "b")
	require.True(t, ok)
	assert.True(t, it.Common().IsFocused)
	for _, it := range v.Tasks {
		assert.False(t, it.Common().CanFocus)
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	today := day(t, "2024-03-05")
	goals := []model.Goal{{ID: "g", Type: model.GoalChecklist, Checklist: []model.ChecklistItem{
		{ID: "b", Deadline: "2024-03-05", Order: 2},
		{ID: "a", Deadline: "2024-03-05", Order: 1},
	}}}
	v := Resolve(Request{Goals: goals, Date: today, Today: today})
	assert.Equal(t, []string{"a", "b"}, taskIDs(v))
	assert.Equal(t, "b", goals[0].Checklist[0].ID)
}

func TestViewCounts(t *testing.T) {
	today := day(t, "2024-03-05")
	v := Resolve(Request{
		Tasks: []model.Task{
			{ID: "a", Type: model.TaskDay, Date: "2024-03-05", Status: model.StatusCompleted},
			{ID: "b", Type: model.TaskDay, Date: "2024-03-05"},
		},
		Goals: []model.Goal{{ID: "h", Type: model.GoalHabit}},
		Date:  today,
		Today: today,
	})
	done, total := v.Counts()
	assert.Equal(t, 1, done)
	assert.Equal(t, 3, total)
	assert.Len(t, v.List(CategoryTasks), 2)
}
