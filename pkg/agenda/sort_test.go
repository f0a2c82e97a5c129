package agenda

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stefanpenner/daybook/pkg/model"
)

func ids(items []*TaskItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestSortRules(t *testing.T) {
	mk := func(id string, b Base) *TaskItem {
		b.ID = id
		return &TaskItem{Base: b}
	}

	tests := []struct {
		name  string
		items []*TaskItem
		pos   map[string]int
		want  []string
	}{
		{
			name: "overdue oldest first",
			items: []*TaskItem{
				mk("today", Base{Date: day(t, "2024-03-05")}),
				mk("late2", Base{Date: day(t, "2024-03-03"), IsOverdue: true}),
				mk("late1", Base{Date: day(t, "2024-03-01"), IsOverdue: true}),
			},
			want: []string{"late1", "late2", "today"},
		},
		{
			name: "undone before done",
			items: []*TaskItem{
				mk("done", Base{IsDone: true, Priority: model.PriorityHigh}),
				mk("open", Base{}),
			},
			want: []string{"open", "done"},
		},
		{
			name: "times ascending then untimed by priority",
			items: []*TaskItem{
				mk("low", Base{Priority: model.PriorityLow}),
				mk("late", Base{ScheduledTime: "14:00"}),
				mk("high", Base{Priority: model.PriorityHigh}),
				mk("early", Base{ScheduledTime: "08:30"}),
				mk("none", Base{}),
				mk("medium", Base{Priority: model.PriorityMedium}),
			},
			want: []string{"early", "late", "high", "medium", "low", "none"},
		},
		{
			name: "shorter duration first, unknown last",
			items: []*TaskItem{
				mk("unknown", Base{}),
				mk("long", Base{DurationMinutes: 90}),
				mk("short", Base{DurationMinutes: 10}),
			},
			want: []string{"short", "long", "unknown"},
		},
		{
			name: "manual order overrides time and priority",
			items: []*TaskItem{
				mk("timed", Base{ScheduledTime: "07:00"}),
				mk("high", Base{Priority: model.PriorityHigh}),
				mk("b", Base{}),
				mk("a", Base{}),
			},
			pos:  map[string]int{"a": 0, "b": 1},
			want: []string{"a", "b", "timed", "high"},
		},
		{
			name: "manual order never beats overdue",
			items: []*TaskItem{
				mk("pinned", Base{}),
				mk("late", Base{Date: day(t, "2024-03-01"), IsOverdue: true}),
			},
			pos:  map[string]int{"pinned": 0, "late": 1},
			want: []string{"late", "pinned"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sortItems(tt.items, tt.pos)
			assert.Equal(t, tt.want, ids(tt.items))
		})
	}
}

func TestDayPreferencesPositionsIgnoreDuplicates(t *testing.T) {
	p := DayPreferences{Order: map[Category][]string{CategoryTasks: {"a", "b", "a"}}}
	assert.Equal(t, map[string]int{"a": 0, "b": 1}, p.positions(CategoryTasks))
	assert.Nil(t, p.positions(CategoryHabits))

	_, ok := DayPreferences{Times: map[string]string{"x": "noon"}}.TimeFor("x")
	assert.False(t, ok)
}

func TestDayPreferencesClone(t *testing.T) {
	p := DayPreferences{
		Order: map[Category][]string{CategoryTasks: {"a"}},
		Times: map[string]string{"a": "09:00"},
	}
	c := p.Clone()
	c.Order[CategoryTasks][0] = "z"
	c.Times["a"] = "10:00"
	assert.Equal(t, "a", p.Order[CategoryTasks][0])
	assert.Equal(t, "09:00", p.Times["a"])
}
