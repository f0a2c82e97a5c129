package agenda

import "github.com/stefanpenner/daybook/pkg/model"

// Category names one of the four lists of a View.
type Category string

const (
	CategoryIntros  Category = "intros"
	CategoryReviews Category = "reviews"
	CategoryTasks   Category = "tasks"
	CategoryHabits  Category = "habits"
)

// Categories lists the view's lists in display order.
var Categories = []Category{CategoryIntros, CategoryReviews, CategoryTasks, CategoryHabits}

// ParseCategory resolves a category name, accepting the singular form too.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "intros", "intro":
		return CategoryIntros, true
	case "reviews", "review":
		return CategoryReviews, true
	case "tasks", "task", "steps", "step":
		return CategoryTasks, true
	case "habits", "habit", "goals", "goal":
		return CategoryHabits, true
	}
	return "", false
}

// Base holds the fields every agenda item carries. Kind is the discriminant.
type Base struct {
	Kind            model.Kind     `json:"kind"`
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	IsDone          bool           `json:"isDone"`
	IsLocked        bool           `json:"isLocked"`
	LockReason      string         `json:"lockReason,omitempty"`
	Priority        model.Priority `json:"priority,omitempty"`
	IsOverdue       bool           `json:"isOverdue"`
	Date            model.Date     `json:"date"`
	StartDate       model.Date     `json:"startDate"`
	ScheduledTime   string         `json:"scheduledTime,omitempty"`
	DurationMinutes int            `json:"durationMinutes,omitempty"`
	IsFocused       bool           `json:"isFocused,omitempty"`
	CanFocus        bool           `json:"canFocus"`
}

// Common returns the shared fields.
func (b *Base) Common() *Base { return b }

func (*Base) agendaItem() {}

// Item is one of *IntroItem, *ReviewItem, *TaskItem, *HabitItem or *StepItem.
type Item interface {
	Common() *Base
	agendaItem()
}

// IntroItem marks the day a subtheme is first studied.
type IntroItem struct {
	Base
	ThemeID    string `json:"themeId"`
	ThemeTitle string `json:"themeTitle"`
	Color      string `json:"color,omitempty"`
	SubthemeID string `json:"subthemeId"`
}

// ReviewItem is a rung of a review ladder. Synthetic entries (Number 0) stand in for an
// active subtheme with nothing due on the selected date; ScheduledDate is then the next
// pending review, if any.
type ReviewItem struct {
	Base
	ThemeID       string     `json:"themeId"`
	ThemeTitle    string     `json:"themeTitle"`
	Color         string     `json:"color,omitempty"`
	SubthemeID    string     `json:"subthemeId"`
	Number        int        `json:"number"`
	ScheduledDate model.Date `json:"scheduledDate"`
	Synthetic     bool       `json:"synthetic,omitempty"`
}

// TaskItem is a task occurrence on the selected date.
type TaskItem struct {
	Base
	TaskType model.TaskType `json:"taskType"`
}

// HabitItem is a goal-backed entry: a habit occurrence or a goal due on its deadline.
type HabitItem struct {
	Base
	GoalType model.GoalType `json:"goalType"`
	Progress int            `json:"progress"`
}

// StepItem is a dated checklist step of a goal.
type StepItem struct {
	Base
	ParentID  string `json:"parentId"`
	GoalTitle string `json:"goalTitle"`
}

// View is the resolved agenda for one date. Tasks holds *TaskItem and *StepItem values.
type View struct {
	Date    model.Date    `json:"date"`
	Today   model.Date    `json:"today"`
	Intros  []*IntroItem  `json:"intros"`
	Reviews []*ReviewItem `json:"reviews"`
	Tasks   []Item        `json:"tasks"`
	Habits  []*HabitItem  `json:"habits"`
}

// List returns the items of one category.
func (v View) List(c Category) []Item {
	switch c {
	case CategoryIntros:
		return toItems(v.Intros)
	case CategoryReviews:
		return toItems(v.Reviews)
	case CategoryTasks:
		return append([]Item(nil), v.Tasks...)
	case CategoryHabits:
		return toItems(v.Habits)
	}
	return nil
}

// All returns every item, category by category.
func (v View) All() []Item {
	var out []Item
	for _, c := range Categories {
		out = append(out, v.List(c)...)
	}
	return out
}

// Find returns the item with the given kind and id.
func (v View) Find(kind model.Kind, id string) (Item, bool) {
	for _, it := range v.All() {
		b := it.Common()
		if b.Kind == kind && b.ID == id {
			return it, true
		}
	}
	return nil, false
}

// Counts returns the number of done items and the total.
func (v View) Counts() (done, total int) {
	for _, it := range v.All() {
		total++
		if it.Common().IsDone {
			done++
		}
	}
	return done, total
}

func toItems[T Item](in []T) []Item {
	out := make([]Item, 0, len(in))
	for _, it := range in {
		out = append(out, it)
	}
	return out
}
