package model

import (
	"strings"
	"time"
)

// Kind discriminates agenda items and names the entity a toggle or focus command targets.
type Kind string

const (
	KindIntro  Kind = "intro"
	KindReview Kind = "review"
	KindTask   Kind = "task"
	KindHabit  Kind = "habit" // any goal-backed item, habit or not
	KindStep   Kind = "step"
)

// ParseKind resolves a user-supplied kind. "goal" is accepted for KindHabit.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "intro":
		return KindIntro, true
	case "review":
		return KindReview, true
	case "task":
		return KindTask, true
	case "habit", "goal":
		return KindHabit, true
	case "step":
		return KindStep, true
	}
	return "", false
}

// SubthemeStatus is the study state of a subtheme.
type SubthemeStatus string

const (
	SubthemeLocked    SubthemeStatus = "locked"
	SubthemeActive    SubthemeStatus = "active"
	SubthemeCompleted SubthemeStatus = "completed"
)

// ReviewStatus is the state of one rung of a review ladder.
type ReviewStatus string

const (
	ReviewPending   ReviewStatus = "pending"
	ReviewCompleted ReviewStatus = "completed"
)

// Review is one scheduled spaced-repetition review.
type Review struct {
	ID          string       `yaml:"id" json:"id"`
	Number      int          `yaml:"number" json:"number"`
	Date        string       `yaml:"date" json:"date"`
	Status      ReviewStatus `yaml:"status" json:"status"`
	CompletedAt string       `yaml:"completed_at,omitempty" json:"completedAt,omitempty"`
}

// Subtheme is a unit of study inside a Theme.
type Subtheme struct {
	ID               string         `yaml:"id" json:"id"`
	Title            string         `yaml:"title" json:"title"`
	Status           SubthemeStatus `yaml:"status" json:"status"`
	IntroductionDate string         `yaml:"introduction_date,omitempty" json:"introductionDate,omitempty"`
	Reviews          []Review       `yaml:"reviews,omitempty" json:"reviews,omitempty"`
}

// Theme is a study topic.
type Theme struct {
	ID        string     `yaml:"id" json:"id"`
	Title     string     `yaml:"title" json:"title"`
	Color     string     `yaml:"color,omitempty" json:"color,omitempty"`
	Subthemes []Subtheme `yaml:"subthemes,omitempty" json:"subthemes,omitempty"`
	CreatedAt string     `yaml:"created_at,omitempty" json:"createdAt,omitempty"`
	Updated   time.Time  `yaml:"updated" json:"updated"`
	Notes     string     `yaml:"-" json:"notes,omitempty"`
}

// TaskType selects a task's recurrence rule.
type TaskType string

const (
	TaskDay       TaskType = "day"
	TaskPeriod    TaskType = "period"
	TaskRecurring TaskType = "recurring"
)

// Status is the discrete completion state shared by tasks and goals.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Task is a unit of work on a day, over a period, or on recurring weekdays.
type Task struct {
	ID                string   `yaml:"id" json:"id"`
	Title             string   `yaml:"title" json:"title"`
	Type              TaskType `yaml:"type" json:"type"`
	Date              string   `yaml:"date,omitempty" json:"date,omitempty"`
	StartDate         string   `yaml:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate           string   `yaml:"end_date,omitempty" json:"endDate,omitempty"`
	Recurrence        []int    `yaml:"recurrence,omitempty" json:"recurrence,omitempty"`
	Status            Status   `yaml:"status" json:"status"`
	Priority          Priority `yaml:"priority,omitempty" json:"priority,omitempty"`
	CompletionHistory []string `yaml:"completion_history,omitempty" json:"completionHistory,omitempty"`
	Time              string   `yaml:"time,omitempty" json:"time,omitempty"`
	DurationMinutes   int      `yaml:"duration_minutes,omitempty" json:"durationMinutes,omitempty"`
	CreatedAt         string   `yaml:"created_at,omitempty" json:"createdAt,omitempty"`

	Updated time.Time `yaml:"updated" json:"updated"`
	Notes   string    `yaml:"-" json:"notes,omitempty"`
}

// IsCompleted reports whether the task's discrete status is completed.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// GoalType selects how a goal contributes to the agenda.
type GoalType string

const (
	GoalSimple    GoalType = "simple"
	GoalChecklist GoalType = "checklist"
	GoalHabit     GoalType = "habit"
)

// ChecklistItem is one step of a checklist goal.
type ChecklistItem struct {
	ID        string `yaml:"id" json:"id"`
	Title     string `yaml:"title" json:"title"`
	Completed bool   `yaml:"completed" json:"completed"`
	Deadline  string `yaml:"deadline,omitempty" json:"deadline,omitempty"`
	Order     int    `yaml:"order" json:"order"`
}

// Goal is a longer-lived objective: a one-off, a checklist, or a habit.
type Goal struct {
	ID                string          `yaml:"id" json:"id"`
	Title             string          `yaml:"title" json:"title"`
	Type              GoalType        `yaml:"type" json:"type"`
	Progress          int             `yaml:"progress" json:"progress"`
	Status            Status          `yaml:"status,omitempty" json:"status,omitempty"`
	Priority          Priority        `yaml:"priority,omitempty" json:"priority,omitempty"`
	Deadline          string          `yaml:"deadline,omitempty" json:"deadline,omitempty"`
	StartDate         string          `yaml:"start_date,omitempty" json:"startDate,omitempty"`
	Recurrence        []int           `yaml:"recurrence,omitempty" json:"recurrence,omitempty"`
	CompletionHistory []string        `yaml:"completion_history,omitempty" json:"completionHistory,omitempty"`
	Checklist         []ChecklistItem `yaml:"checklist,omitempty" json:"checklist,omitempty"`
	DurationMinutes   int             `yaml:"duration_minutes,omitempty" json:"durationMinutes,omitempty"`
	CreatedAt         string          `yaml:"created_at,omitempty" json:"createdAt,omitempty"`

	Updated time.Time `yaml:"updated" json:"updated"`
	Notes   string    `yaml:"-" json:"notes,omitempty"`
}

// IsCompleted reports whether the goal is finished, by status or full progress.
func (g *Goal) IsCompleted() bool {
	return g.Status == StatusCompleted || g.Progress >= 100
}

// CompletedOn reports whether any completion history entry falls on d.
func CompletedOn(history []string, d Date) bool {
	if d.IsZero() {
		return false
	}
	for _, h := range history {
		if hd, ok := ParseDate(h); ok && hd.Equal(d) {
			return true
		}
	}
	return false
}
