package notify

import (
	"fmt"

	"github.com/stefanpenner/daybook/pkg/agenda"
)

// Reminder is the message for an item whose scheduled time has come.
func Reminder(it agenda.Item) Message {
	b := it.Common()
	m := Message{Title: fmt.Sprintf("%s at %s", b.Title, b.ScheduledTime)}
	if b.DurationMinutes > 0 {
		m.Lines = append(m.Lines, fmt.Sprintf("%d min", b.DurationMinutes))
	}
	switch v := it.(type) {
	case *agenda.ReviewItem:
		m.Lines = append(m.Lines, "review of "+v.ThemeTitle)
	case *agenda.IntroItem:
		m.Lines = append(m.Lines, "introduce "+v.ThemeTitle)
	case *agenda.StepItem:
		m.Lines = append(m.Lines, "step of "+v.GoalTitle)
	}
	return m
}

// Summary reports done/total for a day and lists what is left.
func Summary(v agenda.View) Message {
	done, total := v.Counts()
	m := Message{Title: fmt.Sprintf("%s: %d/%d done", v.Date, done, total)}
	for _, c := range agenda.Categories {
		for _, it := range v.List(c) {
			b := it.Common()
			if b.IsDone {
				continue
			}
			line := "• " + b.Title
			if b.IsOverdue {
				line += " (overdue)"
			}
			m.Lines = append(m.Lines, line)
		}
	}
	if done == total && total > 0 {
		m.Lines = append(m.Lines, "all done 🎉")
	}
	return m
}
