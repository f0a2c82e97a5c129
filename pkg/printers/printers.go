// Package printers renders agenda data for the command line, as colored tables or JSON.
package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/stefanpenner/daybook/pkg/agenda"
	"github.com/stefanpenner/daybook/pkg/focus"
	"github.com/stefanpenner/daybook/pkg/model"
	"github.com/stefanpenner/daybook/pkg/store"
)

var (
	bold    = color.New(color.Bold)
	faint   = color.New(color.Faint)
	green   = color.New(color.FgGreen)
	red     = color.New(color.FgRed)
	yellow  = color.New(color.FgYellow)
	magenta = color.New(color.FgMagenta)
)

var sectionTitles = map[agenda.Category]string{
	agenda.CategoryIntros:  "INTROS",
	agenda.CategoryReviews: "REVIEWS",
	agenda.CategoryTasks:   "TASKS",
	agenda.CategoryHabits:  "HABITS",
}

// JSON writes v indented.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Error writes err as {"error": "..."}.
func Error(w io.Writer, err error) error {
	return JSON(w, map[string]string{"error": err.Error()})
}

// Agenda prints the sections of a view as tables. Empty sections are skipped.
func Agenda(w io.Writer, v agenda.View) {
	done, total := v.Counts()
	heading := v.Date.String()
	if v.Date.Equal(v.Today) {
		heading += " (today)"
	}
	fmt.Fprintf(w, "%s  %s\n", bold.Sprint(heading), faint.Sprintf("%d/%d done", done, total))
	if total == 0 {
		fmt.Fprintln(w, faint.Sprint("Nothing on the agenda."))
		return
	}

	for _, c := range agenda.Categories {
		items := v.List(c)
		if len(items) == 0 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, bold.Sprint(sectionTitles[c]))

		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.MaxColWidth = 60
		for _, it := range items {
			tbl.AddRow(Row(it)...)
		}
		fmt.Fprintln(w, tbl)
	}
}

// Row is the table row of one item: check, time, title, detail and id prefix.
func Row(it agenda.Item) []any {
	b := it.Common()
	check := "○"
	switch {
	case b.IsDone:
		check = green.Sprint("✓")
	case b.IsLocked:
		check = faint.Sprint("🔒")
	case b.IsFocused:
		check = magenta.Sprint("◉")
	}

	clock := b.ScheduledTime
	if clock == "" {
		clock = "     "
	}

	title := b.Title
	switch {
	case b.IsDone || b.IsLocked:
		title = faint.Sprint(title)
	case b.IsOverdue:
		title = red.Sprint(title)
	}

	return []any{check, clock, title, detail(it), faint.Sprint(ShortID(b.ID))}
}

func detail(it agenda.Item) string {
	b := it.Common()
	var parts []string
	switch v := it.(type) {
	case *agenda.IntroItem:
		parts = append(parts, v.ThemeTitle)
	case *agenda.ReviewItem:
		if v.Synthetic {
			if v.ScheduledDate.IsZero() {
				parts = append(parts, v.ThemeTitle, "no review pending")
			} else {
				parts = append(parts, v.ThemeTitle, "next "+v.ScheduledDate.String())
			}
		} else {
			parts = append(parts, v.ThemeTitle, fmt.Sprintf("review %d", v.Number))
		}
	case *agenda.TaskItem:
		if v.TaskType != model.TaskDay {
			parts = append(parts, string(v.TaskType))
		}
	case *agenda.StepItem:
		parts = append(parts, v.GoalTitle)
	case *agenda.HabitItem:
		if v.GoalType != model.GoalHabit {
			parts = append(parts, fmt.Sprintf("%d%%", v.Progress))
		}
	}
	if b.Priority != model.PriorityNone {
		parts = append(parts, yellow.Sprint(b.Priority.String()))
	}
	if b.DurationMinutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", b.DurationMinutes))
	}
	if b.IsOverdue {
		parts = append(parts, red.Sprint("overdue "+b.Date.String()))
	}
	if b.IsLocked && b.LockReason != "" {
		parts = append(parts, faint.Sprint(b.LockReason))
	}
	return strings.Join(parts, " · ")
}

// ShortID trims an id to eight characters, enough to address it by prefix.
func ShortID(id string) string {
	if i := strings.IndexByte(id, '#'); i >= 0 {
		return ShortID(id[:i]) + id[i:]
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Search prints search hits, one per line.
func Search(w io.Writer, results []store.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No matches found.")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("KIND"), bold.Sprint("ID"), bold.Sprint("TITLE"))
	for _, r := range results {
		tbl.AddRow(string(r.Ref), ShortID(r.ID), r.Title)
	}
	fmt.Fprintln(w, tbl)
}

// Focus prints the state of the focus session. A nil status means none is running.
func Focus(w io.Writer, st *focus.Status) {
	if st == nil {
		fmt.Fprintln(w, "No focus session.")
		return
	}
	state := "running"
	switch {
	case st.Finished:
		state = green.Sprint("finished")
	case st.Paused:
		state = yellow.Sprint("paused")
	}
	fmt.Fprintf(w, "%s %s  %s  %s left\n",
		magenta.Sprint("◉"), bold.Sprint(st.Session.Title), state, Remaining(st.Remaining))
}

// Remaining renders a countdown as MM:SS.
func Remaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	return fmt.Sprintf("%02d:%02d", int(d/time.Minute), int(d%time.Minute/time.Second))
}
