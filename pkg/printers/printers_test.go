package printers

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/daybook/pkg/agenda"
	"github.com/stefanpenner/daybook/pkg/focus"
	"github.com/stefanpenner/daybook/pkg/model"
	"github.com/stefanpenner/daybook/pkg/store"
)

func init() {
	color.NoColor = true
}

func TestAgenda(t *testing.T) {
	day := model.NewDate(2024, 3, 4)
	v := agenda.View{
		Date:  day,
		Today: day,
		Reviews: []*agenda.ReviewItem{{
			Base:       agenda.Base{Kind: model.KindReview, ID: "0123456789abcdef#2", Title: "Maps", IsDone: true},
			ThemeTitle: "Go", Number: 2,
		}},
		Tasks: []agenda.Item{
			&agenda.TaskItem{Base: agenda.Base{Kind: model.KindTask, ID: "aaaaaaaa-1111", Title: "Old report",
				IsOverdue: true, Date: model.NewDate(2024, 3, 1), Priority: model.PriorityHigh}},
			&agenda.TaskItem{Base: agenda.Base{Kind: model.KindTask, ID: "bbbbbbbb-2222", Title: "Standup",
				IsLocked: true, LockReason: agenda.ReasonFinishOverdue, ScheduledTime: "09:30", DurationMinutes: 15}},
		},
	}

	var buf bytes.Buffer
	Agenda(&buf, v)
	out := buf.String()

	assert.Contains(t, out, "2024-03-04 (today)")
	assert.Contains(t, out, "1/3 done")
	assert.Contains(t, out, "REVIEWS")
	assert.Contains(t, out, "review 2")
	assert.Contains(t, out, "01234567#2")
	assert.Contains(t, out, "overdue 2024-03-01")
	assert.Contains(t, out, "09:30")
	assert.Contains(t, out, agenda.ReasonFinishOverdue)
	assert.NotContains(t, out, "INTROS")
	assert.NotContains(t, out, "HABITS")
}

func TestAgendaEmpty(t *testing.T) {
	var buf bytes.Buffer
	Agenda(&buf, agenda.View{Date: model.NewDate(2024, 3, 5), Today: model.NewDate(2024, 3, 4)})
	assert.Contains(t, buf.String(), "Nothing on the agenda.")
	assert.NotContains(t, buf.String(), "(today)")
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", ShortID("abc"))
	assert.Equal(t, "01234567", ShortID("0123456789"))
	assert.Equal(t, "01234567#3", ShortID("0123456789#3"))
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, "25:00", Remaining(25*time.Minute))
	assert.Equal(t, "01:05", Remaining(65*time.Second))
	assert.Equal(t, "00:00", Remaining(-time.Second))
}

func TestSearchAndFocus(t *testing.T) {
	var buf bytes.Buffer
	Search(&buf, nil)
	assert.Equal(t, "No matches found.\n", buf.String())

	buf.Reset()
	Search(&buf, []store.SearchResult{{Ref: store.RefTask, ID: "0123456789", Title: "Report"}})
	assert.Contains(t, buf.String(), "01234567")
	assert.Contains(t, buf.String(), "Report")

	buf.Reset()
	Focus(&buf, nil)
	assert.Equal(t, "No focus session.\n", buf.String())

	buf.Reset()
	st := &focus.Status{Remaining: 90 * time.Second, Paused: true}
	st.Session.Title = "Deep work"
	Focus(&buf, st)
	assert.Contains(t, buf.String(), "Deep work")
	assert.Contains(t, buf.String(), "paused")
	assert.Contains(t, buf.String(), "01:30 left")
}

func TestJSONError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Error(&buf, errors.New("boom")))
	assert.JSONEq(t, `{"error":"boom"}`, buf.String())
}
