package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

var now = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

type harness struct {
	t      *testing.T
	dir    string
	config string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()
	cfg := filepath.Join(root, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("log:\n  level: error\n"), 0o644))
	return &harness{t: t, dir: filepath.Join(root, "data"), config: cfg}
}

// run executes one command line against a fresh root with a fixed clock.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	cmd := newRoot(&options{now: func() time.Time { return now }})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--dir", h.dir, "--config", h.config}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) must(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "daybook %s", strings.Join(args, " "))
	return out
}

// id creates something with --json and returns its id.
func (h *harness) id(args ...string) string {
	h.t.Helper()
	var v struct {
		ID string `json:"id"`
	}
	require.NoError(h.t, json.Unmarshal([]byte(h.must(append(args, "--json")...)), &v))
	require.NotEmpty(h.t, v.ID)
	return v.ID
}

type agendaJSON struct {
	Date  string `json:"date"`
	Tasks []struct {
		ID            string `json:"id"`
		Title         string `json:"title"`
		IsDone        bool   `json:"isDone"`
		ScheduledTime string `json:"scheduledTime"`
	} `json:"tasks"`
	Reviews []struct {
		Title  string `json:"title"`
		Number int    `json:"number"`
	} `json:"reviews"`
	Habits []struct {
		Title string `json:"title"`
	} `json:"habits"`
}

func (h *harness) agenda(args ...string) agendaJSON {
	h.t.Helper()
	var v agendaJSON
	out := h.must(append([]string{"agenda", "--json"}, args...)...)
	require.NoError(h.t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func taskTitles(v agendaJSON) []string {
	var titles []string
	for _, t := range v.Tasks {
		titles = append(titles, t.Title)
	}
	return titles
}

func TestAddTaskAndAgenda(t *testing.T) {
	h := newHarness(t)
	h.must("add", "task", "Write report", "--time", "9:30", "--priority", "high")
	h.must("add", "task", "Call plumber", "--on", "tomorrow")

	out := h.must("agenda")
	assert.Contains(t, out, "2024-03-04 (today)")
	assert.Contains(t, out, "TASKS")
	assert.Contains(t, out, "Write report")
	assert.Contains(t, out, "09:30")
	assert.NotContains(t, out, "Call plumber")

	v := h.agenda("--on", "2024-03-05")
	assert.Equal(t, "2024-03-05", v.Date)
	assert.Equal(t, []string{"Call plumber"}, taskTitles(v))
}

func TestEmptyAgenda(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.must("agenda"), "Nothing on the agenda.")
}

func TestToggle(t *testing.T) {
	h := newHarness(t)
	id := h.id("add", "task", "Report")

	out := h.must("toggle", "task", id)
	assert.Contains(t, out, "marked done")
	assert.True(t, h.agenda().Tasks[0].IsDone)

	out = h.must("toggle", "task", id[:6])
	assert.Contains(t, out, "marked not done")
	assert.False(t, h.agenda().Tasks[0].IsDone)

	_, err := h.run("toggle", "chore", id)
	assert.ErrorContains(t, err, "unknown kind")
}

func TestToggleLockedByOverdue(t *testing.T) {
	h := newHarness(t)
	h.must("add", "task", "Old", "--on", "2024-03-01")
	fresh := h.id("add", "task", "Fresh")

	_, err := h.run("toggle", "task", fresh)
	assert.ErrorContains(t, err, "finish overdue items first")
}

func TestRecurringTaskAndHabit(t *testing.T) {
	h := newHarness(t)
	h.must("add", "task", "Gym", "--type", "recurring", "--days", "mon,wed")
	h.must("add", "habit", "Read", "--days", "1,2,3,4,5")

	v := h.agenda()
	assert.Equal(t, []string{"Gym"}, taskTitles(v))
	require.Len(t, v.Habits, 1)
	assert.Equal(t, "Read", v.Habits[0].Title)

	assert.Empty(t, taskTitles(h.agenda("--on", "2024-03-05")))

	_, err := h.run("add", "task", "Bad", "--type", "recurring", "--days", "someday")
	assert.ErrorContains(t, err, "invalid weekday")
}

func TestThemeIntroductionAndReviews(t *testing.T) {
	h := newHarness(t)
	theme := h.id("add", "theme", "Go")
	sub := h.id("add", "subtheme", theme, "Generics")

	out := h.must("introduce", sub)
	assert.Contains(t, out, "Generics introduced on 2024-03-04")
	assert.NotContains(t, out, "review")

	assert.Contains(t, h.must("agenda"), "Generics")
	h.must("toggle", "intro", sub)

	v := h.agenda("--on", "2024-03-05")
	require.Len(t, v.Reviews, 1)
	assert.Equal(t, 1, v.Reviews[0].Number)
}

func TestGoalWithSteps(t *testing.T) {
	h := newHarness(t)
	goal := h.id("add", "goal", "Move house", "--step", "Book van")
	out := h.must("add", "step", goal, "Pack", "books", "--deadline", "today")
	assert.Contains(t, out, "Added step Pack books")

	v := h.agenda()
	assert.Contains(t, taskTitles(v), "Pack books")
}

func TestScheduleAndReorder(t *testing.T) {
	h := newHarness(t)
	first := h.id("add", "task", "First")
	second := h.id("add", "task", "Second")

	assert.Equal(t, []string{"First", "Second"}, taskTitles(h.agenda()))

	h.must("reorder", "tasks", second, "up")
	assert.Equal(t, []string{"Second", "First"}, taskTitles(h.agenda()))
	assert.Contains(t, h.must("reorder", "tasks", second, "up"), "nothing moved")

	h.must("schedule", first, "08:00")
	v := h.agenda()
	assert.Equal(t, "Second", v.Tasks[0].Title, "manual order wins over time")
	assert.Equal(t, "08:00", v.Tasks[1].ScheduledTime)

	assert.Contains(t, h.must("schedule", first), "Cleared time")
	assert.Empty(t, h.agenda().Tasks[1].ScheduledTime)

	_, err := h.run("schedule", first, "25:99")
	assert.Error(t, err)
	_, err = h.run("reorder", "tasks", first, "sideways")
	assert.Error(t, err)
}

func TestNoteSearchDelete(t *testing.T) {
	h := newHarness(t)
	id := h.id("add", "task", "Report")

	assert.Contains(t, h.must("note", "task", id, "sent", "the", "draft"), "Note added to Report")
	out := h.must("search", "draft")
	assert.Contains(t, out, "Report")
	assert.Contains(t, out, id[:8])

	assert.Contains(t, h.must("search", "nothing-like-this"), "No matches found.")
	assert.Equal(t, "[]\n", h.must("search", "nothing-like-this", "--json"))

	h.must("delete", "task", id)
	assert.Empty(t, h.agenda().Tasks)
	_, err := h.run("delete", "task", id)
	assert.ErrorContains(t, err, "not found")
}

func TestFocusCommands(t *testing.T) {
	h := newHarness(t)
	id := h.id("add", "task", "Deep work", "--minutes", "50")

	assert.Contains(t, h.must("focus"), "No focus session.")

	out := h.must("focus", "start", "task", id)
	assert.Contains(t, out, "Focusing on Deep work for 50 minutes")

	_, err := h.run("focus", "start", "task", id)
	assert.Error(t, err)

	out = h.must("focus", "pause")
	assert.Contains(t, out, "paused")
	assert.Contains(t, out, "50:00")

	out = h.must("focus", "status")
	assert.Contains(t, out, "Deep work")

	assert.Contains(t, h.must("focus", "stop"), "Stopped focus on Deep work")
	_, err = h.run("focus", "stop")
	assert.ErrorContains(t, err, "no focus session")
}

func TestBackupRestore(t *testing.T) {
	h := newHarness(t)
	h.must("add", "task", "Keep me")
	file := filepath.Join(t.TempDir(), "backup.db")

	assert.Contains(t, h.must("backup", file), "Backed up 0 themes, 1 tasks and 0 goals")

	h.must("add", "task", "Drop me")
	assert.Len(t, h.agenda().Tasks, 2)

	out := h.must("restore", file, "--json")
	assert.Contains(t, out, `"tasks": 1`)
	assert.Equal(t, []string{"Keep me"}, taskTitles(h.agenda()))
}

func TestNotifyOnce(t *testing.T) {
	h := newHarness(t)
	h.must("add", "task", "Standup", "--time", "10:00")
	h.must("add", "task", "Lunch", "--time", "12:00")

	out := h.must("notify", "--once")
	assert.Contains(t, out, "Standup at 10:00")
	assert.NotContains(t, out, "Lunch")

	out = h.must("notify", "--summary")
	assert.Contains(t, out, "2024-03-04: 0/2 done")
}

func TestVersion(t *testing.T) {
	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version", "--short"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), Version)
}

func TestRunReportsErrors(t *testing.T) {
	h := newHarness(t)
	base := []string{"--dir", h.dir, "--config", h.config}

	var out, errOut bytes.Buffer
	code := Run(context.Background(), append(base, "delete", "task", "nope"), &out, &errOut)
	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(errOut.String(), "Error: "), errOut.String())

	out.Reset()
	errOut.Reset()
	code = Run(context.Background(), append(base, "--json", "delete", "chore", "nope"), &out, &errOut)
	assert.Equal(t, 1, code)
	var v map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &v))
	assert.Contains(t, v["error"], "unknown kind")

	out.Reset()
	code = Run(context.Background(), append(base, "agenda"), &out, &errOut)
	assert.Equal(t, 0, code)
}

func TestParseWeekdays(t *testing.T) {
	days, err := parseWeekdays([]string{"Mon", "wednesday", "0", " "})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 0}, days)

	_, err = parseWeekdays([]string{"7"})
	assert.Error(t, err)
}
