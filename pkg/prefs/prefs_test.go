package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/daybook/pkg/agenda"
	"github.com/stefanpenner/daybook/pkg/model"
)

var day = model.NewDate(2024, 3, 5)

func TestGetMissingIsEmpty(t *testing.T) {
	s := Open(t.TempDir())
	p, err := s.Get(day)
	require.NoError(t, err)
	assert.Empty(t, p.Order)
	assert.Empty(t, p.Times)
}

func TestPutGetLayout(t *testing.T) {
	dir := t.TempDir()
	s := Open(dir)
	want := agenda.DayPreferences{
		Order: map[agenda.Category][]string{agenda.CategoryTasks: {"b", "a"}},
		Times: map[string]string{"a": "09:00"},
	}
	require.NoError(t, s.Put(day, want))

	_, err := os.Stat(filepath.Join(dir, "day", "2024", "03", "05"))
	require.NoError(t, err)

	got, err := Open(dir).Get(day)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHandlesSeeEachOthersWrites(t *testing.T) {
	dir := t.TempDir()
	a, b := Open(dir), Open(dir)

	timeFor := func(s *Store) (string, bool) {
		t.Helper()
		p, err := s.Get(day)
		require.NoError(t, err)
		return p.TimeFor("a")
	}

	require.NoError(t, a.SetTime(day, "a", "09:00"))
	clock, ok := timeFor(b)
	require.True(t, ok)
	assert.Equal(t, "09:00", clock)

	require.NoError(t, a.SetTime(day, "a", "17:30"))
	clock, ok = timeFor(b)
	require.True(t, ok)
	assert.Equal(t, "17:30", clock)

	require.NoError(t, b.ClearTime(day, "a"))
	_, ok = timeFor(a)
	assert.False(t, ok)
}

func TestSetAndClearTime(t *testing.T) {
	s := Open(t.TempDir())
	require.NoError(t, s.SetTime(day, "a", "9:30"))

	p, err := s.Get(day)
	require.NoError(t, err)
	clock, ok := p.TimeFor("a")
	assert.True(t, ok)
	assert.Equal(t, "09:30", clock)

	assert.Error(t, s.SetTime(day, "a", "nine"))

	require.NoError(t, s.ClearTime(day, "a"))
	p, err = s.Get(day)
	require.NoError(t, err)
	_, ok = p.TimeFor("a")
	assert.False(t, ok)
	assert.Empty(t, s.Dates(context.Background()), "empty preferences are erased")
}

func TestMove(t *testing.T) {
	s := Open(t.TempDir())
	shown := []string{"a", "b", "c"}

	moved, err := s.Move(day, agenda.CategoryTasks, shown, "c", -1)
	require.NoError(t, err)
	assert.True(t, moved)
	p, err := s.Get(day)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c", "b"}, p.Order[agenda.CategoryTasks])

	moved, err = s.Move(day, agenda.CategoryTasks, p.Order[agenda.CategoryTasks], "a", -1)
	require.NoError(t, err)
	assert.False(t, moved)

	_, err = s.Move(day, agenda.CategoryTasks, shown, "zzz", 1)
	assert.Error(t, err)
}

func TestDates(t *testing.T) {
	s := Open(t.TempDir())
	later := day.AddDays(40)
	require.NoError(t, s.SetTime(later, "x", "10:00"))
	require.NoError(t, s.SetTime(day, "x", "10:00"))

	dates := s.Dates(context.Background())
	require.Len(t, dates, 2)
	assert.True(t, dates[0].Equal(day))
	assert.True(t, dates[1].Equal(later))
}

func TestZeroDate(t *testing.T) {
	s := Open(t.TempDir())
	_, err := s.Get(model.Date{})
	assert.Error(t, err)
	assert.Error(t, s.Put(model.Date{}, agenda.DayPreferences{Times: map[string]string{"a": "10:00"}}))
}
