package focus

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/daybook/pkg/agenda"
	"github.com/stefanpenner/daybook/pkg/model"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func setup(t *testing.T) (*Tracker, *fakeClock) {
	t.Helper()
	c := &fakeClock{t: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)}
	return New(t.TempDir(), WithClock(c.now)), c
}

func item(id string) agenda.ActiveFocus {
	return agenda.ActiveFocus{ItemID: id, Kind: model.KindTask, Title: "Write", DurationMinutes: 25}
}

func TestStartAndCurrent(t *testing.T) {
	tr, c := setup(t)

	st, err := tr.Current()
	require.NoError(t, err)
	assert.Nil(t, st)

	s, err := tr.Start(item("a"))
	require.NoError(t, err)
	assert.Equal(t, c.t, s.StartedAt)

	c.advance(10 * time.Minute)
	st, err = tr.Current()
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, 15*time.Minute, st.Remaining)
	assert.False(t, st.Finished)

	active, err := tr.Active()
	require.NoError(t, err)
	assert.True(t, active.Matches(model.KindTask, "a"))
}

func TestStartWhileRunning(t *testing.T) {
	tr, c := setup(t)
	_, err := tr.Start(item("a"))
	require.NoError(t, err)

	_, err = tr.Start(item("b"))
	assert.ErrorIs(t, err, ErrFocusActive)

	c.advance(26 * time.Minute)
	_, err = tr.Start(item("b"))
	require.NoError(t, err, "an expired session is replaced")
}

func TestStartValidation(t *testing.T) {
	tr, _ := setup(t)
	_, err := tr.Start(agenda.ActiveFocus{DurationMinutes: 5})
	assert.Error(t, err)
	_, err = tr.Start(agenda.ActiveFocus{ItemID: "a"})
	assert.Error(t, err)
}

func TestPauseResume(t *testing.T) {
	tr, c := setup(t)
	_, err := tr.Start(item("a"))
	require.NoError(t, err)

	c.advance(5 * time.Minute)
	_, err = tr.Pause()
	require.NoError(t, err)

	c.advance(30 * time.Minute)
	st, err := tr.Current()
	require.NoError(t, err)
	assert.True(t, st.Paused)
	assert.Equal(t, 20*time.Minute, st.Remaining)

	_, err = tr.Resume()
	require.NoError(t, err)
	c.advance(5 * time.Minute)
	st, err = tr.Current()
	require.NoError(t, err)
	assert.False(t, st.Paused)
	assert.Equal(t, 15*time.Minute, st.Remaining)
}

func TestFinishedClearsItself(t *testing.T) {
	tr, c := setup(t)
	_, err := tr.Start(item("a"))
	require.NoError(t, err)

	c.advance(time.Hour)
	st, err := tr.Current()
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.True(t, st.Finished)

	_, err = os.Stat(tr.Path())
	assert.True(t, os.IsNotExist(err))

	active, err := tr.Active()
	require.NoError(t, err)
	assert.Nil(t, active)

	_, err = tr.Pause()
	assert.ErrorIs(t, err, ErrNoFocus)
}

func TestStop(t *testing.T) {
	tr, _ := setup(t)
	_, err := tr.Stop()
	assert.ErrorIs(t, err, ErrNoFocus)

	_, err = tr.Start(item("a"))
	require.NoError(t, err)
	s, err := tr.Stop()
	require.NoError(t, err)
	assert.Equal(t, "a", s.ItemID)

	st, err := tr.Current()
	require.NoError(t, err)
	assert.Nil(t, st)
}

func TestSharedAcrossTrackers(t *testing.T) {
	dir := t.TempDir()
	now := func() time.Time { return time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC) }
	_, err := New(dir, WithClock(now)).Start(item("a"))
	require.NoError(t, err)

	active, err := New(dir, WithClock(now)).Active()
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, "a", active.ItemID)
}
