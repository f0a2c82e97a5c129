// Package focus tracks the single Pomodoro-style focus session, persisted as YAML so the
// CLI, the TUI and the MCP server see the same state.
package focus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stefanpenner/daybook/pkg/agenda"
)

var (
	ErrFocusActive = errors.New("a focus session is already running")
	ErrNoFocus     = errors.New("no focus session")
)

// FileName is the state file inside the data directory.
const FileName = "focus.yaml"

// Session is a focus session as stored on disk.
type Session struct {
	agenda.ActiveFocus `yaml:",inline"`

	PausedAt      *time.Time `yaml:"paused_at,omitempty" json:"pausedAt,omitempty"`
	PausedSeconds int64      `yaml:"paused_seconds,omitempty" json:"pausedSeconds,omitempty"`
}

func (s *Session) paused(now time.Time) time.Duration {
	d := time.Duration(s.PausedSeconds) * time.Second
	if s.PausedAt != nil {
		d += now.Sub(*s.PausedAt)
	}
	return d
}

// Remaining is the countdown left at now. It stops moving while paused.
func (s *Session) Remaining(now time.Time) time.Duration {
	total := time.Duration(s.DurationMinutes) * time.Minute
	elapsed := now.Sub(s.StartedAt) - s.paused(now)
	if elapsed < 0 {
		elapsed = 0
	}
	if left := total - elapsed; left > 0 {
		return left
	}
	return 0
}

// Finished reports whether the countdown has run out.
func (s *Session) Finished(now time.Time) bool {
	return s.Remaining(now) == 0
}

// Status is a session observed at a moment in time.
type Status struct {
	Session   Session       `json:"session"`
	Remaining time.Duration `json:"remaining"`
	Paused    bool          `json:"paused"`
	Finished  bool          `json:"finished"`
}

// Tracker reads and writes the session file.
type Tracker struct {
	path string
	now  func() time.Time
	mu   sync.Mutex
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// New returns a Tracker persisting to dir/focus.yaml.
func New(dir string, opts ...Option) *Tracker {
	t := &Tracker{path: filepath.Join(dir, FileName), now: time.Now}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Path is the state file location.
func (t *Tracker) Path() string { return t.path }

func (t *Tracker) load() (*Session, error) {
	data, err := os.ReadFile(t.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading focus state: %w", err)
	}
	var s Session
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing focus state: %w", err)
	}
	if s.ItemID == "" {
		return nil, nil
	}
	return &s, nil
}

func (t *Tracker) save(s *Session) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(t.path), 0755); err != nil {
		return err
	}
	return os.WriteFile(t.path, data, 0644)
}

func (t *Tracker) clear() error {
	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Start begins a session for f. A running session must be stopped first; an expired one
// is replaced.
func (t *Tracker) Start(f agenda.ActiveFocus) (*Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	cur, err := t.load()
	if err != nil {
		return nil, err
	}
	if cur != nil && !cur.Finished(now) {
		return nil, fmt.Errorf("%w: %q", ErrFocusActive, cur.Title)
	}
	if f.ItemID == "" {
		return nil, fmt.Errorf("focus: item id is required")
	}
	if f.DurationMinutes <= 0 {
		return nil, fmt.Errorf("focus: duration must be positive")
	}
	if f.StartedAt.IsZero() {
		f.StartedAt = now
	}
	s := &Session{ActiveFocus: f}
	if err := t.save(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Pause freezes the countdown.
func (t *Tracker) Pause() (*Session, error) {
	return t.update(func(s *Session, now time.Time) {
		if s.PausedAt == nil {
			s.PausedAt = &now
		}
	})
}

// Resume continues a paused countdown.
func (t *Tracker) Resume() (*Session, error) {
	return t.update(func(s *Session, now time.Time) {
		if s.PausedAt != nil {
			s.PausedSeconds += int64(now.Sub(*s.PausedAt) / time.Second)
			s.PausedAt = nil
		}
	})
}

func (t *Tracker) update(fn func(*Session, time.Time)) (*Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	s, err := t.load()
	if err != nil {
		return nil, err
	}
	if s == nil || s.Finished(now) {
		return nil, ErrNoFocus
	}
	fn(s, now)
	return s, t.save(s)
}

// Stop ends the session and returns it.
func (t *Tracker) Stop() (*Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.load()
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrNoFocus
	}
	return s, t.clear()
}

// Current observes the session. It returns nil when there is none. A session whose
// countdown has run out is reported once as finished and then removed.
func (t *Tracker) Current() (*Status, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	s, err := t.load()
	if err != nil || s == nil {
		return nil, err
	}
	st := &Status{
		Session:   *s,
		Remaining: s.Remaining(now),
		Paused:    s.PausedAt != nil,
	}
	if st.Remaining == 0 {
		st.Finished = true
		if err := t.clear(); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// Active returns the running session for the agenda resolver, or nil.
func (t *Tracker) Active() (*agenda.ActiveFocus, error) {
	st, err := t.Current()
	if err != nil || st == nil || st.Finished {
		return nil, err
	}
	f := st.Session.ActiveFocus
	return &f, nil
}
