// Package app binds the entity store, day preferences and focus session into the
// operations every front end (CLI, TUI, MCP server, notifier) shares.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/stefanpenner/daybook/pkg/agenda"
	"github.com/stefanpenner/daybook/pkg/config"
	"github.com/stefanpenner/daybook/pkg/focus"
	"github.com/stefanpenner/daybook/pkg/logging"
	"github.com/stefanpenner/daybook/pkg/model"
	"github.com/stefanpenner/daybook/pkg/prefs"
	"github.com/stefanpenner/daybook/pkg/store"
)

var (
	// ErrLocked is returned when acting on an item the agenda has locked.
	ErrLocked = errors.New("item is locked")
	// ErrNotOnAgenda is returned when toggling an item that is not shown on the date.
	ErrNotOnAgenda = errors.New("not on the agenda")
)

// Service is the shared application core.
type Service struct {
	Store *store.Store
	Prefs *prefs.Store
	Focus *focus.Tracker

	log            *logging.Logger
	scope          agenda.OverdueScope
	defaultMinutes int
	now            func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now for the store, the focus tracker and "today".
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New opens the stores under cfg.DataDir.
func New(cfg *config.Config, log *logging.Logger, opts ...Option) (*Service, error) {
	if log == nil {
		log = logging.Default()
	}
	s := &Service{
		log:            log.With("component", "app"),
		scope:          agenda.ParseOverdueScope(cfg.Agenda.OverdueScope),
		defaultMinutes: cfg.Focus.DefaultMinutes,
		now:            time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.defaultMinutes <= 0 {
		s.defaultMinutes = 25
	}

	st, err := store.NewStore(cfg.DataDir,
		store.WithReviewIntervals(cfg.Agenda.ReviewIntervals),
		store.WithClock(s.now))
	if err != nil {
		return nil, err
	}
	s.Store = st
	s.Prefs = prefs.Open(filepath.Join(cfg.DataDir, "prefs"))
	s.Focus = focus.New(cfg.DataDir, focus.WithClock(s.now))
	return s, nil
}

// Today is the current local date.
func (s *Service) Today() model.Date {
	return model.DateOf(s.now())
}

// Agenda resolves the agenda for date (zero means today) from a fresh snapshot.
func (s *Service) Agenda(ctx context.Context, date model.Date) (agenda.View, error) {
	if err := ctx.Err(); err != nil {
		return agenda.View{}, err
	}
	today := s.Today()
	if date.IsZero() {
		date = today
	}

	snap, err := s.Store.Snapshot()
	if err != nil {
		return agenda.View{}, fmt.Errorf("loading entities: %w", err)
	}
	for _, path := range snap.Broken {
		s.log.Warn("skipping unreadable file", "path", path)
	}
	p, err := s.Prefs.Get(date)
	if err != nil {
		s.log.WithError(err).Warn("ignoring day preferences", "date", date.String())
		p = agenda.DayPreferences{}
	}
	active, err := s.Focus.Active()
	if err != nil {
		s.log.WithError(err).Warn("ignoring focus state")
		active = nil
	}

	return agenda.Resolve(agenda.Request{
		Themes:       snap.Themes,
		Tasks:        snap.Tasks,
		Goals:        snap.Goals,
		Date:         date,
		Today:        today,
		Prefs:        p,
		Focus:        active,
		OverdueScope: s.scope,
	}), nil
}

// Toggle flips completion of an item on date (zero means today). Items missing from the
// agenda of that date, or shown as locked, are refused.
func (s *Service) Toggle(ctx context.Context, kind model.Kind, id string, date model.Date) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if date.IsZero() {
		date = s.Today()
	}
	view, err := s.Agenda(ctx, date)
	if err != nil {
		return false, err
	}
	id = s.expandID(view.All(), id)
	it, ok := view.Find(kind, id)
	if !ok {
		return false, fmt.Errorf("%s %s on %s: %w", kind, id, date, ErrNotOnAgenda)
	}
	if it.Common().IsLocked {
		return false, fmt.Errorf("%w: %s", ErrLocked, it.Common().LockReason)
	}
	done, err := s.Store.Toggle(kind, id, date)
	if err != nil {
		return false, err
	}
	s.log.Info("toggled", "kind", string(kind), "id", id, "date", date.String(), "done", done)
	return done, nil
}

// FocusRequest names the item a focus session is started on.
type FocusRequest struct {
	Kind    model.Kind
	ID      string
	Minutes int
}

// StartFocus starts a session on an item of today's agenda. The item must be focusable:
// not done, not locked, and no other session running.
func (s *Service) StartFocus(ctx context.Context, req FocusRequest) (*focus.Session, error) {
	view, err := s.Agenda(ctx, model.Date{})
	if err != nil {
		return nil, err
	}
	it, ok := view.Find(req.Kind, s.expandID(view.All(), req.ID))
	if !ok {
		return nil, fmt.Errorf("%s %s is not on today's agenda: %w", req.Kind, req.ID, store.ErrNotFound)
	}
	b := it.Common()
	switch {
	case b.IsDone:
		return nil, fmt.Errorf("%q is already done", b.Title)
	case b.IsLocked:
		return nil, fmt.Errorf("%w: %s", ErrLocked, b.LockReason)
	}

	minutes := req.Minutes
	if minutes <= 0 {
		minutes = b.DurationMinutes
	}
	if minutes <= 0 {
		minutes = s.defaultMinutes
	}
	f := agenda.ActiveFocus{
		ItemID:          b.ID,
		Kind:            b.Kind,
		Title:           b.Title,
		DurationMinutes: minutes,
	}
	if step, ok := it.(*agenda.StepItem); ok {
		f.ParentID = step.ParentID
	}
	sess, err := s.Focus.Start(f)
	if err != nil {
		return nil, err
	}
	s.log.Info("focus started", "kind", string(f.Kind), "id", f.ItemID, "minutes", minutes)
	return sess, nil
}

// StopFocus ends the running session.
func (s *Service) StopFocus(ctx context.Context) (*focus.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sess, err := s.Focus.Stop()
	if err != nil {
		return nil, err
	}
	s.log.Info("focus stopped", "id", sess.ItemID)
	return sess, nil
}

// Reorder moves an item one slot up (delta -1) or down (+1) in its category on date.
func (s *Service) Reorder(ctx context.Context, date model.Date, c agenda.Category, id string, delta int) (bool, error) {
	view, err := s.Agenda(ctx, date)
	if err != nil {
		return false, err
	}
	items := view.List(c)
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.Common().ID)
	}
	return s.Prefs.Move(view.Date, c, ids, s.expandID(items, id), delta)
}

// Schedule sets (or, with an empty clock, clears) the time of an item on date.
func (s *Service) Schedule(ctx context.Context, date model.Date, id, clock string) error {
	view, err := s.Agenda(ctx, date)
	if err != nil {
		return err
	}
	id = s.expandID(view.All(), id)
	if clock == "" {
		return s.Prefs.ClearTime(view.Date, id)
	}
	return s.Prefs.SetTime(view.Date, id, clock)
}

// expandID maps a unique id prefix onto the full id of an agenda item.
func (s *Service) expandID(items []agenda.Item, prefix string) string {
	match := ""
	for _, it := range items {
		id := it.Common().ID
		if id == prefix {
			return id
		}
		if len(prefix) < len(id) && id[:len(prefix)] == prefix {
			if match != "" {
				return prefix
			}
			match = id
		}
	}
	if match == "" {
		return prefix
	}
	return match
}
