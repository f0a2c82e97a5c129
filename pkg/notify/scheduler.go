package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/stefanpenner/daybook/pkg/agenda"
	"github.com/stefanpenner/daybook/pkg/logging"
	"github.com/stefanpenner/daybook/pkg/model"
)

// AgendaSource resolves the agenda for a date; the zero date means today.
type AgendaSource interface {
	Agenda(ctx context.Context, date model.Date) (agenda.View, error)
}

// Scheduler checks the agenda every minute and on the summary schedule.
type Scheduler struct {
	src     AgendaSource
	out     Notifier
	log     *logging.Logger
	summary string
	now     func() time.Time

	mu      sync.Mutex
	sentDay model.Date
	sent    map[string]bool
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithSummarySpec sets the cron expression of the daily summary. Empty disables it.
func WithSummarySpec(spec string) Option {
	return func(s *Scheduler) { s.summary = spec }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// NewScheduler returns a Scheduler that is not yet running.
func NewScheduler(src AgendaSource, out Notifier, log *logging.Logger, opts ...Option) *Scheduler {
	if log == nil {
		log = logging.Default()
	}
	s := &Scheduler{
		src:  src,
		out:  out,
		log:  log.With("component", "notify"),
		now:  time.Now,
		sent: map[string]bool{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Run schedules the jobs and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc("* * * * *", func() {
		if n, err := s.CheckDue(ctx); err != nil {
			s.log.WithError(err).Error("checking due items")
		} else if n > 0 {
			s.log.Info("sent reminders", "count", n)
		}
	}); err != nil {
		return fmt.Errorf("scheduling reminders: %w", err)
	}
	if s.summary != "" {
		if _, err := c.AddFunc(s.summary, func() {
			if err := s.SendSummary(ctx); err != nil {
				s.log.WithError(err).Error("sending summary")
			}
		}); err != nil {
			return fmt.Errorf("scheduling summary %q: %w", s.summary, err)
		}
	}

	c.Start()
	s.log.Info("scheduler started", "summary", s.summary)
	<-ctx.Done()
	<-c.Stop().Done()
	s.log.Info("scheduler stopped")
	return nil
}

// CheckDue notifies today's pending, unlocked items scheduled for the current minute.
// Each item is sent at most once per day. It returns how many were sent.
func (s *Scheduler) CheckDue(ctx context.Context) (int, error) {
	now := s.now()
	view, err := s.src.Agenda(ctx, model.Date{})
	if err != nil {
		return 0, err
	}
	clock := now.Format("15:04")
	today := model.DateOf(now)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.sentDay.Equal(today) {
		s.sentDay = today
		s.sent = map[string]bool{}
	}

	count := 0
	for _, it := range view.All() {
		b := it.Common()
		if b.IsDone || b.IsLocked || b.ScheduledTime != clock {
			continue
		}
		key := string(b.Kind) + ":" + b.ID
		if s.sent[key] {
			continue
		}
		if err := s.out.Notify(ctx, Reminder(it)); err != nil {
			return count, err
		}
		s.sent[key] = true
		count++
	}
	return count, nil
}

// SendSummary notifies today's progress.
func (s *Scheduler) SendSummary(ctx context.Context) error {
	view, err := s.src.Agenda(ctx, model.Date{})
	if err != nil {
		return err
	}
	return s.out.Notify(ctx, Summary(view))
}
