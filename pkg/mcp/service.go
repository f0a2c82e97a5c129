// Package mcp exposes the daily agenda to Model Context Protocol clients.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/stefanpenner/daybook/pkg/agenda"
	"github.com/stefanpenner/daybook/pkg/app"
	"github.com/stefanpenner/daybook/pkg/focus"
	"github.com/stefanpenner/daybook/pkg/model"
)

// Service adapts the application core to tool arguments and results.
type Service struct {
	App *app.Service
}

// NewService wraps an application service.
func NewService(a *app.Service) *Service {
	return &Service{App: a}
}

// AgendaDTO is the agenda of one day with its completion counts.
type AgendaDTO struct {
	agenda.View
	Done  int `json:"done"`
	Total int `json:"total"`
}

// ToggleResult reports the state after a toggle.
type ToggleResult struct {
	ID   string     `json:"id"`
	Kind model.Kind `json:"kind"`
	Date string     `json:"date"`
	Done bool       `json:"done"`
}

// AddTaskOptions captures the parameters of add_task.
type AddTaskOptions struct {
	Title    string
	Date     string
	Priority string
	Time     string
	Minutes  int
}

// parseOptionalDate reads YYYY-MM-DD; empty means today.
func parseOptionalDate(s string) (model.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Date{}, nil
	}
	d, ok := model.ParseDate(s)
	if !ok {
		return model.Date{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return d, nil
}

// GetAgenda resolves the agenda for date (empty for today) with its done and total counts.
func (s *Service) GetAgenda(ctx context.Context, date string) (*AgendaDTO, error) {
	d, err := parseOptionalDate(date)
	if err != nil {
		return nil, err
	}
	view, err := s.App.Agenda(ctx, d)
	if err != nil {
		return nil, err
	}
	done, total := view.Counts()
	return &AgendaDTO{View: view, Done: done, Total: total}, nil
}

// ToggleItem flips the completion of an item on date (empty for today). The item must be
// on that day's agenda and unlocked.
func (s *Service) ToggleItem(ctx context.Context, kind, id, date string) (*ToggleResult, error) {
	k, ok := model.ParseKind(kind)
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	d, err := parseOptionalDate(date)
	if err != nil {
		return nil, err
	}
	if d.IsZero() {
		d = s.App.Today()
	}
	done, err := s.App.Toggle(ctx, k, id, d)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{ID: id, Kind: k, Date: d.String(), Done: done}, nil
}

// StartFocus starts a focus session on an item of today's agenda. Zero minutes uses the
// item's own duration or the configured default.
func (s *Service) StartFocus(ctx context.Context, kind, id string, minutes int) (*focus.Session, error) {
	k, ok := model.ParseKind(kind)
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
	return s.App.StartFocus(ctx, app.FocusRequest{Kind: k, ID: id, Minutes: minutes})
}

// StopFocus ends the running session and returns it.
func (s *Service) StopFocus(ctx context.Context) (*focus.Session, error) {
	return s.App.StopFocus(ctx)
}

// AddTask creates a task from tool arguments.
func (s *Service) AddTask(ctx context.Context, opts AddTaskOptions) (*model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, err := parseOptionalDate(opts.Date)
	if err != nil {
		return nil, err
	}
	return s.App.Store.CreateTask(model.Task{
		Title:           opts.Title,
		Type:            model.TaskDay,
		Date:            d.String(),
		Priority:        model.ParsePriority(opts.Priority),
		Time:            opts.Time,
		DurationMinutes: opts.Minutes,
	})
}
