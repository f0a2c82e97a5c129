package store

import (
	"fmt"
	"strconv"

	"github.com/stefanpenner/daybook/pkg/model"
)

// Toggle flips the completion of the entity behind an agenda item on day d and
// reports the new state.
//
//   - task: day tasks flip Status; recurring and period tasks add or remove the d entry
//     of their completion history.
//   - habit: habit goals toggle d in their history; other goals flip between completed
//     and their checklist progress.
//   - step: flips the checklist item and recomputes the goal's progress.
//   - review: flips a ladder review. A synthetic review (its id is the subtheme's) has no
//     ladder entry and cannot be toggled.
//   - intro: introducing a subtheme activates it and schedules its review ladder from its
//     introduction date; toggling again reverts it to locked.
func (s *Store) Toggle(kind model.Kind, id string, d model.Date) (bool, error) {
	if d.IsZero() {
		d = s.today()
	}
	switch kind {
	case model.KindTask:
		return s.toggleTask(id, d)
	case model.KindHabit:
		return s.toggleGoal(id, d)
	case model.KindStep:
		return s.toggleStep(id)
	case model.KindReview:
		return s.toggleReview(id, d)
	case model.KindIntro:
		return s.toggleIntro(id, d)
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

func (s *Store) toggleTask(id string, d model.Date) (bool, error) {
	t, err := s.LoadTask(id)
	if err != nil {
		return false, err
	}
	var done bool
	switch t.Type {
	case model.TaskRecurring, model.TaskPeriod:
		t.CompletionHistory, done = s.toggleHistory(t.CompletionHistory, d)
	default:
		if t.IsCompleted() {
			t.Status = model.StatusPending
			t.CompletionHistory = nil
		} else {
			t.Status = model.StatusCompleted
			t.CompletionHistory = []string{s.stamp(d)}
			done = true
		}
	}
	return done, s.SaveTask(t)
}

func (s *Store) toggleGoal(id string, d model.Date) (bool, error) {
	g, err := s.LoadGoal(id)
	if err != nil {
		return false, err
	}
	var done bool
	if g.Type == model.GoalHabit {
		g.CompletionHistory, done = s.toggleHistory(g.CompletionHistory, d)
	} else if g.IsCompleted() {
		g.Status = model.StatusPending
		g.Progress = 0
		if g.Type == model.GoalChecklist {
			g.Progress = checklistProgress(g.Checklist)
			// full progress alone reads as completed
			if g.Progress >= 100 {
				g.Progress = 99
			}
		}
	} else {
		g.Status = model.StatusCompleted
		g.Progress = 100
		done = true
	}
	return done, s.SaveGoal(g)
}

// toggleHistory removes every entry on d, or appends one when there was none.
func (s *Store) toggleHistory(history []string, d model.Date) ([]string, bool) {
	if !model.CompletedOn(history, d) {
		return append(history, s.stamp(d)), true
	}
	kept := history[:0:0]
	for _, h := range history {
		if hd, ok := model.ParseDate(h); ok && hd.Equal(d) {
			continue
		}
		kept = append(kept, h)
	}
	return kept, false
}

func (s *Store) toggleStep(id string) (bool, error) {
	g, i, err := s.findStep(id)
	if err != nil {
		return false, err
	}
	step := &g.Checklist[i]
	step.Completed = !step.Completed
	if g.Status != model.StatusCompleted {
		g.Progress = checklistProgress(g.Checklist)
	}
	return step.Completed, s.SaveGoal(g)
}

func (s *Store) toggleReview(id string, d model.Date) (bool, error) {
	themes, err := s.themes()
	if err != nil {
		return false, err
	}
	for _, t := range themes {
		for si := range t.Subthemes {
			sub := &t.Subthemes[si]
			if sub.ID == id {
				return false, fmt.Errorf("%w: review of %q is not on a ladder", ErrNotToggleable, sub.Title)
			}
			for ri := range sub.Reviews {
				r := &sub.Reviews[ri]
				key := r.ID
				if key == "" {
					key = sub.ID + "#" + strconv.Itoa(r.Number)
				}
				if key != id {
					continue
				}
				done := r.Status != model.ReviewCompleted
				if done {
					r.Status = model.ReviewCompleted
					r.CompletedAt = s.stamp(d)
				} else {
					r.Status = model.ReviewPending
					r.CompletedAt = ""
				}
				return done, s.SaveTheme(t)
			}
		}
	}
	return false, notFound("review", id)
}

func (s *Store) toggleIntro(id string, d model.Date) (bool, error) {
	t, i, err := s.findSubtheme(id)
	if err != nil {
		return false, err
	}
	sub := &t.Subthemes[i]
	switch sub.Status {
	case model.SubthemeActive, model.SubthemeCompleted:
		sub.Status = model.SubthemeLocked
		sub.Reviews = nil
		return false, s.SaveTheme(t)
	}
	on := d
	if planned, ok := model.ParseDate(sub.IntroductionDate); ok {
		on = planned
	}
	sub.Status = model.SubthemeActive
	sub.IntroductionDate = on.String()
	sub.Reviews = s.ladder(on)
	return true, s.SaveTheme(t)
}

// themes loads every readable theme.
func (s *Store) themes() ([]*model.Theme, error) {
	ids, err := s.ids(CollectionThemes)
	if err != nil {
		return nil, err
	}
	themes := make([]*model.Theme, 0, len(ids))
	for _, id := range ids {
		t, err := s.LoadTheme(id)
		if err != nil {
			continue
		}
		themes = append(themes, t)
	}
	return themes, nil
}

func (s *Store) goals() ([]*model.Goal, error) {
	ids, err := s.ids(CollectionGoals)
	if err != nil {
		return nil, err
	}
	goals := make([]*model.Goal, 0, len(ids))
	for _, id := range ids {
		g, err := s.LoadGoal(id)
		if err != nil {
			continue
		}
		goals = append(goals, g)
	}
	return goals, nil
}

// findSubtheme locates a subtheme by exact id or unique prefix.
func (s *Store) findSubtheme(id string) (*model.Theme, int, error) {
	themes, err := s.themes()
	if err != nil {
		return nil, 0, err
	}
	var (
		owner *model.Theme
		index int
	)
	for _, t := range themes {
		for i, sub := range t.Subthemes {
			if sub.ID == id {
				return t, i, nil
			}
			if id != "" && len(id) < len(sub.ID) && sub.ID[:len(id)] == id {
				if owner != nil {
					return nil, 0, fmt.Errorf("subtheme %s: %w", id, ErrAmbiguous)
				}
				owner, index = t, i
			}
		}
	}
	if owner == nil {
		return nil, 0, notFound("subtheme", id)
	}
	return owner, index, nil
}

// findStep locates a checklist step by exact id or unique prefix.
func (s *Store) findStep(id string) (*model.Goal, int, error) {
	goals, err := s.goals()
	if err != nil {
		return nil, 0, err
	}
	var (
		owner *model.Goal
		index int
	)
	for _, g := range goals {
		for i, c := range g.Checklist {
			if c.ID == id {
				return g, i, nil
			}
			if id != "" && len(id) < len(c.ID) && c.ID[:len(id)] == id {
				if owner != nil {
					return nil, 0, fmt.Errorf("step %s: %w", id, ErrAmbiguous)
				}
				owner, index = g, i
			}
		}
	}
	if owner == nil {
		return nil, 0, notFound("step", id)
	}
	return owner, index, nil
}
