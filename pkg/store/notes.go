package store

import (
	"fmt"
	"os"
	"strings"

	"github.com/stefanpenner/daybook/pkg/model"
)

// AddNote appends a dated note to the body of a theme, task or goal and returns the
// resolved entity id.
func (s *Store) AddNote(ref Ref, id, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty note", ErrInvalid)
	}
	today := s.today().String()

	switch ref {
	case RefTheme:
		t, err := s.LoadTheme(id)
		if err != nil {
			return "", err
		}
		t.Notes = appendNote(t.Notes, today, text)
		return t.ID, s.SaveTheme(t)
	case RefTask:
		t, err := s.LoadTask(id)
		if err != nil {
			return "", err
		}
		t.Notes = appendNote(t.Notes, today, text)
		return t.ID, s.SaveTask(t)
	case RefGoal:
		g, err := s.LoadGoal(id)
		if err != nil {
			return "", err
		}
		g.Notes = appendNote(g.Notes, today, text)
		return g.ID, s.SaveGoal(g)
	}
	return "", fmt.Errorf("%w: notes live on themes, tasks and goals, not %q", ErrUnknownKind, ref)
}

// Search matches query case-insensitively against titles and notes.
func (s *Store) Search(query string) ([]SearchResult, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	matches := func(fields ...string) bool {
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), query) {
				return true
			}
		}
		return false
	}

	results := []SearchResult{}
	for _, t := range snap.Themes {
		if matches(t.Title, t.Notes) {
			results = append(results, SearchResult{Ref: RefTheme, ID: t.ID, Title: t.Title})
		}
		for _, sub := range t.Subthemes {
			if matches(sub.Title) {
				results = append(results, SearchResult{Ref: RefSubtheme, ID: sub.ID, Title: sub.Title})
			}
		}
	}
	for _, t := range snap.Tasks {
		if matches(t.Title, t.Notes) {
			results = append(results, SearchResult{Ref: RefTask, ID: t.ID, Title: t.Title})
		}
	}
	for _, g := range snap.Goals {
		if matches(g.Title, g.Notes) {
			results = append(results, SearchResult{Ref: RefGoal, ID: g.ID, Title: g.Title})
		}
		for _, c := range g.Checklist {
			if matches(c.Title) {
				results = append(results, SearchResult{Ref: RefStep, ID: c.ID, Title: c.Title})
			}
		}
	}
	return results, nil
}

// Delete removes an entity. Deleting a theme removes its subthemes and their reviews;
// deleting a goal removes its steps.
func (s *Store) Delete(ref Ref, id string) error {
	switch ref {
	case RefTheme:
		return s.remove(CollectionThemes, id)
	case RefTask:
		return s.remove(CollectionTasks, id)
	case RefGoal:
		return s.remove(CollectionGoals, id)
	case RefSubtheme:
		t, i, err := s.findSubtheme(id)
		if err != nil {
			return err
		}
		t.Subthemes = append(t.Subthemes[:i], t.Subthemes[i+1:]...)
		return s.SaveTheme(t)
	case RefStep:
		g, i, err := s.findStep(id)
		if err != nil {
			return err
		}
		g.Checklist = append(g.Checklist[:i], g.Checklist[i+1:]...)
		for j := range g.Checklist {
			g.Checklist[j].Order = j
		}
		if g.Status != model.StatusCompleted {
			g.Progress = checklistProgress(g.Checklist)
		}
		return s.SaveGoal(g)
	}
	return fmt.Errorf("%w: %q", ErrUnknownKind, ref)
}

func (s *Store) remove(c Collection, id string) error {
	id, err := s.MatchID(c, id)
	if err != nil {
		return err
	}
	if err := os.Remove(s.FilePath(c, id)); err != nil {
		return fmt.Errorf("deleting %s/%s: %w", c, id, err)
	}
	return nil
}

var refCollections = map[Ref]Collection{
	RefTheme: CollectionThemes,
	RefTask:  CollectionTasks,
	RefGoal:  CollectionGoals,
}

// EntityPath returns the file holding a theme, subtheme, task, goal or step, for
// opening in an editor.
func (s *Store) EntityPath(ref Ref, id string) (string, error) {
	switch ref {
	case RefTheme, RefTask, RefGoal:
		c := refCollections[ref]
		id, err := s.MatchID(c, id)
		if err != nil {
			return "", err
		}
		return s.FilePath(c, id), nil
	case RefSubtheme:
		t, _, err := s.findSubtheme(id)
		if err != nil {
			return "", err
		}
		return s.FilePath(CollectionThemes, t.ID), nil
	case RefStep:
		g, _, err := s.findStep(id)
		if err != nil {
			return "", err
		}
		return s.FilePath(CollectionGoals, g.ID), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, ref)
}
