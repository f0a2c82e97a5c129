package store

import (
	"errors"
	"fmt"

	"github.com/stefanpenner/daybook/pkg/model"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAmbiguous     = errors.New("ambiguous id")
	ErrInvalid       = errors.New("invalid")
	ErrUnknownKind   = errors.New("unknown kind")
	ErrNotToggleable = errors.New("nothing to toggle")
)

// Collection names an entity directory. Subthemes and steps live inside their parent's file.
type Collection string

const (
	CollectionThemes Collection = "themes"
	CollectionTasks  Collection = "tasks"
	CollectionGoals  Collection = "goals"
)

// Ref addresses an entity a user can delete or annotate.
type Ref string

const (
	RefTheme    Ref = "theme"
	RefSubtheme Ref = "subtheme"
	RefTask     Ref = "task"
	RefGoal     Ref = "goal"
	RefStep     Ref = "step"
)

// ParseRef accepts the singular names above.
func ParseRef(s string) (Ref, error) {
	switch r := Ref(s); r {
	case RefTheme, RefSubtheme, RefTask, RefGoal, RefStep:
		return r, nil
	case "habit":
		return RefGoal, nil
	}
	return "", fmt.Errorf("%w: %q (want theme, subtheme, task, goal or step)", ErrUnknownKind, s)
}

// Snapshot is a consistent read of every entity.
type Snapshot struct {
	Themes []model.Theme `json:"themes"`
	Tasks  []model.Task  `json:"tasks"`
	Goals  []model.Goal  `json:"goals"`

	// Broken lists entity files that could not be loaded.
	Broken []string `json:"-"`
}

// SearchResult is one entity whose title or notes matched a query.
type SearchResult struct {
	Ref   Ref    `json:"ref"`
	ID    string `json:"id"`
	Title string `json:"title"`
}

func notFound(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, ErrNotFound)
}
