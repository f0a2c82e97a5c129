package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/stefanpenner/daybook/pkg/model"
)

const timeLayout = time.RFC3339

// Store manages the filesystem-backed entities. Each theme, task and goal is one
// markdown file with YAML frontmatter; the body holds free-form notes.
type Store struct {
	Root string // e.g., ~/.local/share/daybook

	intervals []int
	now       func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithReviewIntervals sets the day offsets used when a subtheme is introduced.
func WithReviewIntervals(days []int) Option {
	return func(s *Store) {
		if len(days) > 0 {
			s.intervals = append([]int(nil), days...)
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a Store rooted at the given directory.
// It creates the directory structure if it doesn't exist.
func NewStore(root string, opts ...Option) (*Store, error) {
	for _, c := range []Collection{CollectionThemes, CollectionTasks, CollectionGoals} {
		if err := os.MkdirAll(filepath.Join(root, string(c)), 0755); err != nil {
			return nil, fmt.Errorf("creating %s directory: %w", c, err)
		}
	}
	s := &Store{
		Root:      root,
		intervals: []int{1, 3, 7, 14, 30},
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Dir returns the directory holding a collection.
func (s *Store) Dir(c Collection) string {
	return filepath.Join(s.Root, string(c))
}

// FilePath returns the markdown file for an entity id.
func (s *Store) FilePath(c Collection, id string) string {
	return filepath.Join(s.Dir(c), id+".md")
}

// readEntity decodes the frontmatter of c/id.md into meta and returns the body.
func (s *Store) readEntity(c Collection, id string, meta any) (string, error) {
	data, err := os.ReadFile(s.FilePath(c, id))
	if os.IsNotExist(err) {
		return "", notFound(strings.TrimSuffix(string(c), "s"), id)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s/%s: %w", c, id, err)
	}
	body, err := ParseFrontmatter(string(data), meta)
	if err != nil {
		return "", fmt.Errorf("parsing %s/%s: %w", c, id, err)
	}
	return body, nil
}

func (s *Store) writeEntity(c Collection, id string, meta any, body string) error {
	if err := checkID(id); err != nil {
		return err
	}
	content, err := SerializeFrontmatter(meta, body)
	if err != nil {
		return err
	}
	return os.WriteFile(s.FilePath(c, id), []byte(content), 0644)
}

// ids lists the entity ids present in a collection, sorted.
func (s *Store) ids(c Collection) ([]string, error) {
	entries, err := os.ReadDir(s.Dir(c))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", c, err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".md") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".md"))
	}
	return ids, nil
}

// MatchID resolves an exact id or a unique id prefix within a collection.
func (s *Store) MatchID(c Collection, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrInvalid)
	}
	if _, err := os.Stat(s.FilePath(c, prefix)); err == nil {
		return prefix, nil
	}
	ids, err := s.ids(c)
	if err != nil {
		return "", err
	}
	var match string
	for _, id := range ids {
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", fmt.Errorf("%s %s: %w", c, prefix, ErrAmbiguous)
			}
			match = id
		}
	}
	if match == "" {
		return "", notFound(strings.TrimSuffix(string(c), "s"), prefix)
	}
	return match, nil
}

// LoadTheme reads a theme by id or unique prefix.
func (s *Store) LoadTheme(id string) (*model.Theme, error) {
	id, err := s.MatchID(CollectionThemes, id)
	if err != nil {
		return nil, err
	}
	var t model.Theme
	body, err := s.readEntity(CollectionThemes, id, &t)
	if err != nil {
		return nil, err
	}
	t.ID = id
	t.Notes = body
	return &t, nil
}

// SaveTheme writes a theme and bumps its Updated time.
func (s *Store) SaveTheme(t *model.Theme) error {
	t.Updated = s.now().UTC()
	return s.writeEntity(CollectionThemes, t.ID, t, t.Notes)
}

// LoadTask reads a task by id or unique prefix.
func (s *Store) LoadTask(id string) (*model.Task, error) {
	id, err := s.MatchID(CollectionTasks, id)
	if err != nil {
		return nil, err
	}
	var t model.Task
	body, err := s.readEntity(CollectionTasks, id, &t)
	if err != nil {
		return nil, err
	}
	t.ID = id
	t.Notes = body
	return &t, nil
}

// SaveTask writes a task and bumps its Updated time.
func (s *Store) SaveTask(t *model.Task) error {
	t.Updated = s.now().UTC()
	return s.writeEntity(CollectionTasks, t.ID, t, t.Notes)
}

// LoadGoal reads a goal by id or unique prefix.
func (s *Store) LoadGoal(id string) (*model.Goal, error) {
	id, err := s.MatchID(CollectionGoals, id)
	if err != nil {
		return nil, err
	}
	var g model.Goal
	body, err := s.readEntity(CollectionGoals, id, &g)
	if err != nil {
		return nil, err
	}
	g.ID = id
	g.Notes = body
	return &g, nil
}

// SaveGoal writes a goal and bumps its Updated time.
func (s *Store) SaveGoal(g *model.Goal) error {
	g.Updated = s.now().UTC()
	return s.writeEntity(CollectionGoals, g.ID, g, g.Notes)
}

// Snapshot loads every entity. Each list is ordered by creation time, then title.
// Files that cannot be read or parsed are skipped and listed in Broken.
func (s *Store) Snapshot() (*Snapshot, error) {
	snap := &Snapshot{
		Themes: []model.Theme{},
		Tasks:  []model.Task{},
		Goals:  []model.Goal{},
	}
	if err := collect(s, CollectionThemes, s.LoadTheme, &snap.Themes, &snap.Broken); err != nil {
		return nil, err
	}
	if err := collect(s, CollectionTasks, s.LoadTask, &snap.Tasks, &snap.Broken); err != nil {
		return nil, err
	}
	if err := collect(s, CollectionGoals, s.LoadGoal, &snap.Goals, &snap.Broken); err != nil {
		return nil, err
	}

	sort.SliceStable(snap.Themes, func(i, j int) bool {
		return byCreation(snap.Themes[i].CreatedAt, snap.Themes[i].Title, snap.Themes[j].CreatedAt, snap.Themes[j].Title)
	})
	sort.SliceStable(snap.Tasks, func(i, j int) bool {
		return byCreation(snap.Tasks[i].CreatedAt, snap.Tasks[i].Title, snap.Tasks[j].CreatedAt, snap.Tasks[j].Title)
	})
	sort.SliceStable(snap.Goals, func(i, j int) bool {
		return byCreation(snap.Goals[i].CreatedAt, snap.Goals[i].Title, snap.Goals[j].CreatedAt, snap.Goals[j].Title)
	})
	return snap, nil
}

func collect[T any](s *Store, c Collection, load func(string) (*T, error), out *[]T, broken *[]string) error {
	ids, err := s.ids(c)
	if err != nil {
		return err
	}
	for _, id := range ids {
		v, err := load(id)
		if err != nil {
			*broken = append(*broken, s.FilePath(c, id))
			continue
		}
		*out = append(*out, *v)
	}
	return nil
}

func byCreation(ca, ta, cb, tb string) bool {
	if ca != cb {
		return ca < cb
	}
	return ta < tb
}

// Replace removes every entity file and writes the snapshot in its place. Every entity
// is validated and encoded before anything on disk is touched.
func (s *Store) Replace(snap *Snapshot) error {
	type staged struct {
		c       Collection
		id      string
		content string
	}
	var files []staged
	seen := map[string]bool{}
	stage := func(c Collection, id string, meta any, body string) error {
		if err := checkID(id); err != nil {
			return fmt.Errorf("restoring %s: %w", c, err)
		}
		key := string(c) + "/" + id
		if seen[key] {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalid, key)
		}
		seen[key] = true
		content, err := SerializeFrontmatter(meta, body)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", key, err)
		}
		files = append(files, staged{c: c, id: id, content: content})
		return nil
	}
	for i := range snap.Themes {
		t := snap.Themes[i]
		if err := stage(CollectionThemes, t.ID, &t, t.Notes); err != nil {
			return err
		}
	}
	for i := range snap.Tasks {
		t := snap.Tasks[i]
		if err := stage(CollectionTasks, t.ID, &t, t.Notes); err != nil {
			return err
		}
	}
	for i := range snap.Goals {
		g := snap.Goals[i]
		if err := stage(CollectionGoals, g.ID, &g, g.Notes); err != nil {
			return err
		}
	}

	for _, c := range []Collection{CollectionThemes, CollectionTasks, CollectionGoals} {
		ids, err := s.ids(c)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := os.Remove(s.FilePath(c, id)); err != nil {
				return fmt.Errorf("clearing %s/%s: %w", c, id, err)
			}
		}
	}
	for _, f := range files {
		if err := os.WriteFile(s.FilePath(f.c, f.id), []byte(f.content), 0644); err != nil {
			return fmt.Errorf("writing %s/%s: %w", f.c, f.id, err)
		}
	}
	return nil
}

// checkID rejects ids that cannot be used as a file name inside a collection.
func checkID(id string) error {
	switch {
	case strings.TrimSpace(id) == "":
		return fmt.Errorf("%w: empty id", ErrInvalid)
	case id == "." || id == ".." || strings.ContainsAny(id, `/\`):
		return fmt.Errorf("%w: id %q", ErrInvalid, id)
	}
	return nil
}

// stamp is an RFC 3339 timestamp on day d at the current wall-clock time.
func (s *Store) stamp(d model.Date) string {
	now := s.now()
	if d.IsZero() {
		return now.Format(timeLayout)
	}
	y, m, day := d.Time().Date()
	return time.Date(y, m, day, now.Hour(), now.Minute(), now.Second(), 0, now.Location()).Format(timeLayout)
}

// today is the local calendar day according to the store clock.
func (s *Store) today() model.Date {
	return model.DateOf(s.now())
}
