// Package backup exports the entity store to a single sqlite database and restores it.
package backup

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stefanpenner/daybook/pkg/model"
	"github.com/stefanpenner/daybook/pkg/store"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS themes (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT '',
		updated TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS subthemes (
		id TEXT PRIMARY KEY,
		theme_id TEXT NOT NULL REFERENCES themes(id),
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT '',
		introduction_date TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		subtheme_id TEXT NOT NULL REFERENCES subthemes(id),
		position INTEGER NOT NULL,
		id TEXT NOT NULL DEFAULT '',
		number INTEGER NOT NULL,
		date TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		completed_at TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL DEFAULT '',
		end_date TEXT NOT NULL DEFAULT '',
		recurrence TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT '',
		time TEXT NOT NULL DEFAULT '',
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL DEFAULT '',
		updated TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS goals (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		progress INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT '',
		deadline TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL DEFAULT '',
		recurrence TEXT NOT NULL DEFAULT '',
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL DEFAULT '',
		updated TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS steps (
		id TEXT PRIMARY KEY,
		goal_id TEXT NOT NULL REFERENCES goals(id),
		title TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT 0,
		deadline TEXT NOT NULL DEFAULT '',
		ord INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS history (
		owner_kind TEXT NOT NULL,
		owner_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		entry TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_history_owner ON history(owner_kind, owner_id)`,
}

const (
	ownerTask = "task"
	ownerGoal = "goal"
)

// Export writes snap to a new sqlite database at path, replacing any existing file.
func Export(ctx context.Context, snap *store.Snapshot, path string) error {
	tmp := path + ".tmp"
	_ = os.Remove(tmp)

	db, err := sql.Open("sqlite3", tmp)
	if err != nil {
		return fmt.Errorf("opening %s: %w", tmp, err)
	}
	if err := write(ctx, db, snap); err != nil {
		db.Close()
		os.Remove(tmp)
		return err
	}
	if err := db.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing backup: %w", err)
	}
	return os.Rename(tmp, path)
}

func write(ctx context.Context, db *sql.DB, snap *store.Snapshot) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("connecting to backup: %w", err)
	}
	for _, q := range schema {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	for i, t := range snap.Themes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO themes (id, position, title, color, created_at, updated, notes) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, i, t.Title, t.Color, t.CreatedAt, formatTime(t.Updated), t.Notes); err != nil {
			return fmt.Errorf("writing theme %s: %w", t.ID, err)
		}
		for j, sub := range t.Subthemes {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO subthemes (id, theme_id, position, title, status, introduction_date) VALUES (?, ?, ?, ?, ?, ?)`,
				sub.ID, t.ID, j, sub.Title, string(sub.Status), sub.IntroductionDate); err != nil {
				return fmt.Errorf("writing subtheme %s: %w", sub.ID, err)
			}
			for k, r := range sub.Reviews {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO reviews (subtheme_id, position, id, number, date, status, completed_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
					sub.ID, k, r.ID, r.Number, r.Date, string(r.Status), r.CompletedAt); err != nil {
					return fmt.Errorf("writing review of %s: %w", sub.ID, err)
				}
			}
		}
	}

	for i, t := range snap.Tasks {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tasks (id, position, title, type, date, start_date, end_date, recurrence, status, priority, time, duration_minutes, created_at, updated, notes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, i, t.Title, string(t.Type), t.Date, t.StartDate, t.EndDate, encodeDays(t.Recurrence),
			string(t.Status), string(t.Priority), t.Time, t.DurationMinutes, t.CreatedAt, formatTime(t.Updated), t.Notes); err != nil {
			return fmt.Errorf("writing task %s: %w", t.ID, err)
		}
		if err := writeHistory(ctx, tx, ownerTask, t.ID, t.CompletionHistory); err != nil {
			return err
		}
	}

	for i, g := range snap.Goals {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO goals (id, position, title, type, progress, status, priority, deadline, start_date, recurrence, duration_minutes, created_at, updated, notes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			g.ID, i, g.Title, string(g.Type), g.Progress, string(g.Status), string(g.Priority), g.Deadline, g.StartDate,
			encodeDays(g.Recurrence), g.DurationMinutes, g.CreatedAt, formatTime(g.Updated), g.Notes); err != nil {
			return fmt.Errorf("writing goal %s: %w", g.ID, err)
		}
		for _, c := range g.Checklist {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO steps (id, goal_id, title, completed, deadline, ord) VALUES (?, ?, ?, ?, ?, ?)`,
				c.ID, g.ID, c.Title, c.Completed, c.Deadline, c.Order); err != nil {
				return fmt.Errorf("writing step %s: %w", c.ID, err)
			}
		}
		if err := writeHistory(ctx, tx, ownerGoal, g.ID, g.CompletionHistory); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func writeHistory(ctx context.Context, tx *sql.Tx, kind, id string, entries []string) error {
	for i, e := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO history (owner_kind, owner_id, position, entry) VALUES (?, ?, ?, ?)`,
			kind, id, i, e); err != nil {
			return fmt.Errorf("writing history of %s %s: %w", kind, id, err)
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func encodeDays(days []int) string {
	if len(days) == 0 {
		return ""
	}
	b, _ := json.Marshal(days)
	return string(b)
}

func decodeDays(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var days []int
	if err := json.Unmarshal([]byte(s), &days); err != nil {
		return nil, fmt.Errorf("decoding recurrence %q: %w", s, err)
	}
	return days, nil
}

// Import reads a database written by Export.
func Import(ctx context.Context, path string) (*store.Snapshot, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening backup: %w", err)
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("connecting to backup: %w", err)
	}

	r := reader{ctx: ctx, db: db}
	snap := &store.Snapshot{
		Themes: r.themes(),
		Tasks:  r.tasks(),
		Goals:  r.goals(),
	}
	if r.err != nil {
		return nil, r.err
	}
	return snap, nil
}

// reader remembers the first error so the table walks read straight through.
type reader struct {
	ctx context.Context
	db  *sql.DB
	err error
}

func (r *reader) query(q string, args []any, scan func(*sql.Rows) error) {
	if r.err != nil {
		return
	}
	rows, err := r.db.QueryContext(r.ctx, q, args...)
	if err != nil {
		r.err = err
		return
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			r.err = err
			return
		}
	}
	r.err = rows.Err()
}

func (r *reader) history(kind, id string) []string {
	var out []string
	r.query(`SELECT entry FROM history WHERE owner_kind = ? AND owner_id = ? ORDER BY position`,
		[]any{kind, id}, func(rows *sql.Rows) error {
			var e string
			if err := rows.Scan(&e); err != nil {
				return err
			}
			out = append(out, e)
			return nil
		})
	return out
}

func (r *reader) themes() []model.Theme {
	themes := []model.Theme{}
	r.query(`SELECT id, title, color, created_at, updated, notes FROM themes ORDER BY position`, nil,
		func(rows *sql.Rows) error {
			var t model.Theme
			var updated string
			if err := rows.Scan(&t.ID, &t.Title, &t.Color, &t.CreatedAt, &updated, &t.Notes); err != nil {
				return err
			}
			t.Updated = parseTime(updated)
			themes = append(themes, t)
			return nil
		})
	for i := range themes {
		themes[i].Subthemes = r.subthemes(themes[i].ID)
	}
	return themes
}

func (r *reader) subthemes(themeID string) []model.Subtheme {
	var subs []model.Subtheme
	r.query(`SELECT id, title, status, introduction_date FROM subthemes WHERE theme_id = ? ORDER BY position`,
		[]any{themeID}, func(rows *sql.Rows) error {
			var s model.Subtheme
			var status string
			if err := rows.Scan(&s.ID, &s.Title, &status, &s.IntroductionDate); err != nil {
				return err
			}
			s.Status = model.SubthemeStatus(status)
			subs = append(subs, s)
			return nil
		})
	for i := range subs {
		subs[i].Reviews = r.reviews(subs[i].ID)
	}
	return subs
}

func (r *reader) reviews(subID string) []model.Review {
	var out []model.Review
	r.query(`SELECT id, number, date, status, completed_at FROM reviews WHERE subtheme_id = ? ORDER BY position`,
		[]any{subID}, func(rows *sql.Rows) error {
			var rv model.Review
			var status string
			if err := rows.Scan(&rv.ID, &rv.Number, &rv.Date, &status, &rv.CompletedAt); err != nil {
				return err
			}
			rv.Status = model.ReviewStatus(status)
			out = append(out, rv)
			return nil
		})
	return out
}

func (r *reader) tasks() []model.Task {
	tasks := []model.Task{}
	r.query(`SELECT id, title, type, date, start_date, end_date, recurrence, status, priority, time, duration_minutes, created_at, updated, notes
		FROM tasks ORDER BY position`, nil, func(rows *sql.Rows) error {
		var (
			t                                  model.Task
			typ, rec, status, priority, updated string
		)
		if err := rows.Scan(&t.ID, &t.Title, &typ, &t.Date, &t.StartDate, &t.EndDate, &rec, &status, &priority,
			&t.Time, &t.DurationMinutes, &t.CreatedAt, &updated, &t.Notes); err != nil {
			return err
		}
		days, err := decodeDays(rec)
		if err != nil {
			return err
		}
		t.Type = model.TaskType(typ)
		t.Recurrence = days
		t.Status = model.Status(status)
		t.Priority = model.Priority(priority)
		t.Updated = parseTime(updated)
		tasks = append(tasks, t)
		return nil
	})
	for i := range tasks {
		tasks[i].CompletionHistory = r.history(ownerTask, tasks[i].ID)
	}
	return tasks
}

func (r *reader) goals() []model.Goal {
	goals := []model.Goal{}
	r.query(`SELECT id, title, type, progress, status, priority, deadline, start_date, recurrence, duration_minutes, created_at, updated, notes
		FROM goals ORDER BY position`, nil, func(rows *sql.Rows) error {
		var (
			g                                  model.Goal
			typ, status, priority, rec, updated string
		)
		if err := rows.Scan(&g.ID, &g.Title, &typ, &g.Progress, &status, &priority, &g.Deadline, &g.StartDate, &rec,
			&g.DurationMinutes, &g.CreatedAt, &updated, &g.Notes); err != nil {
			return err
		}
		days, err := decodeDays(rec)
		if err != nil {
			return err
		}
		g.Type = model.GoalType(typ)
		g.Status = model.Status(status)
		g.Priority = model.Priority(priority)
		g.Recurrence = days
		g.Updated = parseTime(updated)
		goals = append(goals, g)
		return nil
	})
	for i := range goals {
		goals[i].Checklist = r.steps(goals[i].ID)
		goals[i].CompletionHistory = r.history(ownerGoal, goals[i].ID)
	}
	return goals
}

func (r *reader) steps(goalID string) []model.ChecklistItem {
	var out []model.ChecklistItem
	r.query(`SELECT id, title, completed, deadline, ord FROM steps WHERE goal_id = ? ORDER BY ord, rowid`,
		[]any{goalID}, func(rows *sql.Rows) error {
			var c model.ChecklistItem
			if err := rows.Scan(&c.ID, &c.Title, &c.Completed, &c.Deadline, &c.Order); err != nil {
				return err
			}
			out = append(out, c)
			return nil
		})
	return out
}
