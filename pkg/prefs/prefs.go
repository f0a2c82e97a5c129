// Package prefs persists per-day agenda preferences (manual order and scheduled times)
// as small JSON documents in a diskv key-value store, one per date.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"github.com/stefanpenner/daybook/pkg/agenda"
	"github.com/stefanpenner/daybook/pkg/model"
)

const keyPrefix = "day"

// Store reads and writes DayPreferences keyed by date.
type Store struct {
	d        *diskv.Diskv
	basePath string
}

// Open returns a Store rooted at dir. Documents land in dir/day/YYYY/MM/DD.
func Open(dir string) *Store {
	return &Store{d: diskv.New(diskv.Options{
		BasePath:          dir,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      0, // other processes write these files too
	}), basePath: dir}
}

// keyToPathTransform turns "day-2024-03-05" into day/2024/03 + file 05.
func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

func toKey(d model.Date) string {
	return keyPrefix + "-" + d.String()
}

// Get returns the preferences for d. A date with nothing stored yields empty preferences.
func (s *Store) Get(d model.Date) (agenda.DayPreferences, error) {
	if d.IsZero() {
		return agenda.DayPreferences{}, fmt.Errorf("prefs: zero date")
	}
	key := toKey(d)
	if !s.d.Has(key) {
		return agenda.DayPreferences{}, nil
	}
	val, err := s.d.Read(key)
	if err != nil {
		if os.IsNotExist(err) {
			return agenda.DayPreferences{}, nil
		}
		return agenda.DayPreferences{}, fmt.Errorf("reading prefs for %s: %w", d, err)
	}
	var p agenda.DayPreferences
	if err := json.Unmarshal(val, &p); err != nil {
		return agenda.DayPreferences{}, fmt.Errorf("decoding prefs for %s: %w", d, err)
	}
	return p, nil
}

// Put replaces the preferences for d. Empty preferences erase the document.
func (s *Store) Put(d model.Date, p agenda.DayPreferences) error {
	if d.IsZero() {
		return fmt.Errorf("prefs: zero date")
	}
	key := toKey(d)
	if len(p.Order) == 0 && len(p.Times) == 0 {
		if s.d.Has(key) {
			return s.d.Erase(key)
		}
		return nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.d.Write(key, b)
}

// SetTime schedules item id at clock ("HH:MM") on d.
func (s *Store) SetTime(d model.Date, id, clock string) error {
	normalized, ok := model.ParseClock(clock)
	if !ok {
		return fmt.Errorf("invalid time %q, want HH:MM", clock)
	}
	p, err := s.Get(d)
	if err != nil {
		return err
	}
	if p.Times == nil {
		p.Times = map[string]string{}
	}
	p.Times[id] = normalized
	return s.Put(d, p)
}

// ClearTime removes the scheduled time of item id on d.
func (s *Store) ClearTime(d model.Date, id string) error {
	p, err := s.Get(d)
	if err != nil {
		return err
	}
	delete(p.Times, id)
	return s.Put(d, p)
}

// SetOrder stores the manual order of a category on d.
func (s *Store) SetOrder(d model.Date, c agenda.Category, ids []string) error {
	p, err := s.Get(d)
	if err != nil {
		return err
	}
	if p.Order == nil {
		p.Order = map[agenda.Category][]string{}
	}
	if len(ids) == 0 {
		delete(p.Order, c)
	} else {
		p.Order[c] = append([]string(nil), ids...)
	}
	return s.Put(d, p)
}

// Move swaps id with its neighbour in the displayed order of a category (delta -1 for
// up, +1 for down) and stores the result as the manual order. It reports whether
// anything moved.
func (s *Store) Move(d model.Date, c agenda.Category, displayed []string, id string, delta int) (bool, error) {
	idx := -1
	for i, other := range displayed {
		if other == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, fmt.Errorf("%s is not in %s", id, c)
	}
	target := idx + delta
	if target < 0 || target >= len(displayed) {
		return false, nil
	}
	order := append([]string(nil), displayed...)
	order[idx], order[target] = order[target], order[idx]
	return true, s.SetOrder(d, c, order)
}

// Dates lists every date with stored preferences, ascending.
func (s *Store) Dates(ctx context.Context) []model.Date {
	var dates []model.Date
	for key := range s.d.Keys(ctx.Done()) {
		if d, ok := model.ParseDate(strings.TrimPrefix(key, keyPrefix+"-")); ok {
			dates = append(dates, d)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
