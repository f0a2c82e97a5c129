package agenda

import (
	"time"

	"github.com/stefanpenner/daybook/pkg/model"
)

// DayPreferences are the user's choices for a single date: a manual order per category
// and clock times per item id.
type DayPreferences struct {
	Order map[Category][]string `json:"order,omitempty"`
	Times map[string]string     `json:"times,omitempty"`
}

// TimeFor returns the scheduled "HH:MM" for id, if one is set and well formed.
func (p DayPreferences) TimeFor(id string) (string, bool) {
	raw, ok := p.Times[id]
	if !ok {
		return "", false
	}
	return model.ParseClock(raw)
}

// positions maps each id in the category's manual order to its index.
func (p DayPreferences) positions(c Category) map[string]int {
	ids := p.Order[c]
	if len(ids) == 0 {
		return nil
	}
	pos := make(map[string]int, len(ids))
	for i, id := range ids {
		if _, dup := pos[id]; !dup {
			pos[id] = i
		}
	}
	return pos
}

// Clone returns a deep copy.
func (p DayPreferences) Clone() DayPreferences {
	out := DayPreferences{}
	if p.Order != nil {
		out.Order = make(map[Category][]string, len(p.Order))
		for k, v := range p.Order {
			out.Order[k] = append([]string(nil), v...)
		}
	}
	if p.Times != nil {
		out.Times = make(map[string]string, len(p.Times))
		for k, v := range p.Times {
			out.Times[k] = v
		}
	}
	return out
}

// ActiveFocus identifies the single item currently under a focus session.
type ActiveFocus struct {
	ItemID          string     `yaml:"item_id" json:"itemId"`
	Kind            model.Kind `yaml:"kind" json:"kind"`
	ParentID        string     `yaml:"parent_id,omitempty" json:"parentId,omitempty"`
	Title           string     `yaml:"title" json:"title"`
	DurationMinutes int        `yaml:"duration_minutes" json:"durationMinutes"`
	StartedAt       time.Time  `yaml:"started_at" json:"startedAt"`
}

// Matches reports whether the focus session is bound to the given item.
func (f *ActiveFocus) Matches(kind model.Kind, id string) bool {
	return f != nil && f.Kind == kind && f.ItemID == id
}
