package tui

import (
	"strings"

	"github.com/stefanpenner/daybook/pkg/agenda"
	"github.com/stefanpenner/daybook/pkg/model"
	"github.com/stefanpenner/daybook/pkg/store"
)

// Row is one line of the agenda panel: a section header or an item.
type Row struct {
	Category        agenda.Category
	Name            string
	Item            agenda.Item
	IsSectionHeader bool
}

// ID is the item id, or the header's synthetic id.
func (r Row) ID() string {
	if r.IsSectionHeader {
		return "__header_" + string(r.Category)
	}
	return r.Item.Common().ID
}

var sectionNames = map[agenda.Category]string{
	agenda.CategoryIntros:  "INTROS",
	agenda.CategoryReviews: "REVIEWS",
	agenda.CategoryTasks:   "TASKS",
	agenda.CategoryHabits:  "HABITS",
}

// BuildRows flattens a view into sections. Empty sections are omitted. A non-empty query
// keeps only items whose title contains it, case-insensitively.
func BuildRows(v agenda.View, query string) []Row {
	query = strings.ToLower(query)
	var rows []Row
	for _, c := range agenda.Categories {
		var section []Row
		for _, it := range v.List(c) {
			if query != "" && !strings.Contains(strings.ToLower(it.Common().Title), query) {
				continue
			}
			section = append(section, Row{Category: c, Name: it.Common().Title, Item: it})
		}
		if len(section) == 0 {
			continue
		}
		rows = append(rows, Row{Category: c, Name: sectionNames[c], IsSectionHeader: true})
		rows = append(rows, section...)
	}
	return rows
}

// countMatches counts the item rows.
func countMatches(rows []Row) int {
	n := 0
	for _, r := range rows {
		if !r.IsSectionHeader {
			n++
		}
	}
	return n
}

// owner names the entity file backing an item: the theme of an intro or review, the goal
// of a habit or step, the task itself otherwise.
func owner(it agenda.Item) (store.Ref, string) {
	switch v := it.(type) {
	case *agenda.IntroItem:
		return store.RefTheme, v.ThemeID
	case *agenda.ReviewItem:
		return store.RefTheme, v.ThemeID
	case *agenda.HabitItem:
		return store.RefGoal, v.ID
	case *agenda.StepItem:
		return store.RefGoal, v.ParentID
	}
	return store.RefTask, it.Common().ID
}

// deletable names what deleting an item removes. Intros and reviews delete their subtheme.
func deletable(it agenda.Item) (store.Ref, string) {
	switch v := it.(type) {
	case *agenda.IntroItem:
		return store.RefSubtheme, v.SubthemeID
	case *agenda.ReviewItem:
		return store.RefSubtheme, v.SubthemeID
	case *agenda.HabitItem:
		return store.RefGoal, v.ID
	case *agenda.StepItem:
		return store.RefStep, v.ID
	}
	return store.RefTask, it.Common().ID
}

// notesIndex maps entity ids to their note bodies.
func notesIndex(snap *store.Snapshot) map[string]string {
	idx := make(map[string]string)
	for _, t := range snap.Themes {
		idx[t.ID] = t.Notes
	}
	for _, t := range snap.Tasks {
		idx[t.ID] = t.Notes
	}
	for _, g := range snap.Goals {
		idx[g.ID] = g.Notes
	}
	return idx
}

func kindLabel(k model.Kind) string {
	if k == model.KindHabit {
		return "goal"
	}
	return string(k)
}
