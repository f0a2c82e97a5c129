package agenda

import (
	"cmp"
	"sort"
	"strings"
)

// sortItems orders one category list in place:
//
//  1. overdue, undone items first, oldest first
//  2. undone before done
//  3. manual order, for items that are not overdue
//  4. timed before untimed, earlier time first; untimed by priority, highest first
//  5. shorter duration first; items without a duration last
//
// Ties keep their extraction order.
func sortItems[T Item](items []T, pos map[string]int) {
	sort.SliceStable(items, func(i, j int) bool {
		return compareItems(items[i].Common(), items[j].Common(), pos) < 0
	})
}

func compareItems(a, b *Base, pos map[string]int) int {
	aOver, bOver := a.IsOverdue && !a.IsDone, b.IsOverdue && !b.IsDone
	if aOver != bOver {
		return first(aOver)
	}
	if aOver {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
	} else {
		if a.IsDone != b.IsDone {
			return first(!a.IsDone)
		}
		ai, aok := pos[a.ID]
		bi, bok := pos[b.ID]
		switch {
		case aok && bok:
			if c := cmp.Compare(ai, bi); c != 0 {
				return c
			}
		case aok != bok:
			return first(aok)
		}
	}

	aTimed, bTimed := a.ScheduledTime != "", b.ScheduledTime != ""
	switch {
	case aTimed && bTimed:
		if c := strings.Compare(a.ScheduledTime, b.ScheduledTime); c != 0 {
			return c
		}
	case aTimed != bTimed:
		return first(aTimed)
	default:
		if c := cmp.Compare(b.Priority.Score(), a.Priority.Score()); c != 0 {
			return c
		}
	}

	return compareDuration(a.DurationMinutes, b.DurationMinutes)
}

func compareDuration(a, b int) int {
	switch {
	case a > 0 && b > 0:
		return cmp.Compare(a, b)
	case a > 0:
		return -1
	case b > 0:
		return 1
	}
	return 0
}

// first returns -1 when the left side wins, +1 otherwise.
func first(left bool) int {
	if left {
		return -1
	}
	return 1
}
