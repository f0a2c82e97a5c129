package agenda

import "github.com/stefanpenner/daybook/pkg/model"

// parseDate degrades malformed input to the zero date.
func parseDate(s string) model.Date {
	d, _ := model.ParseDate(s)
	return d
}

func sameDay(s string, d model.Date) bool {
	parsed, ok := model.ParseDate(s)
	return ok && parsed.Equal(d)
}

// createdAfter reports whether an entity was created after the selected date. Items
// never appear on days before they existed.
func createdAfter(createdAt string, sel model.Date) bool {
	c, ok := model.ParseDate(createdAt)
	return ok && c.After(sel)
}

func onWeekday(days []int, d model.Date) bool {
	wd := int(d.Weekday())
	for _, day := range days {
		if day == wd {
			return true
		}
	}
	return false
}
