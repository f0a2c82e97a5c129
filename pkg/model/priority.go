package model

import "strings"

// Priority ranks an item when neither it nor its neighbour has a scheduled time.
type Priority string

const (
	PriorityNone   Priority = ""
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority accepts high/medium/low in any case; everything else is PriorityNone.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "h":
		return PriorityHigh
	case "medium", "med", "m":
		return PriorityMedium
	case "low", "l":
		return PriorityLow
	default:
		return PriorityNone
	}
}

// Score maps the priority onto 3/2/1/0.
func (p Priority) Score() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

func (p Priority) String() string {
	if p == PriorityNone {
		return "none"
	}
	return string(p)
}
