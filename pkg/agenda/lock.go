package agenda

import (
	"fmt"

	"github.com/stefanpenner/daybook/pkg/model"
)

// Lock reasons.
const (
	reasonScheduled = "scheduled for %s"
	reasonStarts    = "starts on %s"
	reasonReview    = "next review on %s"

	ReasonFinishOverdue = "finish overdue items first"
)

// Lock is the outcome of EvaluateLock.
type Lock struct {
	Locked bool   `json:"locked"`
	Reason string `json:"reason,omitempty"`
}

// LockContext is the date context a lock is evaluated in. OverdueGate is set when the
// agenda being resolved for today holds overdue work in the item's scope.
type LockContext struct {
	Today       model.Date
	Selected    model.Date
	OverdueGate bool
}

// EvaluateLock decides whether item can be acted on. Conditions are checked from the
// highest precedence down and only the first that applies is reported:
// future-scheduled, not yet started, overdue work pending, review not yet due.
func EvaluateLock(item Item, ctx LockContext) Lock {
	b := item.Common()
	if b.IsDone {
		return Lock{}
	}
	if !b.Date.IsZero() && b.Date.After(ctx.Today) {
		return locked(reasonScheduled, b.Date)
	}
	if !b.StartDate.IsZero() && b.StartDate.After(ctx.Today) {
		return locked(reasonStarts, b.StartDate)
	}
	if ctx.OverdueGate && ctx.Selected.Equal(ctx.Today) && !b.IsOverdue {
		return Lock{Locked: true, Reason: ReasonFinishOverdue}
	}
	if r, ok := item.(*ReviewItem); ok && !r.ScheduledDate.IsZero() && r.ScheduledDate.After(ctx.Today) {
		return locked(reasonReview, r.ScheduledDate)
	}
	return Lock{}
}

func locked(format string, d model.Date) Lock {
	return Lock{Locked: true, Reason: fmt.Sprintf(format, d.String())}
}
