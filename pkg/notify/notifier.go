// Package notify reminds the user of timed agenda items and sends a daily summary,
// driven by a cron scheduler.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Message is one notification. Lines are rendered as a list under the title.
type Message struct {
	Title string
	Lines []string
}

func (m Message) String() string {
	if len(m.Lines) == 0 {
		return m.Title
	}
	return m.Title + "\n" + strings.Join(m.Lines, "\n")
}

// Notifier delivers messages.
type Notifier interface {
	Notify(ctx context.Context, m Message) error
}

// Terminal writes colored messages to a writer.
type Terminal struct {
	Out io.Writer

	title *color.Color
}

// NewTerminal writes to out, typically color.Output.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{Out: out, title: color.New(color.FgCyan, color.Bold)}
}

func (t *Terminal) Notify(_ context.Context, m Message) error {
	if _, err := t.title.Fprintln(t.Out, "🔔 "+m.Title); err != nil {
		return err
	}
	for _, l := range m.Lines {
		if _, err := fmt.Fprintln(t.Out, "   "+l); err != nil {
			return err
		}
	}
	return nil
}

// Multi fans a message out to several notifiers and joins their errors.
type Multi []Notifier

func (ms Multi) Notify(ctx context.Context, m Message) error {
	var errs []error
	for _, n := range ms {
		if err := n.Notify(ctx, m); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
