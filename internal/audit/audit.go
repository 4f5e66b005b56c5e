// Package audit records one write-once event per decision. Sinks are
// best-effort: callers log and discard their errors.
package audit

import (
	"context"
	"time"

	"github.com/ragfw/ragfw/internal/types"
)

type Event struct {
	ID          string          `json:"id"`
	Timestamp   time.Time       `json:"timestamp"`
	ContentHash string          `json:"content_hash,omitempty"`
	Decision    types.Action    `json:"decision"`
	Score       float64         `json:"score"`
	Reasons     []string        `json:"reasons"`
	Findings    []types.Finding `json:"findings"`
	Policy      string          `json:"policy,omitempty"`
}

// Sink accepts concurrent, unordered appends; each record is written atomically.
type Sink interface {
	Append(ctx context.Context, ev Event) error
}

// Tailer returns the most recent n events, oldest first.
type Tailer interface {
	Tail(ctx context.Context, n int) ([]Event, error)
}

// Log is a sink that can also be read back.
type Log interface {
	Sink
	Tailer
}

// Nop discards every event.
type Nop struct{}

func (Nop) Append(context.Context, Event) error        { return nil }
func (Nop) Tail(context.Context, int) ([]Event, error) { return []Event{}, nil }

func lastN(events []Event, n int) []Event {
	if n > 0 && len(events) > n {
		events = events[len(events)-n:]
	}
	if events == nil {
		return []Event{}
	}
	return events
}
