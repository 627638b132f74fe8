// Package events publishes expense change notifications to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/LakshyaPuripanda/fenmo-expense-tracker/internal/core/domain"
)

// Type names the kind of change an Event describes.
type Type string

const (
	ExpenseCreated Type = "expense.created"
	ExpenseUpdated Type = "expense.updated"
	ExpenseDeleted Type = "expense.deleted"
)

// Event is the message body published after a successful write.
// Expense is nil for deletions.
type Event struct {
	Type       Type            `json:"type"`
	ExpenseID  string          `json:"expenseId"`
	Expense    *domain.Expense `json:"expense,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent(t Type, expenseID string, expense *domain.Expense) Event {
	return Event{
		Type:       t,
		ExpenseID:  expenseID,
		Expense:    expense,
		OccurredAt: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON decodes an event published by ToJSON.
func EventFromJSON(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NoopPublisher discards every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
