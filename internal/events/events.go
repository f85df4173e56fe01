// Package events describes the notifications emitted after every successful
// change to categories or expenses.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Type is also used as the AMQP routing key.
type Type string

const (
	ExpenseCreated  Type = "expense.created"
	ExpenseUpdated  Type = "expense.updated"
	ExpenseDeleted  Type = "expense.deleted"
	CategoryCreated Type = "category.created"
	CategoryRenamed Type = "category.renamed"
	CategoryDeleted Type = "category.deleted"
)

// Event is a lightweight change notification. Data carries the entity after
// the change, or nothing for deletions.
type Event struct {
	Type      Type      `json:"type"`
	EntityID  string    `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// New stamps an event with the current time.
func New(t Type, id string, data any) Event {
	return Event{Type: t, EntityID: id, Timestamp: time.Now().UTC(), Data: data}
}

// ToJSON converts the event to JSON bytes
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events to interested parties.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory. Useful in tests.
type Recorder struct {
	Events []Event
	Err    error
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.Events = append(r.Events, e)
	return r.Err
}

// Types lists the recorded event types in publish order.
func (r *Recorder) Types() []Type {
	out := make([]Type, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Type
	}
	return out
}
