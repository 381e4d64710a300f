package bridge

import (
	"time"

	"github.com/applysink/applysink/database"
)

type EventKind string

const (
	EventProgress           EventKind = "progress"
	EventAwaitingConfirm    EventKind = "awaiting_confirm"
	EventConfirmed          EventKind = "confirmed"
	EventManualIntervention EventKind = "manual_intervention_required"
	EventError              EventKind = "error"
	EventCancelled          EventKind = "cancelled"
	EventTimedOut           EventKind = "timed_out"
	EventDone               EventKind = "done"
	EventAlreadyApplied     EventKind = "already_applied"

	// EventPing Keep-alive frame on the wire, carries no payload semantics.
	EventPing EventKind = "ping"
)

// Terminal A terminal event ends the session. Consumers close their stream after one.
func (kind EventKind) Terminal() bool {
	switch kind {
	case EventDone, EventError, EventCancelled, EventTimedOut, EventAlreadyApplied:
		return true
	}
	return false
}

// Droppable Events that may be discarded when a session buffer overflows.
// Terminal events and the confirmation request must always reach the consumer.
func (kind EventKind) Droppable() bool {
	return !kind.Terminal() && kind != EventAwaitingConfirm
}

// Error categories carried by EventError events.
const (
	CategorySelector   = "selector_not_found"
	CategoryTimeout    = "navigation_timeout"
	CategoryPageState  = "unexpected_page"
	CategoryDriver     = "driver_crash"
	CategoryProvider   = "provider_failure"
	CategoryContract   = "contract_violation"
)

// ApplyEvent One frame of an application run. Produced by worker code, consumed by
// the web layer, never mutated after creation.
type ApplyEvent struct {
	Kind       EventKind               `json:"kind"`
	Key        database.ApplicationKey `json:"applicationKey"`
	Seq        uint64                  `json:"seq"`
	Message    string                  `json:"message,omitempty"`
	HTML       string                  `json:"html,omitempty"`
	Screenshot string                  `json:"screenshot,omitempty"`
	Fields     map[string]string       `json:"fields,omitempty"`
	Category   string                  `json:"category,omitempty"`
	CreatedAt  time.Time               `json:"createdAt"`
}
