package bridge

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/applysink/applysink/database"
)

// Decision The outcome of the confirmation gate as seen by the blocked worker.
type Decision int

const (
	DecisionNone Decision = iota
	DecisionConfirmed
	DecisionCancelled
	DecisionTimedOut
)

func (decision Decision) String() string {
	switch decision {
	case DecisionConfirmed:
		return "confirmed"
	case DecisionCancelled:
		return "cancelled"
	case DecisionTimedOut:
		return "timed_out"
	}
	return "none"
}

// ApplicationSession The live state of one in-flight application run: the bounded
// event channel crossing from the worker to the event loop, and the decision signal
// crossing the other way. At most one session exists per application key.
type ApplicationSession struct {
	Key       database.ApplicationKey `json:"applicationKey"`
	RunID     string                  `json:"runId"`
	CreatedAt time.Time               `json:"createdAt"`

	events    chan ApplyEvent
	closeOnce sync.Once

	// emitMu serializes producers so the drop-oldest overflow handling below
	// never races another send.
	emitMu sync.Mutex
	seq    uint64

	mu       sync.Mutex
	decision Decision
	wake     chan struct{}
}

func newSession(key database.ApplicationKey, bufferSize int) *ApplicationSession {
	return &ApplicationSession{
		Key:       key,
		RunID:     uuid.NewString(),
		CreatedAt: time.Now(),
		events:    make(chan ApplyEvent, bufferSize),
		wake:      make(chan struct{}, 1),
	}
}

// Events The consumer side of the session channel. The channel is closed after the
// worker has emitted its terminal event, so ranging over it terminates.
func (session *ApplicationSession) Events() <-chan ApplyEvent {
	return session.events
}

// Decision Returns the current decision without consuming it. Providers poll this
// at suspension points to observe cancellation cooperatively.
func (session *ApplicationSession) Decision() Decision {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.decision
}

// decide Raises the signal. Returns false if a decision was already made, except
// that a cancellation may overrule a confirmation the worker has not acted on yet.
func (session *ApplicationSession) decide(decision Decision) bool {
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.decision != DecisionNone {
		// Cancel wins a confirm/cancel race.
		if decision != DecisionCancelled || session.decision != DecisionConfirmed {
			return false
		}
	}
	session.decision = decision

	select {
	case session.wake <- struct{}{}:
	default:
	}

	return true
}

func (session *ApplicationSession) close() {
	session.closeOnce.Do(func() {
		close(session.events)
	})
}
