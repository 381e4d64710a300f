package bridge

import (
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/applysink/applysink/database"
)

var (
	ErrSessionAlreadyActive = errors.New("an application session is already active for this key")
	ErrUnknownSession       = errors.New("no active application session for this key")
)

// Bridge The one-way channel from the worker threads to the event loop plus the
// per-session signal going the other way. The session table is the only shared
// mutable structure between the two sides; its lock is never held across a
// blocking call.
type Bridge struct {
	mu         sync.Mutex
	sessions   map[database.ApplicationKey]*ApplicationSession
	bufferSize int
}

func NewBridge(bufferSize int) *Bridge {
	return &Bridge{
		sessions:   make(map[database.ApplicationKey]*ApplicationSession),
		bufferSize: bufferSize,
	}
}

// OpenSession Allocates the channel and signal for one run. Fails if a session for
// this key is already live; a second run is rejected, never queued.
func (bridge *Bridge) OpenSession(key database.ApplicationKey) (*ApplicationSession, error) {
	bridge.mu.Lock()
	defer bridge.mu.Unlock()

	if _, ok := bridge.sessions[key]; ok {
		return nil, ErrSessionAlreadyActive
	}

	session := newSession(key, bridge.bufferSize)
	bridge.sessions[key] = session

	log.Infof("[Bridge] Opened session %s for '%s'", session.RunID, key)

	return session, nil
}

// Session Looks up the live session for a key.
func (bridge *Bridge) Session(key database.ApplicationKey) (*ApplicationSession, bool) {
	bridge.mu.Lock()
	defer bridge.mu.Unlock()

	session, ok := bridge.sessions[key]
	return session, ok
}

// Active Snapshot of all live sessions, for the admin view.
func (bridge *Bridge) Active() []*ApplicationSession {
	bridge.mu.Lock()
	defer bridge.mu.Unlock()

	sessions := make([]*ApplicationSession, 0, len(bridge.sessions))
	for _, session := range bridge.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}

func (bridge *Bridge) ActiveCount() int {
	bridge.mu.Lock()
	defer bridge.mu.Unlock()
	return len(bridge.sessions)
}

// Emit Sends an event from the worker side without ever blocking and returns the
// frame stamped with key, sequence number and timestamp, so mirrors forward the
// same frame the session consumer sees. When the buffer is full the oldest
// droppable event is discarded and logged; terminal events and the confirmation
// request are rotated back in and survive.
func (bridge *Bridge) Emit(session *ApplicationSession, event ApplyEvent) ApplyEvent {
	event.Key = session.Key
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	session.emitMu.Lock()
	defer session.emitMu.Unlock()

	// Sequence numbers are handed out under the same lock that orders the sends,
	// so delivery order and sequence order never diverge between producers.
	session.seq++
	event.Seq = session.seq

	select {
	case session.events <- event:
		return event
	default:
	}

	// Buffer is full. Drain it, drop the oldest droppable frame and refill in
	// order, so delivery order and the protected frames both survive.
	buffered := make([]ApplyEvent, 0, cap(session.events))
	for drained := false; !drained; {
		select {
		case old := <-session.events:
			buffered = append(buffered, old)
		default:
			drained = true
		}
	}

	dropped := false
	for _, old := range buffered {
		if !dropped && old.Kind.Droppable() {
			dropped = true
			log.Warnf("[Bridge] '%s' buffer full, dropped event seq=%d kind=%s", session.Key, old.Seq, old.Kind)
			continue
		}
		session.events <- old
	}

	if dropped {
		session.events <- event
		return event
	}

	// Nothing droppable was buffered, which the protocol only allows while the
	// buffer is nearly empty. Give the new frame one non-blocking chance.
	select {
	case session.events <- event:
	default:
		log.Errorf("[Bridge] '%s' buffer full of undroppable events, discarding seq=%d kind=%s", session.Key, event.Seq, event.Kind)
	}
	return event
}

// AwaitConfirmation Blocks the calling worker until the human decides or the window
// lapses. Only ever called from the worker side; the event loop raises the signal
// through Confirm and Cancel and never blocks here.
func (bridge *Bridge) AwaitConfirmation(session *ApplicationSession, timeout time.Duration) Decision {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		session.mu.Lock()
		decision := session.decision
		session.mu.Unlock()

		if decision != DecisionNone {
			return decision
		}

		select {
		case <-session.wake:
		case <-timer.C:
			session.mu.Lock()
			if session.decision == DecisionNone {
				session.decision = DecisionTimedOut
			}
			decision = session.decision
			session.mu.Unlock()
			return decision
		}
	}
}

// Confirm Raises the signal with a confirmed outcome. Returns false if no session is
// live for the key or a decision has already been made, so repeat calls after the
// session closed are harmless.
func (bridge *Bridge) Confirm(key database.ApplicationKey) bool {
	session, ok := bridge.Session(key)
	if !ok {
		return false
	}

	if !session.decide(DecisionConfirmed) {
		return false
	}

	log.Infof("[Bridge] Confirmed session %s for '%s'", session.RunID, key)
	return true
}

// Cancel Raises the signal with a cancelled outcome and removes the session from the
// live table immediately so a new run can start. The worker still owns the channel
// and closes it once it has emitted its terminal event.
func (bridge *Bridge) Cancel(key database.ApplicationKey) bool {
	bridge.mu.Lock()
	session, ok := bridge.sessions[key]
	if ok {
		delete(bridge.sessions, key)
	}
	bridge.mu.Unlock()

	if !ok {
		return false
	}

	session.decide(DecisionCancelled)

	log.Infof("[Bridge] Cancelled session %s for '%s'", session.RunID, key)
	return true
}

// CloseSession Removes the bookkeeping for a finished run and closes the event
// channel so consumers terminate. Always called by the worker in a deferred block,
// a crash never leaks a session.
func (bridge *Bridge) CloseSession(session *ApplicationSession) {
	bridge.mu.Lock()
	if current, ok := bridge.sessions[session.Key]; ok && current == session {
		delete(bridge.sessions, session.Key)
	}
	bridge.mu.Unlock()

	session.close()

	log.Infof("[Bridge] Closed session %s for '%s'", session.RunID, session.Key)
}
