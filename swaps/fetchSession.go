package swaps

import (
	"sync"

	"github.com/google/uuid"
)

// SessionState is the completion state of a fetch session
type SessionState string

const (
	// SessionPending means the session is still in flight and no newer session exists
	SessionPending SessionState = "pending"
	// SessionCompleted means the session results were accepted
	SessionCompleted SessionState = "completed"
	// SessionSuperseded means a newer session was created before this one completed
	SessionSuperseded SessionState = "superseded"
)

// FetchSession is one logical quotes fetch for a swap request
type FetchSession struct {
	ID       string
	Sequence uint64
	Params   SwapRequestParams

	tracker   *sessionTracker
	completed bool
}

// State returns the current session state
func (session *FetchSession) State() SessionState {
	session.tracker.mut.Lock()
	defer session.tracker.mut.Unlock()

	return session.stateUnprotected()
}

func (session *FetchSession) stateUnprotected() SessionState {
	if session.completed {
		return SessionCompleted
	}
	if session.Sequence < session.tracker.latest {
		return SessionSuperseded
	}

	return SessionPending
}

// sessionTracker owns the monotonic sequence counter. Only the most recently created session can be committed
type sessionTracker struct {
	mut    sync.Mutex
	latest uint64
}

func newSessionTracker() *sessionTracker {
	return &sessionTracker{}
}

// newSession creates the next session. The onCreate handler, if set, runs under the tracker lock so it observes
// the sessions creation order
func (tracker *sessionTracker) newSession(params SwapRequestParams, onCreate func()) *FetchSession {
	tracker.mut.Lock()
	defer tracker.mut.Unlock()

	tracker.latest++
	session := &FetchSession{
		ID:       uuid.New().String(),
		Sequence: tracker.latest,
		Params:   params.clone(),
		tracker:  tracker,
	}
	if onCreate != nil {
		onCreate()
	}

	return session
}

// commit runs apply only if the session is still the newest one and marks it as completed. It returns false,
// without calling apply, if the session was superseded
func (tracker *sessionTracker) commit(session *FetchSession, apply func()) bool {
	tracker.mut.Lock()
	defer tracker.mut.Unlock()

	if session.stateUnprotected() != SessionPending {
		return false
	}

	if apply != nil {
		apply()
	}
	session.completed = true

	return true
}

func (tracker *sessionTracker) latestSequence() uint64 {
	tracker.mut.Lock()
	defer tracker.mut.Unlock()

	return tracker.latest
}
