// Package history owns the per-session event log the fraud engine
// correlates against.
//
// The store is append-only for the process lifetime: events are never
// mutated or reordered once appended, and insertion order is preserved
// regardless of the timestamps events claim. Append and the snapshot
// read made by the same request are linearizable per session, so a
// request always observes its own append plus every append that
// completed before it. Independent sessions only contend when they hash
// to the same lock shard.
package history

import (
	"sync"

	"github.com/CodeMesh15/fraud-detection-service/internal/event"
	"github.com/CodeMesh15/fraud-detection-service/internal/syncutil"
)

// Store maps session IDs to their ordered event history.
type Store struct {
	locks    syncutil.ShardedMutex
	sessions sync.Map // map[string]*sessionLog

	// maxEvents caps retained events per session; 0 means unlimited.
	// When the cap is hit the oldest events are dropped, never the one
	// being appended.
	maxEvents int
}

type sessionLog struct {
	events []event.Event
}

// Option configures the store.
type Option func(*Store)

// WithMaxEvents bounds per-session retention. Unlimited growth is the
// documented default; production deployments should set a cap.
func WithMaxEvents(n int) Option {
	return func(s *Store) {
		s.maxEvents = n
	}
}

// NewStore creates an empty session history store.
func NewStore(opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append adds an event to the session's history.
func (s *Store) Append(sessionID string, ev event.Event) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()
	s.appendLocked(sessionID, ev)
}

// Snapshot returns a copy of the session's history in insertion order.
// Unknown sessions yield an empty slice, not an error.
func (s *Store) Snapshot(sessionID string) []event.Event {
	unlock := s.locks.Lock(sessionID)
	defer unlock()
	return s.snapshotLocked(sessionID)
}

// AppendAndSnapshot appends the event and returns the updated history
// in one critical section, so the snapshot is guaranteed to include the
// append it was paired with and no concurrent append can interleave.
func (s *Store) AppendAndSnapshot(sessionID string, ev event.Event) []event.Event {
	unlock := s.locks.Lock(sessionID)
	defer unlock()
	s.appendLocked(sessionID, ev)
	return s.snapshotLocked(sessionID)
}

// Len returns the number of events recorded for a session.
func (s *Store) Len(sessionID string) int {
	unlock := s.locks.Lock(sessionID)
	defer unlock()
	log, ok := s.load(sessionID)
	if !ok {
		return 0
	}
	return len(log.events)
}

// Events returns the total number of events tracked across all sessions.
func (s *Store) Events() int {
	n := 0
	s.sessions.Range(func(k, _ any) bool {
		n += s.Len(k.(string))
		return true
	})
	return n
}

// Sessions returns the number of sessions currently tracked.
func (s *Store) Sessions() int {
	n := 0
	s.sessions.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (s *Store) appendLocked(sessionID string, ev event.Event) {
	log := s.loadOrCreate(sessionID)
	log.events = append(log.events, ev.Clone())
	if s.maxEvents > 0 && len(log.events) > s.maxEvents {
		drop := len(log.events) - s.maxEvents
		log.events = append([]event.Event(nil), log.events[drop:]...)
	}
}

func (s *Store) snapshotLocked(sessionID string) []event.Event {
	log, ok := s.load(sessionID)
	if !ok {
		return []event.Event{}
	}
	out := make([]event.Event, len(log.events))
	for i, ev := range log.events {
		out[i] = ev.Clone()
	}
	return out
}

func (s *Store) load(sessionID string) (*sessionLog, bool) {
	v, ok := s.sessions.Load(sessionID)
	if !ok {
		return nil, false
	}
	return v.(*sessionLog), true
}

func (s *Store) loadOrCreate(sessionID string) *sessionLog {
	v, _ := s.sessions.LoadOrStore(sessionID, &sessionLog{})
	return v.(*sessionLog)
}
