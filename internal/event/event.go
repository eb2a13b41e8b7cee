// Package event defines the behavioral event model ingested by the
// fraud detection engine.
//
// Events are immutable once constructed and carry their own
// source-provided timestamp. The engine never assumes events arrive in
// timestamp order; out-of-order and duplicate timestamps are valid input.
package event

import (
	"fmt"
	"time"
)

// Type classifies a behavioral event.
type Type string

const (
	PageLoad       Type = "PageLoad"
	Click          Type = "Click"
	FormSubmission Type = "FormSubmission"
)

// Valid reports whether t is a known event type.
func (t Type) Valid() bool {
	switch t {
	case PageLoad, Click, FormSubmission:
		return true
	}
	return false
}

// MetaPageLoadTimestamp is the metadata key carrying the page-load
// instant that FormSubmission events are timed against.
const MetaPageLoadTimestamp = "pageLoadTimestamp"

// Event is a single behavioral event within a client session.
type Event struct {
	SessionID string            `json:"sessionId" binding:"required"`
	UserID    string            `json:"userId,omitempty"`
	Type      Type              `json:"eventType" binding:"required"`
	Timestamp time.Time         `json:"timestamp" binding:"required"`
	IPAddress string            `json:"ipAddress" binding:"required"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Validate checks the invariants a well-formed event must satisfy.
// The HTTP boundary calls this before an event reaches the engine.
func (e *Event) Validate() error {
	if e.SessionID == "" {
		return fmt.Errorf("sessionId is required")
	}
	if !e.Type.Valid() {
		return fmt.Errorf("eventType %q is not one of PageLoad, Click, FormSubmission", e.Type)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	if e.IPAddress == "" {
		return fmt.Errorf("ipAddress is required")
	}
	return nil
}

// Clone returns a deep copy. The history store clones on append and
// snapshot so callers can never mutate stored events.
func (e Event) Clone() Event {
	if e.Metadata != nil {
		meta := make(map[string]string, len(e.Metadata))
		for k, v := range e.Metadata {
			meta[k] = v
		}
		e.Metadata = meta
	}
	return e
}

// PageLoadInstant extracts and parses the pageLoadTimestamp metadata
// value. ok is false when the key is absent or unparseable; callers
// treat that as rule-inapplicable, not an error.
func (e *Event) PageLoadInstant() (time.Time, bool) {
	raw, found := e.Metadata[MetaPageLoadTimestamp]
	if !found {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
