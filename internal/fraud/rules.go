package fraud

import (
	"fmt"
	"time"

	"github.com/CodeMesh15/fraud-detection-service/internal/denylist"
	"github.com/CodeMesh15/fraud-detection-service/internal/event"
)

// Rule is a pure scoring heuristic. Evaluate receives the current event
// and the session's full history including that event, and returns nil
// to abstain. Rules must tolerate untrusted client timestamps: negative
// diffs, clock skew, and duplicates never cause an error.
type Rule interface {
	Name() string
	Evaluate(ev *event.Event, history []event.Event, deny *denylist.Denylist) *RuleResult
}

// DefaultRules returns the built-in rules in their fixed evaluation
// order. The order only affects reason ordering, never the score.
func DefaultRules() []Rule {
	return []Rule{
		&DenylistedIPRule{},
		&FastFormSubmissionRule{},
		&EventFloodRule{},
	}
}

// ---------------------------------------------------------------------------
// DenylistedIPRule: event originates from a flagged IP
// ---------------------------------------------------------------------------

const denylistedIPPoints = 50

// DenylistedIPReason is the fixed reason for denylist hits.
const DenylistedIPReason = "IP address is on the blacklist."

type DenylistedIPRule struct{}

func (r *DenylistedIPRule) Name() string { return "denylisted_ip" }

func (r *DenylistedIPRule) Evaluate(ev *event.Event, _ []event.Event, deny *denylist.Denylist) *RuleResult {
	if deny == nil || !deny.Contains(ev.IPAddress) {
		return nil
	}
	return &RuleResult{
		Rule:   r.Name(),
		Points: denylistedIPPoints,
		Reason: DenylistedIPReason,
	}
}

// ---------------------------------------------------------------------------
// FastFormSubmissionRule: form submitted under 1s after page load
// ---------------------------------------------------------------------------

const (
	fastFormPoints       = 40
	fastFormMinDuration  = time.Second
	fastFormReasonFormat = "Form submitted impossibly fast: %dms."
)

type FastFormSubmissionRule struct{}

func (r *FastFormSubmissionRule) Name() string { return "fast_form_submission" }

func (r *FastFormSubmissionRule) Evaluate(ev *event.Event, _ []event.Event, _ *denylist.Denylist) *RuleResult {
	if ev.Type != event.FormSubmission {
		return nil
	}
	pageLoad, ok := ev.PageLoadInstant()
	if !ok {
		return nil // missing or malformed metadata: rule inapplicable
	}

	// Signed diff. A negative value means the submission claims to
	// predate its own page load, which is maximally suspicious and
	// trivially satisfies the threshold.
	diff := ev.Timestamp.Sub(pageLoad)
	if diff >= fastFormMinDuration {
		return nil
	}
	return &RuleResult{
		Rule:   r.Name(),
		Points: fastFormPoints,
		Reason: fmt.Sprintf(fastFormReasonFormat, diff.Milliseconds()),
	}
}

// ---------------------------------------------------------------------------
// EventFloodRule: escalating penalty for abnormal event rate
// ---------------------------------------------------------------------------

const (
	floodWindow       = 5 * time.Second
	floodFreeCount    = 10
	floodPointsPerHit = 5
	floodReasonFormat = "High frequency of events detected: %d in the last 5 seconds."
)

type EventFloodRule struct{}

func (r *EventFloodRule) Name() string { return "event_flood" }

func (r *EventFloodRule) Evaluate(ev *event.Event, history []event.Event, _ *denylist.Denylist) *RuleResult {
	windowStart := ev.Timestamp.Add(-floodWindow)

	// Full-history scan against each event's own claimed timestamp:
	// insertion order is not timestamp order, so no early exit.
	recent := 0
	for i := range history {
		if history[i].Timestamp.After(windowStart) {
			recent++
		}
	}
	if recent <= floodFreeCount {
		return nil
	}
	return &RuleResult{
		Rule:   r.Name(),
		Points: (recent - floodFreeCount) * floodPointsPerHit,
		Reason: fmt.Sprintf(floodReasonFormat, recent),
	}
}
