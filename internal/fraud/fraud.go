// Package fraud implements real-time fraud scoring for behavioral
// session events.
//
// Every incoming event is appended to its session's history and then
// evaluated against independent heuristic rules: denylisted source IP,
// impossibly fast form submission, and event flooding. Rule points
// accumulate into an integer score; results above the flag threshold
// are marked fraudulent before the response leaves the service.
package fraud

import (
	"context"
	"time"
)

// DefaultFlagThreshold is the score above which a result is flagged.
// Calibrated to require at least two moderate signals or one severe
// signal plus escalation.
const DefaultFlagThreshold = 60

// NoIssuesReason is emitted when no rule fires, so reasons is never empty.
const NoIssuesReason = "No issues"

// CheckResult is the outcome of evaluating a single event.
type CheckResult struct {
	ID             string    `json:"id"`
	SessionID      string    `json:"sessionId"`
	FraudScore     int       `json:"fraudScore"`
	Flagged        bool      `json:"flagged"`
	Reasons        []string  `json:"reasons"`
	CheckTimestamp time.Time `json:"checkTimestamp"`
}

// RuleResult is a single rule's contribution to a check. Rules return
// nil to abstain; a non-nil result always carries points and a reason.
type RuleResult struct {
	Rule   string
	Points int
	Reason string
}

// Aggregate folds rule results into score, verdict, and reason list.
// Accumulation is commutative; reasons keep rule-evaluation order. The
// threshold comparison is strict: flagged means score > threshold.
func Aggregate(results []*RuleResult, threshold int) (score int, flagged bool, reasons []string) {
	for _, r := range results {
		if r == nil {
			continue
		}
		score += r.Points
		reasons = append(reasons, r.Reason)
	}
	if len(reasons) == 0 {
		reasons = []string{NoIssuesReason}
	}
	return score, score > threshold, reasons
}

// Store persists check results as a best-effort audit trail. The
// analyzer works identically with a nil store.
type Store interface {
	Record(ctx context.Context, result *CheckResult) error
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*CheckResult, error)
}
