package fraud

import (
	"context"
	"time"

	"github.com/CodeMesh15/fraud-detection-service/internal/denylist"
	"github.com/CodeMesh15/fraud-detection-service/internal/event"
	"github.com/CodeMesh15/fraud-detection-service/internal/history"
	"github.com/CodeMesh15/fraud-detection-service/internal/idgen"
	"github.com/CodeMesh15/fraud-detection-service/internal/logging"
	"github.com/CodeMesh15/fraud-detection-service/internal/metrics"
	"github.com/CodeMesh15/fraud-detection-service/internal/traces"
)

// AlertEmitter receives flagged check results for real-time streaming.
type AlertEmitter interface {
	EmitFraudAlert(result *CheckResult, ev *event.Event)
}

// Analyzer sequences a fraud check: store-append, history read, rule
// evaluation, and aggregation. Evaluation has no failure path: once a
// well-formed event reaches Check, a result always comes back.
type Analyzer struct {
	store     *history.Store
	deny      *denylist.Denylist
	rules     []Rule
	audit     Store
	emitter   AlertEmitter
	threshold int
}

// NewAnalyzer creates an analyzer with the default rule set. audit may
// be nil to disable the result trail.
func NewAnalyzer(store *history.Store, deny *denylist.Denylist, audit Store) *Analyzer {
	return &Analyzer{
		store:     store,
		deny:      deny,
		rules:     DefaultRules(),
		audit:     audit,
		threshold: DefaultFlagThreshold,
	}
}

// WithFlagThreshold overrides the default flag threshold.
func (a *Analyzer) WithFlagThreshold(t int) *Analyzer {
	a.threshold = t
	return a
}

// WithRules replaces the rule set. Used by tests to isolate rules.
func (a *Analyzer) WithRules(rules ...Rule) *Analyzer {
	a.rules = rules
	return a
}

// WithEmitter attaches a real-time alert emitter for flagged results.
func (a *Analyzer) WithEmitter(e AlertEmitter) *Analyzer {
	a.emitter = e
	return a
}

// Check evaluates one event against its session's history and returns
// the scored result. The append and the snapshot it evaluates against
// happen in a single per-session critical section, so the snapshot
// always contains the event itself plus every previously completed
// append. Concurrent requests for the same session can never lose
// writes or observe torn history.
func (a *Analyzer) Check(ctx context.Context, ev *event.Event) *CheckResult {
	ctx, span := traces.StartSpan(ctx, "fraud.check",
		traces.SessionID(ev.SessionID),
		traces.EventType(string(ev.Type)),
	)
	defer span.End()

	snapshot := a.store.AppendAndSnapshot(ev.SessionID, *ev)

	results := make([]*RuleResult, 0, len(a.rules))
	for _, rule := range a.rules {
		r := rule.Evaluate(ev, snapshot, a.deny)
		if r == nil {
			continue
		}
		results = append(results, r)
		metrics.RuleFiredTotal.WithLabelValues(r.Rule).Inc()
	}

	score, flagged, reasons := Aggregate(results, a.threshold)

	result := &CheckResult{
		ID:             idgen.WithPrefix("chk_"),
		SessionID:      ev.SessionID,
		FraudScore:     score,
		Flagged:        flagged,
		Reasons:        reasons,
		CheckTimestamp: time.Now().UTC(),
	}

	metrics.ObserveCheck(score, flagged)
	logging.L(ctx).Info("fraud check complete",
		"session_id", result.SessionID,
		"score", result.FraudScore,
		"flagged", result.Flagged,
	)

	// Persist asynchronously (best-effort audit trail)
	if a.audit != nil {
		go func() {
			_ = a.audit.Record(context.Background(), result)
		}()
	}

	if flagged && a.emitter != nil {
		a.emitter.EmitFraudAlert(result, ev)
	}

	return result
}

// History returns the current snapshot for a session.
func (a *Analyzer) History(sessionID string) []event.Event {
	return a.store.Snapshot(sessionID)
}

// Audit exposes the audit store for read endpoints; nil when disabled.
func (a *Analyzer) Audit() Store {
	return a.audit
}
