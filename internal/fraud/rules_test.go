package fraud

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/CodeMesh15/fraud-detection-service/internal/denylist"
	"github.com/CodeMesh15/fraud-detection-service/internal/event"
)

func testEvent(sessionID string, typ event.Type, ts time.Time, ip string) *event.Event {
	return &event.Event{
		SessionID: sessionID,
		Type:      typ,
		Timestamp: ts,
		IPAddress: ip,
	}
}

// ---------------------------------------------------------------------------
// DenylistedIPRule
// ---------------------------------------------------------------------------

func TestDenylistedIP_Hit(t *testing.T) {
	rule := &DenylistedIPRule{}
	deny := denylist.New("1.1.1.1", "2.2.2.2")

	ev := testEvent("s1", event.PageLoad, time.Now(), "1.1.1.1")
	result := rule.Evaluate(ev, nil, deny)

	if result == nil {
		t.Fatal("expected rule to fire for denylisted IP")
	}
	if result.Points != 50 {
		t.Errorf("expected 50 points, got %d", result.Points)
	}
	if result.Reason != DenylistedIPReason {
		t.Errorf("unexpected reason: %q", result.Reason)
	}
}

func TestDenylistedIP_Miss(t *testing.T) {
	rule := &DenylistedIPRule{}
	deny := denylist.New("1.1.1.1")

	ev := testEvent("s1", event.PageLoad, time.Now(), "8.8.8.8")
	if result := rule.Evaluate(ev, nil, deny); result != nil {
		t.Errorf("expected abstain for clean IP, got %+v", result)
	}
}

func TestDenylistedIP_NilDenylist(t *testing.T) {
	rule := &DenylistedIPRule{}
	ev := testEvent("s1", event.PageLoad, time.Now(), "1.1.1.1")
	if result := rule.Evaluate(ev, nil, nil); result != nil {
		t.Errorf("expected abstain with nil denylist, got %+v", result)
	}
}

// ---------------------------------------------------------------------------
// FastFormSubmissionRule
// ---------------------------------------------------------------------------

func formEvent(ts time.Time, pageLoad string) *event.Event {
	ev := testEvent("s1", event.FormSubmission, ts, "10.0.0.1")
	if pageLoad != "" {
		ev.Metadata = map[string]string{event.MetaPageLoadTimestamp: pageLoad}
	}
	return ev
}

func TestFastForm_FiresUnderOneSecond(t *testing.T) {
	rule := &FastFormSubmissionRule{}
	now := time.Now().UTC()

	ev := formEvent(now, now.Add(-500*time.Millisecond).Format(time.RFC3339Nano))
	result := rule.Evaluate(ev, nil, nil)

	if result == nil {
		t.Fatal("expected rule to fire for 500ms submission")
	}
	if result.Points != 40 {
		t.Errorf("expected 40 points, got %d", result.Points)
	}
	if !strings.Contains(result.Reason, "500ms") {
		t.Errorf("reason should carry the millisecond diff, got %q", result.Reason)
	}
}

func TestFastForm_AbstainsAtOneSecond(t *testing.T) {
	rule := &FastFormSubmissionRule{}
	now := time.Now().UTC()

	ev := formEvent(now, now.Add(-time.Second).Format(time.RFC3339Nano))
	if result := rule.Evaluate(ev, nil, nil); result != nil {
		t.Errorf("exactly 1000ms is not impossibly fast, got %+v", result)
	}
}

func TestFastForm_FiresAt999ms(t *testing.T) {
	rule := &FastFormSubmissionRule{}
	now := time.Now().UTC()

	ev := formEvent(now, now.Add(-999*time.Millisecond).Format(time.RFC3339Nano))
	if rule.Evaluate(ev, nil, nil) == nil {
		t.Error("999ms should fire")
	}
}

func TestFastForm_NegativeDiffFires(t *testing.T) {
	rule := &FastFormSubmissionRule{}
	now := time.Now().UTC()

	// Submission claims to predate its own page load
	ev := formEvent(now, now.Add(2*time.Second).Format(time.RFC3339Nano))
	result := rule.Evaluate(ev, nil, nil)

	if result == nil {
		t.Fatal("negative diff should fire")
	}
	if !strings.Contains(result.Reason, "-2000ms") {
		t.Errorf("reason should carry the signed diff, got %q", result.Reason)
	}
}

func TestFastForm_IgnoresOtherEventTypes(t *testing.T) {
	rule := &FastFormSubmissionRule{}
	now := time.Now().UTC()

	ev := testEvent("s1", event.Click, now, "10.0.0.1")
	ev.Metadata = map[string]string{event.MetaPageLoadTimestamp: now.Format(time.RFC3339Nano)}

	if result := rule.Evaluate(ev, nil, nil); result != nil {
		t.Errorf("rule only applies to FormSubmission, got %+v", result)
	}
}

func TestFastForm_AbstainsOnMissingMetadata(t *testing.T) {
	rule := &FastFormSubmissionRule{}
	ev := formEvent(time.Now(), "")
	if result := rule.Evaluate(ev, nil, nil); result != nil {
		t.Errorf("missing metadata should abstain, got %+v", result)
	}
}

func TestFastForm_AbstainsOnMalformedMetadata(t *testing.T) {
	rule := &FastFormSubmissionRule{}
	ev := formEvent(time.Now(), "not-a-timestamp")
	if result := rule.Evaluate(ev, nil, nil); result != nil {
		t.Errorf("malformed metadata should abstain, got %+v", result)
	}
}

// ---------------------------------------------------------------------------
// EventFloodRule
// ---------------------------------------------------------------------------

func burst(n int, base time.Time, spacing time.Duration) []event.Event {
	events := make([]event.Event, n)
	for i := 0; i < n; i++ {
		events[i] = *testEvent("s1", event.Click, base.Add(time.Duration(i)*spacing), "10.0.0.1")
	}
	return events
}

func TestFlood_AbstainsAtFreeCount(t *testing.T) {
	rule := &EventFloodRule{}
	base := time.Now().UTC()

	// Exactly 10 events inside the window, current event last
	history := burst(10, base, 100*time.Millisecond)
	ev := &history[9]

	if result := rule.Evaluate(ev, history, nil); result != nil {
		t.Errorf("10 events in window should abstain, got %+v", result)
	}
}

func TestFlood_EscalatingPenalty(t *testing.T) {
	rule := &EventFloodRule{}
	base := time.Now().UTC()

	for _, tc := range []struct {
		count  int
		points int
	}{
		{11, 5},
		{12, 10},
		{20, 50},
	} {
		history := burst(tc.count, base, 10*time.Millisecond)
		ev := &history[tc.count-1]

		result := rule.Evaluate(ev, history, nil)
		if result == nil {
			t.Fatalf("%d events should fire", tc.count)
		}
		if result.Points != tc.points {
			t.Errorf("%d events: expected %d points, got %d", tc.count, tc.points, result.Points)
		}
		want := fmt.Sprintf("High frequency of events detected: %d in the last 5 seconds.", tc.count)
		if result.Reason != want {
			t.Errorf("unexpected reason: %q", result.Reason)
		}
	}
}

func TestFlood_OldEventsExcluded(t *testing.T) {
	rule := &EventFloodRule{}
	base := time.Now().UTC()

	// 15 events an hour ago plus 5 recent ones
	history := burst(15, base.Add(-time.Hour), 10*time.Millisecond)
	recent := burst(5, base, 10*time.Millisecond)
	history = append(history, recent...)
	ev := &history[len(history)-1]

	if result := rule.Evaluate(ev, history, nil); result != nil {
		t.Errorf("only 5 events in window, got %+v", result)
	}
}

func TestFlood_WindowBoundaryExclusive(t *testing.T) {
	rule := &EventFloodRule{}
	base := time.Now().UTC()

	// 11 events exactly 5s before the current event sit on the boundary
	// and do not count; only the current event is inside the window.
	history := burst(11, base.Add(-5*time.Second), 0)
	current := *testEvent("s1", event.Click, base, "10.0.0.1")
	history = append(history, current)

	if result := rule.Evaluate(&current, history, nil); result != nil {
		t.Errorf("boundary events should not count, got %+v", result)
	}
}

func TestFlood_OutOfOrderHistoryCounted(t *testing.T) {
	rule := &EventFloodRule{}
	base := time.Now().UTC()

	// Events arrived out of timestamp order: newest first in insertion
	// order. The rule must scan everything, not stop at the first stale
	// timestamp.
	history := burst(12, base, 10*time.Millisecond)
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	ev := &history[0] // newest event, now first

	result := rule.Evaluate(ev, history, nil)
	if result == nil {
		t.Fatal("flood should fire regardless of insertion order")
	}
	if result.Points != 10 {
		t.Errorf("expected 10 points for 12 events, got %d", result.Points)
	}
}

// ---------------------------------------------------------------------------
// Aggregate
// ---------------------------------------------------------------------------

func TestAggregate_Empty(t *testing.T) {
	score, flagged, reasons := Aggregate(nil, DefaultFlagThreshold)
	if score != 0 || flagged {
		t.Errorf("empty results: got score=%d flagged=%v", score, flagged)
	}
	if len(reasons) != 1 || reasons[0] != NoIssuesReason {
		t.Errorf("expected [%q], got %v", NoIssuesReason, reasons)
	}
}

func TestAggregate_ThresholdStrict(t *testing.T) {
	at := []*RuleResult{{Rule: "a", Points: 60, Reason: "r"}}
	if _, flagged, _ := Aggregate(at, 60); flagged {
		t.Error("score equal to threshold must not flag")
	}

	over := []*RuleResult{{Rule: "a", Points: 61, Reason: "r"}}
	if _, flagged, _ := Aggregate(over, 60); !flagged {
		t.Error("score above threshold must flag")
	}
}

func TestAggregate_SumsAndOrdersReasons(t *testing.T) {
	results := []*RuleResult{
		{Rule: "a", Points: 50, Reason: "first"},
		nil,
		{Rule: "b", Points: 40, Reason: "second"},
	}
	score, flagged, reasons := Aggregate(results, DefaultFlagThreshold)
	if score != 90 {
		t.Errorf("expected score 90, got %d", score)
	}
	if !flagged {
		t.Error("90 > 60 must flag")
	}
	if len(reasons) != 2 || reasons[0] != "first" || reasons[1] != "second" {
		t.Errorf("reasons must keep evaluation order, got %v", reasons)
	}
}
