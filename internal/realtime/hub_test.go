package realtime

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func testHub() *Hub {
	return NewHub(slog.Default())
}

func alertEvent(sessionID string, score float64) *Event {
	return &Event{
		Type:      EventFraudAlert,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"sessionId":  sessionID,
			"fraudScore": score,
			"flagged":    true,
		},
	}
}

// ---------------------------------------------------------------------------
// shouldSend tests
// ---------------------------------------------------------------------------

func TestShouldSend_AllEvents(t *testing.T) {
	h := testHub()
	client := &Client{sub: Subscription{AllEvents: true}}

	if !h.shouldSend(client, alertEvent("s1", 90)) {
		t.Error("AllEvents client should receive all alerts")
	}
}

func TestShouldSend_SessionFilter(t *testing.T) {
	h := testHub()
	client := &Client{sub: Subscription{SessionIDs: []string{"s1", "s2"}}}

	if !h.shouldSend(client, alertEvent("s1", 90)) {
		t.Error("should receive alerts for watched session s1")
	}
	if !h.shouldSend(client, alertEvent("s2", 90)) {
		t.Error("should receive alerts for watched session s2")
	}
	if h.shouldSend(client, alertEvent("s3", 90)) {
		t.Error("should NOT receive alerts for unwatched sessions")
	}
}

func TestShouldSend_MinScoreFilter(t *testing.T) {
	h := testHub()
	client := &Client{sub: Subscription{MinScore: 80}}

	if !h.shouldSend(client, alertEvent("s1", 90)) {
		t.Error("score 90 meets min score 80")
	}
	if !h.shouldSend(client, alertEvent("s1", 80)) {
		t.Error("score equal to min score passes")
	}
	if h.shouldSend(client, alertEvent("s1", 50)) {
		t.Error("score 50 below min score 80 must be filtered")
	}
}

func TestShouldSend_CombinedFilters(t *testing.T) {
	h := testHub()
	client := &Client{sub: Subscription{SessionIDs: []string{"s1"}, MinScore: 80}}

	if !h.shouldSend(client, alertEvent("s1", 90)) {
		t.Error("matching session and score should pass")
	}
	if h.shouldSend(client, alertEvent("s1", 50)) {
		t.Error("matching session with low score must be filtered")
	}
	if h.shouldSend(client, alertEvent("s2", 90)) {
		t.Error("wrong session must be filtered regardless of score")
	}
}

func TestShouldSend_NonMapDataPasses(t *testing.T) {
	h := testHub()
	client := &Client{sub: Subscription{SessionIDs: []string{"s1"}}}

	ev := &Event{Type: EventFraudAlert, Data: "opaque"}
	if !h.shouldSend(client, ev) {
		t.Error("unfilterable payloads pass through")
	}
}

// ---------------------------------------------------------------------------
// Hub lifecycle
// ---------------------------------------------------------------------------

func TestHub_RegisterBroadcastUnregister(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	client := &Client{hub: h, send: make(chan []byte, 4), sub: Subscription{AllEvents: true}}
	h.register <- client

	h.BroadcastFraudAlert(map[string]interface{}{"sessionId": "s1", "fraudScore": float64(90)})

	select {
	case msg := <-client.send:
		if len(msg) == 0 {
			t.Error("empty broadcast payload")
		}
	case <-time.After(time.Second):
		t.Fatal("broadcast never delivered")
	}

	h.unregister <- client
	// Closed send channel signals unregistration completed
	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected send channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("unregister never processed")
	}
}

func TestHub_StatsCountEvents(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	h.BroadcastFraudAlert(map[string]interface{}{"sessionId": "s1"})

	deadline := time.Now().Add(time.Second)
	for {
		stats := h.Stats()
		if stats["totalEvents"].(int64) == 1 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("stats never updated: %v", stats)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	h := testHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	client := &Client{hub: h, send: make(chan []byte, 1), sub: Subscription{AllEvents: true}}
	h.register <- client

	// Wait for the registration to be processed before shutting down
	deadline := time.Now().Add(time.Second)
	for h.Stats()["connectedClients"].(int) != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hub never stopped")
	}

	select {
	case _, ok := <-client.send:
		if ok {
			t.Error("expected send channel closed on shutdown")
		}
	default:
		t.Error("expected send channel closed on shutdown")
	}
}
