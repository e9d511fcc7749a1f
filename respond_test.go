package whereabouts

import (
	"strings"
	"testing"
	"time"
)

func TestRespondBeforeAnyFix(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	responder := NewResponder(tracker, nil)

	reply, err := responder.Respond("42", "where am i")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if reply != replyNoLocation {
		t.Errorf("Got %q, want the share prompt", reply)
	}
}

func TestRespondWithActiveFix(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	responder := NewResponder(tracker, nil)

	if _, err := tracker.ApplyFix("42", NewFix(37.7, -122.4), 0); err != nil {
		t.Fatalf("ApplyFix failed: %v", err)
	}

	reply, err := responder.Respond("42", "where am i")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if !strings.Contains(reply, "37.7") || !strings.Contains(reply, "-122.4") {
		t.Errorf("Reply %q does not contain the coordinates", reply)
	}
}

func TestRespondExpiresStaleLiveShare(t *testing.T) {
	tracker, mem, clock := newTestTracker(t)
	responder := NewResponder(tracker, nil)

	if _, err := tracker.ApplyFix("42", NewFix(37.7, -122.4), 60*time.Second); err != nil {
		t.Fatalf("ApplyFix failed: %v", err)
	}
	clock.Advance(2 * time.Minute)

	// First query after the window elapses: expiry notice, session cleared.
	reply, err := responder.Respond("42", "where am i")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if reply != replyExpired {
		t.Errorf("Got %q, want the expiry notice", reply)
	}

	records, _ := mem.Load()
	if rec := records["42"]; rec.HasFix() {
		t.Errorf("Expiry was not written through: %+v", rec)
	}

	// Second query: back to the share prompt.
	reply, err = responder.Respond("42", "where am i")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if reply != replyNoLocation {
		t.Errorf("Got %q, want the share prompt", reply)
	}
}

func TestRespondToUnrelatedText(t *testing.T) {
	tracker, _, _ := newTestTracker(t)
	responder := NewResponder(tracker, nil)

	if _, err := tracker.ApplyFix("42", NewFix(37.7, -122.4), 60*time.Second); err != nil {
		t.Fatalf("ApplyFix failed: %v", err)
	}

	reply, err := responder.Respond("42", "hello there")
	if err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if reply != replyGenericPrompt {
		t.Errorf("Got %q, want the generic prompt", reply)
	}

	// Unrelated text never touches the session.
	session, _ := tracker.Session("42")
	if session.Coordinate == nil || session.LiveExpiry == nil {
		t.Error("Generic chat mutated the session")
	}
}
