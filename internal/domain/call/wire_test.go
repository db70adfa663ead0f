package call_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/konekt/konekt-api/internal/domain/call"
)

// Clients are written against these names; they are part of the wire
// contract and must not drift.
func TestRealtimeEventNames(t *testing.T) {
	events := map[string]string{
		call.EventIncomingCall: "incomingCall",
		call.EventCallAccepted: "callAccepted",
		call.EventCallDeclined: "callDeclined",
		call.EventCallEnded:    "callEnded",
		call.EventCallMissed:   "callMissed",
	}
	for got, want := range events {
		if got != want {
			t.Errorf("event name %q, want %q", got, want)
		}
	}
}

func TestSessionWireShape(t *testing.T) {
	session := &call.Session{
		ID:       uuid.New(),
		RoomID:   uuid.New(),
		CallerID: uuid.New(),
		CalleeID: uuid.New(),
		Type:     call.TypeAudio,
		Status:   call.StatusEnded,
		Duration: 42,
	}
	session.CreatedAt = time.Now()

	data, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("marshal session: %v", err)
	}

	var wire map[string]interface{}
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal session: %v", err)
	}

	for _, key := range []string{"callId", "status", "duration"} {
		if _, ok := wire[key]; !ok {
			t.Errorf("wire shape missing %q key: %s", key, data)
		}
	}
	if _, ok := wire["call_id"]; ok {
		t.Errorf("wire shape still exposes snake_case call_id: %s", data)
	}
	if wire["duration"] != float64(42) {
		t.Errorf("duration = %v, want 42", wire["duration"])
	}
}
