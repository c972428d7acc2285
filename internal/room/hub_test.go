package room

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeEndpoint records every frame it accepts. failSends makes Send error,
// simulating a dead or backed-up connection.
type fakeEndpoint struct {
	mu        sync.Mutex
	frames    []WSMessage
	failSends bool
	closed    bool
}

func (f *fakeEndpoint) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSends {
		return errors.New("send failed")
	}
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	f.frames = append(f.frames, msg)
	return nil
}

func (f *fakeEndpoint) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeEndpoint) events() []WSMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]WSMessage, len(f.frames))
	copy(out, f.frames)
	return out
}

func (f *fakeEndpoint) eventsOfType(eventType string) []WSMessage {
	var out []WSMessage
	for _, msg := range f.events() {
		if msg.Type == eventType {
			out = append(out, msg)
		}
	}
	return out
}

func (f *fakeEndpoint) lastEvent(t *testing.T, eventType string) WSMessage {
	t.Helper()
	matches := f.eventsOfType(eventType)
	if len(matches) == 0 {
		t.Fatalf("no %q event received, got %v", eventType, f.events())
	}
	return matches[len(matches)-1]
}

func decodePayload(t *testing.T, msg WSMessage, out any) {
	t.Helper()
	if err := json.Unmarshal(msg.Data, out); err != nil {
		t.Fatalf("decoding %q payload: %v", msg.Type, err)
	}
}

func TestHubBroadcastReachesAllInRoom(t *testing.T) {
	h := NewHub()
	a, b, other := &fakeEndpoint{}, &fakeEndpoint{}, &fakeEndpoint{}
	h.Register("r1", "a", a)
	h.Register("r1", "b", b)
	h.Register("r2", "c", other)

	msg, _ := encodeEvent(TypeClearCanvas, nil)
	h.Broadcast("r1", msg)

	if len(a.events()) != 1 || len(b.events()) != 1 {
		t.Errorf("room members got %d/%d frames, want 1/1", len(a.events()), len(b.events()))
	}
	if len(other.events()) != 0 {
		t.Error("broadcast leaked into a different room")
	}
}

func TestHubBroadcastExceptSkipsSender(t *testing.T) {
	h := NewHub()
	a, b := &fakeEndpoint{}, &fakeEndpoint{}
	h.Register("r1", "a", a)
	h.Register("r1", "b", b)

	msg, _ := encodeEvent(TypeDrawData, json.RawMessage(`{"x":1}`))
	h.BroadcastExcept("r1", "a", msg)

	if len(a.events()) != 0 {
		t.Error("excluded player received the frame")
	}
	if len(b.events()) != 1 {
		t.Errorf("other player got %d frames, want 1", len(b.events()))
	}
}

func TestHubUnicast(t *testing.T) {
	h := NewHub()
	a, b := &fakeEndpoint{}, &fakeEndpoint{}
	h.Register("r1", "a", a)
	h.Register("r1", "b", b)

	msg, _ := encodeEvent(TypeWordToDraw, WordToDrawPayload{Word: "cat"})
	h.Unicast("r1", "a", msg)
	h.Unicast("r1", "missing", msg)

	if len(a.events()) != 1 {
		t.Errorf("target got %d frames, want 1", len(a.events()))
	}
	if len(b.events()) != 0 {
		t.Error("unicast reached the wrong player")
	}
}

func TestHubUnregisterClosesEndpoint(t *testing.T) {
	h := NewHub()
	a := &fakeEndpoint{}
	h.Register("r1", "a", a)

	h.Unregister("r1", "a")
	h.Unregister("r1", "a")

	a.mu.Lock()
	closed := a.closed
	a.mu.Unlock()
	if !closed {
		t.Error("Unregister did not close the endpoint")
	}

	msg, _ := encodeEvent(TypeClearCanvas, nil)
	h.Broadcast("r1", msg)
	if len(a.events()) != 0 {
		t.Error("unregistered endpoint still receives frames")
	}
}

func TestHubSendFailureIsIsolated(t *testing.T) {
	h := NewHub()
	failed := make(chan string, 1)
	h.SetSendFailureHandler(func(roomID, playerID string) {
		failed <- roomID + "/" + playerID
	})

	bad, good := &fakeEndpoint{failSends: true}, &fakeEndpoint{}
	h.Register("r1", "bad", bad)
	h.Register("r1", "good", good)

	msg, _ := encodeEvent(TypeClearCanvas, nil)
	h.Broadcast("r1", msg)

	if len(good.events()) != 1 {
		t.Errorf("healthy endpoint got %d frames, want 1", len(good.events()))
	}

	select {
	case got := <-failed:
		if got != "r1/bad" {
			t.Errorf("failure reported for %q, want r1/bad", got)
		}
	case <-time.After(time.Second):
		t.Error("send failure handler was never invoked")
	}
}
