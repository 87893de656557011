package api

import (
	"strings"
	"testing"
)

func TestEventBroadcaster_SubscribeAndBroadcast(t *testing.T) {
	b := NewEventBroadcaster()

	ch1 := b.Subscribe(1)
	ch2 := b.Subscribe(1)
	other := b.Subscribe(2)

	if b.ClientCount(1) != 2 {
		t.Errorf("expected 2 clients on session 1, got %d", b.ClientCount(1))
	}

	b.BroadcastMessage(1, map[string]string{"text": "bonjour"})

	for i, ch := range []chan Event{ch1, ch2} {
		select {
		case event := <-ch:
			if event.Type != "message" {
				t.Errorf("client %d: unexpected event type %s", i, event.Type)
			}
		default:
			t.Errorf("client %d: expected an event", i)
		}
	}

	select {
	case event := <-other:
		t.Errorf("session 2 client should get nothing, got %+v", event)
	default:
	}
}

func TestEventBroadcaster_Unsubscribe(t *testing.T) {
	b := NewEventBroadcaster()

	ch := b.Subscribe(1)
	b.Unsubscribe(1, ch)

	if b.ClientCount(1) != 0 {
		t.Errorf("expected 0 clients, got %d", b.ClientCount(1))
	}
	if _, open := <-ch; open {
		t.Error("expected channel closed after unsubscribe")
	}
}

func TestEventBroadcaster_SessionClosed(t *testing.T) {
	b := NewEventBroadcaster()
	ch := b.Subscribe(7)

	b.BroadcastSessionClosed(7)

	select {
	case event := <-ch:
		if event.Type != "session_closed" {
			t.Errorf("unexpected event type %s", event.Type)
		}
	default:
		t.Error("expected a session_closed event")
	}
}

func TestEventBroadcaster_FullChannelSkipped(t *testing.T) {
	b := NewEventBroadcaster()
	ch := b.Subscribe(1)

	// Channel buffer is 10; the extra events must not block
	for i := 0; i < 15; i++ {
		b.BroadcastMessage(1, i)
	}

	if len(ch) != 10 {
		t.Errorf("expected full buffer of 10, got %d", len(ch))
	}
}

func TestFormatSSE(t *testing.T) {
	data, err := FormatSSE(Event{Type: "message", Data: map[string]string{"text": "salut"}})
	if err != nil {
		t.Fatalf("format: %v", err)
	}

	out := string(data)
	if !strings.HasPrefix(out, "event: message\n") {
		t.Errorf("missing event line: %q", out)
	}
	if !strings.Contains(out, `data: {"text":"salut"}`) {
		t.Errorf("missing data line: %q", out)
	}
	if !strings.HasSuffix(out, "\n\n") {
		t.Errorf("missing terminating blank line: %q", out)
	}
}
