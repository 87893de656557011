package chat

import (
	"testing"
	"time"

	"livimmo-live/internal/models"
	"livimmo-live/internal/questions"
)

func TestHub_OpenAndGet(t *testing.T) {
	hub := NewHub(questions.DefaultBank(), testDelay)
	defer hub.Shutdown()

	s := hub.Open(7, nil)
	if s.ID() != 7 {
		t.Errorf("expected session id 7, got %d", s.ID())
	}

	got, ok := hub.Get(7)
	if !ok || got != s {
		t.Error("expected Get to return the opened session")
	}

	// Reopening returns the same instance
	again := hub.Open(7, []models.ChatMessage{{ID: "x"}})
	if again != s {
		t.Error("expected Open on an open session to return it unchanged")
	}
	if hub.SessionCount() != 1 {
		t.Errorf("expected 1 session, got %d", hub.SessionCount())
	}
}

func TestHub_SinkFactoryWiring(t *testing.T) {
	hub := NewHub(questions.DefaultBank(), testDelay)
	defer hub.Shutdown()

	received := make(chan models.ChatMessage, 4)
	hub.SetSinkFactory(func(sessionID int64) Sink {
		return func(m models.ChatMessage) { received <- m }
	})

	s := hub.Open(1, nil)
	s.AppendUserMessage("allo")

	select {
	case m := <-received:
		if m.Author != models.AuthorUser {
			t.Errorf("expected user message first, got %s", m.Author)
		}
	case <-time.After(time.Second):
		t.Fatal("sink never received the user message")
	}
}

func TestHub_CloseCancelsSession(t *testing.T) {
	hub := NewHub(questions.DefaultBank(), 50*time.Millisecond)

	s := hub.Open(1, nil)
	s.AppendUserMessage("question")
	hub.Close(1)

	if _, ok := hub.Get(1); ok {
		t.Error("expected closed session to be unregistered")
	}

	time.Sleep(150 * time.Millisecond)
	if got := len(s.Messages()); got != 2 {
		t.Errorf("expected pending reply cancelled, got %d messages", got)
	}
}

func TestHub_Shutdown(t *testing.T) {
	hub := NewHub(questions.DefaultBank(), testDelay)
	hub.Open(1, nil)
	hub.Open(2, nil)

	hub.Shutdown()
	if hub.SessionCount() != 0 {
		t.Errorf("expected 0 sessions after shutdown, got %d", hub.SessionCount())
	}
}
