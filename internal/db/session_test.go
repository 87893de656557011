package db

import (
	"database/sql"
	"os"
	"testing"
	"time"

	"livimmo-live/internal/models"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test_livimmo_*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.Close()

	database, err := NewDB(tmpFile.Name())
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}

	if err := database.Migrate(); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	cleanup := func() {
		database.Close()
		os.Remove(tmpFile.Name())
	}
	return database, cleanup
}

func TestCreateAndGetSession(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	propertyID := int64(42)
	created, err := database.CreateSession("Visite Villa Casablanca", &propertyID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected non-zero session id")
	}

	got, err := database.GetSession(created.ID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.Title != "Visite Villa Casablanca" {
		t.Errorf("unexpected title %q", got.Title)
	}
	if got.PropertyID == nil || *got.PropertyID != 42 {
		t.Errorf("unexpected property id %v", got.PropertyID)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	if _, err := database.GetSession(999); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestDeleteSession(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	sess, err := database.CreateSession("Chat", nil)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if err := database.DeleteSession(sess.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if err := database.DeleteSession(sess.ID); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows on second delete, got %v", err)
	}
}

func TestSaveAndGetMessages(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	sess, err := database.CreateSession("Chat", nil)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	messages := []models.ChatMessage{
		{
			ID:        "01A",
			SessionID: sess.ID,
			Author:    models.AuthorUser,
			Text:      "Quel est le prix ?",
			SentAt:    time.Now(),
		},
		{
			ID:        "01B",
			SessionID: sess.ID,
			Author:    models.AuthorBot,
			Text:      "L'agent va répondre à votre question.",
			Scripted:  true,
			FollowUps: []models.QuestionPrompt{
				{ID: "price-negotiable", Text: "Le prix est-il négociable ?"},
			},
			SentAt: time.Now(),
		},
	}
	for _, m := range messages {
		if err := database.SaveMessage(m); err != nil {
			t.Fatalf("save message %s: %v", m.ID, err)
		}
	}

	got, err := database.GetMessages(sess.ID)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].ID != "01A" || got[1].ID != "01B" {
		t.Errorf("messages out of order: %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].FollowUps != nil {
		t.Errorf("user message should have no follow-ups, got %v", got[0].FollowUps)
	}
	if len(got[1].FollowUps) != 1 || got[1].FollowUps[0].ID != "price-negotiable" {
		t.Errorf("bot follow-ups not restored: %+v", got[1].FollowUps)
	}
	if !got[1].Scripted {
		t.Error("scripted flag not restored")
	}
}

func TestDeleteSession_CascadesMessages(t *testing.T) {
	database, cleanup := setupTestDB(t)
	defer cleanup()

	sess, err := database.CreateSession("Chat", nil)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := database.SaveMessage(models.ChatMessage{
		ID: "01A", SessionID: sess.ID, Author: models.AuthorUser, Text: "bonjour", SentAt: time.Now(),
	}); err != nil {
		t.Fatalf("save message: %v", err)
	}

	if err := database.DeleteSession(sess.ID); err != nil {
		t.Fatalf("delete session: %v", err)
	}

	got, err := database.GetMessages(sess.ID)
	if err != nil {
		t.Fatalf("get messages: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected messages deleted with session, got %d", len(got))
	}
}
