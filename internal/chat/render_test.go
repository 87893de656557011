package chat

import (
	"testing"

	"livimmo-live/internal/models"
)

func TestRenderBot(t *testing.T) {
	prompts := []models.QuestionPrompt{
		{ID: "a", Text: "Question A"},
		{ID: "b", Text: "Question B"},
	}

	view := RenderBot("Voici des questions :", prompts)

	if view.Text != "Voici des questions :" {
		t.Errorf("unexpected text %q", view.Text)
	}
	if len(view.Prompts) != 2 {
		t.Fatalf("expected 2 prompts, got %d", len(view.Prompts))
	}
}

func TestBotView_Click(t *testing.T) {
	prompts := []models.QuestionPrompt{
		{ID: "a", Text: "Question A"},
		{ID: "b", Text: "Question B"},
	}
	view := RenderBot("msg", prompts)

	var selected *models.QuestionPrompt
	onSelect := func(p models.QuestionPrompt) { selected = &p }

	if !view.Click(1, onSelect) {
		t.Fatal("expected click to dispatch")
	}
	if selected == nil || selected.ID != "b" {
		t.Errorf("expected prompt b selected, got %+v", selected)
	}
}

func TestBotView_ClickOutOfRange(t *testing.T) {
	view := RenderBot("msg", []models.QuestionPrompt{{ID: "a"}})

	called := false
	onSelect := func(models.QuestionPrompt) { called = true }

	if view.Click(-1, onSelect) || view.Click(1, onSelect) {
		t.Error("expected out-of-range clicks to be rejected")
	}
	if called {
		t.Error("callback should not run for out-of-range clicks")
	}

	if view.Click(0, nil) {
		t.Error("expected nil callback click to be rejected")
	}
}
