package questions

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"livimmo-live/internal/models"
)

// Bank is the static question bank shared read-only by all chat sessions.
// It is loaded once at startup and never mutated afterwards.
type Bank struct {
	welcome models.QuestionPrompt
	prompts []models.QuestionPrompt
	byID    map[string]models.QuestionPrompt
}

// bankFile is the YAML shape of a question bank file
type bankFile struct {
	Welcome models.QuestionPrompt   `yaml:"welcome"`
	Prompts []models.QuestionPrompt `yaml:"prompts"`
}

// Load reads a question bank from a YAML file.
// When the file does not exist, the compiled-in default bank is returned.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultBank(), nil
	}
	if err != nil {
		return nil, err
	}

	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if len(f.Prompts) == 0 {
		return nil, fmt.Errorf("question bank %s has no prompts", path)
	}
	if f.Welcome.Text == "" {
		f.Welcome = defaultWelcome()
	}

	return newBank(f.Welcome, f.Prompts), nil
}

func newBank(welcome models.QuestionPrompt, prompts []models.QuestionPrompt) *Bank {
	b := &Bank{
		welcome: welcome,
		prompts: prompts,
		byID:    make(map[string]models.QuestionPrompt),
	}
	var index func(ps []models.QuestionPrompt)
	index = func(ps []models.QuestionPrompt) {
		for _, p := range ps {
			b.byID[p.ID] = p
			index(p.FollowUps)
		}
	}
	index(prompts)
	return b
}

// Default returns the full default prompt list
func (b *Bank) Default() []models.QuestionPrompt {
	return b.prompts
}

// Welcome returns the fixed welcome entry, with the full bank as follow-ups
func (b *Bank) Welcome() models.QuestionPrompt {
	w := b.welcome
	w.FollowUps = b.prompts
	return w
}

// Lookup finds a prompt anywhere in the bank by id
func (b *Bank) Lookup(id string) (models.QuestionPrompt, bool) {
	p, ok := b.byID[id]
	return p, ok
}

func defaultWelcome() models.QuestionPrompt {
	return models.QuestionPrompt{
		ID:   "welcome",
		Text: "Bonjour ! Je suis l'assistant Livimmo. Posez-moi vos questions sur ce bien :",
	}
}

// DefaultBank returns the compiled-in question bank used when no
// bank file is configured
func DefaultBank() *Bank {
	return newBank(defaultWelcome(), []models.QuestionPrompt{
		{
			ID:   "price",
			Text: "Quel est le prix du bien ?",
			FollowUps: []models.QuestionPrompt{
				{ID: "price-negotiable", Text: "Le prix est-il négociable ?"},
				{ID: "price-fees", Text: "Quels sont les frais annexes ?"},
			},
		},
		{
			ID:   "visit",
			Text: "Peut-on visiter le bien en personne ?",
			FollowUps: []models.QuestionPrompt{
				{ID: "visit-when", Text: "Quelles sont les disponibilités pour une visite ?"},
			},
		},
		{
			ID:   "surface",
			Text: "Quelle est la surface habitable ?",
		},
		{
			ID:   "neighborhood",
			Text: "Comment est le quartier ?",
			FollowUps: []models.QuestionPrompt{
				{ID: "neighborhood-schools", Text: "Y a-t-il des écoles à proximité ?"},
				{ID: "neighborhood-transport", Text: "Le bien est-il bien desservi ?"},
			},
		},
		{
			ID:   "documents",
			Text: "Quels documents sont disponibles ?",
		},
	})
}
