package chat

import "livimmo-live/internal/models"

// BotView is the rendered form of a scripted bot message: the utterance
// plus its clickable follow-up prompts. It holds no state of its own.
type BotView struct {
	Text    string                  `json:"text"`
	Prompts []models.QuestionPrompt `json:"prompts,omitempty"`
}

// RenderBot builds the view for a bot utterance with its follow-ups
func RenderBot(text string, followUps []models.QuestionPrompt) BotView {
	return BotView{Text: text, Prompts: followUps}
}

// Click invokes onSelect with the prompt at index i. Out-of-range clicks
// are ignored and reported as false.
func (v BotView) Click(i int, onSelect func(models.QuestionPrompt)) bool {
	if i < 0 || i >= len(v.Prompts) || onSelect == nil {
		return false
	}
	onSelect(v.Prompts[i])
	return true
}
