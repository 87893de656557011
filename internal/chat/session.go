package chat

import (
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"livimmo-live/internal/models"
	"livimmo-live/internal/questions"
)

const (
	// DefaultReplyDelay is the fixed latency before a scripted bot reply fires
	DefaultReplyDelay = 1 * time.Second

	// transmitNotice is the scripted reply after a free-form user message
	transmitNotice = "Je vais transmettre votre message à l'agent. En attendant, voici d'autres questions fréquentes :"

	// followUpNotice is the scripted reply after a follow-up prompt selection
	followUpNotice = "L'agent va répondre à votre question. Souhaitez-vous plus de détails ?"
)

// Sink receives every message appended to a session's log
type Sink func(msg models.ChatMessage)

// Session owns the ordered, append-only message log of one live chat.
// Each user action schedules exactly one delayed scripted bot reply;
// replies are never coalesced. Pending replies are tracked and
// cancelled on Close.
type Session struct {
	id    int64
	bank  *questions.Bank
	delay time.Duration
	sink  Sink

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	log     []models.ChatMessage
	pending map[*time.Timer]struct{}
	closed  bool
}

// NewSession creates a session seeded with the welcome message followed
// by the supplied history, in that order. The sink may be nil.
func NewSession(id int64, bank *questions.Bank, history []models.ChatMessage, delay time.Duration, sink Sink) *Session {
	if delay <= 0 {
		delay = DefaultReplyDelay
	}
	s := &Session{
		id:      id,
		bank:    bank,
		delay:   delay,
		sink:    sink,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		pending: make(map[*time.Timer]struct{}),
	}

	welcome := bank.Welcome()
	s.log = append(s.log, models.ChatMessage{
		ID:        s.newID(),
		SessionID: id,
		Author:    models.AuthorBot,
		Text:      welcome.Text,
		Scripted:  true,
		FollowUps: welcome.FollowUps,
		SentAt:    time.Now(),
	})
	s.log = append(s.log, history...)

	return s
}

// ID returns the session id
func (s *Session) ID() int64 {
	return s.id
}

// Messages returns a copy of the message log in append order
func (s *Session) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.log))
	copy(out, s.log)
	return out
}

// AppendUserMessage appends a user message and schedules one delayed bot
// reply carrying the full default question bank. Empty or whitespace-only
// input is ignored and no message is appended.
func (s *Session) AppendUserMessage(text string) (models.ChatMessage, bool) {
	if strings.TrimSpace(text) == "" {
		log.Printf("[Chat] Ignoring empty message session_id=%d", s.id)
		return models.ChatMessage{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return models.ChatMessage{}, false
	}

	msg := s.append(models.AuthorUser, text, false, nil)
	s.scheduleReply(transmitNotice, s.bank.Default())
	return msg, true
}

// SelectFollowUp appends a user message echoing the chosen prompt, then
// schedules one delayed bot reply. The reply carries the prompt's own
// follow-ups when it has any, otherwise the full default bank.
func (s *Session) SelectFollowUp(prompt models.QuestionPrompt) (models.ChatMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return models.ChatMessage{}, false
	}

	msg := s.append(models.AuthorUser, prompt.Text, false, nil)

	followUps := prompt.FollowUps
	if len(followUps) == 0 {
		followUps = s.bank.Default()
	}
	s.scheduleReply(followUpNotice, followUps)
	return msg, true
}

// PendingReplies returns the number of scheduled bot replies not yet fired
func (s *Session) PendingReplies() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Close cancels all pending bot replies and rejects further appends
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for t := range s.pending {
		t.Stop()
	}
	s.pending = make(map[*time.Timer]struct{})
	log.Printf("[Chat] Session closed session_id=%d messages=%d", s.id, len(s.log))
}

// append adds a message to the log and notifies the sink. Caller holds s.mu.
func (s *Session) append(author models.Author, text string, scripted bool, followUps []models.QuestionPrompt) models.ChatMessage {
	msg := models.ChatMessage{
		ID:        s.newID(),
		SessionID: s.id,
		Author:    author,
		Text:      text,
		Scripted:  scripted,
		FollowUps: followUps,
		SentAt:    time.Now(),
	}
	s.log = append(s.log, msg)
	log.Printf("[Chat] Message appended session_id=%d message_id=%s author=%s", s.id, msg.ID, author)

	if s.sink != nil {
		s.sink(msg)
	}
	return msg
}

// scheduleReply arms one timer for a scripted bot reply. Caller holds s.mu.
func (s *Session) scheduleReply(text string, followUps []models.QuestionPrompt) {
	var timer *time.Timer
	timer = time.AfterFunc(s.delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed {
			return
		}
		delete(s.pending, timer)
		s.append(models.AuthorBot, text, true, followUps)
	})
	s.pending[timer] = struct{}{}
	log.Printf("[Chat] Bot reply scheduled session_id=%d delay=%v pending=%d", s.id, s.delay, len(s.pending))
}

// newID returns a ULID; ids are monotonic within the session
func (s *Session) newID() string {
	return ulid.MustNew(ulid.Now(), s.entropy).String()
}
