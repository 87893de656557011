package models

import "time"

// Author defines who wrote a chat message
type Author string

const (
	AuthorUser Author = "user"
	AuthorBot  Author = "bot"
)

// QuestionPrompt is one entry of the scripted question bank.
// Prompts are loaded once at startup and shared read-only across sessions.
type QuestionPrompt struct {
	ID        string           `json:"id" yaml:"id"`
	Text      string           `json:"text" yaml:"text"`
	FollowUps []QuestionPrompt `json:"follow_ups,omitempty" yaml:"follow_ups,omitempty"`
}

// ChatMessage is a single entry in a session's append-only message log
type ChatMessage struct {
	ID        string           `json:"id"`
	SessionID int64            `json:"session_id"`
	Author    Author           `json:"author"`
	Text      string           `json:"text"`
	Scripted  bool             `json:"scripted"`
	FollowUps []QuestionPrompt `json:"follow_ups,omitempty"`
	SentAt    time.Time        `json:"sent_at"`
}

// Session represents one live-chat session
type Session struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	PropertyID *int64    `json:"property_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// LiveItem is one entry of the live carousel, supplied by the live feed
type LiveItem struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Coordinates is a geographic position
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Agent is the listing agent shown on a property card.
// Verified is supplied data, never synthesized.
type Agent struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Company  string `json:"company,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Verified bool   `json:"verified"`
}

// PropertySummary is a read-only property snapshot from the property feed
type PropertySummary struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Location    string      `json:"location,omitempty"`
	Type        string      `json:"type,omitempty"`
	Surface     int         `json:"surface,omitempty"`
	Rooms       int         `json:"rooms,omitempty"`
	Price       int64       `json:"price"`
	Images      []string    `json:"images,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
	IsLiveNow   bool        `json:"is_live_now"`
	LiveDate    time.Time   `json:"live_date,omitempty"`
	HasLive     bool        `json:"has_live"`
	Agent       Agent       `json:"agent"`
}

// Channel defines where a scheduled live is streamed
type Channel string

const (
	ChannelYouTube   Channel = "youtube"
	ChannelFacebook  Channel = "facebook"
	ChannelInstagram Channel = "instagram"
	ChannelWhatsApp  Channel = "whatsapp"
)

// ValidChannel reports whether c is a known streaming channel
func ValidChannel(c Channel) bool {
	switch c {
	case ChannelYouTube, ChannelFacebook, ChannelInstagram, ChannelWhatsApp:
		return true
	}
	return false
}

// ScheduledLive is one entry of the agent's live-scheduling panel
type ScheduledLive struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Date    time.Time `json:"date"`
	Channel Channel   `json:"channel"`
	Viewers int       `json:"viewers"`
}
