// Package card assembles the visual summary of a property: image, badges,
// counters, price, agent footer, and the auth-gate dialog raised on
// unauthenticated actions.
package card

import (
	"fmt"
	"math/rand"
	"time"

	"livimmo-live/internal/models"
	"livimmo-live/internal/nav"
)

const (
	defaultViewers        = 0
	defaultRemainingSeats = 15
	defaultOffers         = 0

	defaultAgentCompany = "Agent indépendant"
	soldBadge           = "Vendu"
)

// BadgeVariant mirrors the badge styles of the design system
type BadgeVariant string

const (
	BadgeDestructive BadgeVariant = "destructive"
	BadgeDefault     BadgeVariant = "default"
	BadgeSecondary   BadgeVariant = "secondary"
)

// Tag is one decorative badge on the card image
type Tag struct {
	Label   string       `json:"label"`
	Variant BadgeVariant `json:"variant"`
}

// tagPool is the fixed pool decorative tags are drawn from
var tagPool = []string{
	"Coup de fusil",
	"Nouveauté",
	"Exclusivité",
	"Vue dégagée",
	"Prix en baisse",
}

// Options carries the optional counters of a card. Nil fields fall back
// to fixed defaults: viewers=0, remaining seats=15, offers=0,
// registered=false.
type Options struct {
	Viewers        *int
	RemainingSeats *int
	Offers         *int
	UserRegistered *bool
}

// AgentView is the agent footer of the card
type AgentView struct {
	Name     string `json:"name"`
	Company  string `json:"company"`
	ImageURL string `json:"image_url,omitempty"`
	Verified bool   `json:"verified"`
	Path     string `json:"path,omitempty"`
}

// View is the composed card
type View struct {
	PropertyID     int64     `json:"property_id"`
	Title          string    `json:"title"`
	ImageURL       string    `json:"image_url,omitempty"`
	Price          int64     `json:"price"`
	Location       string    `json:"location,omitempty"`
	Tags           []Tag     `json:"tags"`
	Sold           bool      `json:"sold"`
	IsLiveNow      bool      `json:"is_live_now"`
	LiveDate       time.Time `json:"live_date,omitempty"`
	Viewers        int       `json:"viewers"`
	RemainingSeats int       `json:"remaining_seats"`
	Offers         int       `json:"offers"`
	UserRegistered bool      `json:"user_registered"`
	PropertyPath   string    `json:"property_path"`
	LivePath       string    `json:"live_path,omitempty"`
	Agent          AgentView `json:"agent"`
}

// Compose builds the card view for a property. rng drives the decorative
// tag draw and must be injected so rendering stays deterministic under a
// fixed seed; agent verification is taken from the supplied data as is.
func Compose(p models.PropertySummary, opts Options, rng *rand.Rand) View {
	v := View{
		PropertyID:     p.ID,
		Title:          p.Title,
		Price:          p.Price,
		Location:       p.Location,
		Tags:           drawTags(rng),
		Sold:           !p.HasLive,
		IsLiveNow:      p.IsLiveNow,
		LiveDate:       p.LiveDate,
		Viewers:        defaultViewers,
		RemainingSeats: defaultRemainingSeats,
		Offers:         defaultOffers,
		PropertyPath:   nav.PropertyPath(p.ID),
	}
	if len(p.Images) > 0 {
		v.ImageURL = p.Images[0]
	}
	if p.HasLive {
		v.LivePath = nav.LivePath(p.ID)
	}
	if opts.Viewers != nil {
		v.Viewers = *opts.Viewers
	}
	if opts.RemainingSeats != nil {
		v.RemainingSeats = *opts.RemainingSeats
	}
	if opts.Offers != nil {
		v.Offers = *opts.Offers
	}
	if opts.UserRegistered != nil {
		v.UserRegistered = *opts.UserRegistered
	}

	v.Agent = AgentView{
		Name:     p.Agent.Name,
		Company:  p.Agent.Company,
		ImageURL: p.Agent.ImageURL,
		Verified: p.Agent.Verified,
	}
	if v.Agent.Company == "" {
		v.Agent.Company = defaultAgentCompany
	}
	if p.Agent.ID != 0 {
		v.Agent.Path = nav.AgentPath(p.Agent.ID)
	}

	return v
}

// drawTags picks up to two distinct decorative tags from the pool
func drawTags(rng *rand.Rand) []Tag {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	count := rng.Intn(3)
	perm := rng.Perm(len(tagPool))
	tags := make([]Tag, 0, count)
	for _, idx := range perm[:count] {
		tags = append(tags, Tag{Label: tagPool[idx], Variant: tagVariant(tagPool[idx])})
	}
	return tags
}

func tagVariant(label string) BadgeVariant {
	switch label {
	case "Coup de fusil":
		return BadgeDestructive
	case "Nouveauté":
		return BadgeDefault
	default:
		return BadgeSecondary
	}
}

// AuthChoice is the option picked in the auth-gate dialog
type AuthChoice string

const (
	ChoiceLogin  AuthChoice = "login"
	ChoiceSignup AuthChoice = "signup"
)

// AuthGate is the per-card login/signup dialog raised when an
// unauthenticated user attempts a gated action such as favoriting
type AuthGate struct {
	open bool
	nav  nav.Navigator
}

// NewAuthGate creates a closed gate that routes through navigator
func NewAuthGate(navigator nav.Navigator) *AuthGate {
	return &AuthGate{nav: navigator}
}

// RequestFavorite handles a favorite attempt. Authenticated users pass
// through (onFavorite runs); otherwise the dialog opens and the action
// is not performed.
func (g *AuthGate) RequestFavorite(authenticated bool, onFavorite func()) {
	if authenticated {
		if onFavorite != nil {
			onFavorite()
		}
		return
	}
	g.open = true
}

// IsOpen reports whether the dialog is showing
func (g *AuthGate) IsOpen() bool {
	return g.open
}

// Resolve closes the dialog and navigates to the chosen destination.
// Unknown choices are rejected without navigating.
func (g *AuthGate) Resolve(choice AuthChoice) error {
	switch choice {
	case ChoiceLogin:
		g.nav.Navigate(nav.LoginPath)
	case ChoiceSignup:
		g.nav.Navigate(nav.SignupPath)
	default:
		return fmt.Errorf("unknown auth choice %q", choice)
	}
	g.open = false
	return nil
}

// Dismiss closes the dialog without navigating
func (g *AuthGate) Dismiss() {
	g.open = false
}
