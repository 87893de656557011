package geo

import "sync"

// Selection is the shared "selected property" cell observed by both the
// map view and the list view. Subscribers are notified on every change.
type Selection struct {
	mu       sync.Mutex
	id       int64
	selected bool
	subs     []func(id int64, selected bool)
}

// NewSelection creates an empty selection cell
func NewSelection() *Selection {
	return &Selection{}
}

// Subscribe registers fn to be called after every selection change
func (s *Selection) Subscribe(fn func(id int64, selected bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Select sets the selected property id
func (s *Selection) Select(id int64) {
	s.mu.Lock()
	s.id = id
	s.selected = true
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn(id, true)
	}
}

// Clear removes the selection (info popup dismissed)
func (s *Selection) Clear() {
	s.mu.Lock()
	s.id = 0
	s.selected = false
	subs := s.subs
	s.mu.Unlock()

	for _, fn := range subs {
		fn(0, false)
	}
}

// Current returns the selected id, if any
func (s *Selection) Current() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, s.selected
}
