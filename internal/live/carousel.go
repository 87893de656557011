package live

import "livimmo-live/internal/models"

// Slide is one rendered carousel entry
type Slide struct {
	Item    models.LiveItem `json:"item"`
	Current bool            `json:"current"`
}

// Carousel presents an ordered set of live items with one current
// selection. Selection and dismissal are reported through callbacks;
// navigation wraps around at both ends.
type Carousel struct {
	items     []models.LiveItem
	currentID int64
	onSelect  func(liveID int64)
	onClose   func()
}

// NewCarousel creates a carousel over items. currentID may reference no
// item, in which case nothing is marked current.
func NewCarousel(items []models.LiveItem, currentID int64, onSelect func(int64), onClose func()) *Carousel {
	return &Carousel{
		items:     items,
		currentID: currentID,
		onSelect:  onSelect,
		onClose:   onClose,
	}
}

// Render returns all slides in order; at most one is marked current
func (c *Carousel) Render() []Slide {
	slides := make([]Slide, len(c.items))
	for i, item := range c.items {
		slides[i] = Slide{Item: item, Current: item.ID == c.currentID}
	}
	return slides
}

// CurrentID returns the current live id
func (c *Carousel) CurrentID() int64 {
	return c.currentID
}

// Select makes id current and emits it to the parent. Ids not present in
// the item set are ignored.
func (c *Carousel) Select(id int64) bool {
	if c.indexOf(id) < 0 {
		return false
	}
	c.currentID = id
	if c.onSelect != nil {
		c.onSelect(id)
	}
	return true
}

// Next selects the item after the current one, wrapping to the first
func (c *Carousel) Next() {
	c.step(1)
}

// Prev selects the item before the current one, wrapping to the last
func (c *Carousel) Prev() {
	c.step(-1)
}

// Close emits the dismiss signal
func (c *Carousel) Close() {
	if c.onClose != nil {
		c.onClose()
	}
}

func (c *Carousel) step(delta int) {
	n := len(c.items)
	if n == 0 {
		return
	}
	idx := c.indexOf(c.currentID)
	if idx < 0 {
		// no current item: start from the edge the step enters from
		if delta > 0 {
			c.Select(c.items[0].ID)
		} else {
			c.Select(c.items[n-1].ID)
		}
		return
	}
	c.Select(c.items[(idx+delta+n)%n].ID)
}

func (c *Carousel) indexOf(id int64) int {
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
