package motion

// Carousel is the project slide deck: an index into count slides that wraps
// in both directions.
type Carousel struct {
	index int
	count int
}

// NewCarousel starts at slide 0 of count.
func NewCarousel(count int) *Carousel {
	if count < 0 {
		count = 0
	}
	return &Carousel{count: count}
}

// Change moves by dir slides, wrapping modulo the slide count, and returns the new index.
func (c *Carousel) Change(dir int) int {
	if c.count == 0 {
		return 0
	}
	c.index = ((c.index+dir)%c.count + c.count) % c.count
	return c.index
}

// Index is the zero-based active slide.
func (c *Carousel) Index() int { return c.index }

// Len is the number of slides.
func (c *Carousel) Len() int { return c.count }

// Active reports whether slide i is the one shown.
func (c *Carousel) Active(i int) bool {
	return c.count > 0 && i == c.index
}

// Counter is the 1-based position shown to the reader; 0 for an empty deck.
func (c *Carousel) Counter() int {
	if c.count == 0 {
		return 0
	}
	return c.index + 1
}
