package motion

// DefaultRevealThreshold is the visible fraction that counts as "in view".
const DefaultRevealThreshold = 0.1

// Reveal tracks one-shot entrance animations. An element becomes visible the
// first time either the intersection callback or the bounding-box fallback
// sees it in the viewport, and it is never hidden again.
type Reveal struct {
	threshold float64
	reduced   bool
	observed  map[string]bool
	seen      map[string]bool
}

// NewReveal creates a tracker. With reducedMotion every observed element is
// visible immediately.
func NewReveal(threshold float64, reducedMotion bool) *Reveal {
	if threshold <= 0 {
		threshold = DefaultRevealThreshold
	}
	return &Reveal{
		threshold: threshold,
		reduced:   reducedMotion,
		observed:  make(map[string]bool),
		seen:      make(map[string]bool),
	}
}

// Observe starts watching id.
func (r *Reveal) Observe(id string) {
	if r.seen[id] {
		return
	}
	if r.reduced {
		r.seen[id] = true
		return
	}
	r.observed[id] = true
}

// Unobserve stops watching id without revealing it.
func (r *Reveal) Unobserve(id string) {
	delete(r.observed, id)
}

// Intersect is the primary path: ratio is the visible fraction of id.
// It reports whether this call revealed the element.
func (r *Reveal) Intersect(id string, ratio float64) bool {
	if !r.observed[id] || ratio < r.threshold {
		return false
	}
	return r.markSeen(id)
}

// CheckBounds is the fallback path: an element whose top edge is at or above
// the bottom of the viewport is in view.
func (r *Reveal) CheckBounds(id string, top, viewportHeight float64) bool {
	if !r.observed[id] || top > viewportHeight {
		return false
	}
	return r.markSeen(id)
}

func (r *Reveal) markSeen(id string) bool {
	delete(r.observed, id)
	if r.seen[id] {
		return false
	}
	r.seen[id] = true
	return true
}

// Visible reports whether id has been revealed.
func (r *Reveal) Visible(id string) bool {
	return r.seen[id]
}

// Watching reports whether id is still waiting to be revealed.
func (r *Reveal) Watching(id string) bool {
	return r.observed[id]
}
