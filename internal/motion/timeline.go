package motion

// Indicator colours for timeline dots.
const (
	AccentColor = "var(--accent-gold)"
	BorderColor = "var(--surface-border)"
)

// DefaultTriggerRatio puts the trigger line at 60% of the viewport height.
const DefaultTriggerRatio = 0.6

// Box is an element's bounding box relative to the viewport.
type Box struct {
	Top    float64
	Height float64
}

// TimelineState is the fill bar height and which entries the line has passed.
type TimelineState struct {
	FillPercent float64
	Reached     []bool
}

// Indicator returns the dot colour for entry i.
func (s TimelineState) Indicator(i int) string {
	if i >= 0 && i < len(s.Reached) && s.Reached[i] {
		return AccentColor
	}
	return BorderColor
}

// Timeline drives the experience timeline's progress line. Unlike Reveal it
// is re-evaluated on every scroll and resize, so entries can un-toggle.
type Timeline struct {
	TriggerRatio  float64
	ReducedMotion bool
}

// Update computes the state for the current layout. itemTops are the top
// edges of the entries relative to the viewport.
func (t Timeline) Update(viewportHeight float64, container Box, itemTops []float64) TimelineState {
	st := TimelineState{Reached: make([]bool, len(itemTops))}
	if t.ReducedMotion {
		st.FillPercent = 100
		for i := range st.Reached {
			st.Reached[i] = true
		}
		return st
	}

	ratio := t.TriggerRatio
	if ratio <= 0 {
		ratio = DefaultTriggerRatio
	}
	trigger := viewportHeight * ratio

	fill := 0.0
	if container.Top < trigger {
		fill = trigger - container.Top
	}
	switch {
	case container.Height > 0:
		st.FillPercent = Clamp(fill/container.Height*100, 0, 100)
	case fill > 0:
		st.FillPercent = 100
	}

	for i, top := range itemTops {
		st.Reached[i] = top < trigger
	}
	return st
}
