package motion

import "math"

// Window is a sub-range of scroll progress in which an overlay animates.
// Both bounds are exclusive.
type Window struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Contains reports whether p lies strictly inside w.
func (w Window) Contains(p float64) bool {
	return p > w.Start && p < w.End
}

// Local re-normalises p to its position inside w.
func (w Window) Local(p float64) float64 {
	if w.End <= w.Start {
		return 0
	}
	return Clamp((p-w.Start)/(w.End-w.Start), 0, 1)
}

// DefaultWindows are the three caption windows of the hero sequence.
var DefaultWindows = []Window{
	{Start: 0.15, End: 0.40},
	{Start: 0.40, End: 0.65},
	{Start: 0.65, End: 0.90},
}

const (
	overlayMinScale = 0.8
	overlayScaleGap = 0.4
)

// OverlayState is the visual state of one caption.
type OverlayState struct {
	Opacity float64 `json:"opacity"`
	Scale   float64 `json:"scale"`
}

// Overlay computes a caption's state at progress p. Inside the window the
// opacity rises and falls on a half sine while scale grows from 0.8 to 1.2.
// Outside it the caption is transparent and keeps the nearest end scale.
func Overlay(p float64, w Window) OverlayState {
	if !w.Contains(p) {
		scale := overlayMinScale
		if p >= w.End {
			scale = overlayMinScale + overlayScaleGap
		}
		return OverlayState{Opacity: 0, Scale: scale}
	}
	local := w.Local(p)
	return OverlayState{
		Opacity: math.Sin(local * math.Pi),
		Scale:   overlayMinScale + local*overlayScaleGap,
	}
}

// HeroFadeEnd is the progress at which the hero headline is fully gone.
const HeroFadeEnd = 0.15

// HeroState is the headline block above the sequence.
type HeroState struct {
	Opacity     float64 `json:"opacity"`
	TranslateY  float64 `json:"translateY"`
	Interactive bool    `json:"interactive"`
}

// Hero fades the headline out over the first part of the scroll and lifts it by up to 100px.
func Hero(p float64) HeroState {
	p = Clamp(p, 0, 1)
	opacity := math.Max(0, 1-p/HeroFadeEnd)
	return HeroState{
		Opacity:     opacity,
		TranslateY:  -100 * p,
		Interactive: opacity > 0,
	}
}
