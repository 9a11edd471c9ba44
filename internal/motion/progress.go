// Package motion holds the page's presentational logic as plain state
// machines: the scroll-linked hero sequence, entrance reveals, the experience
// timeline, the project slide deck, the splash intro and the theme toggle.
//
// Nothing here touches a UI toolkit. Callers feed Events (scroll offsets,
// viewport sizes, decoded frames) and apply the returned state.
package motion

import "math"

// Size is a width/height pair in pixels.
type Size struct {
	W, H float64
}

// Rect is a drawing rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Clamp limits v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Progress maps how far a region has been scrolled to [0, 1]. A non-positive
// distance cannot be divided by; it snaps to 0 before the region and 1 past it.
func Progress(scrolled, distance float64) float64 {
	if distance <= 0 {
		if scrolled > 0 {
			return 1
		}
		return 0
	}
	return Clamp(scrolled/distance, 0, 1)
}

// FrameIndex selects the frame for progress p in a sequence of frameCount images.
func FrameIndex(p float64, frameCount int) int {
	if frameCount <= 0 {
		return 0
	}
	return int(math.Floor(Clamp(p, 0, 1) * float64(frameCount-1)))
}

// CoverFit scales img to fill viewport, keeping its aspect ratio, cropping the
// overflow and centring on both axes.
func CoverFit(img, viewport Size) Rect {
	if img.W <= 0 || img.H <= 0 || viewport.W <= 0 || viewport.H <= 0 {
		return Rect{W: viewport.W, H: viewport.H}
	}
	imgRatio := img.W / img.H
	viewRatio := viewport.W / viewport.H

	if viewRatio > imgRatio {
		h := viewport.W / imgRatio
		return Rect{X: 0, Y: (viewport.H - h) / 2, W: viewport.W, H: h}
	}
	w := viewport.H * imgRatio
	return Rect{X: (viewport.W - w) / 2, Y: 0, W: w, H: viewport.H}
}
