package motion

import "fmt"

// HeroConfig describes the hero image sequence.
type HeroConfig struct {
	FrameCount int
	// FramePattern is a printf pattern taking the frame index.
	FramePattern string
	Windows      []Window
}

// HeroManifest is what the page needs to load and drive the sequence.
type HeroManifest struct {
	FrameCount  int      `json:"frameCount"`
	Frames      []string `json:"frames"`
	Poster      string   `json:"poster"`
	Overlays    []Window `json:"overlays"`
	HeroFadeEnd float64  `json:"heroFadeEnd"`
}

// FrameURL returns the URL of frame i.
func (c HeroConfig) FrameURL(i int) string {
	return fmt.Sprintf(c.FramePattern, i)
}

// Manifest lists every frame URL in order.
func (c HeroConfig) Manifest() HeroManifest {
	windows := c.Windows
	if windows == nil {
		windows = DefaultWindows
	}
	frames := make([]string, 0, c.FrameCount)
	for i := 0; i < c.FrameCount; i++ {
		frames = append(frames, c.FrameURL(i))
	}
	m := HeroManifest{
		FrameCount:  c.FrameCount,
		Frames:      frames,
		Overlays:    windows,
		HeroFadeEnd: HeroFadeEnd,
	}
	if len(frames) > 0 {
		m.Poster = frames[0]
	}
	return m
}

// Sequence builds a player for this hero.
func (c HeroConfig) Sequence(reducedMotion bool) *Sequence {
	return NewSequence(SequenceConfig{
		FrameCount:    c.FrameCount,
		Windows:       c.Windows,
		ReducedMotion: reducedMotion,
	})
}
