package motion

import "fmt"

// Phase is the lifecycle stage of an animated component.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhasePlaying
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhasePlaying:
		return "playing"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Event is an input to a state machine.
type Event interface {
	event()
}

// Start begins loading the frame sequence.
type Start struct{}

// FrameDecoded reports that frame Index finished decoding at its natural Size.
type FrameDecoded struct {
	Index int
	Size  Size
}

// Scroll carries the document scroll offset.
type Scroll struct {
	Y float64
}

// Resize carries the new viewport size.
type Resize struct {
	Viewport Size
}

// Layout carries the scroll region's position: its top offset in the document
// and its full height.
type Layout struct {
	Top    float64
	Height float64
}

// Repaint is the display's next-repaint callback.
type Repaint struct{}

// Stop tears the component down.
type Stop struct{}

func (Start) event()        {}
func (FrameDecoded) event() {}
func (Scroll) event()       {}
func (Resize) event()       {}
func (Layout) event()       {}
func (Repaint) event()      {}
func (Stop) event()         {}

// SequenceConfig configures a Sequence.
type SequenceConfig struct {
	FrameCount    int
	Windows       []Window
	ReducedMotion bool
}

// Render is one redraw: which frame to draw where, plus the overlay states.
type Render struct {
	Frame    int
	Dest     Rect
	Progress float64
	Hero     HeroState
	Overlays []OverlayState
}

// Sequence plays a fixed image sequence in step with scrolling.
//
// Frames load during PhaseLoading; frame 0 is drawable as soon as it decodes,
// but scrolling only drives the sequence once every frame has decoded
// (PhasePlaying). Scroll, Resize and Layout only mark the state dirty; a
// Repaint flushes at most one Render. With ReducedMotion only frame 0 is
// loaded and the sequence parks in PhaseDone showing it.
type Sequence struct {
	cfg SequenceConfig

	phase    Phase
	stopped  bool
	decoded  []bool
	sizes    []Size
	ndecoded int

	viewport Size
	region   Layout
	scrollY  float64
	progress float64
	frame    int
	dirty    bool
}

// NewSequence creates an idle sequence.
func NewSequence(cfg SequenceConfig) *Sequence {
	if cfg.FrameCount < 1 {
		cfg.FrameCount = 1
	}
	if cfg.Windows == nil {
		cfg.Windows = DefaultWindows
	}
	return &Sequence{
		cfg:     cfg,
		decoded: make([]bool, cfg.FrameCount),
		sizes:   make([]Size, cfg.FrameCount),
	}
}

func (s *Sequence) Phase() Phase      { return s.phase }
func (s *Sequence) Frame() int        { return s.frame }
func (s *Sequence) Progress() float64 { return s.progress }

// Required is how many frames must decode before the sequence leaves PhaseLoading.
func (s *Sequence) Required() int {
	if s.cfg.ReducedMotion {
		return 1
	}
	return s.cfg.FrameCount
}

// Handle applies ev. It returns a Render only for a Repaint with pending changes.
func (s *Sequence) Handle(ev Event) (Render, bool) {
	if s.stopped {
		return Render{}, false
	}

	switch ev := ev.(type) {
	case Start:
		if s.phase == PhaseIdle {
			s.phase = PhaseLoading
		}

	case FrameDecoded:
		s.frameDecoded(ev)

	case Scroll:
		s.scrollY = ev.Y
		if s.phase == PhasePlaying {
			s.update()
		}

	case Layout:
		s.region = ev
		if s.phase == PhasePlaying {
			s.update()
		}

	case Resize:
		s.viewport = ev.Viewport
		if s.phase == PhasePlaying {
			s.update()
		}
		s.dirty = true

	case Repaint:
		return s.flush()

	case Stop:
		s.stopped = true
		s.phase = PhaseDone
	}
	return Render{}, false
}

func (s *Sequence) frameDecoded(ev FrameDecoded) {
	if s.phase != PhaseLoading || ev.Index < 0 || ev.Index >= s.Required() {
		return
	}
	if s.decoded[ev.Index] {
		return
	}
	s.decoded[ev.Index] = true
	s.sizes[ev.Index] = ev.Size
	s.ndecoded++

	if ev.Index == 0 {
		// first frame goes up straight away so the canvas is never blank
		s.dirty = true
	}
	if s.ndecoded < s.Required() {
		return
	}
	if s.cfg.ReducedMotion {
		s.phase = PhaseDone
		s.frame = 0
		s.dirty = true
		return
	}
	s.phase = PhasePlaying
	s.update()
}

func (s *Sequence) update() {
	scrolled := s.scrollY - s.region.Top
	distance := s.region.Height - s.viewport.H
	s.progress = Progress(scrolled, distance)
	s.frame = FrameIndex(s.progress, s.cfg.FrameCount)
	s.dirty = true
}

func (s *Sequence) flush() (Render, bool) {
	if !s.dirty || !s.decoded[s.frame] {
		return Render{}, false
	}
	s.dirty = false

	r := Render{
		Frame:    s.frame,
		Dest:     CoverFit(s.sizes[s.frame], s.viewport),
		Progress: s.progress,
		Hero:     Hero(s.progress),
	}
	if s.phase == PhasePlaying {
		r.Overlays = make([]OverlayState, len(s.cfg.Windows))
		for i, w := range s.cfg.Windows {
			r.Overlays[i] = Overlay(s.progress, w)
		}
	}
	return r, true
}
