package motion

import "time"

// LogoDelay is how long after the splash starts fading the nav logo starts typing.
const LogoDelay = time.Second

// InputKind classifies raw user input.
type InputKind int

const (
	InputWheel InputKind = iota
	InputTouchMove
	InputKey
	InputClick
)

// Input is a user input event.
type Input struct {
	Kind InputKind
}

func (Input) event() {}

// EffectKind names a side effect the page must perform.
type EffectKind int

const (
	EffectScrollTop EffectKind = iota
	EffectLockScroll
	EffectUnlockScroll
	EffectPreventDefault
	EffectFadeOutSplash
	EffectRemoveListeners
	EffectAnimateLogo
)

// Effect is a side effect, to be run after Delay.
type Effect struct {
	Kind  EffectKind
	Delay time.Duration
}

// Splash is the intro overlay. While it is showing, scrolling is locked and
// the first wheel or touch gesture dismisses it; the listeners then remove
// themselves so later gestures do nothing.
type Splash struct {
	present bool
	phase   Phase
}

// NewSplash creates the intro. present is false on pages without a splash screen.
func NewSplash(present bool) *Splash {
	return &Splash{present: present}
}

func (s *Splash) Phase() Phase { return s.phase }

// Listening reports whether gesture listeners are installed.
func (s *Splash) Listening() bool {
	return s.present && s.phase == PhasePlaying
}

// Init returns the effects for page load.
func (s *Splash) Init() []Effect {
	if s.phase != PhaseIdle {
		return nil
	}
	if !s.present {
		s.phase = PhaseDone
		return []Effect{{Kind: EffectAnimateLogo}}
	}
	s.phase = PhasePlaying
	return []Effect{{Kind: EffectScrollTop}, {Kind: EffectLockScroll}}
}

// Handle reacts to an input event.
func (s *Splash) Handle(ev Event) []Effect {
	in, ok := ev.(Input)
	if !ok || !s.Listening() {
		return nil
	}
	if in.Kind != InputWheel && in.Kind != InputTouchMove {
		return nil
	}
	s.phase = PhaseDone
	return []Effect{
		{Kind: EffectPreventDefault},
		{Kind: EffectFadeOutSplash},
		{Kind: EffectUnlockScroll},
		{Kind: EffectRemoveListeners},
		{Kind: EffectAnimateLogo, Delay: LogoDelay},
	}
}
