package timeline

type TransitionType string

const (
	TransitionNone       TransitionType = "none"
	TransitionFade       TransitionType = "fade"
	TransitionDissolve   TransitionType = "dissolve"
	TransitionSlideLeft  TransitionType = "slide-left"
	TransitionSlideRight TransitionType = "slide-right"
	TransitionWipe       TransitionType = "wipe"
	TransitionZoom       TransitionType = "zoom"
)

// TransitionTypes is also the cycling order of the transition control.
var TransitionTypes = []TransitionType{
	TransitionNone,
	TransitionFade,
	TransitionDissolve,
	TransitionSlideLeft,
	TransitionSlideRight,
	TransitionWipe,
	TransitionZoom,
}

const (
	DefaultTransitionDuration = 0.5
	MinTransitionDuration     = 0.5
	MaxTransitionDuration     = 2.0
)

// Transition describes how a clip blends in from its predecessor on the
// same track.
type Transition struct {
	Type     TransitionType `json:"type"`
	Duration float64        `json:"duration"`
}

func DefaultTransition() *Transition {
	return &Transition{Type: TransitionFade, Duration: DefaultTransitionDuration}
}

func (t TransitionType) Valid() bool {
	for _, tt := range TransitionTypes {
		if tt == t {
			return true
		}
	}
	return false
}

func (t TransitionType) Next() TransitionType {
	for i, tt := range TransitionTypes {
		if tt == t {
			return TransitionTypes[(i+1)%len(TransitionTypes)]
		}
	}
	return TransitionTypes[0]
}

// Active reports whether the transition blends at all.
func (t *Transition) Active() bool {
	return t != nil && t.Type != TransitionNone && t.Type.Valid() && t.Duration > 0
}

func clampTransitionDuration(d float64) float64 {
	if d < MinTransitionDuration {
		return MinTransitionDuration
	}
	if d > MaxTransitionDuration {
		return MaxTransitionDuration
	}
	return d
}
