package editor

type EventKind string

const (
	ClipsChanged     EventKind = "clips-changed"
	TimeChanged      EventKind = "time-changed"
	PlayStateChanged EventKind = "play-state-changed"
	AudioSelected    EventKind = "audio-selected"
	TransitionPicked EventKind = "transition-picked"
	Saved            EventKind = "saved"
	SaveFailed       EventKind = "save-failed"
	RenderQueued     EventKind = "render-queued"
	RenderFailed     EventKind = "render-failed"
)

// Event is one message from the session to its host. Only the fields that
// belong to the kind are set.
type Event struct {
	Kind    EventKind
	ClipID  string
	Time    float64
	Playing bool
	JobID   string
	Err     error
}

const eventBuffer = 64

// emit never blocks the engine: a host that stops reading loses events.
func (s *Session) emit(e Event) {
	select {
	case s.events <- e:
	default:
		s.log.Debugf("event queue full, dropping %s", e.Kind)
	}
}
