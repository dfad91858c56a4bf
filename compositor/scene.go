package compositor

import (
	"slidestack/content"
	"slidestack/timeline"
)

type State string

const (
	StateIdle   State = "idle"   // nothing on the video track
	StateEnded  State = "ended"  // time at or past the end of the timeline
	StateActive State = "active" // a video clip covers the current time
)

type Role string

const (
	RoleCurrent  Role = "current"
	RoleOutgoing Role = "outgoing"
	RoleIncoming Role = "incoming"
)

// Layer is one visual clip of the frame, painted in slice order.
type Layer struct {
	ClipID  string              `json:"clipId"`
	Role    Role                `json:"role"`
	Content content.ClipContent `json:"content"`
	// Offset is the playback position inside the clip, for video seeking.
	Offset     float64 `json:"offset"`
	Opacity    float64 `json:"opacity"`
	TranslateX float64 `json:"translateX"` // percent of frame width
	Scale      float64 `json:"scale"`
	Reveal     float64 `json:"reveal"` // visible fraction of the wipe rectangle, from the left
}

type Transition struct {
	InTransition bool                    `json:"isInTransition"`
	Type         timeline.TransitionType `json:"type,omitempty"`
	Progress     float64                 `json:"progress"`
}

// TextOverlay is a positioned, styled text clip. X and Y are the anchor in
// percent of the frame.
type TextOverlay struct {
	ClipID          string            `json:"clipId"`
	Text            string            `json:"text"`
	FontFamily      string            `json:"fontFamily"`
	FontSize        float64           `json:"fontSize"`
	Color           string            `json:"color"`
	BackgroundColor string            `json:"backgroundColor,omitempty"`
	Alignment       content.Alignment `json:"alignment"`
	X               float64           `json:"x"`
	Y               float64           `json:"y"`
	Link            string            `json:"link,omitempty"`

	// entrance animation state
	Opacity float64 `json:"opacity"`
	OffsetY float64 `json:"offsetY"` // pixels below the resting position
}

type AudioCue struct {
	ClipID string  `json:"clipId"`
	URL    string  `json:"url"`
	Offset float64 `json:"offset"`
}

// Scene is everything the preview needs to paint one instant.
type Scene struct {
	Time       float64       `json:"time"`
	Duration   float64       `json:"duration"`
	State      State         `json:"state"`
	Layers     []Layer       `json:"layers"`
	Transition Transition    `json:"transition"`
	Texts      []TextOverlay `json:"texts"`
	Audio      *AudioCue     `json:"audio,omitempty"`
}

// Current is the clip the playhead is in, or nil.
func (s Scene) Current() *Layer {
	for i := range s.Layers {
		if s.Layers[i].Role == RoleCurrent || s.Layers[i].Role == RoleOutgoing {
			return &s.Layers[i]
		}
	}
	return nil
}
