package timeline

import (
	"sort"

	"slidestack/content"
)

type Track string

const (
	TrackVideo Track = "video"
	TrackAudio Track = "audio"
	TrackText  Track = "text"
)

var Tracks = []Track{TrackVideo, TrackAudio, TrackText}

// TrackFor is the only way a clip gets its track. The drop target never
// decides it.
func TrackFor(c content.ClipContent) Track {
	switch c.Type() {
	case content.TypeAudio:
		return TrackAudio
	case content.TypeText:
		return TrackText
	}
	return TrackVideo
}

const (
	MinDuration     = 0.5 // seconds
	DefaultDuration = 3.0
)

// Clip is a placed piece of content. Its position on the track is derived
// from the durations of the clips ordered before it and is never stored.
type Clip struct {
	ID         string              `json:"id"`
	Content    content.ClipContent `json:"content"`
	Duration   float64             `json:"duration"`
	Order      int                 `json:"order"`
	Track      Track               `json:"track"`
	Transition *Transition         `json:"transition,omitempty"`
}

// Span is a clip together with its derived interval [Start, End).
type Span struct {
	Clip  *Clip
	Start float64
	End   float64
}

func (s Span) Contains(t float64) bool {
	return t >= s.Start && t < s.End
}

type Timeline struct {
	clips []*Clip
}

func New(clips ...*Clip) *Timeline {
	tl := &Timeline{clips: make([]*Clip, 0, len(clips))}
	tl.clips = append(tl.clips, clips...)
	return tl
}

// Clips returns the clip list in insertion order. The slice is a copy, the
// clips are not.
func (tl *Timeline) Clips() []*Clip {
	out := make([]*Clip, len(tl.clips))
	copy(out, tl.clips)
	return out
}

func (tl *Timeline) Len() int {
	return len(tl.clips)
}

func (tl *Timeline) Get(id string) *Clip {
	for _, c := range tl.clips {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (tl *Timeline) TrackClips(track Track) []*Clip {
	return TrackClips(tl.clips, track)
}

func (tl *Timeline) Spans(track Track) []Span {
	return Spans(tl.clips, track)
}

func (tl *Timeline) StartTime(id string) (float64, bool) {
	c := tl.Get(id)
	if c == nil {
		return 0, false
	}
	for _, s := range tl.Spans(c.Track) {
		if s.Clip == c {
			return s.Start, true
		}
	}
	return 0, false
}

func (tl *Timeline) TotalDuration() float64 {
	return TotalDuration(tl.clips)
}

func (tl *Timeline) TrackDuration(track Track) float64 {
	return TrackDuration(tl.clips, track)
}

func (tl *Timeline) ActiveAt(track Track, t float64) (Span, bool) {
	return ActiveAt(tl.clips, track, t)
}

// TrackClips selects the clips of one track sorted by order. Equal orders
// keep their list position.
func TrackClips(clips []*Clip, track Track) []*Clip {
	out := make([]*Clip, 0, len(clips))
	for _, c := range clips {
		if c.Track == track {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// Spans lays the clips of one track end to end. Each track has its own
// cumulative timeline starting at zero.
func Spans(clips []*Clip, track Track) []Span {
	sorted := TrackClips(clips, track)
	spans := make([]Span, len(sorted))
	var at float64
	for i, c := range sorted {
		spans[i] = Span{Clip: c, Start: at, End: at + c.Duration}
		at += c.Duration
	}
	return spans
}

func TrackDuration(clips []*Clip, track Track) float64 {
	var total float64
	for _, c := range clips {
		if c.Track == track {
			total += c.Duration
		}
	}
	return total
}

// TotalDuration counts the video track only; audio and text are overlays.
func TotalDuration(clips []*Clip) float64 {
	return TrackDuration(clips, TrackVideo)
}

func ActiveAt(clips []*Clip, track Track, t float64) (Span, bool) {
	for _, s := range Spans(clips, track) {
		if s.Contains(t) {
			return s, true
		}
	}
	return Span{}, false
}
