package timeline

import (
	"math"

	"slidestack/content"
)

// Every edit returns false and leaves the timeline untouched when the clip
// id is unknown, which happens when a UI holds a stale reference.

// normalize renumbers one track 0..n-1 in its current sort order.
func (tl *Timeline) normalize(track Track) {
	for i, c := range tl.TrackClips(track) {
		c.Order = i
	}
}

func (tl *Timeline) index(id string) int {
	for i, c := range tl.clips {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Split cuts a clip at its midpoint. The second half follows the first
// directly and later clips of the track move down by one. A split that would
// leave a half shorter than MinDuration is refused.
func (tl *Timeline) Split(id string) (*Clip, bool) {
	first := tl.Get(id)
	if first == nil {
		log.Debugf("split: no clip %s", id)
		return nil, false
	}
	half := first.Duration / 2
	if half < MinDuration || first.Duration-half < MinDuration {
		log.Debugf("split: clip %s too short (%.2fs)", id, first.Duration)
		return nil, false
	}

	sorted := tl.TrackClips(first.Track)
	second := &Clip{
		ID:       newClipID(),
		Content:  first.Content.Clone(),
		Duration: first.Duration - half,
		Track:    first.Track,
	}
	first.Duration = half

	order := 0
	for _, c := range sorted {
		c.Order = order
		order++
		if c == first {
			second.Order = order
			order++
		}
	}
	tl.clips = append(tl.clips, second)
	return second, true
}

// SetDuration trims a clip to d seconds, never below MinDuration.
func (tl *Timeline) SetDuration(id string, d float64) bool {
	c := tl.Get(id)
	if c == nil || math.IsNaN(d) || math.IsInf(d, 0) {
		return false
	}
	c.Duration = ClampDuration(d)
	return true
}

func ClampDuration(d float64) float64 {
	if d < MinDuration {
		return MinDuration
	}
	return d
}

func (tl *Timeline) Delete(id string) bool {
	i := tl.index(id)
	if i < 0 {
		log.Debugf("delete: no clip %s", id)
		return false
	}
	track := tl.clips[i].Track
	tl.clips = append(tl.clips[:i], tl.clips[i+1:]...)
	tl.normalize(track)
	return true
}

// CycleTransition advances a video clip's transition type to the next one
// in TransitionTypes.
func (tl *Timeline) CycleTransition(id string) bool {
	c := tl.Get(id)
	if c == nil || c.Track != TrackVideo {
		return false
	}
	if c.Transition == nil {
		c.Transition = &Transition{Type: TransitionNone, Duration: DefaultTransitionDuration}
	}
	c.Transition.Type = c.Transition.Type.Next()
	return true
}

func (tl *Timeline) SetTransition(id string, t TransitionType) bool {
	c := tl.Get(id)
	if c == nil || c.Track != TrackVideo || !t.Valid() {
		return false
	}
	if c.Transition == nil {
		c.Transition = &Transition{Duration: DefaultTransitionDuration}
	}
	c.Transition.Type = t
	return true
}

func (tl *Timeline) SetTransitionDuration(id string, d float64) bool {
	c := tl.Get(id)
	if c == nil || c.Track != TrackVideo || c.Transition == nil || math.IsNaN(d) {
		return false
	}
	c.Transition.Duration = clampTransitionDuration(d)
	return true
}

func (tl *Timeline) textOf(id string) *content.TextContent {
	c := tl.Get(id)
	if c == nil {
		return nil
	}
	return c.Content.Text
}

func (tl *Timeline) UpdateText(id, text string) bool {
	t := tl.textOf(id)
	if t == nil {
		return false
	}
	t.Text = text
	return true
}

// MoveText pins a text overlay at (x, y), in percent of the frame.
func (tl *Timeline) MoveText(id string, x, y float64) bool {
	t := tl.textOf(id)
	if t == nil {
		return false
	}
	x, y = clampPercent(x), clampPercent(y)
	t.Position = content.PositionCustom
	t.CustomX = &x
	t.CustomY = &y
	return true
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// TextStyle carries the text panel fields. Nil fields are left alone.
type TextStyle struct {
	FontFamily      *string            `json:"fontFamily,omitempty"`
	FontSize        *float64           `json:"fontSize,omitempty"`
	Color           *string            `json:"color,omitempty"`
	BackgroundColor *string            `json:"backgroundColor,omitempty"`
	Position        *content.Position  `json:"position,omitempty"`
	Alignment       *content.Alignment `json:"alignment,omitempty"`
	Animation       *content.Animation `json:"animation,omitempty"`
	Link            *string            `json:"link,omitempty"`
	LinkEnabled     *bool              `json:"linkEnabled,omitempty"`
}

func (tl *Timeline) UpdateTextStyle(id string, s TextStyle) bool {
	t := tl.textOf(id)
	if t == nil {
		return false
	}
	if s.FontFamily != nil {
		t.FontFamily = *s.FontFamily
	}
	if s.FontSize != nil && *s.FontSize > 0 {
		t.FontSize = *s.FontSize
	}
	if s.Color != nil {
		t.Color = *s.Color
	}
	if s.BackgroundColor != nil {
		t.BackgroundColor = *s.BackgroundColor
	}
	if s.Position != nil {
		t.Position = *s.Position
		if t.Position != content.PositionCustom {
			t.CustomX, t.CustomY = nil, nil
		}
	}
	if s.Alignment != nil {
		t.Alignment = *s.Alignment
	}
	if s.Animation != nil {
		t.Animation = *s.Animation
	}
	if s.Link != nil {
		t.Link = *s.Link
	}
	if s.LinkEnabled != nil {
		t.LinkEnabled = *s.LinkEnabled
	}
	return true
}
