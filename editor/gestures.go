package editor

import (
	"math"

	"slidestack/timeline"
)

type Edge string

const (
	EdgeLeft  Edge = "left"
	EdgeRight Edge = "right"
)

// ResizeDrag is a trim in progress. The duration changes live while the
// mouse moves; listeners hear about it once, on release.
type ResizeDrag struct {
	ClipID        string
	Edge          Edge
	startPx       float64
	startDuration float64
	pps           float64
	Duration      float64
}

// TextDrag moves a text overlay over the preview frame. Positions are in
// percent of the frame; the clip only changes on release.
type TextDrag struct {
	ClipID         string
	originX        float64
	originY        float64
	startX, startY float64
	frameW, frameH float64
	X, Y           float64
}

// BeginResize starts trimming clip id from the given edge at pointer px.
func (s *Session) BeginResize(id string, edge Edge, px float64) bool {
	s.gesture.Lock()
	defer s.gesture.Unlock()

	s.mu.Lock()
	c := s.tl.Get(id)
	var d float64
	if c != nil {
		d = c.Duration
	}
	s.mu.Unlock()
	if c == nil {
		return false
	}
	s.resize = &ResizeDrag{
		ClipID:        id,
		Edge:          edge,
		startPx:       px,
		startDuration: d,
		pps:           s.ruler.PixelsPerSecond(),
		Duration:      d,
	}
	return true
}

// MoveResize applies the live duration for pointer px and returns it.
func (s *Session) MoveResize(px float64) (float64, bool) {
	s.gesture.Lock()
	defer s.gesture.Unlock()
	r := s.resize
	if r == nil {
		return 0, false
	}
	delta := (px - r.startPx) / r.pps
	if r.Edge == EdgeLeft {
		delta = -delta
	}
	d := timeline.ClampDuration(r.startDuration + delta)

	s.mu.Lock()
	ok := s.tl.SetDuration(r.ClipID, d)
	total := s.tl.TotalDuration()
	s.mu.Unlock()
	if !ok {
		// clip deleted under the drag
		s.resize = nil
		return 0, false
	}
	r.Duration = d
	s.clock.SetDuration(total)
	return d, true
}

// EndResize commits the trim.
func (s *Session) EndResize() bool {
	s.gesture.Lock()
	r := s.resize
	s.resize = nil
	s.gesture.Unlock()
	if r == nil {
		return false
	}
	s.resync()
	s.emit(Event{Kind: ClipsChanged, ClipID: r.ClipID})
	return true
}

// BeginTextDrag grabs the overlay of text clip id at pointer (px, py) over a
// frame of the given size in pixels.
func (s *Session) BeginTextDrag(id string, px, py, frameW, frameH float64) bool {
	if frameW <= 0 || frameH <= 0 {
		return false
	}
	s.gesture.Lock()
	defer s.gesture.Unlock()

	s.mu.Lock()
	c := s.tl.Get(id)
	var x, y float64
	ok := c != nil && c.Content.Text != nil
	if ok {
		x, y = c.Content.Text.Anchor()
	}
	s.mu.Unlock()
	if !ok {
		return false
	}
	s.text = &TextDrag{
		ClipID:  id,
		originX: px,
		originY: py,
		startX:  x,
		startY:  y,
		frameW:  frameW,
		frameH:  frameH,
		X:       x,
		Y:       y,
	}
	return true
}

// MoveTextDrag returns the live overlay position for pointer (px, py).
func (s *Session) MoveTextDrag(px, py float64) (x, y float64, ok bool) {
	s.gesture.Lock()
	defer s.gesture.Unlock()
	d := s.text
	if d == nil {
		return 0, 0, false
	}
	d.X = percent(d.startX + (px-d.originX)/d.frameW*100)
	d.Y = percent(d.startY + (py-d.originY)/d.frameH*100)
	return d.X, d.Y, true
}

// EndTextDrag writes the final position to the clip as a custom position.
func (s *Session) EndTextDrag() bool {
	s.gesture.Lock()
	d := s.text
	s.text = nil
	s.gesture.Unlock()
	if d == nil {
		return false
	}
	return s.edit(d.ClipID, func(tl *timeline.Timeline) bool {
		return tl.MoveText(d.ClipID, d.X, d.Y)
	})
}

func percent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
