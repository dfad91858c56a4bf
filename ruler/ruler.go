package ruler

import (
	"fmt"
	"math"
)

const (
	DefaultBase = 50.0 // pixels per second at zoom 1
	MinZoom     = 0.25
	MaxZoom     = 4.0
	ZoomStep    = 1.5

	// labels closer than this start to collide
	minTickSpacing = 40.0
)

var tickIntervals = []float64{1, 2, 5, 10, 30, 60}

// Ruler maps between timeline seconds and horizontal pixels.
type Ruler struct {
	Base float64
	Zoom float64
}

func New() *Ruler {
	return &Ruler{Base: DefaultBase, Zoom: 1}
}

func (r *Ruler) PixelsPerSecond() float64 {
	return r.Base * r.Zoom
}

func (r *Ruler) ZoomIn() float64 {
	r.Zoom = clampZoom(r.Zoom * ZoomStep)
	return r.Zoom
}

func (r *Ruler) ZoomOut() float64 {
	r.Zoom = clampZoom(r.Zoom / ZoomStep)
	return r.Zoom
}

func (r *Ruler) SetZoom(z float64) float64 {
	r.Zoom = clampZoom(z)
	return r.Zoom
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// TimeAt converts a pixel offset inside the viewport to a time in
// [0, total].
func (r *Ruler) TimeAt(px, total float64) float64 {
	pps := r.PixelsPerSecond()
	if pps <= 0 || total <= 0 {
		return 0
	}
	return math.Max(0, math.Min(total, px/pps))
}

func (r *Ruler) PixelAt(t float64) float64 {
	return t * r.PixelsPerSecond()
}

// Width is the pixel width of a span of d seconds.
func (r *Ruler) Width(d float64) float64 {
	return d * r.PixelsPerSecond()
}

// TickInterval picks the finest tick step whose marks stay at least
// minTickSpacing pixels apart.
func (r *Ruler) TickInterval() float64 {
	pps := r.PixelsPerSecond()
	for _, iv := range tickIntervals {
		if iv*pps >= minTickSpacing {
			return iv
		}
	}
	return tickIntervals[len(tickIntervals)-1]
}

type Tick struct {
	Time  float64 `json:"time"`
	X     float64 `json:"x"`
	Label string  `json:"label"`
}

func (r *Ruler) Ticks(total float64) []Tick {
	iv := r.TickInterval()
	n := int(math.Floor(total/iv)) + 1
	ticks := make([]Tick, 0, n)
	for i := 0; i < n; i++ {
		t := float64(i) * iv
		ticks = append(ticks, Tick{Time: t, X: r.PixelAt(t), Label: FormatClock(t)})
	}
	return ticks
}

// FormatClock renders whole seconds as M:SS.
func FormatClock(t float64) string {
	s := int(math.Max(0, t))
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// FormatTimecode renders t as MM:SS:FF at the given frame rate.
func FormatTimecode(t, fps float64) string {
	if t < 0 {
		t = 0
	}
	if fps <= 0 {
		fps = 30
	}
	whole := math.Floor(t)
	// the epsilon absorbs float error in the fractional part (75.1 → 0.0999…)
	frames := int(math.Floor((t-whole)*fps + 1e-6))
	if frames >= int(fps) {
		frames = int(fps) - 1
	}
	s := int(whole)
	return fmt.Sprintf("%02d:%02d:%02d", s/60, s%60, frames)
}
