package ruler

// Transport is the part of the playback clock the playhead drives.
type Transport interface {
	Seek(t float64)
	Play()
	Pause()
	Playing() bool
	Time() float64
	Duration() float64
}

// Playhead turns clicks and drags on the ruler into seeks. A drag pauses
// playback until the mouse is released.
type Playhead struct {
	ruler    *Ruler
	clock    Transport
	dragging bool
	resume   bool
}

func NewPlayhead(r *Ruler, clock Transport) *Playhead {
	return &Playhead{ruler: r, clock: clock}
}

func (p *Playhead) seek(px float64) float64 {
	t := p.ruler.TimeAt(px, p.clock.Duration())
	p.clock.Seek(t)
	return t
}

func (p *Playhead) Click(px float64) float64 {
	return p.seek(px)
}

func (p *Playhead) Begin(px float64) float64 {
	if !p.dragging {
		p.dragging = true
		p.resume = p.clock.Playing()
		if p.resume {
			p.clock.Pause()
		}
	}
	return p.seek(px)
}

// Move is ignored outside a drag.
func (p *Playhead) Move(px float64) (float64, bool) {
	if !p.dragging {
		return 0, false
	}
	return p.seek(px), true
}

// End resumes the playback the drag paused, unless the drag left the
// playhead at the end; playing from there would start over at zero.
func (p *Playhead) End() {
	if !p.dragging {
		return
	}
	p.dragging = false
	if p.resume {
		p.resume = false
		if p.clock.Time() < p.clock.Duration() {
			p.clock.Play()
		}
	}
}

func (p *Playhead) Dragging() bool {
	return p.dragging
}
