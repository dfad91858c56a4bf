package transport

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var log = logrus.NewEntry(logrus.StandardLogger())

func Init(logger *logrus.Logger) error {
	log = logger.WithFields(logrus.Fields{
		"component": "transport",
	})
	return nil
}

type State string

const (
	Paused  State = "paused"
	Playing State = "playing"
)

const (
	Interval = 33 * time.Millisecond // ~30fps
	SkipStep = 1.0                   // seconds
)

// Clock owns the shared current time. Every change goes through the mutex,
// so a seek can land between two ticks and the next tick adds its delta to
// the seeked time.
type Clock struct {
	mu       sync.Mutex
	state    State
	time     float64
	duration float64

	// OnTick is called after every change of time or state, outside the lock.
	OnTick func(t float64, playing bool)
}

func NewClock(duration float64) *Clock {
	return &Clock{state: Paused, duration: math.Max(0, duration)}
}

func (c *Clock) notify(t float64, st State) {
	if c.OnTick != nil {
		c.OnTick(t, st == Playing)
	}
}

func (c *Clock) snapshot() (float64, State) {
	return c.time, c.state
}

func (c *Clock) Time() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.time
}

func (c *Clock) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Clock) Playing() bool {
	return c.State() == Playing
}

func (c *Clock) Duration() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

// SetDuration follows the timeline length; a shrinking timeline pulls the
// current time back inside it.
func (c *Clock) SetDuration(d float64) {
	c.mu.Lock()
	c.duration = math.Max(0, d)
	changed := false
	if c.time > c.duration {
		c.time = c.duration
		changed = true
	}
	if c.duration == 0 && c.state == Playing {
		c.state = Paused
		changed = true
	}
	t, st := c.snapshot()
	c.mu.Unlock()
	if changed {
		c.notify(t, st)
	}
}

// Play starts playback. At the end of the timeline it starts over from
// zero; an empty timeline never plays.
func (c *Clock) Play() {
	c.mu.Lock()
	if c.duration <= 0 || c.state == Playing {
		c.mu.Unlock()
		return
	}
	if c.time >= c.duration {
		c.time = 0
	}
	c.state = Playing
	t, st := c.snapshot()
	c.mu.Unlock()
	log.Debugf("play from %.3f", t)
	c.notify(t, st)
}

func (c *Clock) Pause() {
	c.mu.Lock()
	if c.state == Paused {
		c.mu.Unlock()
		return
	}
	c.state = Paused
	t, st := c.snapshot()
	c.mu.Unlock()
	log.Debugf("pause at %.3f", t)
	c.notify(t, st)
}

func (c *Clock) Toggle() {
	if c.Playing() {
		c.Pause()
	} else {
		c.Play()
	}
}

// Seek moves the current time, clamped to [0, duration]. Play state is kept.
func (c *Clock) Seek(t float64) {
	c.mu.Lock()
	c.time = c.clamp(t)
	t, st := c.snapshot()
	c.mu.Unlock()
	c.notify(t, st)
}

func (c *Clock) SkipForward() {
	c.skip(SkipStep)
}

func (c *Clock) SkipBack() {
	c.skip(-SkipStep)
}

func (c *Clock) skip(delta float64) {
	c.mu.Lock()
	c.time = c.clamp(c.time + delta)
	t, st := c.snapshot()
	c.mu.Unlock()
	c.notify(t, st)
}

func (c *Clock) clamp(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	return math.Min(t, c.duration)
}

// Advance is one tick: it adds dt seconds to the latest time while playing.
// Reaching the end clamps to the duration and pauses.
func (c *Clock) Advance(dt float64) {
	c.mu.Lock()
	if c.state != Playing {
		c.mu.Unlock()
		return
	}
	c.time += dt
	if c.time >= c.duration {
		c.time = c.duration
		c.state = Paused
		log.Debugf("reached end at %.3f", c.duration)
	}
	t, st := c.snapshot()
	c.mu.Unlock()
	c.notify(t, st)
}

// Run ticks the clock every Interval until ctx is done. Ticks while paused
// are no-ops, so Run can live for the whole editor session.
func (c *Clock) Run(ctx context.Context) {
	ticker := time.NewTicker(Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Advance(Interval.Seconds())
		}
	}
}
