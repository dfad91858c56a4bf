package timeline

import (
	"encoding/json"
	"math"
	"time"
)

// Load hydrates a timeline from a persisted clip array. A payload that is not
// an array yields an empty timeline; malformed entries are dropped one by one.
// The second result is the number of dropped entries.
func Load(data []byte) (*Timeline, int) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		if len(data) > 0 {
			log.Warnf("timeline payload is not an array: %v", err)
		}
		return New(), 0
	}

	tl := New()
	dropped := 0
	for i, r := range raw {
		var c Clip
		if err := json.Unmarshal(r, &c); err != nil {
			log.Warnf("dropping timeline entry %d: %v", i, err)
			dropped++
			continue
		}
		if err := c.check(); err != "" {
			log.Warnf("dropping timeline entry %d: %s", i, err)
			dropped++
			continue
		}
		if want := TrackFor(c.Content); c.Track != want {
			log.Debugf("clip %s: track %q does not match content, using %q", c.ID, c.Track, want)
			c.Track = want
		}
		tl.clips = append(tl.clips, &c)
	}
	return tl, dropped
}

func (c *Clip) check() string {
	switch {
	case c.ID == "":
		return "missing id"
	case c.Content.IsZero():
		return "missing content"
	case c.Duration <= 0 || math.IsNaN(c.Duration) || math.IsInf(c.Duration, 0):
		return "duration must be positive"
	}
	return ""
}

// Snapshot deep-copies the clip list so it can be encoded while the
// timeline keeps changing.
func (tl *Timeline) Snapshot() []*Clip {
	out := make([]*Clip, len(tl.clips))
	for i, c := range tl.clips {
		cp := *c
		cp.Content = c.Content.Clone()
		if c.Transition != nil {
			tr := *c.Transition
			cp.Transition = &tr
		}
		out[i] = &cp
	}
	return out
}

// SavePayload is what the project-save collaborator stores.
type SavePayload struct {
	Timeline  []*Clip   `json:"timeline"`
	Duration  float64   `json:"duration"`
	LastSaved time.Time `json:"lastSaved"`
}

func (tl *Timeline) SavePayload() SavePayload {
	return SavePayload{
		Timeline:  tl.Snapshot(),
		Duration:  tl.TotalDuration(),
		LastSaved: time.Now().UTC(),
	}
}

type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// RenderRequest is sent to the render collaborator, which answers with a
// job id.
type RenderRequest struct {
	Timeline   []*Clip `json:"timeline"`
	Duration   float64 `json:"duration"`
	Resolution string  `json:"resolution"`
	FPS        float64 `json:"fps"`
	Quality    Quality `json:"quality"`
}

const (
	DefaultResolution = "1920x1080"
	DefaultFPS        = 30
)

func (tl *Timeline) RenderRequest(resolution string, fps float64, quality Quality) RenderRequest {
	req := RenderRequest{
		Timeline:   tl.Snapshot(),
		Duration:   tl.TotalDuration(),
		Resolution: resolution,
		FPS:        fps,
		Quality:    quality,
	}
	req.ApplyDefaults()
	return req
}

func (r *RenderRequest) ApplyDefaults() {
	if r.Resolution == "" {
		r.Resolution = DefaultResolution
	}
	if r.FPS == 0 {
		r.FPS = DefaultFPS
	}
	if r.Quality == "" {
		r.Quality = QualityHigh
	}
}
