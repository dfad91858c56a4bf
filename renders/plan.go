package renders

import (
	"fmt"
	"math"

	"slidestack/content"
	"slidestack/ffmpeg"
	"slidestack/timeline"
)

// Segment is one video-track clip rendered to a fixed-length stream.
type Segment struct {
	ClipID   string            `json:"clipId"`
	Kind     content.MediaType `json:"kind"`
	Source   string            `json:"source"`
	Start    float64           `json:"start"`
	Duration float64           `json:"duration"`
	Filter   string            `json:"filter"`
}

// Crossfade blends segment Index-1 into segment Index.
type Crossfade struct {
	Index      int     `json:"index"`
	Transition string  `json:"transition"`
	Duration   float64 `json:"duration"`
	Offset     float64 `json:"offset"`
	Filter     string  `json:"filter"`
}

type TextOverlay struct {
	ClipID string  `json:"clipId"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Filter string  `json:"filter"`
}

type AudioSegment struct {
	ClipID string  `json:"clipId"`
	Source string  `json:"source"`
	Start  float64 `json:"start"`
	// Duration is capped at the end of the video track.
	Duration float64 `json:"duration"`
}

// Plan is everything an encoder needs to turn a timeline into one file.
type Plan struct {
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	FPS        float64        `json:"fps"`
	CRF        int            `json:"crf"`
	Duration   float64        `json:"duration"`
	Segments   []Segment      `json:"segments"`
	Crossfades []Crossfade    `json:"crossfades"`
	Texts      []TextOverlay  `json:"texts"`
	Audio      []AudioSegment `json:"audio"`
}

var crf = map[timeline.Quality]int{
	timeline.QualityLow:    28,
	timeline.QualityMedium: 23,
	timeline.QualityHigh:   18,
}

// BuildPlan lays out the filter graph of a render. Transitions follow the
// preview: the window sits at the end of the outgoing clip and never runs
// longer than it.
func BuildPlan(req timeline.RenderRequest) (*Plan, error) {
	req.ApplyDefaults()
	if err := Validate(&req); err != nil {
		return nil, err
	}
	w, h, _ := ParseResolution(req.Resolution)
	plan := &Plan{
		Width:      w,
		Height:     h,
		FPS:        req.FPS,
		CRF:        crf[req.Quality],
		Duration:   timeline.TotalDuration(req.Timeline),
		Segments:   []Segment{},
		Crossfades: []Crossfade{},
		Texts:      []TextOverlay{},
		Audio:      []AudioSegment{},
	}

	spans := timeline.Spans(req.Timeline, timeline.TrackVideo)
	for i, s := range spans {
		m := s.Clip.Content.Media
		if m == nil {
			return nil, fmt.Errorf("%w: clip %s on the video track has no media", ErrInvalidRequest, s.Clip.ID)
		}
		fb := ffmpeg.NewFilterBuilder()
		if m.Type == content.TypeImage {
			fb.Custom("loop=loop=-1:size=1")
		}
		plan.Segments = append(plan.Segments, Segment{
			ClipID:   s.Clip.ID,
			Kind:     m.Type,
			Source:   m.URL,
			Start:    s.Start,
			Duration: s.Clip.Duration,
			Filter:   fb.Trim(s.Clip.Duration).Scale(w, h).FPS(req.FPS).Build(),
		})

		if i == 0 || !s.Clip.Transition.Active() {
			continue
		}
		name, ok := ffmpeg.XFadeName(string(s.Clip.Transition.Type))
		if !ok {
			continue
		}
		window := math.Min(s.Clip.Transition.Duration, spans[i-1].Clip.Duration)
		offset := s.Start - window
		plan.Crossfades = append(plan.Crossfades, Crossfade{
			Index:      i,
			Transition: name,
			Duration:   window,
			Offset:     offset,
			Filter:     ffmpeg.XFade(name, window, offset),
		})
	}

	for _, s := range timeline.Spans(req.Timeline, timeline.TrackText) {
		tc := s.Clip.Content.Text
		if tc == nil || s.Start >= plan.Duration {
			continue
		}
		x, y := tc.Anchor()
		end := math.Min(s.End, plan.Duration)
		fb := ffmpeg.NewFilterBuilder().DrawText(tc.Text, tc.FontFamily, tc.Color, tc.FontSize, x, y)
		filter := fb.Build()
		if filter == "" {
			continue
		}
		filter += fmt.Sprintf(":enable='between(t,%s,%s)'", fmtSeconds(s.Start), fmtSeconds(end))
		plan.Texts = append(plan.Texts, TextOverlay{ClipID: s.Clip.ID, Start: s.Start, End: end, Filter: filter})
	}

	for _, s := range timeline.Spans(req.Timeline, timeline.TrackAudio) {
		m := s.Clip.Content.Media
		if m == nil || s.Start >= plan.Duration {
			continue
		}
		plan.Audio = append(plan.Audio, AudioSegment{
			ClipID:   s.Clip.ID,
			Source:   m.URL,
			Start:    s.Start,
			Duration: math.Min(s.End, plan.Duration) - s.Start,
		})
	}
	return plan, nil
}

func fmtSeconds(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
