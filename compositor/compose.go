package compositor

import (
	"math"

	"slidestack/content"
	"slidestack/timeline"
)

const (
	entranceDuration = 0.5  // seconds
	slideDistance    = 20.0 // pixels
)

// Compose describes the frame at time t. It reads clips and never changes
// them.
func Compose(t float64, clips []*timeline.Clip) Scene {
	scene := Scene{
		Time:     t,
		Duration: timeline.TotalDuration(clips),
		Layers:   []Layer{},
		Texts:    []TextOverlay{},
	}

	video := timeline.Spans(clips, timeline.TrackVideo)
	switch {
	case len(video) == 0:
		scene.State = StateIdle
	case t >= scene.Duration:
		scene.State = StateEnded
	default:
		scene.State = StateActive
		composeVideo(&scene, video, t)
	}

	// overlays never outlast the video track
	if scene.State != StateActive {
		return scene
	}
	scene.Texts = composeTexts(clips, t)
	if s, ok := timeline.ActiveAt(clips, timeline.TrackAudio, t); ok && s.Clip.Content.Media != nil {
		scene.Audio = &AudioCue{ClipID: s.Clip.ID, URL: s.Clip.Content.Media.URL, Offset: t - s.Start}
	}
	return scene
}

func composeVideo(scene *Scene, spans []timeline.Span, t float64) {
	idx := -1
	for i, s := range spans {
		if s.Contains(t) {
			idx = i
			break
		}
	}
	if idx < 0 {
		// negative times fall before the first clip
		scene.State = StateEnded
		return
	}
	cur := spans[idx]
	current := layer(cur, RoleCurrent, t-cur.Start)

	if idx+1 >= len(spans) {
		scene.Layers = append(scene.Layers, current)
		return
	}
	next := spans[idx+1]
	tr := next.Clip.Transition
	if !tr.Active() {
		scene.Layers = append(scene.Layers, current)
		return
	}

	window := math.Min(tr.Duration, cur.Clip.Duration)
	windowStart := cur.End - window
	if t < windowStart {
		scene.Layers = append(scene.Layers, current)
		return
	}

	progress := clamp01((t - windowStart) / window)
	outgoing := current
	outgoing.Role = RoleOutgoing
	incoming := layer(next, RoleIncoming, 0)
	interpolate(tr.Type, progress, &outgoing, &incoming)

	scene.Layers = append(scene.Layers, outgoing, incoming)
	scene.Transition = Transition{InTransition: true, Type: tr.Type, Progress: progress}
}

func layer(s timeline.Span, role Role, offset float64) Layer {
	return Layer{
		ClipID:  s.Clip.ID,
		Role:    role,
		Content: s.Clip.Content,
		Offset:  offset,
		Opacity: 1,
		Scale:   1,
		Reveal:  1,
	}
}

// interpolate applies the blend of one transition type at progress p.
func interpolate(typ timeline.TransitionType, p float64, out, in *Layer) {
	switch typ {
	case timeline.TransitionFade, timeline.TransitionDissolve:
		out.Opacity = 1 - p
		in.Opacity = p
	case timeline.TransitionSlideLeft:
		out.TranslateX = -p * 100
		in.TranslateX = (1 - p) * 100
	case timeline.TransitionSlideRight:
		out.TranslateX = p * 100
		in.TranslateX = -(1 - p) * 100
	case timeline.TransitionZoom:
		out.Scale = 1 + 0.5*p
		out.Opacity = 1 - p
		in.Scale = 0.5 + 0.5*p
		in.Opacity = p
	case timeline.TransitionWipe:
		in.Reveal = p
	}
}

func composeTexts(clips []*timeline.Clip, t float64) []TextOverlay {
	texts := []TextOverlay{}
	for _, s := range timeline.Spans(clips, timeline.TrackText) {
		if !s.Contains(t) || s.Clip.Content.Text == nil {
			continue
		}
		tc := s.Clip.Content.Text
		x, y := tc.Anchor()
		o := TextOverlay{
			ClipID:          s.Clip.ID,
			Text:            tc.Text,
			FontFamily:      tc.FontFamily,
			FontSize:        tc.FontSize,
			Color:           tc.Color,
			BackgroundColor: tc.BackgroundColor,
			Alignment:       tc.Alignment,
			X:               x,
			Y:               y,
			Opacity:         1,
		}
		if tc.LinkEnabled {
			o.Link = tc.Link
		}

		p := clamp01((t - s.Start) / entranceDuration)
		switch tc.Animation {
		case content.AnimationFade:
			o.Opacity = p
		case content.AnimationSlide:
			o.Opacity = p
			o.OffsetY = (1 - p) * slideDistance
		}
		texts = append(texts, o)
	}
	return texts
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
