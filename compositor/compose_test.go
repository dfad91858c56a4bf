package compositor

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"slidestack/content"
	"slidestack/timeline"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func videoClip(id string, order int, d float64, tr *timeline.Transition) *timeline.Clip {
	return &timeline.Clip{
		ID:         id,
		Content:    content.Media(content.MediaFile{ID: "m-" + id, Type: content.TypeVideo, URL: "http://x/" + id + ".mp4"}),
		Duration:   d,
		Order:      order,
		Track:      timeline.TrackVideo,
		Transition: tr,
	}
}

func textClip(id string, order int, d float64, tc content.TextContent) *timeline.Clip {
	tc.ID = "t-" + id
	return &timeline.Clip{ID: id, Content: content.Text(tc), Duration: d, Order: order, Track: timeline.TrackText}
}

func twoClips(typ timeline.TransitionType) []*timeline.Clip {
	return []*timeline.Clip{
		videoClip("a", 0, 4, nil),
		videoClip("b", 1, 6, &timeline.Transition{Type: typ, Duration: 0.5}),
	}
}

func TestTransitionWindow(t *testing.T) {
	scene := Compose(3.8, twoClips(timeline.TransitionFade))
	if !scene.Transition.InTransition {
		t.Fatal("expected transition at 3.8")
	}
	if !near(scene.Transition.Progress, 0.6) {
		t.Fatalf("progress %v want 0.6", scene.Transition.Progress)
	}
	if len(scene.Layers) != 2 || scene.Layers[0].ClipID != "a" || scene.Layers[1].ClipID != "b" {
		t.Fatalf("layers %+v", scene.Layers)
	}
	if !near(scene.Layers[0].Opacity, 0.4) || !near(scene.Layers[1].Opacity, 0.6) {
		t.Fatalf("opacities %v %v", scene.Layers[0].Opacity, scene.Layers[1].Opacity)
	}
}

func TestOutsideWindow(t *testing.T) {
	scene := Compose(3.4, twoClips(timeline.TransitionFade))
	if scene.Transition.InTransition || len(scene.Layers) != 1 || scene.Layers[0].ClipID != "a" {
		t.Fatalf("unexpected %+v", scene)
	}
	if !near(scene.Layers[0].Offset, 3.4) {
		t.Fatalf("offset %v", scene.Layers[0].Offset)
	}
	scene = Compose(4, twoClips(timeline.TransitionFade))
	if scene.Transition.InTransition || scene.Current().ClipID != "b" {
		t.Fatalf("at 4 the second clip is current: %+v", scene)
	}
}

func TestInterpolations(t *testing.T) {
	tests := []struct {
		typ      timeline.TransitionType
		out, in  Layer
		inWindow bool
	}{
		{timeline.TransitionDissolve, Layer{Opacity: 0.4, Scale: 1, Reveal: 1}, Layer{Opacity: 0.6, Scale: 1, Reveal: 1}, true},
		{timeline.TransitionSlideLeft, Layer{Opacity: 1, TranslateX: -60, Scale: 1, Reveal: 1}, Layer{Opacity: 1, TranslateX: 40, Scale: 1, Reveal: 1}, true},
		{timeline.TransitionSlideRight, Layer{Opacity: 1, TranslateX: 60, Scale: 1, Reveal: 1}, Layer{Opacity: 1, TranslateX: -40, Scale: 1, Reveal: 1}, true},
		{timeline.TransitionZoom, Layer{Opacity: 0.4, Scale: 1.3, Reveal: 1}, Layer{Opacity: 0.6, Scale: 0.8, Reveal: 1}, true},
		{timeline.TransitionWipe, Layer{Opacity: 1, Scale: 1, Reveal: 1}, Layer{Opacity: 1, Scale: 1, Reveal: 0.6}, true},
		{timeline.TransitionNone, Layer{}, Layer{}, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			scene := Compose(3.8, twoClips(tt.typ))
			if scene.Transition.InTransition != tt.inWindow {
				t.Fatalf("InTransition = %v", scene.Transition.InTransition)
			}
			if !tt.inWindow {
				if len(scene.Layers) != 1 {
					t.Fatalf("hard cut shows %d layers", len(scene.Layers))
				}
				return
			}
			out, in := scene.Layers[0], scene.Layers[1]
			check := func(name string, got, want Layer) {
				if !near(got.Opacity, want.Opacity) || !near(got.TranslateX, want.TranslateX) ||
					!near(got.Scale, want.Scale) || !near(got.Reveal, want.Reveal) {
					t.Errorf("%s: got %+v want %+v", name, got, want)
				}
			}
			check("outgoing", out, tt.out)
			check("incoming", in, tt.in)
		})
	}
}

func TestWindowClampedToClip(t *testing.T) {
	clips := []*timeline.Clip{
		videoClip("a", 0, 1, nil),
		videoClip("b", 1, 3, &timeline.Transition{Type: timeline.TransitionFade, Duration: 2}),
	}
	scene := Compose(0.5, clips)
	if !scene.Transition.InTransition || !near(scene.Transition.Progress, 0.5) {
		t.Fatalf("transition %+v", scene.Transition)
	}
}

func TestEmptyAndEnded(t *testing.T) {
	if s := Compose(0, nil); s.State != StateIdle || len(s.Layers) != 0 {
		t.Fatalf("empty: %+v", s)
	}
	if s := Compose(10, twoClips(timeline.TransitionFade)); s.State != StateEnded || len(s.Layers) != 0 {
		t.Fatalf("ended: %+v", s)
	}
	textOnly := []*timeline.Clip{textClip("t", 0, 3, content.NewText("x"))}
	if s := Compose(1, textOnly); s.State != StateIdle || len(s.Texts) != 0 {
		t.Fatalf("text only: %+v", s)
	}
}

func TestOverlaysEndWithVideo(t *testing.T) {
	dur := 10.0
	clips := []*timeline.Clip{
		{
			ID:       "img",
			Content:  content.Media(content.MediaFile{ID: "m-img", Type: content.TypeImage, URL: "http://x/1.png"}),
			Duration: 3,
			Track:    timeline.TrackVideo,
		},
		textClip("t1", 0, 3, content.NewText("first")),
		textClip("t2", 1, 3, content.NewText("second")),
		{
			ID:       "au",
			Content:  content.Media(content.MediaFile{ID: "m-au", Type: content.TypeAudio, URL: "http://x/a.mp3", Duration: &dur}),
			Duration: 10,
			Track:    timeline.TrackAudio,
		},
	}
	s := Compose(2, clips)
	if len(s.Texts) != 1 || s.Audio == nil {
		t.Fatalf("inside the video track: %+v", s)
	}
	s = Compose(4, clips)
	if s.State != StateEnded || len(s.Texts) != 0 || s.Audio != nil {
		t.Fatalf("past the video track: state %s texts %+v audio %+v", s.State, s.Texts, s.Audio)
	}
}

func TestTextTrackIndependent(t *testing.T) {
	top := content.NewText("title")
	top.Position = content.PositionTop
	x, y := 20.0, 70.0
	custom := content.NewText("note")
	custom.Position = content.PositionCustom
	custom.CustomX, custom.CustomY = &x, &y

	clips := append(twoClips(timeline.TransitionNone),
		textClip("t1", 0, 2, top),
		textClip("t2", 1, 2, custom),
	)
	s := Compose(1, clips)
	if len(s.Texts) != 1 || s.Texts[0].ClipID != "t1" || s.Texts[0].Y != 10 {
		t.Fatalf("texts at 1: %+v", s.Texts)
	}
	s = Compose(3, clips)
	if len(s.Texts) != 1 || s.Texts[0].X != 20 || s.Texts[0].Y != 70 {
		t.Fatalf("texts at 3: %+v", s.Texts)
	}
	if s = Compose(5, clips); len(s.Texts) != 0 {
		t.Fatalf("text track is over at 4: %+v", s.Texts)
	}
}

func TestTextEntrance(t *testing.T) {
	tc := content.NewText("hi")
	tc.Animation = content.AnimationSlide
	clips := []*timeline.Clip{videoClip("v", 0, 3, nil), textClip("t", 0, 3, tc)}
	s := Compose(0.25, clips)
	if !near(s.Texts[0].Opacity, 0.5) || !near(s.Texts[0].OffsetY, 10) {
		t.Fatalf("entrance %+v", s.Texts[0])
	}
	s = Compose(2, clips)
	if s.Texts[0].Opacity != 1 || s.Texts[0].OffsetY != 0 {
		t.Fatalf("settled %+v", s.Texts[0])
	}
}

func TestAudioCue(t *testing.T) {
	dur := 4.0
	audio := &timeline.Clip{
		ID:       "au",
		Content:  content.Media(content.MediaFile{ID: "m", Type: content.TypeAudio, URL: "http://x/a.mp3", Duration: &dur}),
		Duration: 4,
		Track:    timeline.TrackAudio,
	}
	clips := append(twoClips(timeline.TransitionFade), audio)
	s := Compose(2.5, clips)
	if s.Audio == nil || s.Audio.ClipID != "au" || !near(s.Audio.Offset, 2.5) {
		t.Fatalf("audio %+v", s.Audio)
	}
	if s = Compose(5, clips); s.Audio != nil {
		t.Fatalf("audio past its clip: %+v", s.Audio)
	}
}

func TestComposeDoesNotMutate(t *testing.T) {
	clips := twoClips(timeline.TransitionZoom)
	before, _ := json.Marshal(clips)
	Compose(3.9, clips)
	after, _ := json.Marshal(clips)
	if !reflect.DeepEqual(before, after) {
		t.Fatal("Compose changed the clip list")
	}
}
