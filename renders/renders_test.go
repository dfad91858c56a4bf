package renders

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"slidestack/content"
	"slidestack/database"
	"slidestack/projects"
	"slidestack/timeline"
)

func setup(t *testing.T) {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&projects.Project{}, &Job{}); err != nil {
		t.Fatal(err)
	}
	database.Init(db, logger)
	Init(logger)
	projects.Init(logger)
	t.Cleanup(database.Fini)
}

func slideshow() *timeline.Timeline {
	tl := timeline.New()
	tl.AddMedia(content.MediaFile{ID: "i1", Type: content.TypeImage, URL: "http://cdn/1.png"})
	v := 4.0
	tl.AddMedia(content.MediaFile{ID: "v1", Type: content.TypeVideo, URL: "http://cdn/1.mp4", Duration: &v})
	a := 10.0
	tl.AddMedia(content.MediaFile{ID: "a1", Type: content.TypeAudio, URL: "http://cdn/1.mp3", Duration: &a})
	tl.AddText("hello")
	return tl
}

func TestValidate(t *testing.T) {
	good := slideshow().RenderRequest("", 0, "")
	if err := Validate(&good); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	tests := []struct {
		name   string
		mutate func(r *timeline.RenderRequest)
	}{
		{"resolution", func(r *timeline.RenderRequest) { r.Resolution = "hd" }},
		{"zero width", func(r *timeline.RenderRequest) { r.Resolution = "0x720" }},
		{"fps", func(r *timeline.RenderRequest) { r.FPS = -1 }},
		{"fps nan", func(r *timeline.RenderRequest) { r.FPS = math.NaN() }},
		{"quality", func(r *timeline.RenderRequest) { r.Quality = "ultra" }},
		{"duration", func(r *timeline.RenderRequest) { r.Duration = math.Inf(1) }},
		{"empty", func(r *timeline.RenderRequest) { r.Timeline = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := slideshow().RenderRequest("", 0, "")
			tt.mutate(&req)
			if err := Validate(&req); !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("err = %v", err)
			}
		})
	}
}

func TestBuildPlan(t *testing.T) {
	plan, err := BuildPlan(slideshow().RenderRequest("1280x720", 24, timeline.QualityLow))
	if err != nil {
		t.Fatal(err)
	}
	if plan.Width != 1280 || plan.Height != 720 || plan.CRF != 28 || plan.Duration != 7 {
		t.Fatalf("plan %+v", plan)
	}
	if len(plan.Segments) != 2 || plan.Segments[1].Start != 3 {
		t.Fatalf("segments %+v", plan.Segments)
	}
	if !strings.HasPrefix(plan.Segments[0].Filter, "loop=loop=-1:size=1,trim=duration=3") {
		t.Fatalf("image segment filter %s", plan.Segments[0].Filter)
	}
	if len(plan.Crossfades) != 1 || plan.Crossfades[0].Offset != 2.5 || plan.Crossfades[0].Transition != "fade" {
		t.Fatalf("crossfades %+v", plan.Crossfades)
	}
	if len(plan.Texts) != 1 || !strings.Contains(plan.Texts[0].Filter, "between(t,0.000,3.000)") {
		t.Fatalf("texts %+v", plan.Texts)
	}
	if len(plan.Audio) != 1 || plan.Audio[0].Duration != 7 {
		t.Fatalf("audio is capped at the video track: %+v", plan.Audio)
	}
}

func TestSubmitAndPlan(t *testing.T) {
	setup(t)
	p, _ := projects.Create("render me", "")
	q := Subscribe(p.ID)
	defer Unsubscribe(p.ID, q)

	id, err := (Renderer{}).SubmitRender(context.Background(), p.ID, slideshow().RenderRequest("", 0, ""))
	if err != nil {
		t.Fatal(err)
	}
	if e := <-q.Ch; e.JobID != id || e.Status != StatusQueued {
		t.Fatalf("event %+v", e)
	}
	if got, _ := projects.Get(p.ID); got.Status != projects.StatusProcessing {
		t.Fatalf("project status %s", got.Status)
	}

	if err := PlanPending(context.Background(), 2); err != nil {
		t.Fatal(err)
	}
	job, err := Latest(p.ID)
	if err != nil || job.ID != id {
		t.Fatalf("latest = %+v, %v", job, err)
	}
	if job.Status != StatusProcessing || job.StartedAt == nil || len(job.Plan) == 0 {
		t.Fatalf("job %+v", job)
	}
	var plan Plan
	if err := json.Unmarshal(job.Plan, &plan); err != nil || len(plan.Segments) != 2 {
		t.Fatalf("stored plan %+v, %v", plan, err)
	}
	if e := <-q.Ch; e.Status != StatusProcessing {
		t.Fatalf("event %+v", e)
	}
}

func TestSubmitRejects(t *testing.T) {
	setup(t)
	if _, err := Submit(context.Background(), "missing", slideshow().RenderRequest("", 0, "")); !errors.Is(err, projects.ErrNotFound) {
		t.Fatalf("unknown project: %v", err)
	}
	p, _ := projects.Create("empty", "")
	if _, err := Submit(context.Background(), p.ID, timeline.New().RenderRequest("", 0, "")); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("empty timeline: %v", err)
	}
	if _, err := Latest(p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("no jobs: %v", err)
	}
}

func TestUnplannableJobFails(t *testing.T) {
	setup(t)
	p, _ := projects.Create("broken", "")
	job := &Job{ID: "j1", ProjectID: p.ID, Status: StatusQueued, Request: []byte(`{"timeline":[]}`)}
	database.Get().Create(job)

	if err := PlanPending(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	got, _ := Get("j1")
	if got.Status != StatusFailed || got.ErrorMessage == "" {
		t.Fatalf("job %+v", got)
	}
	if pr, _ := projects.Get(p.ID); pr.Status != projects.StatusFailed {
		t.Fatalf("project status %s", pr.Status)
	}
}

func TestRecover(t *testing.T) {
	setup(t)
	database.Get().Create(&Job{ID: "stuck", ProjectID: "p", Status: StatusProcessing})
	database.Get().Create(&Job{ID: "planned", ProjectID: "p", Status: StatusProcessing, Plan: []byte(`{}`)})
	if err := Recover(); err != nil {
		t.Fatal(err)
	}
	if j, _ := Get("stuck"); j.Status != StatusQueued {
		t.Fatalf("stuck job %s", j.Status)
	}
	if j, _ := Get("planned"); j.Status != StatusProcessing {
		t.Fatalf("planned job %s", j.Status)
	}
}

func TestUnsubscribe(t *testing.T) {
	q := Subscribe("p")
	Unsubscribe("p", q)
	publish(&Job{ID: "j", ProjectID: "p", Status: StatusQueued})
	select {
	case e := <-q.Ch:
		t.Fatalf("unsubscribed queue got %+v", e)
	default:
	}
}
