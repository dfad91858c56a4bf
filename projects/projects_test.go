package projects

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"slidestack/content"
	"slidestack/database"
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
	if err := db.AutoMigrate(&Project{}); err != nil {
		t.Fatal(err)
	}
	database.Init(db, logger)
	Init(logger)
	t.Cleanup(database.Fini)
}

func TestCreateGetDelete(t *testing.T) {
	setup(t)
	p, err := Create("  Holiday  ", "beach")
	if err != nil {
		t.Fatal(err)
	}
	if p.Title != "Holiday" || p.Status != StatusDraft || string(p.Timeline) != "[]" {
		t.Fatalf("created %+v", p)
	}
	got, err := Get(p.ID)
	if err != nil || got.Description != "beach" {
		t.Fatalf("get = %+v, %v", got, err)
	}
	if err := Delete(p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := Get(p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("after delete: %v", err)
	}
	if err := Delete(p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestCreateValidatesTitle(t *testing.T) {
	setup(t)
	long := make([]byte, maxTitle+1)
	for i := range long {
		long[i] = 'a'
	}
	for _, title := range []string{"", "   ", string(long)} {
		if _, err := Create(title, ""); !errors.Is(err, ErrInvalid) {
			t.Errorf("Create(%q): %v", title, err)
		}
	}
}

func TestUpdate(t *testing.T) {
	setup(t)
	p, _ := Create("a", "")
	title := "b"
	got, err := Update(p.ID, &title, nil)
	if err != nil || got.Title != "b" {
		t.Fatalf("update = %+v, %v", got, err)
	}
	if _, err := Update("missing", &title, nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing: %v", err)
	}
}

func TestTimelineRoundTrip(t *testing.T) {
	setup(t)
	p, _ := Create("round trip", "")

	tl := timeline.New()
	tl.AddMedia(content.MediaFile{ID: "m1", Type: content.TypeImage, URL: "http://x/1.png"})
	tl.AddText("caption")
	if err := (Store{}).SaveTimeline(context.Background(), p.ID, tl.SavePayload()); err != nil {
		t.Fatal(err)
	}

	loaded, dropped, err := LoadTimeline(p.ID)
	if err != nil || dropped != 0 {
		t.Fatalf("load: dropped %d, %v", dropped, err)
	}
	if loaded.Len() != 2 || loaded.TotalDuration() != 3 {
		t.Fatalf("loaded %d clips, %.1fs", loaded.Len(), loaded.TotalDuration())
	}
	got, _ := Get(p.ID)
	if got.Duration != 3 || got.LastSaved == nil {
		t.Fatalf("project %+v", got)
	}
}

func TestSaveTimelineUnknownProject(t *testing.T) {
	setup(t)
	err := SaveTimeline("nope", timeline.New().SavePayload())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestRecordRender(t *testing.T) {
	setup(t)
	p, _ := Create("render", "")
	req := timeline.New().RenderRequest("", 0, "")
	if err := RecordRender(p.ID, "job-1", req); err != nil {
		t.Fatal(err)
	}
	got, _ := Get(p.ID)
	if got.Status != StatusProcessing || len(got.Config) == 0 {
		t.Fatalf("project %+v", got)
	}
}
