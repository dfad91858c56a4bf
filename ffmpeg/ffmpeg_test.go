package ffmpeg

import (
	"context"
	"testing"
)

func TestFilterBuilder(t *testing.T) {
	got := NewFilterBuilder().Scale(1920, 1080).FPS(30).Trim(2.5).Build()
	want := "scale=1920:1080:force_original_aspect_ratio=decrease,pad=1920:1080:(ow-iw)/2:(oh-ih)/2,fps=30,trim=duration=2.5,setpts=PTS-STARTPTS"
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
	if s := NewFilterBuilder().Scale(0, 10).FPS(-1).Build(); s != "" {
		t.Fatalf("invalid arguments add filters: %q", s)
	}
}

func TestDrawTextEscapes(t *testing.T) {
	got := NewFilterBuilder().DrawText("it's 5:00", "Arial", "#FFFFFF", 48, 50, 90).Build()
	want := `drawtext=text='it\'s 5\:00':font='Arial':fontcolor=#FFFFFF:fontsize=48:x=(w*0.5)-(text_w/2):y=(h*0.9)-(text_h/2)`
	if got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestXFade(t *testing.T) {
	if got := XFade("fade", 0.5, 3.5); got != "xfade=transition=fade:duration=0.5:offset=3.5" {
		t.Fatal(got)
	}
	tests := map[string]string{"slide-left": "slideleft", "zoom": "zoomin", "wipe": "wipeleft"}
	for in, want := range tests {
		if got, ok := XFadeName(in); !ok || got != want {
			t.Errorf("XFadeName(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := XFadeName("none"); ok {
		t.Error("none is a hard cut")
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12.480000\n", 12.48, true},
		{"N/A\n", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"0", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseDuration([]byte(tt.in))
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseDuration(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestMissingBinary(t *testing.T) {
	SetBinaries("slidestack-no-such-ffmpeg", "slidestack-no-such-ffprobe")
	defer SetBinaries("ffmpeg", "ffprobe")
	if _, err := ProbeDuration(context.Background(), "x.mp4"); err == nil {
		t.Fatal("expected an error from a missing ffprobe")
	}
}
