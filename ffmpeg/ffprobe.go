package ffmpeg

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// runs ffprobe with the provided args and returns (stdout, stderr, error)
func Ffprobe(ctx context.Context, args ...string) ([]byte, []byte, error) {
	return run(ctx, ffprobeBin, args...)
}

// ProbeDuration returns the container duration in seconds of the file or
// URL at src.
func ProbeDuration(ctx context.Context, src string) (float64, error) {
	stdout, _, err := Ffprobe(ctx, "-v", "error", "-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", src)
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", src, err)
	}
	return ParseDuration(stdout)
}

// ParseDuration reads the bare number ffprobe prints for format=duration.
func ParseDuration(out []byte) (float64, error) {
	s := strings.TrimSpace(string(out))
	if s == "" || s == "N/A" {
		return 0, fmt.Errorf("no duration reported")
	}
	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("non-positive duration %v", d)
	}
	return d, nil
}
