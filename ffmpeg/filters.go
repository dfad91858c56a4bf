package ffmpeg

import (
	"fmt"
	"strings"
)

// FilterBuilder assembles one comma-separated filter chain.
type FilterBuilder struct {
	filters []string
}

func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{filters: make([]string, 0)}
}

// Scale fits the input inside width x height and pads the rest black.
func (fb *FilterBuilder) Scale(width, height int) *FilterBuilder {
	if width <= 0 || height <= 0 {
		return fb
	}
	fb.filters = append(fb.filters,
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", width, height),
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", width, height))
	return fb
}

func (fb *FilterBuilder) FPS(fps float64) *FilterBuilder {
	if fps <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("fps=%s", num(fps)))
	return fb
}

// Trim cuts the input to duration seconds and restarts its timestamps.
func (fb *FilterBuilder) Trim(duration float64) *FilterBuilder {
	if duration <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("trim=duration=%s", num(duration)), "setpts=PTS-STARTPTS")
	return fb
}

// FadeIn fades from transparent starting at start for duration seconds.
func (fb *FilterBuilder) FadeIn(start, duration float64) *FilterBuilder {
	if duration <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("fade=t=in:st=%s:d=%s:alpha=1", num(start), num(duration)))
	return fb
}

// DrawText burns text centered at (x%, y%) of the frame.
func (fb *FilterBuilder) DrawText(text, font, color string, size, xPct, yPct float64) *FilterBuilder {
	if text == "" {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf(
		"drawtext=text='%s':font='%s':fontcolor=%s:fontsize=%s:x=(w*%s)-(text_w/2):y=(h*%s)-(text_h/2)",
		escapeText(text), escapeText(font), color, num(size), num(xPct/100), num(yPct/100)))
	return fb
}

func (fb *FilterBuilder) Custom(filter string) *FilterBuilder {
	fb.filters = append(fb.filters, filter)
	return fb
}

func (fb *FilterBuilder) Build() string {
	if len(fb.filters) == 0 {
		return ""
	}
	return strings.Join(fb.filters, ",")
}

func (fb *FilterBuilder) BuildAll() []string {
	return fb.filters
}

// XFade is the filter that blends two labelled streams, starting offset
// seconds into the first.
func XFade(transition string, duration, offset float64) string {
	return fmt.Sprintf("xfade=transition=%s:duration=%s:offset=%s", transition, num(duration), num(offset))
}

// XFadeName maps editor transition names to the xfade filter's names.
func XFadeName(transition string) (string, bool) {
	switch transition {
	case "fade":
		return "fade", true
	case "dissolve":
		return "dissolve", true
	case "slide-left":
		return "slideleft", true
	case "slide-right":
		return "slideright", true
	case "zoom":
		return "zoomin", true
	case "wipe":
		return "wipeleft", true
	}
	return "", false
}

func num(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", v), "0"), ".")
}

var textEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`, `%`, `\%`)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
