package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

type MediaType string

const (
	TypeImage MediaType = "image"
	TypeVideo MediaType = "video"
	TypeAudio MediaType = "audio"
	TypeText  MediaType = "text"
)

var ErrMalformed = errors.New("malformed clip content")

// MediaFile is a reference into the media library. Clips never modify it.
type MediaFile struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Type     MediaType `json:"type"`
	URL      string    `json:"url"`
	Duration *float64  `json:"duration,omitempty"` // seconds, audio/video only
}

type Position string

const (
	PositionTop    Position = "top"
	PositionCenter Position = "center"
	PositionBottom Position = "bottom"
	PositionCustom Position = "custom"
)

type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

type Animation string

const (
	AnimationNone  Animation = "none"
	AnimationFade  Animation = "fade"
	AnimationSlide Animation = "slide"
)

// TextContent is owned by the clip holding it.
type TextContent struct {
	ID              string    `json:"id"`
	Type            MediaType `json:"type"`
	Text            string    `json:"text"`
	FontSize        float64   `json:"fontSize"`
	FontFamily      string    `json:"fontFamily"`
	Color           string    `json:"color"`
	BackgroundColor string    `json:"backgroundColor,omitempty"`
	Position        Position  `json:"position"`
	CustomX         *float64  `json:"customX,omitempty"`
	CustomY         *float64  `json:"customY,omitempty"`
	Alignment       Alignment `json:"alignment"`
	Animation       Animation `json:"animation"`
	Link            string    `json:"link,omitempty"`
	LinkEnabled     bool      `json:"linkEnabled,omitempty"`
}

// ClipContent holds exactly one of Media or Text.
type ClipContent struct {
	Media *MediaFile
	Text  *TextContent
}

func Media(m MediaFile) ClipContent {
	return ClipContent{Media: &m}
}

func Text(t TextContent) ClipContent {
	t.Type = TypeText
	return ClipContent{Text: &t}
}

func (c ClipContent) Type() MediaType {
	switch {
	case c.Text != nil:
		return TypeText
	case c.Media != nil:
		return c.Media.Type
	}
	return ""
}

func (c ClipContent) ID() string {
	switch {
	case c.Text != nil:
		return c.Text.ID
	case c.Media != nil:
		return c.Media.ID
	}
	return ""
}

func (c ClipContent) IsZero() bool {
	return c.Media == nil && c.Text == nil
}

// IntrinsicDuration reports the known playing time of audio and video media.
func (c ClipContent) IntrinsicDuration() (float64, bool) {
	if c.Media == nil || c.Media.Duration == nil {
		return 0, false
	}
	if c.Media.Type != TypeAudio && c.Media.Type != TypeVideo {
		return 0, false
	}
	d := *c.Media.Duration
	if d <= 0 {
		return 0, false
	}
	return d, true
}

// Clone copies text content so that each clip keeps exclusive ownership.
// Media files are shared references and are copied shallowly.
func (c ClipContent) Clone() ClipContent {
	out := ClipContent{Media: c.Media}
	if c.Text != nil {
		t := *c.Text
		if t.CustomX != nil {
			x := *t.CustomX
			t.CustomX = &x
		}
		if t.CustomY != nil {
			y := *t.CustomY
			t.CustomY = &y
		}
		out.Text = &t
	}
	return out
}

func (c ClipContent) MarshalJSON() ([]byte, error) {
	switch {
	case c.Text != nil:
		t := *c.Text
		t.Type = TypeText
		return json.Marshal(t)
	case c.Media != nil:
		return json.Marshal(c.Media)
	}
	return []byte("null"), nil
}

func (c *ClipContent) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parse decodes a JSON-serialized ClipContent, as carried by drag payloads
// and persisted timelines.
func Parse(data []byte) (ClipContent, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return ClipContent{}, fmt.Errorf("%w: empty", ErrMalformed)
	}

	var head struct {
		Type MediaType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return ClipContent{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch head.Type {
	case TypeText:
		var t TextContent
		if err := json.Unmarshal(data, &t); err != nil {
			return ClipContent{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if err := t.validate(); err != nil {
			return ClipContent{}, err
		}
		return ClipContent{Text: &t}, nil
	case TypeImage, TypeVideo, TypeAudio:
		var m MediaFile
		if err := json.Unmarshal(data, &m); err != nil {
			return ClipContent{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if err := m.validate(); err != nil {
			return ClipContent{}, err
		}
		return ClipContent{Media: &m}, nil
	}
	return ClipContent{}, fmt.Errorf("%w: unknown type %q", ErrMalformed, head.Type)
}

func (m *MediaFile) validate() error {
	if m.ID == "" {
		return fmt.Errorf("%w: media without id", ErrMalformed)
	}
	if m.URL == "" {
		return fmt.Errorf("%w: media %s without url", ErrMalformed, m.ID)
	}
	return nil
}

func (t *TextContent) validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: text without id", ErrMalformed)
	}
	switch t.Position {
	case "":
		t.Position = PositionCenter
	case PositionTop, PositionCenter, PositionBottom, PositionCustom:
	default:
		return fmt.Errorf("%w: text %s has position %q", ErrMalformed, t.ID, t.Position)
	}
	switch t.Alignment {
	case "":
		t.Alignment = AlignCenter
	case AlignLeft, AlignCenter, AlignRight:
	default:
		return fmt.Errorf("%w: text %s has alignment %q", ErrMalformed, t.ID, t.Alignment)
	}
	if t.Animation == "" {
		t.Animation = AnimationNone
	}
	return nil
}
