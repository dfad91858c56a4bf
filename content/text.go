package content

import "github.com/google/uuid"

// defaults of the text panel
const (
	DefaultFontFamily      = "Arial"
	DefaultFontSize        = 48
	DefaultColor           = "#FFFFFF"
	DefaultBackgroundColor = "rgba(0, 0, 0, 0.5)"
)

func NewText(text string) TextContent {
	return TextContent{
		ID:              "text-" + uuid.Must(uuid.NewV7()).String(),
		Type:            TypeText,
		Text:            text,
		FontSize:        DefaultFontSize,
		FontFamily:      DefaultFontFamily,
		Color:           DefaultColor,
		BackgroundColor: DefaultBackgroundColor,
		Position:        PositionCenter,
		Alignment:       AlignCenter,
		Animation:       AnimationNone,
	}
}

// Anchor returns the overlay anchor point in percent of the frame.
func (t *TextContent) Anchor() (x, y float64) {
	x, y = 50, 50
	switch t.Position {
	case PositionTop:
		y = 10
	case PositionBottom:
		y = 90
	case PositionCustom:
		if t.CustomX != nil {
			x = *t.CustomX
		}
		if t.CustomY != nil {
			y = *t.CustomY
		}
	}
	return x, y
}
