package timeline

import (
	"github.com/google/uuid"

	"slidestack/content"
)

func newClipID() string {
	return "clip-" + uuid.Must(uuid.NewV7()).String()
}

// NewClip builds the clip a drop of c would create at the given order.
func NewClip(c content.ClipContent, order int) *Clip {
	track := TrackFor(c)
	duration := DefaultDuration
	if d, ok := c.IntrinsicDuration(); ok {
		duration = d
	}
	clip := &Clip{
		ID:       newClipID(),
		Content:  c,
		Duration: duration,
		Order:    order,
		Track:    track,
	}
	if track == TrackVideo {
		clip.Transition = DefaultTransition()
	}
	return clip
}

// Place appends a clip for c at the end of its track.
func (tl *Timeline) Place(c content.ClipContent) *Clip {
	track := TrackFor(c)
	tl.normalize(track)
	clip := NewClip(c, len(tl.TrackClips(track)))
	tl.clips = append(tl.clips, clip)
	log.Debugf("placed %s clip %s on %s track at order %d (%.2fs)",
		c.Type(), clip.ID, clip.Track, clip.Order, clip.Duration)
	return clip
}

func (tl *Timeline) AddMedia(m content.MediaFile) *Clip {
	return tl.Place(content.Media(m))
}

func (tl *Timeline) AddText(text string) *Clip {
	return tl.Place(content.Text(content.NewText(text)))
}

// Drop places the JSON-serialized content of a drag payload. Payloads that do
// not parse are ignored; the drag interface is best effort.
func (tl *Timeline) Drop(payload []byte) (*Clip, bool) {
	c, err := content.Parse(payload)
	if err != nil {
		log.Debugf("ignoring drop: %v", err)
		return nil, false
	}
	return tl.Place(c), true
}
