package audiosync

import (
	"math"

	"github.com/sirupsen/logrus"

	"slidestack/timeline"
)

// DriftThreshold is how far the element may wander from timeline time
// before it is re-seeked. Seeking on every tick stutters.
const DriftThreshold = 0.1

// Element is one playable audio element.
type Element interface {
	Play() error
	Pause()
	Paused() bool
	CurrentTime() float64
	SetCurrentTime(t float64)
	SetMuted(muted bool)
	Close()
}

// Loader creates an element for a media URL.
type Loader interface {
	Load(url string) (Element, error)
}

type LoaderFunc func(url string) (Element, error)

func (f LoaderFunc) Load(url string) (Element, error) {
	return f(url)
}

// Synchronizer keeps exactly one audio element locked to timeline time. It
// is the playback context of an editor session: create it, call Sync on
// every tick or edit, Dispose it when the session ends.
type Synchronizer struct {
	loader Loader
	log    *logrus.Entry

	element Element
	url     string
	clipID  string
	muted   bool

	// failed holds the clip and URL that could not play, so they are not
	// retried on every tick. It is forgotten on pause or when another clip
	// takes over, even one with the same URL.
	failed     string
	failedClip string
}

func New(loader Loader, logger *logrus.Logger) *Synchronizer {
	return &Synchronizer{
		loader: loader,
		log: logger.WithFields(logrus.Fields{
			"component": "audiosync",
		}),
	}
}

// Sync brings the element in line with time t on the given clip list.
func (s *Synchronizer) Sync(t float64, playing bool, clips []*timeline.Clip) {
	if !playing {
		s.teardown()
		s.forget()
		return
	}
	span, ok := timeline.ActiveAt(clips, timeline.TrackAudio, t)
	if !ok || span.Clip.Content.Media == nil {
		s.teardown()
		s.forget()
		return
	}
	url := span.Clip.Content.Media.URL
	offset := t - span.Start
	if url == s.failed && span.Clip.ID == s.failedClip {
		return
	}
	s.forget()

	if s.element == nil || s.url != url {
		s.teardown()
		s.load(span.Clip.ID, url, offset)
		return
	}
	s.clipID = span.Clip.ID

	if math.Abs(s.element.CurrentTime()-offset) > DriftThreshold {
		s.log.Debugf("resync %s: drift %.3fs", url, s.element.CurrentTime()-offset)
		s.element.SetCurrentTime(offset)
	}
	if s.element.Paused() {
		s.play()
	}
}

func (s *Synchronizer) load(clipID, url string, offset float64) {
	el, err := s.loader.Load(url)
	if err != nil {
		s.log.Errorf("load audio %s: %v", url, err)
		s.failed, s.failedClip = url, clipID
		return
	}
	s.element, s.url, s.clipID = el, url, clipID
	el.SetMuted(s.muted)
	el.SetCurrentTime(offset)
	s.log.Debugf("loaded %s at %.3fs for clip %s", url, offset, clipID)
	s.play()
}

// play starts the element; a failure drops it and leaves the timeline
// running silently.
func (s *Synchronizer) play() {
	if err := s.element.Play(); err != nil {
		s.log.Errorf("play audio %s: %v", s.url, err)
		s.failed, s.failedClip = s.url, s.clipID
		s.teardown()
	}
}

func (s *Synchronizer) forget() {
	s.failed, s.failedClip = "", ""
}

func (s *Synchronizer) teardown() {
	if s.element == nil {
		return
	}
	s.element.Pause()
	s.element.Close()
	s.log.Debugf("released %s", s.url)
	s.element, s.url, s.clipID = nil, "", ""
}

func (s *Synchronizer) SetMuted(muted bool) {
	s.muted = muted
	if s.element != nil {
		s.element.SetMuted(muted)
	}
}

func (s *Synchronizer) Muted() bool {
	return s.muted
}

// Active reports the clip backing the live element, if any.
func (s *Synchronizer) Active() (clipID, url string, ok bool) {
	if s.element == nil {
		return "", "", false
	}
	return s.clipID, s.url, true
}

func (s *Synchronizer) Dispose() {
	s.teardown()
}
