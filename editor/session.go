package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"slidestack/audiosync"
	"slidestack/compositor"
	"slidestack/content"
	"slidestack/ruler"
	"slidestack/timeline"
	"slidestack/transport"
)

var ErrSaveInFlight = errors.New("a save is already in progress")

// Store persists a project's timeline.
type Store interface {
	SaveTimeline(ctx context.Context, projectID string, p timeline.SavePayload) error
}

// Renderer queues a render and answers with the job id.
type Renderer interface {
	SubmitRender(ctx context.Context, projectID string, req timeline.RenderRequest) (string, error)
}

type Options struct {
	ProjectID string
	// Clips is the persisted clip array, loaded with timeline.Load.
	Clips    []byte
	Store    Store
	Renderer Renderer
	Audio    audiosync.Loader
	Logger   *logrus.Logger
}

// Session is one open editor. It owns the timeline and the playback context
// (clock, ruler, audio) and serializes every change to them.
//
// Lock order: gesture, then the clock's own lock, then mu. Clock callbacks
// only take mu, so no method may call into the clock while holding mu.
type Session struct {
	projectID string
	store     Store
	renderer  Renderer
	log       *logrus.Entry

	mu       sync.Mutex
	tl       *timeline.Timeline
	audio    *audiosync.Synchronizer
	selected string
	playing  bool

	clock *transport.Clock

	gesture  sync.Mutex
	ruler    *ruler.Ruler
	playhead *ruler.Playhead
	resize   *ResizeDrag
	text     *TextDrag

	saving atomic.Bool
	events chan Event
	cancel context.CancelFunc
}

func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	s := &Session{
		projectID: opts.ProjectID,
		store:     opts.Store,
		renderer:  opts.Renderer,
		log: logger.WithFields(logrus.Fields{
			"component": "editor",
			"project":   opts.ProjectID,
		}),
		tl:     timeline.New(),
		ruler:  ruler.New(),
		events: make(chan Event, eventBuffer),
	}
	if len(opts.Clips) > 0 {
		tl, dropped := timeline.Load(opts.Clips)
		if dropped > 0 {
			s.log.Warnf("dropped %d malformed clips on load", dropped)
		}
		s.tl = tl
	}
	loader := opts.Audio
	if loader == nil {
		loader = audiosync.LoaderFunc(func(url string) (audiosync.Element, error) {
			return nil, fmt.Errorf("no audio output for %s", url)
		})
	}
	s.audio = audiosync.New(loader, logger)
	s.clock = transport.NewClock(s.tl.TotalDuration())
	s.clock.OnTick = s.onTick
	s.playhead = ruler.NewPlayhead(s.ruler, s.clock)
	return s
}

// Start runs the playback clock until ctx is done or Dispose is called.
func (s *Session) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	go s.clock.Run(ctx)
}

// Dispose stops the clock and releases audio. The event channel stays open.
func (s *Session) Dispose() {
	s.clock.Pause()
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.audio.Dispose()
	s.mu.Unlock()
}

// Events delivers session messages. Reading is optional.
func (s *Session) Events() <-chan Event {
	return s.events
}

func (s *Session) onTick(t float64, playing bool) {
	s.mu.Lock()
	s.audio.Sync(t, playing, s.tl.Clips())
	changed := playing != s.playing
	s.playing = playing
	s.mu.Unlock()
	if changed {
		s.emit(Event{Kind: PlayStateChanged, Time: t, Playing: playing})
	}
	s.emit(Event{Kind: TimeChanged, Time: t, Playing: playing})
}

// resync replays the current clock position into the audio synchronizer so
// an edit takes effect before the next tick.
func (s *Session) resync() {
	t, playing := s.clock.Time(), s.clock.Playing()
	s.mu.Lock()
	s.audio.Sync(t, playing, s.tl.Clips())
	s.mu.Unlock()
}

// edit applies fn to the timeline. When fn reports a change the clock
// follows the new length and ClipsChanged goes out.
func (s *Session) edit(clipID string, fn func(tl *timeline.Timeline) bool) bool {
	s.mu.Lock()
	ok := fn(s.tl)
	total := s.tl.TotalDuration()
	s.mu.Unlock()
	if !ok {
		return false
	}
	s.clock.SetDuration(total)
	s.resync()
	s.emit(Event{Kind: ClipsChanged, ClipID: clipID})
	return true
}

// Clips returns a copy of the clip list.
func (s *Session) Clips() []*timeline.Clip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tl.Snapshot()
}

func (s *Session) Clip(id string) (timeline.Clip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.tl.Snapshot() {
		if c.ID == id {
			return *c, true
		}
	}
	return timeline.Clip{}, false
}

func (s *Session) TotalDuration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tl.TotalDuration()
}

// Scene composes the preview frame at the current time.
func (s *Session) Scene() compositor.Scene {
	t := s.clock.Time()
	s.mu.Lock()
	defer s.mu.Unlock()
	return compositor.Compose(t, s.tl.Snapshot())
}

// Placement

func (s *Session) Drop(payload []byte) (string, bool) {
	var id string
	ok := s.edit("", func(tl *timeline.Timeline) bool {
		c, ok := tl.Drop(payload)
		if ok {
			id = c.ID
		}
		return ok
	})
	return id, ok
}

func (s *Session) AddMedia(m content.MediaFile) string {
	var id string
	s.edit("", func(tl *timeline.Timeline) bool {
		id = tl.AddMedia(m).ID
		return true
	})
	return id
}

// SelectAudio places an audio file picked from the library.
func (s *Session) SelectAudio(m content.MediaFile) string {
	id := s.AddMedia(m)
	s.emit(Event{Kind: AudioSelected, ClipID: id})
	return id
}

func (s *Session) AddText(text string) string {
	var id string
	s.edit("", func(tl *timeline.Timeline) bool {
		id = tl.AddText(text).ID
		return true
	})
	return id
}

// Editing

func (s *Session) Split(id string) (string, bool) {
	var second string
	ok := s.edit(id, func(tl *timeline.Timeline) bool {
		c, ok := tl.Split(id)
		if ok {
			second = c.ID
		}
		return ok
	})
	return second, ok
}

func (s *Session) SetDuration(id string, d float64) bool {
	return s.edit(id, func(tl *timeline.Timeline) bool { return tl.SetDuration(id, d) })
}

func (s *Session) Delete(id string) bool {
	ok := s.edit(id, func(tl *timeline.Timeline) bool { return tl.Delete(id) })
	if ok {
		s.mu.Lock()
		if s.selected == id {
			s.selected = ""
		}
		s.mu.Unlock()
	}
	return ok
}

func (s *Session) CycleTransition(id string) bool {
	return s.edit(id, func(tl *timeline.Timeline) bool { return tl.CycleTransition(id) })
}

func (s *Session) SetTransitionDuration(id string, d float64) bool {
	return s.edit(id, func(tl *timeline.Timeline) bool { return tl.SetTransitionDuration(id, d) })
}

// Select marks the clip the transitions panel applies to.
func (s *Session) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tl.Get(id) == nil {
		return false
	}
	s.selected = id
	return true
}

func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// ApplyTransition sets the transition of the selected clip.
func (s *Session) ApplyTransition(t timeline.TransitionType) bool {
	id := s.Selected()
	if id == "" {
		return false
	}
	ok := s.edit(id, func(tl *timeline.Timeline) bool { return tl.SetTransition(id, t) })
	if ok {
		s.emit(Event{Kind: TransitionPicked, ClipID: id})
	}
	return ok
}

// CommitText stores edited text, typically on blur.
func (s *Session) CommitText(id, text string) bool {
	return s.edit(id, func(tl *timeline.Timeline) bool { return tl.UpdateText(id, text) })
}

func (s *Session) UpdateTextStyle(id string, style timeline.TextStyle) bool {
	return s.edit(id, func(tl *timeline.Timeline) bool { return tl.UpdateTextStyle(id, style) })
}

// Transport

func (s *Session) Play()        { s.clock.Play() }
func (s *Session) Pause()       { s.clock.Pause() }
func (s *Session) Toggle()      { s.clock.Toggle() }
func (s *Session) SkipForward() { s.clock.SkipForward() }
func (s *Session) SkipBack()    { s.clock.SkipBack() }
func (s *Session) Seek(t float64) {
	s.clock.Seek(t)
}

func (s *Session) Time() float64  { return s.clock.Time() }
func (s *Session) Playing() bool  { return s.clock.Playing() }
func (s *Session) SetMuted(m bool) {
	s.mu.Lock()
	s.audio.SetMuted(m)
	s.mu.Unlock()
}

func (s *Session) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audio.Muted()
}

// Ruler

func (s *Session) ZoomIn() float64 {
	s.gesture.Lock()
	defer s.gesture.Unlock()
	return s.ruler.ZoomIn()
}

func (s *Session) ZoomOut() float64 {
	s.gesture.Lock()
	defer s.gesture.Unlock()
	return s.ruler.ZoomOut()
}

func (s *Session) PixelsPerSecond() float64 {
	s.gesture.Lock()
	defer s.gesture.Unlock()
	return s.ruler.PixelsPerSecond()
}

func (s *Session) Ticks() []ruler.Tick {
	total := s.clock.Duration()
	s.gesture.Lock()
	defer s.gesture.Unlock()
	return s.ruler.Ticks(total)
}

// Timecode formats the current time at the given frame rate.
func (s *Session) Timecode(fps float64) string {
	return ruler.FormatTimecode(s.clock.Time(), fps)
}

func (s *Session) ClickRuler(px float64) float64 {
	s.gesture.Lock()
	defer s.gesture.Unlock()
	return s.playhead.Click(px)
}

func (s *Session) BeginScrub(px float64) float64 {
	s.gesture.Lock()
	defer s.gesture.Unlock()
	return s.playhead.Begin(px)
}

func (s *Session) Scrub(px float64) (float64, bool) {
	s.gesture.Lock()
	defer s.gesture.Unlock()
	return s.playhead.Move(px)
}

func (s *Session) EndScrub() {
	s.gesture.Lock()
	defer s.gesture.Unlock()
	s.playhead.End()
}

// Collaborators

// Save hands a snapshot of the timeline to the store. Only one save runs at
// a time; a second call while one is outstanding gets ErrSaveInFlight.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return errors.New("no project store configured")
	}
	if !s.saving.CompareAndSwap(false, true) {
		return ErrSaveInFlight
	}
	defer s.saving.Store(false)

	s.mu.Lock()
	payload := s.tl.SavePayload()
	s.mu.Unlock()

	if err := s.store.SaveTimeline(ctx, s.projectID, payload); err != nil {
		s.log.Errorf("save timeline: %v", err)
		s.emit(Event{Kind: SaveFailed, Err: err})
		return fmt.Errorf("save project %s: %w", s.projectID, err)
	}
	s.log.Infof("saved %d clips (%.2fs)", len(payload.Timeline), payload.Duration)
	s.emit(Event{Kind: Saved})
	return nil
}

// Render queues a render of the current timeline and returns the job id.
func (s *Session) Render(ctx context.Context, resolution string, fps float64, quality timeline.Quality) (string, error) {
	if s.renderer == nil {
		return "", errors.New("no renderer configured")
	}
	s.mu.Lock()
	req := s.tl.RenderRequest(resolution, fps, quality)
	s.mu.Unlock()

	id, err := s.renderer.SubmitRender(ctx, s.projectID, req)
	if err != nil {
		s.log.Errorf("render: %v", err)
		s.emit(Event{Kind: RenderFailed, Err: err})
		return "", fmt.Errorf("render project %s: %w", s.projectID, err)
	}
	s.log.Infof("render job %s queued", id)
	s.emit(Event{Kind: RenderQueued, JobID: id})
	return id, nil
}
