package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"slidestack/audiosync"
	"slidestack/compositor"
	"slidestack/config"
	"slidestack/editor"
	"slidestack/renders"
	"slidestack/ruler"
	"slidestack/timeline"
)

var (
	timelineFile string
	sceneAt      float64
	resolution   string
	fps          float64
	quality      string
	muted        bool
)

func loadTimelineFile() (*timeline.Timeline, []byte, error) {
	if timelineFile == "" {
		return nil, nil, fmt.Errorf("--file is required")
	}
	data, err := os.ReadFile(timelineFile)
	if err != nil {
		return nil, nil, err
	}
	tl, dropped := timeline.Load(data)
	if dropped > 0 {
		log.Warnf("%s: dropped %d malformed clips", timelineFile, dropped)
	}
	return tl, data, nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Print the preview scene of a timeline file at a time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tl, _, err := loadTimelineFile()
		if err != nil {
			return err
		}
		return printJSON(cmd, compositor.Compose(sceneAt, tl.Clips()))
	},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the render plan of a timeline file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		tl, _, err := loadTimelineFile()
		if err != nil {
			return err
		}
		res, rate, q := cfg.Render.Resolution, cfg.Render.FPS, timeline.Quality(cfg.Render.Quality)
		if cmd.Flags().Changed("resolution") {
			res = resolution
		}
		if cmd.Flags().Changed("fps") {
			rate = fps
		}
		if cmd.Flags().Changed("quality") {
			q = timeline.Quality(quality)
		}
		plan, err := renders.BuildPlan(tl.RenderRequest(res, rate, q))
		if err != nil {
			return err
		}
		return printJSON(cmd, plan)
	},
}

// previewCmd plays a timeline file headless in an editor session and logs
// the timecode once a second until playback ends.
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Play a timeline file without output and log its progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		_, data, err := loadTimelineFile()
		if err != nil {
			return err
		}
		rate := cfg.Render.FPS
		if cmd.Flags().Changed("fps") {
			rate = fps
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		s := editor.New(editor.Options{
			ProjectID: timelineFile,
			Clips:     data,
			Audio:     audiosync.LoaderFunc(newSilentElement),
			Logger:    log,
		})
		defer s.Dispose()
		s.SetMuted(muted)
		if s.TotalDuration() == 0 {
			return fmt.Errorf("%s has no video clips", timelineFile)
		}
		s.Start(ctx)
		s.Play()

		last := -1.0
		for {
			select {
			case <-ctx.Done():
				return nil
			case e := <-s.Events():
				switch e.Kind {
				case editor.TimeChanged:
					if math.Floor(e.Time) > last {
						last = math.Floor(e.Time)
						log.Infof("%s / %s", ruler.FormatTimecode(e.Time, rate), ruler.FormatClock(s.TotalDuration()))
					}
				case editor.PlayStateChanged:
					if !e.Playing {
						log.Infof("stopped at %s", ruler.FormatTimecode(e.Time, rate))
						return nil
					}
				}
			}
		}
	},
}

// silentElement keeps time like a playing audio element without producing
// sound.
type silentElement struct {
	url    string
	base   float64
	since  time.Time
	paused bool
}

func newSilentElement(url string) (audiosync.Element, error) {
	log.Debugf("audio %s", url)
	return &silentElement{url: url, paused: true}, nil
}

func (e *silentElement) Play() error {
	if e.paused {
		e.since = time.Now()
		e.paused = false
	}
	return nil
}

func (e *silentElement) Pause() {
	e.base = e.CurrentTime()
	e.paused = true
}

func (e *silentElement) Paused() bool { return e.paused }

func (e *silentElement) CurrentTime() float64 {
	if e.paused {
		return e.base
	}
	return e.base + time.Since(e.since).Seconds()
}

func (e *silentElement) SetCurrentTime(t float64) {
	e.base, e.since = t, time.Now()
}

func (e *silentElement) SetMuted(bool) {}
func (e *silentElement) Close()        {}

func init() {
	for _, c := range []*cobra.Command{sceneCmd, planCmd, previewCmd} {
		c.Flags().StringVarP(&timelineFile, "file", "f", "", "timeline JSON file (a clip array)")
	}
	sceneCmd.Flags().Float64Var(&sceneAt, "at", 0, "time in seconds")
	planCmd.Flags().StringVar(&resolution, "resolution", timeline.DefaultResolution, "WIDTHxHEIGHT")
	planCmd.Flags().StringVar(&quality, "quality", string(timeline.QualityHigh), "low, medium or high")
	for _, c := range []*cobra.Command{planCmd, previewCmd} {
		c.Flags().Float64Var(&fps, "fps", timeline.DefaultFPS, "frames per second")
	}
	previewCmd.Flags().BoolVar(&muted, "muted", false, "start muted")
}
