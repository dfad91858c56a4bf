package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"slidestack/compositor"
	"slidestack/projects"
	"slidestack/timeline"
)

type timelineResponse struct {
	Timeline  []*timeline.Clip `json:"timeline"`
	Duration  float64          `json:"duration"`
	LastSaved *time.Time       `json:"lastSaved,omitempty"`
	Dropped   int              `json:"dropped"`
}

func TimelineGet(c echo.Context) error {
	p := project(c)
	tl, dropped := timeline.Load(p.Timeline)
	return c.JSON(http.StatusOK, timelineResponse{
		Timeline:  tl.Clips(),
		Duration:  tl.TotalDuration(),
		LastSaved: p.LastSaved,
		Dropped:   dropped,
	})
}

// TimelinePut stores the clip array. Malformed entries are dropped rather
// than failing the save, the same way a load treats them; the stored
// duration is recomputed from what is kept.
func TimelinePut(c echo.Context) error {
	var body struct {
		Timeline json.RawMessage `json:"timeline"`
	}
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return badRequest(c, "invalid timeline payload")
	}
	if len(body.Timeline) == 0 {
		return badRequest(c, "timeline is required")
	}
	tl, dropped := timeline.Load(body.Timeline)
	payload := tl.SavePayload()
	if err := projects.SaveTimeline(project(c).ID, payload); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, timelineResponse{
		Timeline:  payload.Timeline,
		Duration:  payload.Duration,
		LastSaved: &payload.LastSaved,
		Dropped:   dropped,
	})
}

// SceneGet composes the preview frame of the stored timeline at ?t=.
func SceneGet(c echo.Context) error {
	t := 0.0
	if s := c.QueryParam("t"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return badRequest(c, "t must be a number of seconds")
		}
		t = v
	}
	tl, _ := timeline.Load(project(c).Timeline)
	return c.JSON(http.StatusOK, compositor.Compose(t, tl.Clips()))
}
