package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"slidestack/renders"
	"slidestack/timeline"
)

// RenderPost queues a render of the posted clip array. The clips go through
// timeline.Load like a save does: malformed entries are dropped, tracks and
// the duration are derived from content.
func RenderPost(c echo.Context) error {
	body := struct {
		timeline.RenderRequest
		Timeline json.RawMessage `json:"timeline"`
	}{
		RenderRequest: timeline.RenderRequest{
			Resolution: cfg.Render.Resolution,
			FPS:        cfg.Render.FPS,
			Quality:    timeline.Quality(cfg.Render.Quality),
		},
	}
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return badRequest(c, fmt.Sprintf("invalid render request: %v", err))
	}
	tl, dropped := timeline.Load(body.Timeline)
	if dropped > 0 {
		log.Warnf("render %s: dropped %d malformed clips", project(c).ID, dropped)
	}
	req := tl.RenderRequest(body.Resolution, body.FPS, body.Quality)
	job, err := renders.Submit(c.Request().Context(), project(c).ID, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"jobId":   job.ID,
		"message": "Render job created successfully",
	})
}

func RenderGet(c echo.Context) error {
	job, err := renders.Latest(project(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"job": job})
}

// RenderEvents streams job status changes of the project as server-sent
// events until the client goes away.
func RenderEvents(c echo.Context) error {
	id := project(c).ID
	req := c.Request()
	res := c.Response()

	// Set headers for SSE
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	q := renders.Subscribe(id)
	defer renders.Unsubscribe(id, q)

	done := req.Context().Done()
	for {
		select {
		case <-done:
			return nil
		case event := <-q.Ch:
			jsonData, err := json.Marshal(event)
			if err != nil {
				return err
			}
			msg := fmt.Sprintf("data: %s\n\n", jsonData)
			if _, err := res.Write([]byte(msg)); err != nil {
				return err
			}
			res.Flush()
		}
	}
}
