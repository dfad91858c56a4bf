package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"slidestack/media"
)

func MediaList(c echo.Context) error {
	files, err := media.List(project(c).ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"files": files})
}

func MediaCreate(c echo.Context) error {
	var n media.New
	if err := c.Bind(&n); err != nil {
		return badRequest(c, "invalid media file")
	}
	f, err := media.Create(c.Request().Context(), project(c).ID, n, cfg.Media.Probe)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"file": f})
}
