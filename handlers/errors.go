package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"slidestack/content"
	"slidestack/media"
	"slidestack/projects"
	"slidestack/renders"
)

type errorBody struct {
	Error string `json:"error"`
}

// fail answers with a JSON error whose status follows the error's kind.
func fail(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, projects.ErrNotFound), errors.Is(err, renders.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, projects.ErrInvalid), errors.Is(err, media.ErrInvalid),
		errors.Is(err, renders.ErrInvalidRequest), errors.Is(err, content.ErrMalformed):
		code = http.StatusBadRequest
	}
	if code == http.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(code, errorBody{Error: "internal error"})
	}
	return c.JSON(code, errorBody{Error: err.Error()})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorBody{Error: msg})
}
