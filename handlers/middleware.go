package handlers

import (
	"github.com/labstack/echo/v4"

	"slidestack/projects"
)

// ProjectMiddleware loads the project named by :id, or answers 404.
func ProjectMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := projects.Get(c.Param("id"))
		if err != nil {
			return fail(c, err)
		}
		c.Set("project", p)
		return next(c)
	}
}

func project(c echo.Context) *projects.Project {
	return c.Get("project").(*projects.Project)
}
