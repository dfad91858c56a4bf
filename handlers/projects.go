package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"slidestack/media"
	"slidestack/projects"
)

type projectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func ProjectsList(c echo.Context) error {
	ps, err := projects.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"projects": ps})
}

func ProjectsCreate(c echo.Context) error {
	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid project")
	}
	var title, description string
	if req.Title != nil {
		title = *req.Title
	}
	if req.Description != nil {
		description = *req.Description
	}
	p, err := projects.Create(title, description)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"project": p})
}

func ProjectGet(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{"project": project(c)})
}

func ProjectUpdate(c echo.Context) error {
	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid project")
	}
	p, err := projects.Update(project(c).ID, req.Title, req.Description)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"project": p})
}

func ProjectDelete(c echo.Context) error {
	id := project(c).ID
	if err := projects.Delete(id); err != nil {
		return fail(c, err)
	}
	if err := media.DeleteProject(id); err != nil {
		log.Errorf("delete media of %s: %v", id, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
