package handlers

import "github.com/labstack/echo/v4"

func Register(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/projects", ProjectsList)
	api.POST("/projects", ProjectsCreate)

	p := api.Group("/projects/:id", ProjectMiddleware)
	p.GET("", ProjectGet)
	p.PATCH("", ProjectUpdate)
	p.DELETE("", ProjectDelete)
	p.GET("/timeline", TimelineGet)
	p.PUT("/timeline", TimelinePut)
	p.GET("/scene", SceneGet)
	p.GET("/media", MediaList)
	p.POST("/media", MediaCreate)
	p.POST("/render", RenderPost)
	p.GET("/render", RenderGet)
	p.GET("/render/events", RenderEvents)

	e.GET("/status", StatusGet)
}
