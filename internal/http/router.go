// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fable/internal/geocode"
	"fable/internal/http/handlers"
	"fable/internal/http/middleware"
	"fable/internal/metrics"
	"fable/internal/trip"
)

func NewRouter(trips *trip.Orchestrator, geocoder *geocode.Service) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	tripHandler := handlers.NewTripHandler(trips)
	r.POST("/api/trips", tripHandler.Create)
	r.GET("/api/trips/:id", tripHandler.Get)
	r.DELETE("/api/trips/:id", tripHandler.Delete)
	r.POST("/api/trips/:id/click", tripHandler.Click)
	r.POST("/api/trips/:id/waypoint", tripHandler.SetWaypoint)
	r.POST("/api/trips/:id/waypoint/clear", tripHandler.ClearWaypoint)
	r.POST("/api/trips/:id/mode", tripHandler.SetMode)
	r.POST("/api/trips/:id/focus", tripHandler.Focus)
	r.POST("/api/trips/:id/locate", tripHandler.Locate)
	r.GET("/api/trips/:id/share", tripHandler.Share)

	storyHandler := handlers.NewStoryHandler(trips)
	r.POST("/api/trips/:id/story", storyHandler.Generate)

	geocodeHandler := handlers.NewGeocodeHandler(geocoder)
	r.GET("/api/geocode", geocodeHandler.Search)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	return r
}
