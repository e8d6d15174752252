// README: Story streaming handler (SSE).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fable/internal/story"
	"fable/internal/trip"
)

// apologyMissingKey is shown instead of a raw credential error.
const apologyMissingKey = "Sorry, storytelling is not available right now. Please check the service credentials."

type StoryHandler struct {
	trips *trip.Orchestrator
}

func NewStoryHandler(o *trip.Orchestrator) *StoryHandler {
	return &StoryHandler{trips: o}
}

type storyReq struct {
	Style    string `json:"style"`
	Language string `json:"language"`
}

// Generate streams narrative fragments as server-sent events. Fragments are
// forwarded in arrival order; the stream closes with a "done" event, or an
// "error" event when generation fails mid-stream.
func (h *StoryHandler) Generate(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req storyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	style, ok := story.ParseStyle(req.Style)
	if !ok {
		writeError(c, http.StatusBadRequest, "unknown style")
		return
	}
	lang, ok := story.ParseLanguage(req.Language)
	if !ok {
		writeError(c, http.StatusBadRequest, "unknown language")
		return
	}

	// Headers go out with the first stream event so validation failures
	// can still answer with a plain JSON error.
	streamed := false
	startStream := func() {
		if streamed {
			return
		}
		streamed = true
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
	}
	err := h.trips.GenerateStory(c.Request.Context(), id, style, lang, func(fragment string) {
		startStream()
		c.SSEvent("fragment", fragment)
		c.Writer.Flush()
	})
	if err != nil && !streamed {
		// Nothing left the building yet, so a plain error response is
		// still possible.
		switch {
		case errors.Is(err, story.ErrMissingAPIKey):
			writeError(c, http.StatusServiceUnavailable, apologyMissingKey)
		case errors.Is(err, trip.ErrNotFound), errors.Is(err, trip.ErrBadRequest), errors.Is(err, trip.ErrGenerating):
			writeTripError(c, err)
		default:
			writeError(c, http.StatusBadGateway, apologyGeneration(err))
		}
		return
	}
	if err != nil {
		startStream()
		c.SSEvent("error", apologyGeneration(err))
		c.Writer.Flush()
		return
	}
	startStream()
	c.SSEvent("done", "")
	c.Writer.Flush()
}

func apologyGeneration(err error) string {
	if errors.Is(err, story.ErrMissingAPIKey) {
		return apologyMissingKey
	}
	return "Sorry, the story could not be generated. Please try again."
}
