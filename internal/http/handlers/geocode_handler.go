// README: Forward geocoding search handler.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fable/internal/geocode"
)

type GeocodeHandler struct {
	geocoder *geocode.Service
}

func NewGeocodeHandler(svc *geocode.Service) *GeocodeHandler {
	return &GeocodeHandler{geocoder: svc}
}

// Search proxies a free-text place query. Lookup failures surface as an
// empty result list, never as an error status.
func (h *GeocodeHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		writeError(c, http.StatusBadRequest, "missing query")
		return
	}
	places := h.geocoder.Search(c.Request.Context(), query)
	if places == nil {
		places = []geocode.Place{}
	}
	writeJSON(c, http.StatusOK, gin.H{"places": places})
}
