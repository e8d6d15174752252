// README: Trip session handlers: lifecycle, waypoints, mode, focus, share.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"fable/internal/trip"
	"fable/internal/types"
)

type TripHandler struct {
	trips *trip.Orchestrator
}

func NewTripHandler(o *trip.Orchestrator) *TripHandler {
	return &TripHandler{trips: o}
}

// sessionID extracts and validates the :id path parameter.
func sessionID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusNotFound, trip.ErrNotFound.Error())
		return "", false
	}
	return id, true
}

type createTripReq struct {
	Share string `json:"share"`
}

func (h *TripHandler) Create(c *gin.Context) {
	var req createTripReq
	// An empty body creates a blank session.
	_ = c.ShouldBindJSON(&req)
	snap := h.trips.Create(c.Request.Context(), req.Share)
	writeJSON(c, http.StatusCreated, snap)
}

func (h *TripHandler) Get(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	snap, err := h.trips.Get(id)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snap)
}

func (h *TripHandler) Delete(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	h.trips.Delete(id)
	c.Status(http.StatusNoContent)
}

type clickReq struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (h *TripHandler) Click(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req clickReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	snap, err := h.trips.HandleMapClick(c.Request.Context(), id, req.Lat, req.Lng)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snap)
}

type waypointReq struct {
	Role  string  `json:"role"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label"`
}

func (h *TripHandler) SetWaypoint(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req waypointReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	snap, err := h.trips.SetWaypoint(c.Request.Context(), id, trip.Role(req.Role), types.Coordinate{
		Lat:   req.Lat,
		Lng:   req.Lng,
		Label: req.Label,
	})
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snap)
}

type clearWaypointReq struct {
	Role string `json:"role"`
}

func (h *TripHandler) ClearWaypoint(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req clearWaypointReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	snap, err := h.trips.ClearWaypoint(c.Request.Context(), id, trip.Role(req.Role))
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snap)
}

type modeReq struct {
	Mode string `json:"mode"`
}

func (h *TripHandler) SetMode(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req modeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	snap, err := h.trips.SetMode(c.Request.Context(), id, trip.TransportMode(req.Mode))
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snap)
}

type focusReq struct {
	POIID string `json:"poi_id"`
}

func (h *TripHandler) Focus(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req focusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	snap, err := h.trips.FocusPOI(id, req.POIID)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snap)
}

type locateReq struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// devicePosition adapts coordinates reported by the client into a locator.
type devicePosition struct {
	pos types.Coordinate
}

func (d devicePosition) CurrentPosition(ctx context.Context) (types.Coordinate, error) {
	return d.pos, nil
}

// Locate centers the viewport on the device position reported in the request
// body. A request without coordinates, like a denied browser permission, is a
// silent no-op.
func (h *TripHandler) Locate(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req locateReq
	_ = c.ShouldBindJSON(&req)

	var loc trip.Locator
	if req.Lat != nil && req.Lng != nil {
		loc = devicePosition{pos: types.Coordinate{Lat: *req.Lat, Lng: *req.Lng}}
	}
	snap, err := h.trips.Geolocate(c.Request.Context(), id, loc)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, snap)
}

func (h *TripHandler) Share(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	share, err := h.trips.Share(id)
	if err != nil {
		writeTripError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"share": share})
}
