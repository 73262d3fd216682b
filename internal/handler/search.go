package handler

import (
	"net/http"

	"propagent/internal/model"
	"propagent/internal/service"

	"github.com/gin-gonic/gin"
)

// SearchHandler exposes the dispatcher's operations directly over HTTP,
// bypassing the conversational loop. Each request is self-contained.
type SearchHandler struct {
	dispatcher *service.Dispatcher
	store      service.Store
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(dispatcher *service.Dispatcher, store service.Store) *SearchHandler {
	return &SearchHandler{dispatcher: dispatcher, store: store}
}

// searchRequestBody is the JSON body for POST /api/v1/search. All four slot
// fields are required; units default to miles and square feet.
type searchRequestBody struct {
	SchoolName  string   `json:"school_name" binding:"required"`
	RadiusValue *float64 `json:"radius" binding:"required"`
	RadiusUnit  string   `json:"radius_unit,omitempty"`
	AreaMin     *float64 `json:"area_min" binding:"required"`
	AreaMax     *float64 `json:"area_max" binding:"required"`
	AreaUnit    string   `json:"area_unit,omitempty"`
}

// Search handles POST /api/v1/search
func (h *SearchHandler) Search(c *gin.Context) {
	var req searchRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	args := map[string]any{
		"school_name":   req.SchoolName,
		"radius_miles":  *req.RadiusValue,
		"area_min_sqft": *req.AreaMin,
		"area_max_sqft": *req.AreaMax,
	}
	if req.RadiusUnit != "" {
		args["radius_unit"] = req.RadiusUnit
	}
	if req.AreaUnit != "" {
		args["area_unit"] = req.AreaUnit
	}

	result, err := h.dispatcher.Dispatch(c.Request.Context(), service.ToolSearchProperties, args)
	if err != nil {
		if model.IsIllegalDispatch(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// ListLocations handles GET /api/v1/locations
func (h *SearchHandler) ListLocations(c *gin.Context) {
	names, err := h.store.ListLocationNames(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list locations: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": names})
}

// Geocode handles GET /api/v1/geocode?name=...
func (h *SearchHandler) Geocode(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required query parameter: name"})
		return
	}

	loc, err := h.store.GeocodeLocation(c.Request.Context(), name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Geocode failed: " + err.Error()})
		return
	}
	if loc == nil {
		names, err := h.store.ListLocationNames(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Geocode failed: " + err.Error()})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "Location not found",
			"available": names,
		})
		return
	}

	c.JSON(http.StatusOK, loc)
}
