package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sakaylink/internal/presence"
)

type LocationHandler struct {
	store *presence.Store
}

func NewLocationHandler(store *presence.Store) *LocationHandler {
	return &LocationHandler{store: store}
}

// UpdateLocation upserts the caller's position. The discoverability flag is
// not touched here; PATCH /me/discoverable is the explicit toggle.
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	var req struct {
		Latitude  *float64 `json:"latitude" binding:"required"`
		Longitude *float64 `json:"longitude" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.SaveLocation(c.Request.Context(), *req.Latitude, *req.Longitude); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *LocationHandler) GetMyLocation(c *gin.Context) {
	loc, err := h.store.OwnLocation(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if loc == nil {
		c.JSON(http.StatusOK, gin.H{"latitude": nil, "longitude": nil})
		return
	}
	c.JSON(http.StatusOK, loc)
}

// DeleteLocation physically removes the caller's record. Explicit operation
// only; no screen flow calls it.
func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	if err := h.store.DeleteOwnRecord(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
