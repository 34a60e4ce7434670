package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sakaylink/internal/presence"
)

type PresenceHandler struct {
	store *presence.Store
}

func NewPresenceHandler(store *presence.Store) *PresenceHandler {
	return &PresenceHandler{store: store}
}

// SetDiscoverable toggles the caller's role flag: availability for drivers,
// visibility for passengers.
func (h *PresenceHandler) SetDiscoverable(c *gin.Context) {
	var req struct {
		Discoverable *bool `json:"discoverable" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.SetDiscoverable(c.Request.Context(), *req.Discoverable); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"discoverable": *req.Discoverable})
}

// GetStatus seeds the client's toggle; false when no record exists yet.
func (h *PresenceHandler) GetStatus(c *gin.Context) {
	on, err := h.store.OwnStatus(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"discoverable": on})
}

func (h *PresenceHandler) SetOffline(c *gin.Context) {
	if err := h.store.SetOffline(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"discoverable": false})
}
