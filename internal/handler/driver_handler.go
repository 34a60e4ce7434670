package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sakaylink/internal/geo"
	"sakaylink/internal/presence"
)

type DriverHandler struct {
	store *presence.Store
	geo   *geo.Index
}

func NewDriverHandler(store *presence.Store, geoIndex *geo.Index) *DriverHandler {
	return &DriverHandler{store: store, geo: geoIndex}
}

// GetDriver returns the profile join shown when a passenger taps a marker.
func (h *DriverHandler) GetDriver(c *gin.Context) {
	info, err := h.store.PeerInfo(c.Request.Context(), c.Param("uid"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// Nearby lists drivers within radius_km of the given point, nearest first.
func (h *DriverHandler) Nearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("latitude"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("longitude"), 64)
	if errLat != nil || errLng != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude required"})
		return
	}
	radiusKm := 5.0
	if v := c.Query("radius_km"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radius_km"})
			return
		}
		radiusKm = r
	}
	hits, err := h.geo.Nearby(c.Request.Context(), lat, lng, radiusKm)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"drivers": hits})
}
