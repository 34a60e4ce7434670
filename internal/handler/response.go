package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sakaylink/internal/presence"
)

// respondError maps store errors onto HTTP statuses. Transient backend
// failures surface to the caller; the store never retries on its own.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, presence.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
	case errors.Is(err, presence.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, presence.ErrInvalidCoordinate), errors.Is(err, presence.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, presence.ErrBackendUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
