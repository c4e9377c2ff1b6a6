package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"pizzeria/internal/repository"
	"pizzeria/internal/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors to status codes. Unexpected errors are
// logged and hidden behind a generic message.
func respondError(c *gin.Context, err error, fallback string) {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, repository.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, repository.ErrStatusConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Order status was changed by someone else, reload and retry"})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	default:
		slog.Error(fallback, "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func orderIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return 0, false
	}
	return uint(id), true
}
