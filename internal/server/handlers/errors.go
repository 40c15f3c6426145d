package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
	"github.com/JayaniDinukshika/fuelx/internal/reconcile"
	"github.com/JayaniDinukshika/fuelx/internal/repository/mongodb"
	"github.com/JayaniDinukshika/fuelx/internal/service/drafts"
)

// respondError maps domain errors to status codes. Unexpected errors are
// logged and hidden from the client.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, reconcile.ErrInvalidDate),
		errors.Is(err, models.ErrUnknownProduct),
		errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, drafts.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, mongodb.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func orNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func unknownProduct(label string) error {
	return fmt.Errorf("%w: %q", models.ErrUnknownProduct, strings.TrimSpace(label))
}
