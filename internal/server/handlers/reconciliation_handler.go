package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
)

// ReconciliationService reconciles stored readings and deliveries.
type ReconciliationService interface {
	ForProduct(ctx context.Context, product models.FuelProduct, date string) (models.Reconciliation, error)
	ForDay(ctx context.Context, date string) (models.DayReconciliation, error)
}

// ReconciliationHandler serves the per-product fuel balance views.
type ReconciliationHandler struct {
	svc    ReconciliationService
	logger *zap.Logger
}

func NewReconciliationHandler(svc ReconciliationService, logger *zap.Logger) *ReconciliationHandler {
	return &ReconciliationHandler{svc: svc, logger: orNop(logger)}
}

// Day reconciles every product; date defaults to today.
func (h *ReconciliationHandler) Day(c *gin.Context) {
	day, err := h.svc.ForDay(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// Product reconciles the product named by the path, as a key or a label.
func (h *ReconciliationHandler) Product(c *gin.Context) {
	product, ok := models.ParseProduct(c.Param("product"))
	if !ok {
		respondError(c, h.logger, unknownProduct(c.Param("product")))
		return
	}

	rec, err := h.svc.ForProduct(c.Request.Context(), product, c.Query("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
