package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
	"github.com/JayaniDinukshika/fuelx/internal/service/deliveries"
)

// DeliveryService is the delivery ledger.
type DeliveryService interface {
	Record(ctx context.Context, items []models.Delivery) ([]models.Delivery, error)
	List(ctx context.Context, page, limit int64) ([]models.Delivery, models.Pagination, error)
}

// DeliveryHandler serves the bowser details endpoints.
type DeliveryHandler struct {
	svc    DeliveryService
	logger *zap.Logger
}

func NewDeliveryHandler(svc DeliveryService, logger *zap.Logger) *DeliveryHandler {
	return &DeliveryHandler{svc: svc, logger: orNop(logger)}
}

// Create accepts a single delivery object or an array of them.
func (h *DeliveryHandler) Create(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		badRequest(c, "unable to read request body")
		return
	}

	var items []models.Delivery
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		err = json.Unmarshal(raw, &items)
	} else {
		var item models.Delivery
		err = json.Unmarshal(raw, &item)
		items = []models.Delivery{item}
	}
	if err != nil {
		h.logger.Warn("invalid delivery payload", zap.Error(err))
		badRequest(c, "invalid request body")
		return
	}

	saved, err := h.svc.Record(c.Request.Context(), items)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Browser details saved successfully", "data": saved})
}

// List returns a page of deliveries, newest first.
func (h *DeliveryHandler) List(c *gin.Context) {
	page, err1 := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	limit, err2 := strconv.ParseInt(c.DefaultQuery("limit", strconv.Itoa(deliveries.DefaultPageSize)), 10, 64)
	if err1 != nil || err2 != nil {
		badRequest(c, "page and limit must be positive integers")
		return
	}

	items, pagination, err := h.svc.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Browser details fetched successfully",
		"data":       items,
		"pagination": pagination,
	})
}
