package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
)

// CashbookService keeps the daily income and expense sheet.
type CashbookService interface {
	Save(ctx context.Context, req models.CashbookRequest) (models.CashbookEntry, error)
	Get(ctx context.Context, date string) (models.CashbookEntry, error)
}

type CashbookHandler struct {
	svc    CashbookService
	logger *zap.Logger
}

func NewCashbookHandler(svc CashbookService, logger *zap.Logger) *CashbookHandler {
	return &CashbookHandler{svc: svc, logger: orNop(logger)}
}

// Get returns the saved cash book of the day or a live preview.
func (h *CashbookHandler) Get(c *gin.Context) {
	entry, err := h.svc.Get(c.Request.Context(), c.Param("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// Save stores the cash book. A date in the path overrides the body.
func (h *CashbookHandler) Save(c *gin.Context) {
	var req models.CashbookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid cash book payload", zap.Error(err))
		badRequest(c, "invalid request body")
		return
	}
	if date := c.Param("date"); date != "" {
		req.Date = date
	}

	entry, err := h.svc.Save(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}
