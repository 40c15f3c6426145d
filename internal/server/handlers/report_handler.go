package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
	"github.com/JayaniDinukshika/fuelx/internal/service/reporting"
)

// ReportService produces and reads end-of-day reports.
type ReportService interface {
	Run(ctx context.Context, date string) (models.DailyReport, error)
	Get(ctx context.Context, date string) (models.DailyReport, error)
}

type ReportHandler struct {
	svc    ReportService
	logger *zap.Logger
}

func NewReportHandler(svc ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, logger: orNop(logger)}
}

// Get returns the stored report of a day.
func (h *ReportHandler) Get(c *gin.Context) {
	report, err := h.svc.Get(c.Request.Context(), c.Param("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report, "summary": reporting.Summary(report)})
}

// Run regenerates the report of a day on demand.
func (h *ReportHandler) Run(c *gin.Context) {
	report, err := h.svc.Run(c.Request.Context(), c.Param("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report, "summary": reporting.Summary(report)})
}
