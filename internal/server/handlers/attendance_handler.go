package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
)

// AttendanceService records staff attendance and monthly pay.
type AttendanceService interface {
	Mark(ctx context.Context, record models.AttendanceRecord) (models.AttendanceRecord, error)
	MonthlySummary(ctx context.Context, userID string, year int, month time.Month) (models.PayrollSummary, error)
}

type AttendanceHandler struct {
	svc    AttendanceService
	logger *zap.Logger
}

func NewAttendanceHandler(svc AttendanceService, logger *zap.Logger) *AttendanceHandler {
	return &AttendanceHandler{svc: svc, logger: orNop(logger)}
}

type markRequest struct {
	UserID      string  `json:"userId" binding:"required"`
	DateKey     string  `json:"dateKey"`
	Present     *bool   `json:"present" binding:"required"`
	DailySalary float64 `json:"dailySalary"`
}

// Mark records a staff member present or absent.
func (h *AttendanceHandler) Mark(c *gin.Context) {
	var req markRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "userId and present are required")
		return
	}

	rec, err := h.svc.Mark(c.Request.Context(), models.AttendanceRecord{
		UserID:      req.UserID,
		DateKey:     req.DateKey,
		Present:     *req.Present,
		DailySalary: req.DailySalary,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Monthly totals a month of attendance; year and month default to the current month.
func (h *AttendanceHandler) Monthly(c *gin.Context) {
	year, month := 0, 0
	if c.Query("year") != "" || c.Query("month") != "" {
		var err1, err2 error
		year, err1 = strconv.Atoi(c.Query("year"))
		month, err2 = strconv.Atoi(c.Query("month"))
		if err1 != nil || err2 != nil {
			badRequest(c, "year and month must be given together as numbers")
			return
		}
	}

	summary, err := h.svc.MonthlySummary(c.Request.Context(), c.Param("userId"), year, time.Month(month))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
