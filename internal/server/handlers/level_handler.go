package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
	"github.com/JayaniDinukshika/fuelx/internal/reconcile"
)

// defaultSeriesDays is the analytics window when from is omitted.
const defaultSeriesDays = 7

// LevelService is the tank-level source.
type LevelService interface {
	Today() string
	RecordReading(ctx context.Context, reading models.TankReading) (models.TankReading, error)
	Series(ctx context.Context, products []models.FuelProduct, from, to string) ([]models.LevelSeries, error)
	RecordScan(ctx context.Context, fuelType, text string, createdAt time.Time) (models.ScanReading, error)
	Scans(ctx context.Context) ([]models.ScanReading, error)
	LatestByFuel(ctx context.Context) ([]models.ScanReading, error)
}

// LevelHandler serves gauge readings, OCR scans and the level analytics.
type LevelHandler struct {
	svc    LevelService
	logger *zap.Logger
}

func NewLevelHandler(svc LevelService, logger *zap.Logger) *LevelHandler {
	return &LevelHandler{svc: svc, logger: orNop(logger)}
}

type tankReadingRequest struct {
	FuelType   string    `json:"fuelType" binding:"required"`
	Level      *float64  `json:"level" binding:"required"`
	RecordedAt time.Time `json:"recordedAt"`
}

// RecordReading stores a gauge reading pushed by the tank monitor.
func (h *LevelHandler) RecordReading(c *gin.Context) {
	var req tankReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid tank reading payload", zap.Error(err))
		badRequest(c, "fuelType and level are required")
		return
	}

	saved, err := h.svc.RecordReading(c.Request.Context(), models.TankReading{
		FuelType:   req.FuelType,
		Level:      *req.Level,
		RecordedAt: req.RecordedAt,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// Series returns the last level per day of the requested products.
func (h *LevelHandler) Series(c *gin.Context) {
	products, err := parseProducts(c.Query("fuelTypes"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	to := c.DefaultQuery("to", h.svc.Today())
	from := c.Query("from")
	if from == "" {
		if from, err = reconcile.ShiftDateKey(to, -(defaultSeriesDays - 1)); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}

	series, err := h.svc.Series(c.Request.Context(), products, from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"from": from, "to": to, "series": series})
}

type scanRequest struct {
	FuelType    string `json:"fuelType" binding:"required"`
	ScannedText string `json:"scannedText"`
}

// RecordScan stores OCR text scanned from a dip chart.
func (h *LevelHandler) RecordScan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "fuelType is required")
		return
	}

	saved, err := h.svc.RecordScan(c.Request.Context(), req.FuelType, req.ScannedText, time.Time{})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// Scans lists every scan, newest first.
func (h *LevelHandler) Scans(c *gin.Context) {
	scans, err := h.svc.Scans(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, scans)
}

// LatestByFuel returns the newest readable scan of each product.
func (h *LevelHandler) LatestByFuel(c *gin.Context) {
	scans, err := h.svc.LatestByFuel(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, scans)
}

// parseProducts resolves a comma separated list of keys or labels; empty means all.
func parseProducts(raw string) ([]models.FuelProduct, error) {
	if strings.TrimSpace(raw) == "" {
		return models.Products, nil
	}

	var products []models.FuelProduct
	seen := make(map[models.FuelProduct]bool)
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, ok := models.ParseProduct(part)
		if !ok {
			return nil, unknownProduct(part)
		}
		if !seen[p] {
			seen[p] = true
			products = append(products, p)
		}
	}
	if len(products) == 0 {
		return models.Products, nil
	}
	return products, nil
}
