package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JayaniDinukshika/fuelx/internal/server/handlers"
)

// Handlers groups the HTTP handlers mounted by New.
type Handlers struct {
	Deliveries     *handlers.DeliveryHandler
	Levels         *handlers.LevelHandler
	Reconciliation *handlers.ReconciliationHandler
	Cashbook       *handlers.CashbookHandler
	Attendance     *handlers.AttendanceHandler
	Drafts         *handlers.DraftHandler
	Reports        *handlers.ReportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/analytics/tank-levels", h.Levels.Series)

	api := r.Group("/api")
	{
		api.POST("/browser-details", h.Deliveries.Create)
		api.GET("/browser-details", h.Deliveries.List)

		api.POST("/tank-readings", h.Levels.RecordReading)
		api.POST("/scanned-text", h.Levels.RecordScan)
		api.GET("/scanned-text", h.Levels.Scans)
		api.GET("/scanned-text/latest-by-fuel", h.Levels.LatestByFuel)

		api.GET("/reconciliation", h.Reconciliation.Day)
		api.GET("/reconciliation/:product", h.Reconciliation.Product)

		api.GET("/cashbook/:date", h.Cashbook.Get)
		api.POST("/cashbook", h.Cashbook.Save)
		api.POST("/cashbook/:date", h.Cashbook.Save)

		api.POST("/attendance/mark", h.Attendance.Mark)
		api.GET("/attendance/:userId/monthly", h.Attendance.Monthly)

		api.GET("/drafts/:id", h.Drafts.Get)
		api.PUT("/drafts/:id", h.Drafts.Put)
		api.DELETE("/drafts/:id", h.Drafts.Delete)

		api.GET("/reports/:date", h.Reports.Get)
		api.POST("/reports/:date/run", h.Reports.Run)
	}

	if logger != nil {
		logger.Info("router initialized", zap.Int("routes", len(r.Routes())))
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("request completed", fields...)
			return
		}
		logger.Info("request completed", fields...)
	}
}
