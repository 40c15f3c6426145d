package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/JayaniDinukshika/fuelx/internal/config"
	"github.com/JayaniDinukshika/fuelx/internal/repository/mongodb"
	"github.com/JayaniDinukshika/fuelx/internal/repository/sheets"
	"github.com/JayaniDinukshika/fuelx/internal/scheduler"
	"github.com/JayaniDinukshika/fuelx/internal/server/handlers"
	"github.com/JayaniDinukshika/fuelx/internal/server/router"
	attendancesvc "github.com/JayaniDinukshika/fuelx/internal/service/attendance"
	cashbooksvc "github.com/JayaniDinukshika/fuelx/internal/service/cashbook"
	deliverysvc "github.com/JayaniDinukshika/fuelx/internal/service/deliveries"
	"github.com/JayaniDinukshika/fuelx/internal/service/drafts"
	levelsvc "github.com/JayaniDinukshika/fuelx/internal/service/levels"
	reconciliationsvc "github.com/JayaniDinukshika/fuelx/internal/service/reconciliation"
	reportingsvc "github.com/JayaniDinukshika/fuelx/internal/service/reporting"
	whatsappsvc "github.com/JayaniDinukshika/fuelx/internal/service/whatsapp"
	"github.com/JayaniDinukshika/fuelx/pkg/clients/anthropic"
	whatsappclient "github.com/JayaniDinukshika/fuelx/pkg/clients/whatsapp"
	"github.com/JayaniDinukshika/fuelx/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Logging.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc := cfg.Station.Location()
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	mongoRepo, err := mongodb.NewMongoDBRepository(startupCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()
	if err := mongoRepo.EnsureIndexes(startupCtx); err != nil {
		baseLogger.Fatal("failed to create mongodb indexes", zap.Error(err))
	}

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		repo, err := sheets.NewGoogleSheetRepository(startupCtx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetsRepo = repo
		baseLogger.Info("google sheets export enabled")
	}

	var extractor levelsvc.ReadingExtractor
	if cfg.AI.AnthropicKey != "" {
		extractor = anthropic.NewClient(cfg.AI.AnthropicKey)
		baseLogger.Info("anthropic scan reading enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, unreadable scans are stored without a level")
	}

	levelSvc := levelsvc.NewService(mongoRepo, extractor, loc, baseLogger.Named("svc.levels"))
	reconciliationSvc := reconciliationsvc.NewService(levelSvc, mongoRepo, loc, baseLogger.Named("svc.reconciliation"))
	deliverySvc := deliverysvc.NewService(mongoRepo, baseLogger.Named("svc.deliveries"))
	cashbookSvc := cashbooksvc.NewService(mongoRepo, reconciliationSvc, baseLogger.Named("svc.cashbook"))
	attendanceSvc := attendancesvc.NewService(mongoRepo, loc, baseLogger.Named("svc.attendance"))
	reportingSvc := reportingsvc.NewService(mongoRepo, reconciliationSvc, cashbookSvc, sheetsRepo,
		reportingsvc.Options{Station: cfg.Station.Name, Thresholds: cfg.Reporting.LowLevelWarnings},
		baseLogger.Named("svc.reporting"))

	var notifier whatsappsvc.Notifier
	if cfg.WhatsApp.Enabled() {
		notifier = whatsappsvc.NewMetaNotifier(cfg.WhatsApp.ManagerID, whatsappclient.NewClient(cfg.WhatsApp), baseLogger.Named("svc.whatsapp"))
		baseLogger.Info("whatsapp manager notifications enabled")
	}

	engine := router.New(router.Handlers{
		Deliveries:     handlers.NewDeliveryHandler(deliverySvc, baseLogger.Named("handlers.deliveries")),
		Levels:         handlers.NewLevelHandler(levelSvc, baseLogger.Named("handlers.levels")),
		Reconciliation: handlers.NewReconciliationHandler(reconciliationSvc, baseLogger.Named("handlers.reconciliation")),
		Cashbook:       handlers.NewCashbookHandler(cashbookSvc, baseLogger.Named("handlers.cashbook")),
		Attendance:     handlers.NewAttendanceHandler(attendanceSvc, baseLogger.Named("handlers.attendance")),
		Drafts:         handlers.NewDraftHandler(drafts.NewMemoryStore(), baseLogger.Named("handlers.drafts")),
		Reports:        handlers.NewReportHandler(reportingSvc, baseLogger.Named("handlers.reports")),
	}, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting.CronSchedule, loc, reportingSvc, notifier, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	corsMiddleware := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      corsMiddleware(engine),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("station", cfg.Station.Name),
			zap.String("timezone", loc.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
