package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/JayaniDinukshika/fuelx/internal/domain/models"
	"github.com/JayaniDinukshika/fuelx/internal/reconcile"
	"github.com/JayaniDinukshika/fuelx/internal/service/reporting"
	"github.com/JayaniDinukshika/fuelx/internal/service/whatsapp"
)

// ReportRunner produces and stores the report of a day.
type ReportRunner interface {
	Run(ctx context.Context, date string) (models.DailyReport, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	loc      *time.Location
	reports  ReportRunner
	notifier whatsapp.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a scheduler that runs the daily report on schedule,
// a standard five field cron expression evaluated in the station zone.
// notifier may be nil.
func NewScheduler(schedule string, loc *time.Location, reports ReportRunner, notifier whatsapp.Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		schedule: schedule,
		loc:      loc,
		reports:  reports,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule), zap.String("zone", s.loc.String()))

	if _, err := s.cron.AddFunc(s.schedule, s.runDailyReport); err != nil {
		return fmt.Errorf("schedule daily report %q: %w", s.schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runDailyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.RunDailyReport(ctx); err != nil {
		s.logger.Error("daily report job failed", zap.Error(err))
	}
}

// RunDailyReport reports on the current station day and notifies the manager.
func (s *Scheduler) RunDailyReport(ctx context.Context) error {
	date := reconcile.DateKey(s.now(), s.loc)
	s.logger.Info("generating daily report", zap.String("date", date))

	report, err := s.reports.Run(ctx, date)
	if err != nil {
		return fmt.Errorf("run report for %s: %w", date, err)
	}

	if s.notifier == nil {
		return nil
	}
	if err := s.notifier.NotifyManager(ctx, reporting.Summary(report)); err != nil {
		return fmt.Errorf("send report for %s: %w", date, err)
	}

	s.logger.Info("daily report sent successfully", zap.String("date", date))
	return nil
}
