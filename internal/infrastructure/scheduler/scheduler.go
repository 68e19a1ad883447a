package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sangkips/dairy-pos/internal/application/service"
	"github.com/sangkips/dairy-pos/internal/config"
	"github.com/sangkips/dairy-pos/internal/domain/repository"
	"github.com/sangkips/dairy-pos/pkg/utils"
)

const jobTimeout = 2 * time.Minute

// SalesReporter reports today's takings
type SalesReporter interface {
	TodayStats(ctx context.Context) (*repository.SalesTotals, error)
}

// MonthInvoicer posts milk invoices for a whole month
type MonthInvoicer interface {
	InvoiceAllForMonth(ctx context.Context, year int, month time.Month) (*service.InvoiceRunResult, error)
}

// KeyPurger removes expired idempotency keys
type KeyPurger interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	reports  SalesReporter
	invoicer MonthInvoicer
	keys     KeyPurger
	cfg      config.SchedulerConfig
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.SchedulerConfig, reports SalesReporter, invoicer MonthInvoicer, keys KeyPurger, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// standard 5-field cron parser: min, hour, dom, month, dow
	return &Scheduler{
		cron:     cron.New(),
		reports:  reports,
		invoicer: invoicer,
		keys:     keys,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler")

	jobs := []struct {
		name string
		spec string
		run  func()
	}{
		{"daily summary", s.cfg.DailySummaryCron, s.logDailySummary},
		{"monthly invoicing", s.cfg.MonthlyInvoiceCron, s.invoicePreviousMonth},
		{"idempotency purge", s.cfg.PurgeCron, s.purgeExpiredKeys},
	}
	for _, job := range jobs {
		if job.spec == "" {
			continue
		}
		if _, err := s.cron.AddFunc(job.spec, job.run); err != nil {
			s.logger.Error("failed to schedule job", zap.String("job", job.name), zap.String("spec", job.spec), zap.Error(err))
			return err
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) logDailySummary() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	totals, err := s.reports.TodayStats(ctx)
	if err != nil {
		s.logger.Error("failed to build daily summary", zap.Error(err))
		return
	}
	s.logger.Info("daily sales summary",
		zap.String("date", s.now().Format(utils.DateLayout)),
		zap.Int64("bills", totals.Count),
		zap.String("total", totals.Total.StringFixed(2)),
		zap.String("cash", totals.Cash.StringFixed(2)),
		zap.String("online", totals.Online.StringFixed(2)),
		zap.String("credit", totals.Credit.StringFixed(2)),
	)
}

func (s *Scheduler) invoicePreviousMonth() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	year, month := utils.PreviousMonth(s.now())
	result, err := s.invoicer.InvoiceAllForMonth(ctx, year, month)
	if err != nil {
		s.logger.Error("monthly invoicing failed", zap.Int("year", year), zap.Stringer("month", month), zap.Error(err))
		return
	}
	s.logger.Info("monthly invoicing completed",
		zap.String("month", result.Month),
		zap.Int("invoiced", result.Invoiced),
		zap.Int("already_invoiced", result.AlreadyInvoiced),
		zap.Int("skipped", result.Skipped),
		zap.String("total", result.Total.StringFixed(2)),
	)
}

func (s *Scheduler) purgeExpiredKeys() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.keys.DeleteExpired(ctx)
	if err != nil {
		s.logger.Error("failed to purge idempotency keys", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("purged idempotency keys", zap.Int64("count", n))
	}
}
