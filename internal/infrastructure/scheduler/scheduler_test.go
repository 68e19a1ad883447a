package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sangkips/dairy-pos/internal/application/service"
	"github.com/sangkips/dairy-pos/internal/config"
	"github.com/sangkips/dairy-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
)

type fakeReports struct{ calls int }

func (f *fakeReports) TodayStats(context.Context) (*repository.SalesTotals, error) {
	f.calls++
	return &repository.SalesTotals{Total: decimal.NewFromInt(120), Count: 2}, nil
}

type fakeInvoicer struct {
	year  int
	month time.Month
	err   error
}

func (f *fakeInvoicer) InvoiceAllForMonth(_ context.Context, year int, month time.Month) (*service.InvoiceRunResult, error) {
	f.year, f.month = year, month
	if f.err != nil {
		return nil, f.err
	}
	return &service.InvoiceRunResult{Month: "2025-12", Invoiced: 3}, nil
}

type fakeKeys struct{ calls int }

func (f *fakeKeys) DeleteExpired(context.Context) (int64, error) {
	f.calls++
	return 4, nil
}

func TestInvoicePreviousMonth(t *testing.T) {
	inv := &fakeInvoicer{}
	s := NewScheduler(config.SchedulerConfig{}, &fakeReports{}, inv, &fakeKeys{}, nil)
	s.now = func() time.Time { return time.Date(2026, time.January, 1, 0, 30, 0, 0, time.UTC) }

	s.invoicePreviousMonth()
	if inv.year != 2025 || inv.month != time.December {
		t.Errorf("invoiced %d-%s, want 2025-December", inv.year, inv.month)
	}

	inv.err = errors.New("db down")
	s.invoicePreviousMonth()
}

func TestJobsCallDependencies(t *testing.T) {
	reports, keys := &fakeReports{}, &fakeKeys{}
	s := NewScheduler(config.SchedulerConfig{}, reports, &fakeInvoicer{}, keys, nil)

	s.logDailySummary()
	s.purgeExpiredKeys()
	if reports.calls != 1 || keys.calls != 1 {
		t.Errorf("reports = %d, keys = %d", reports.calls, keys.calls)
	}
}

func TestStartRegistersConfiguredJobs(t *testing.T) {
	cfg := config.SchedulerConfig{DailySummaryCron: "55 23 * * *", PurgeCron: "0 * * * *"}
	s := NewScheduler(cfg, &fakeReports{}, &fakeInvoicer{}, &fakeKeys{}, nil)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	defer s.Stop()
	if got := s.Entries(); got != 2 {
		t.Errorf("entries = %d, want 2", got)
	}
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := NewScheduler(config.SchedulerConfig{PurgeCron: "every hour"}, &fakeReports{}, &fakeInvoicer{}, &fakeKeys{}, nil)
	if err := s.Start(); err == nil {
		t.Fatal("expected an error for an invalid cron spec")
	}
}
