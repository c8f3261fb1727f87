package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"docflow/internal/domain"
	"docflow/internal/lifecycle"
	"docflow/internal/port"
)

// DashboardService provides the tenant overview.
type DashboardService interface {
	Summary(ctx context.Context, tenantID uuid.UUID) (*domain.DashboardSummary, error)
}

type dashboardService struct {
	statsRepo port.StatsRepository
	clock     func() time.Time
}

// NewDashboardService creates a new DashboardService implementation.
func NewDashboardService(statsRepo port.StatsRepository, clock func() time.Time) DashboardService {
	if clock == nil {
		clock = time.Now
	}
	return &dashboardService{statsRepo: statsRepo, clock: clock}
}

// Summary runs the independent aggregate queries concurrently. The first
// failure cancels the rest.
func (s *dashboardService) Summary(ctx context.Context, tenantID uuid.UUID) (*domain.DashboardSummary, error) {
	today := lifecycle.StartOfDay(s.clock())
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var summary domain.DashboardSummary
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		counts, err := s.statsRepo.StatusCounts(gctx, tenantID)
		summary.StatusCounts = counts
		return err
	})
	g.Go(func() error {
		out, err := s.statsRepo.Outstanding(gctx, tenantID)
		summary.Outstanding = out
		return err
	})
	g.Go(func() error {
		overdue, err := s.statsRepo.Overdue(gctx, tenantID, today)
		summary.Overdue = overdue
		return err
	})
	g.Go(func() error {
		paid, err := s.statsRepo.PaymentsBetween(gctx, tenantID, monthStart, monthEnd)
		summary.PaidThisMonth = paid
		return err
	})
	g.Go(func() error {
		invoiced, err := s.statsRepo.InvoicedBetween(gctx, tenantID, monthStart, monthEnd)
		summary.InvoicedThisMonth = invoiced
		return err
	})
	g.Go(func() error {
		n, err := s.statsRepo.ActiveRecurring(gctx, tenantID)
		summary.ActiveRecurring = n
		return err
	})
	g.Go(func() error {
		n, err := s.statsRepo.ClientCount(gctx, tenantID)
		summary.ClientCount = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("building dashboard: %w", err)
	}
	if summary.StatusCounts == nil {
		summary.StatusCounts = []domain.StatusCount{}
	}
	return &summary, nil
}
