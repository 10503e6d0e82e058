package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"waterbill-backend/internal/cache"
	"waterbill-backend/internal/models"
	"waterbill-backend/internal/timeutil"
)

const cashierStatsTTL = 60 * time.Second

// DashboardService composes the customer and cashier dashboard views from
// the other services. It owns no storage of its own.
type DashboardService struct {
	profiles ProfileStore
	bills    *BillService
	payments *PaymentService
	activity *ActivityService
	now      func() time.Time
}

func NewDashboardService(profiles ProfileStore, bills *BillService, payments *PaymentService, activity *ActivityService) *DashboardService {
	return &DashboardService{
		profiles: profiles,
		bills:    bills,
		payments: payments,
		activity: activity,
		now:      timeutil.Today,
	}
}

// CustomerDashboard assembles a customer's bills, payments, and outstanding
// summary.
func (s *DashboardService) CustomerDashboard(ctx context.Context, customerID uuid.UUID) (*models.CustomerDashboard, error) {
	profile, err := s.profiles.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	bills, err := s.bills.ListCustomerBills(ctx, customerID)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListCustomerPayments(ctx, customerID)
	if err != nil {
		return nil, err
	}

	dash := &models.CustomerDashboard{
		Profile:  profile,
		Bills:    bills,
		Payments: payments,
	}

	today := s.now()
	for _, b := range bills {
		if !b.Outstanding() {
			continue
		}
		dash.TotalOutstanding = dash.TotalOutstanding.Add(b.Balance)
		if b.Status == models.BillStatusOverdue {
			dash.OverdueCount++
		}
		if !b.DueDate.Before(today) &&
			(dash.NextDueBill == nil || b.DueDate.Before(dash.NextDueBill.DueDate)) {
			dash.NextDueBill = b
		}
	}

	return dash, nil
}

// CashierDashboard assembles the stats, activity feed, and due-bills report
// for the staff view. The stats block is cached briefly in Redis; bill and
// payment writes invalidate it.
func (s *DashboardService) CashierDashboard(ctx context.Context) (*models.CashierDashboard, error) {
	stats, err := s.cashierStats(ctx)
	if err != nil {
		return nil, err
	}
	feed, err := s.activity.Feed(ctx)
	if err != nil {
		return nil, err
	}
	dueBills, err := s.bills.DueBills(ctx)
	if err != nil {
		return nil, err
	}

	return &models.CashierDashboard{
		Stats:          stats,
		RecentActivity: feed,
		DueBills:       dueBills,
	}, nil
}

func (s *DashboardService) cashierStats(ctx context.Context) (*models.CashierStats, error) {
	if data, ok := cache.GetCached(ctx, cache.CashierStatsKey); ok {
		stats := &models.CashierStats{}
		if err := json.Unmarshal(data, stats); err == nil {
			return stats, nil
		}
		log.Printf("[Dashboard] discarding malformed cached stats")
	}

	customers, err := s.profiles.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	bills, err := s.bills.ListBills(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListPayments(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.CashierStats{
		TotalCustomers: len(customers),
		TotalBills:     len(bills),
	}
	for _, b := range bills {
		switch b.Status {
		case models.BillStatusUnpaid, models.BillStatusPartial:
			stats.UnpaidBills++
		case models.BillStatusOverdue:
			stats.OverdueBills++
		}
		if b.Outstanding() {
			stats.TotalOutstanding = stats.TotalOutstanding.Add(b.Balance)
		}
	}
	for _, p := range payments {
		if p.PaymentStatus == models.PaymentStatusCompleted {
			stats.TotalCollected = stats.TotalCollected.Add(p.Amount)
		}
	}

	if data, err := json.Marshal(stats); err == nil {
		cache.SetCached(ctx, cache.CashierStatsKey, data, cashierStatsTTL)
	}
	return stats, nil
}
