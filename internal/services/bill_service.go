package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"waterbill-backend/internal/apperrors"
	"waterbill-backend/internal/billing"
	"waterbill-backend/internal/cache"
	"waterbill-backend/internal/config"
	"waterbill-backend/internal/metrics"
	"waterbill-backend/internal/models"
	"waterbill-backend/internal/notify"
	"waterbill-backend/internal/timeutil"
)

// BillStore is the slice of the bill repository the service needs.
type BillStore interface {
	Create(ctx context.Context, b *models.Bill) error
	Get(ctx context.Context, id uuid.UUID) (*models.Bill, error)
	List(ctx context.Context) ([]*models.Bill, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Bill, error)
	GetLatestByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Bill, error)
	CustomersBilledInMonth(ctx context.Context, monthStart time.Time) (map[uuid.UUID]bool, error)
	MarkOverdue(ctx context.Context, id uuid.UUID) error
}

// CustomerGetter resolves customer profiles for bill creation.
type CustomerGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Profile, error)
}

type BillService struct {
	bills    BillStore
	profiles CustomerGetter
	notifier notify.Notifier
	cfg      *config.Config
	now      func() time.Time
}

func NewBillService(bills BillStore, profiles CustomerGetter, notifier notify.Notifier, cfg *config.Config) *BillService {
	return &BillService{
		bills:    bills,
		profiles: profiles,
		notifier: notifier,
		cfg:      cfg,
		now:      timeutil.Today,
	}
}

// CreateBill records a single manually-entered bill for a customer.
func (s *BillService) CreateBill(ctx context.Context, req *models.CreateBillRequest, createdBy uuid.UUID) (*models.Bill, error) {
	customer, err := s.profiles.Get(ctx, req.CustomerID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("customer")
		}
		return nil, err
	}
	if customer.Role != models.RoleCustomer {
		return nil, apperrors.NotFound("customer")
	}

	billingMonth, err := time.ParseInLocation(timeutil.DateLayout, req.BillingMonth, time.UTC)
	if err != nil {
		return nil, apperrors.Validation("billing month must be in YYYY-MM-DD format")
	}
	dueDate, err := time.ParseInLocation(timeutil.DateLayout, req.DueDate, time.UTC)
	if err != nil {
		return nil, apperrors.Validation("due date must be in YYYY-MM-DD format")
	}

	consumption, amountDue, err := billing.Compute(req.PreviousReading, req.CurrentReading, req.RatePerUnit)
	if err != nil {
		return nil, err
	}

	period := req.BillingPeriod
	if period == "" {
		period = billingMonth.Format(timeutil.PeriodLayout)
	}

	accountNumber := ""
	if customer.AccountNumber != nil {
		accountNumber = *customer.AccountNumber
	}

	bill := &models.Bill{
		CustomerID:      customer.ID,
		AccountNumber:   accountNumber,
		BillingPeriod:   period,
		BillingMonth:    timeutil.MonthStart(billingMonth.Year(), billingMonth.Month()),
		PreviousReading: req.PreviousReading.Round(2),
		CurrentReading:  req.CurrentReading.Round(2),
		RatePerUnit:     req.RatePerUnit.Round(2),
		Consumption:     consumption,
		AmountDue:       amountDue,
		Balance:         amountDue,
		Status:          models.BillStatusUnpaid,
		DueDate:         timeutil.StartOfDay(dueDate),
		CreatedBy:       &createdBy,
		CustomerName:    customer.FullName,
	}

	if err := s.bills.Create(ctx, bill); err != nil {
		return nil, err
	}

	metrics.BillsCreatedTotal.Inc()
	cache.InvalidateBillingCaches(ctx)
	s.notifier.Push(notify.SeveritySuccess, "Bill Created",
		"Bill for "+customer.FullName+" ("+period+") created")

	log.Printf("[Billing] Bill %s created for customer %s (%s)", bill.ID, customer.ID, period)
	return bill, nil
}

// GetBill fetches a bill with its effective status applied. Customers may
// only read their own bills.
func (s *BillService) GetBill(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, requesterRole string) (*models.Bill, error) {
	bill, err := s.bills.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if requesterRole != models.RoleCashier && bill.CustomerID != requesterID {
		return nil, apperrors.Unauthorized("you can only view your own bills")
	}

	s.applyEffectiveStatus(bill)
	return bill, nil
}

// ListBills returns every bill, newest billing month first. Cashier-only at
// the handler level.
func (s *BillService) ListBills(ctx context.Context) ([]*models.Bill, error) {
	bills, err := s.bills.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range bills {
		s.applyEffectiveStatus(b)
	}
	return bills, nil
}

// ListCustomerBills returns a single customer's bills.
func (s *BillService) ListCustomerBills(ctx context.Context, customerID uuid.UUID) ([]*models.Bill, error) {
	bills, err := s.bills.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	for _, b := range bills {
		s.applyEffectiveStatus(b)
	}
	return bills, nil
}

// DueBills groups outstanding bills by urgency: overdue, and due within the
// configured due-soon window.
func (s *BillService) DueBills(ctx context.Context) (*models.DueBillsReport, error) {
	bills, err := s.bills.List(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now()
	report := &models.DueBillsReport{
		Overdue: []*models.Bill{},
		DueSoon: []*models.Bill{},
	}

	for _, b := range bills {
		s.applyEffectiveStatus(b)
		if !b.Outstanding() {
			continue
		}

		days := timeutil.DaysUntil(today, b.DueDate)
		switch {
		case days < 0:
			report.Overdue = append(report.Overdue, b)
			report.TotalOverdue = report.TotalOverdue.Add(b.Balance)
		case days <= s.cfg.Billing.DueSoonDays:
			report.DueSoon = append(report.DueSoon, b)
			report.TotalDueSoon = report.TotalDueSoon.Add(b.Balance)
		}
	}

	return report, nil
}

// applyEffectiveStatus rewrites the in-memory status to what the reader
// should see and, when a bill has newly tipped overdue, writes the stored
// status back in the background. The read path never waits on the write.
func (s *BillService) applyEffectiveStatus(b *models.Bill) {
	effective := b.EffectiveStatus(s.now())
	if effective == b.Status {
		return
	}

	b.Status = effective
	id := b.ID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.bills.MarkOverdue(ctx, id); err != nil {
			log.Printf("[Billing] overdue write-back failed for bill %s: %v", id, err)
		}
	}()
}
