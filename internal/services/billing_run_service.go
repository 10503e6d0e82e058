package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"waterbill-backend/internal/apperrors"
	"waterbill-backend/internal/billing"
	"waterbill-backend/internal/cache"
	"waterbill-backend/internal/config"
	"waterbill-backend/internal/metrics"
	"waterbill-backend/internal/models"
	"waterbill-backend/internal/notify"
	"waterbill-backend/internal/timeutil"
)

// BillableLister enumerates the customers eligible for a billing run.
type BillableLister interface {
	ListBillableCustomers(ctx context.Context) ([]*models.Profile, error)
}

// BillingRunService creates a month's bills for every billable customer in
// one batch. Runs are idempotent: customers already billed in the target
// month are excluded up front, and the unique index on (customer, month)
// backstops any race between concurrent runs.
type BillingRunService struct {
	bills    BillStore
	profiles BillableLister
	notifier notify.Notifier
	cfg      *config.Config
}

func NewBillingRunService(bills BillStore, profiles BillableLister, notifier notify.Notifier, cfg *config.Config) *BillingRunService {
	return &BillingRunService{
		bills:    bills,
		profiles: profiles,
		notifier: notifier,
		cfg:      cfg,
	}
}

// GenerateMonthlyBills runs the batch. Bad run parameters fail the whole
// batch before any bill is written; a failure on one customer only skips
// that customer.
func (s *BillingRunService) GenerateMonthlyBills(ctx context.Context, req *models.GenerateBillsRequest, createdBy uuid.UUID) (*models.BillingRunReport, error) {
	monthStart, err := time.ParseInLocation("2006-01", req.BillingMonth, time.UTC)
	if err != nil {
		metrics.BillingRunsTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.Validation("billing month must be in YYYY-MM format")
	}

	rate := req.RatePerUnit
	if rate.IsZero() {
		rate, _ = decimal.NewFromString(s.cfg.Billing.DefaultRatePerUnit)
	}
	// An explicit zero increase is a legal no-consumption month; only an
	// omitted field falls back to the configured default.
	var increase decimal.Decimal
	if req.DefaultReadingIncrease != nil {
		increase = *req.DefaultReadingIncrease
	} else {
		increase, _ = decimal.NewFromString(s.cfg.Billing.DefaultReadingIncrease)
	}
	dueDays := req.DaysUntilDue
	if dueDays == 0 {
		dueDays = s.cfg.Billing.DaysUntilDue
	}

	if !rate.IsPositive() {
		metrics.BillingRunsTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.Validation("rate per unit must be greater than 0")
	}
	if increase.IsNegative() {
		metrics.BillingRunsTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.Validation("default reading increase cannot be negative")
	}
	if dueDays < 1 || dueDays > 90 {
		metrics.BillingRunsTotal.WithLabelValues("rejected").Inc()
		return nil, apperrors.Validation("days until due must be between 1 and 90")
	}

	customers, err := s.profiles.ListBillableCustomers(ctx)
	if err != nil {
		metrics.BillingRunsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}
	alreadyBilled, err := s.bills.CustomersBilledInMonth(ctx, monthStart)
	if err != nil {
		metrics.BillingRunsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	period := monthStart.Format(timeutil.PeriodLayout)
	// Day dueDays of the month after the billing month; time.Date
	// normalizes the overflow.
	dueDate := time.Date(monthStart.Year(), monthStart.Month()+1, dueDays, 0, 0, 0, 0, time.UTC)

	report := &models.BillingRunReport{BillingPeriod: period}

	for _, customer := range customers {
		if alreadyBilled[customer.ID] {
			continue
		}
		report.Eligible++

		if err := s.createForCustomer(ctx, customer, monthStart, period, dueDate, rate, increase, createdBy); err != nil {
			report.Skipped++
			log.Printf("[BillingRun] skipped customer %s (%s): %v", customer.ID, customer.Email, err)
			continue
		}
		report.Created++
	}

	metrics.BillingRunsTotal.WithLabelValues("completed").Inc()
	cache.InvalidateBillingCaches(ctx)
	s.notifier.Push(notify.SeveritySuccess, "Billing Run Complete",
		fmt.Sprintf("%s: %d bills created, %d skipped", period, report.Created, report.Skipped))

	log.Printf("[BillingRun] %s: eligible=%d created=%d skipped=%d",
		period, report.Eligible, report.Created, report.Skipped)
	return report, nil
}

// createForCustomer derives the customer's readings from their latest bill
// and writes the new one. The previous reading is the latest bill's current
// reading, or zero for a first bill.
func (s *BillingRunService) createForCustomer(ctx context.Context, customer *models.Profile, monthStart time.Time, period string, dueDate time.Time, rate, increase decimal.Decimal, createdBy uuid.UUID) error {
	latest, err := s.bills.GetLatestByCustomer(ctx, customer.ID)
	if err != nil {
		return err
	}

	previousReading := decimal.Zero
	if latest != nil {
		previousReading = latest.CurrentReading
	}
	currentReading := previousReading.Add(increase)

	consumption, amountDue, err := billing.Compute(previousReading, currentReading, rate)
	if err != nil {
		return err
	}

	accountNumber := ""
	if customer.AccountNumber != nil {
		accountNumber = *customer.AccountNumber
	}

	bill := &models.Bill{
		CustomerID:      customer.ID,
		AccountNumber:   accountNumber,
		BillingPeriod:   period,
		BillingMonth:    monthStart,
		PreviousReading: previousReading.Round(2),
		CurrentReading:  currentReading.Round(2),
		RatePerUnit:     rate.Round(2),
		Consumption:     consumption,
		AmountDue:       amountDue,
		Balance:         amountDue,
		Status:          models.BillStatusUnpaid,
		DueDate:         dueDate,
		CreatedBy:       &createdBy,
	}

	if err := s.bills.Create(ctx, bill); err != nil {
		return err
	}

	metrics.BillsCreatedTotal.Inc()
	return nil
}
