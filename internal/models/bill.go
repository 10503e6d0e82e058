package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	BillStatusUnpaid  = "unpaid"
	BillStatusPartial = "partial"
	BillStatusPaid    = "paid"
	BillStatusOverdue = "overdue"
)

type Bill struct {
	ID              uuid.UUID       `json:"id"`
	CustomerID      uuid.UUID       `json:"customer_id"`
	AccountNumber   string          `json:"account_number"`
	BillingPeriod   string          `json:"billing_period"`
	BillingMonth    time.Time       `json:"billing_month"`
	PreviousReading decimal.Decimal `json:"previous_reading"`
	CurrentReading  decimal.Decimal `json:"current_reading"`
	RatePerUnit     decimal.Decimal `json:"rate_per_unit"`
	Consumption     decimal.Decimal `json:"consumption"`
	AmountDue       decimal.Decimal `json:"amount_due"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	Balance         decimal.Decimal `json:"balance"`
	Status          string          `json:"status"`
	DueDate         time.Time       `json:"due_date"`
	CreatedBy       *uuid.UUID      `json:"created_by"`
	CustomerName    string          `json:"customer_name,omitempty"` // Joined from profiles
	CreatorName     string          `json:"creator_name,omitempty"`  // Joined from profiles
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// EffectiveStatus derives the status a reader should see. A bill whose due
// date has passed with money still owed reads as overdue even when the
// stored status says unpaid or partial.
func (b *Bill) EffectiveStatus(today time.Time) string {
	if b.DueDate.Before(today) &&
		(b.Status == BillStatusUnpaid || b.Status == BillStatusPartial) &&
		b.Balance.IsPositive() {
		return BillStatusOverdue
	}
	return b.Status
}

// Outstanding reports whether the bill still has money owed on it.
func (b *Bill) Outstanding() bool {
	return b.Status != BillStatusPaid && b.Balance.IsPositive()
}

// CreateBillRequest represents the request body for creating a single bill
type CreateBillRequest struct {
	CustomerID      uuid.UUID       `json:"customer_id"`
	BillingPeriod   string          `json:"billing_period"`
	BillingMonth    string          `json:"billing_month"` // YYYY-MM-DD
	PreviousReading decimal.Decimal `json:"previous_reading"`
	CurrentReading  decimal.Decimal `json:"current_reading"`
	RatePerUnit     decimal.Decimal `json:"rate_per_unit"`
	DueDate         string          `json:"due_date"` // YYYY-MM-DD
}

// GenerateBillsRequest represents the request body for a monthly billing
// run. DefaultReadingIncrease is a pointer so an explicit zero (a
// no-consumption month) is distinguishable from the field being omitted.
type GenerateBillsRequest struct {
	BillingMonth           string           `json:"billing_month"` // YYYY-MM
	RatePerUnit            decimal.Decimal  `json:"rate_per_unit"`
	DefaultReadingIncrease *decimal.Decimal `json:"default_reading_increase"`
	DaysUntilDue           int              `json:"days_until_due"`
}

// BillingRunReport summarises a monthly billing run
type BillingRunReport struct {
	BillingPeriod string `json:"billing_period"`
	Eligible      int    `json:"eligible"`
	Created       int    `json:"created"`
	Skipped       int    `json:"skipped"`
}

// DueBillsReport groups outstanding bills by urgency
type DueBillsReport struct {
	Overdue      []*Bill         `json:"overdue"`
	DueSoon      []*Bill         `json:"due_soon"`
	TotalOverdue decimal.Decimal `json:"total_overdue"`
	TotalDueSoon decimal.Decimal `json:"total_due_soon"`
}
