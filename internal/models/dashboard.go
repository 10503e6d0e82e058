package models

import "github.com/shopspring/decimal"

// CustomerDashboard is the customer portal's landing view.
type CustomerDashboard struct {
	Profile          *Profile        `json:"profile"`
	Bills            []*Bill         `json:"bills"`
	Payments         []*Payment      `json:"payments"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	OverdueCount     int             `json:"overdue_count"`
	NextDueBill      *Bill           `json:"next_due_bill,omitempty"`
}

// CashierStats are the headline numbers on the cashier dashboard.
type CashierStats struct {
	TotalCustomers   int             `json:"total_customers"`
	TotalBills       int             `json:"total_bills"`
	UnpaidBills      int             `json:"unpaid_bills"`
	OverdueBills     int             `json:"overdue_bills"`
	TotalCollected   decimal.Decimal `json:"total_collected"`
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
}

// CashierDashboard bundles stats with the derived activity feed and the
// due-bills report.
type CashierDashboard struct {
	Stats          *CashierStats   `json:"stats"`
	RecentActivity []Activity      `json:"recent_activity"`
	DueBills       *DueBillsReport `json:"due_bills"`
}
