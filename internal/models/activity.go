package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ActivityBillCreated      = "bill_created"
	ActivityPaymentProcessed = "payment_processed"
)

// Activity is a derived feed entry, never persisted. Exactly one of the
// variant fields is set, matching Type.
type Activity struct {
	ID          string           `json:"id"`
	Type        string           `json:"type"`
	Description string           `json:"description"`
	ActorName   string           `json:"actor_name"`
	Amount      decimal.Decimal  `json:"amount"`
	CreatedAt   time.Time        `json:"created_at"`
	Bill        *BillActivity    `json:"bill,omitempty"`
	Payment     *PaymentActivity `json:"payment,omitempty"`
}

// BillActivity carries the bill_created variant fields.
type BillActivity struct {
	BillingPeriod string `json:"billing_period"`
	CustomerName  string `json:"customer_name"`
}

// PaymentActivity carries the payment_processed variant fields.
type PaymentActivity struct {
	BillingPeriod string `json:"billing_period"`
	CustomerName  string `json:"customer_name"`
	PaymentMethod string `json:"payment_method"`
}
