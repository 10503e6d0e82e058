package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentStatusCompleted = "completed"
	PaymentStatusPending   = "pending"
	PaymentStatusFailed    = "failed"
)

const (
	PaymentMethodCash         = "cash"
	PaymentMethodMobileMoney  = "mobile_money"
	PaymentMethodCard         = "card"
	PaymentMethodBankTransfer = "bank_transfer"
)

// ValidPaymentMethod reports whether the given method is one of the
// accepted payment method values.
func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodMobileMoney, PaymentMethodCard, PaymentMethodBankTransfer:
		return true
	}
	return false
}

type Payment struct {
	ID               uuid.UUID       `json:"id"`
	ReceiptNumber    string          `json:"receipt_number"`
	BillID           uuid.UUID       `json:"bill_id"`
	CustomerID       uuid.UUID       `json:"customer_id"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentStatus    string          `json:"payment_status"`
	PaymentReference *string         `json:"payment_reference"`
	ProcessedBy      *uuid.UUID      `json:"processed_by"` // nil = self-service
	BillingPeriod    string          `json:"billing_period,omitempty"` // Joined from water_bills
	CustomerName     string          `json:"customer_name,omitempty"`  // Joined from profiles
	ProcessorName    string          `json:"processor_name,omitempty"` // Joined from profiles
	CreatedAt        time.Time       `json:"created_at"`
}

// CreatePaymentRequest represents the request body for recording a payment
type CreatePaymentRequest struct {
	BillID           uuid.UUID       `json:"bill_id"`
	CustomerID       uuid.UUID       `json:"customer_id"`
	Amount           decimal.Decimal `json:"amount"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentReference string          `json:"payment_reference"`
}
