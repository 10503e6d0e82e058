package services

import (
	"context"
	"log"

	"github.com/google/uuid"

	"waterbill-backend/internal/apperrors"
	"waterbill-backend/internal/cache"
	"waterbill-backend/internal/metrics"
	"waterbill-backend/internal/models"
	"waterbill-backend/internal/notify"
)

// PaymentStore is the slice of the payment repository the service needs.
type PaymentStore interface {
	GenerateReceiptNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, p *models.Payment) error
	List(ctx context.Context) ([]*models.Payment, error)
	ListByBill(ctx context.Context, billID uuid.UUID) ([]*models.Payment, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Payment, error)
	GetByReceiptNumber(ctx context.Context, receiptNumber string) (*models.Payment, error)
}

type PaymentService struct {
	payments PaymentStore
	bills    BillStore
	notifier notify.Notifier
}

func NewPaymentService(payments PaymentStore, bills BillStore, notifier notify.Notifier) *PaymentService {
	return &PaymentService{payments: payments, bills: bills, notifier: notifier}
}

// ProcessPayment records a payment against a bill. Customers pay their own
// bills (self-service, no processor); cashiers can record a payment on any
// bill and are stamped as its processor.
func (s *PaymentService) ProcessPayment(ctx context.Context, req *models.CreatePaymentRequest, actorID uuid.UUID, actorRole string) (*models.Payment, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.Validation("payment amount must be greater than 0")
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, apperrors.Validation("invalid payment method: %s", req.PaymentMethod)
	}

	bill, err := s.bills.Get(ctx, req.BillID)
	if err != nil {
		return nil, err
	}

	var processedBy *uuid.UUID
	if actorRole == models.RoleCashier {
		processedBy = &actorID
	} else if bill.CustomerID != actorID {
		// Another customer's bill reads as absent rather than forbidden,
		// so bill IDs cannot be confirmed by probing.
		return nil, apperrors.NotFound("bill")
	}

	if bill.Status == models.BillStatusPaid || !bill.Balance.IsPositive() {
		return nil, apperrors.Validation("bill is already fully paid")
	}
	// Friendly precheck; the repository re-checks atomically inside the
	// settlement transaction.
	if req.Amount.GreaterThan(bill.Balance) {
		return nil, apperrors.Validation("payment amount exceeds the bill's remaining balance")
	}

	receiptNumber, err := s.payments.GenerateReceiptNumber(ctx)
	if err != nil {
		return nil, apperrors.Upstream("generate receipt number", err)
	}

	var reference *string
	if req.PaymentReference != "" {
		reference = &req.PaymentReference
	}

	payment := &models.Payment{
		ReceiptNumber:    receiptNumber,
		BillID:           bill.ID,
		CustomerID:       bill.CustomerID,
		Amount:           req.Amount.Round(2),
		PaymentMethod:    req.PaymentMethod,
		PaymentStatus:    models.PaymentStatusCompleted,
		PaymentReference: reference,
		ProcessedBy:      processedBy,
		BillingPeriod:    bill.BillingPeriod,
		CustomerName:     bill.CustomerName,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	metrics.PaymentsProcessedTotal.WithLabelValues(payment.PaymentMethod).Inc()
	cache.InvalidateBillingCaches(ctx)
	s.notifier.Push(notify.SeveritySuccess, "Payment Recorded",
		"Receipt "+receiptNumber+" for "+bill.BillingPeriod)

	log.Printf("[Payments] %s: %s paid on bill %s", receiptNumber, payment.Amount.StringFixed(2), bill.ID)
	return payment, nil
}

// ListPayments returns every payment, newest first. Cashier-only at the
// handler level.
func (s *PaymentService) ListPayments(ctx context.Context) ([]*models.Payment, error) {
	return s.payments.List(ctx)
}

func (s *PaymentService) ListCustomerPayments(ctx context.Context, customerID uuid.UUID) ([]*models.Payment, error) {
	return s.payments.ListByCustomer(ctx, customerID)
}

// ListBillPayments returns a bill's payments. Customers may only read
// payments on their own bills.
func (s *PaymentService) ListBillPayments(ctx context.Context, billID uuid.UUID, requesterID uuid.UUID, requesterRole string) ([]*models.Payment, error) {
	bill, err := s.bills.Get(ctx, billID)
	if err != nil {
		return nil, err
	}
	if requesterRole != models.RoleCashier && bill.CustomerID != requesterID {
		return nil, apperrors.Unauthorized("you can only view payments on your own bills")
	}
	return s.payments.ListByBill(ctx, billID)
}

// GetByReceiptNumber looks up a payment by its receipt number. Receipt
// numbers are sequential, so a customer only sees their own receipts;
// anyone else's reads as absent.
func (s *PaymentService) GetByReceiptNumber(ctx context.Context, receiptNumber string, requesterID uuid.UUID, requesterRole string) (*models.Payment, error) {
	payment, err := s.payments.GetByReceiptNumber(ctx, receiptNumber)
	if err != nil {
		return nil, err
	}
	if requesterRole != models.RoleCashier && payment.CustomerID != requesterID {
		return nil, apperrors.NotFound("payment")
	}
	return payment, nil
}
