package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"waterbill-backend/internal/apperrors"
	"waterbill-backend/internal/models"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func scanPayment(row pgx.Row) (*models.Payment, error) {
	p := &models.Payment{}
	err := row.Scan(
		&p.ID,
		&p.ReceiptNumber,
		&p.BillID,
		&p.CustomerID,
		&p.Amount,
		&p.PaymentMethod,
		&p.PaymentStatus,
		&p.PaymentReference,
		&p.ProcessedBy,
		&p.BillingPeriod,
		&p.CustomerName,
		&p.ProcessorName,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// paymentSelect joins the bill period and names. Self-service payments have
// no processor row; the customer's own name is substituted in the service
// layer when building activity entries.
const paymentSelect = `
	SELECT p.id, p.receipt_number, p.bill_id, p.customer_id, p.amount,
	       p.payment_method, p.payment_status, p.payment_reference, p.processed_by,
	       COALESCE(wb.billing_period, ''), COALESCE(c.full_name, 'Unknown Customer'),
	       COALESCE(u.full_name, ''), p.created_at
	FROM payments p
	LEFT JOIN water_bills wb ON p.bill_id = wb.id
	LEFT JOIN profiles c ON p.customer_id = c.id
	LEFT JOIN profiles u ON p.processed_by = u.id
`

// GenerateReceiptNumber draws the next receipt number from the database
// sequence, formatted RCP-000001 style.
func (r *PaymentRepository) GenerateReceiptNumber(ctx context.Context) (string, error) {
	var nextNum int
	err := r.DB.QueryRow(ctx, "SELECT nextval('receipt_number_sequence')").Scan(&nextNum)
	if err != nil {
		return "", fmt.Errorf("failed to get next receipt number: %w", err)
	}

	return fmt.Sprintf("RCP-%06d", nextNum), nil
}

// Create records a payment and settles it against the bill in one
// transaction. The bill update is conditional on the balance still covering
// the amount, so two concurrent payments can never drive the balance
// negative; the loser of the race gets a validation error.
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return apperrors.Upstream("create payment", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE water_bills
		SET amount_paid = amount_paid + $1,
		    balance = balance - $1,
		    status = CASE WHEN balance - $1 <= 0 THEN 'paid' ELSE 'partial' END,
		    updated_at = NOW()
		WHERE id = $2 AND balance >= $1
	`, p.Amount, p.BillID)
	if err != nil {
		return apperrors.Upstream("settle payment against bill", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Validation("payment amount exceeds the bill's remaining balance")
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO payments (receipt_number, bill_id, customer_id, amount,
			payment_method, payment_status, payment_reference, processed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`,
		p.ReceiptNumber,
		p.BillID,
		p.CustomerID,
		p.Amount,
		p.PaymentMethod,
		p.PaymentStatus,
		p.PaymentReference,
		p.ProcessedBy,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return apperrors.Upstream("create payment", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return apperrors.Upstream("create payment", err)
	}
	return nil
}

func (r *PaymentRepository) queryPayments(ctx context.Context, op, query string, args ...interface{}) ([]*models.Payment, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Upstream(op, err)
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, apperrors.Upstream(op, err)
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

func (r *PaymentRepository) List(ctx context.Context) ([]*models.Payment, error) {
	query := paymentSelect + ` ORDER BY p.created_at DESC`
	return r.queryPayments(ctx, "list payments", query)
}

func (r *PaymentRepository) ListByBill(ctx context.Context, billID uuid.UUID) ([]*models.Payment, error) {
	query := paymentSelect + ` WHERE p.bill_id = $1 ORDER BY p.created_at DESC`
	return r.queryPayments(ctx, "list bill payments", query, billID)
}

func (r *PaymentRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Payment, error) {
	query := paymentSelect + ` WHERE p.customer_id = $1 ORDER BY p.created_at DESC`
	return r.queryPayments(ctx, "list customer payments", query, customerID)
}

func (r *PaymentRepository) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*models.Payment, error) {
	query := paymentSelect + ` WHERE p.receipt_number = $1`

	p, err := scanPayment(r.DB.QueryRow(ctx, query, receiptNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("payment")
	}
	if err != nil {
		return nil, apperrors.Upstream("get payment by receipt", err)
	}
	return p, nil
}
