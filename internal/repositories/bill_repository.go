package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"waterbill-backend/internal/apperrors"
	"waterbill-backend/internal/models"
)

type BillRepository struct {
	DB *pgxpool.Pool
}

func NewBillRepository(db *pgxpool.Pool) *BillRepository {
	return &BillRepository{DB: db}
}

func scanBill(row pgx.Row) (*models.Bill, error) {
	b := &models.Bill{}
	err := row.Scan(
		&b.ID,
		&b.CustomerID,
		&b.AccountNumber,
		&b.BillingPeriod,
		&b.BillingMonth,
		&b.PreviousReading,
		&b.CurrentReading,
		&b.RatePerUnit,
		&b.Consumption,
		&b.AmountDue,
		&b.AmountPaid,
		&b.Balance,
		&b.Status,
		&b.DueDate,
		&b.CreatedBy,
		&b.CustomerName,
		&b.CreatorName,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// billSelect joins profile names so the activity feed and dashboards never
// need per-row lookups.
const billSelect = `
	SELECT wb.id, wb.customer_id, wb.account_number, wb.billing_period, wb.billing_month,
	       wb.previous_reading, wb.current_reading, wb.rate_per_unit, wb.consumption,
	       wb.amount_due, wb.amount_paid, wb.balance, wb.status, wb.due_date, wb.created_by,
	       COALESCE(c.full_name, 'Unknown Customer'), COALESCE(u.full_name, ''),
	       wb.created_at, wb.updated_at
	FROM water_bills wb
	LEFT JOIN profiles c ON wb.customer_id = c.id
	LEFT JOIN profiles u ON wb.created_by = u.id
`

func (r *BillRepository) Create(ctx context.Context, b *models.Bill) error {
	query := `
		INSERT INTO water_bills (customer_id, account_number, billing_period, billing_month,
			previous_reading, current_reading, rate_per_unit, consumption,
			amount_due, amount_paid, balance, status, due_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRow(ctx, query,
		b.CustomerID,
		b.AccountNumber,
		b.BillingPeriod,
		b.BillingMonth,
		b.PreviousReading,
		b.CurrentReading,
		b.RatePerUnit,
		b.Consumption,
		b.AmountDue,
		b.Status,
		b.DueDate,
		b.CreatedBy,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Validation("customer already has a bill for this month")
		}
		return apperrors.Upstream("create bill", err)
	}

	b.AmountPaid = b.AmountPaid.Round(2)
	b.Balance = b.AmountDue
	return nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505), here tripped by the one-bill-per-customer-
// per-month index.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *BillRepository) Get(ctx context.Context, id uuid.UUID) (*models.Bill, error) {
	query := billSelect + ` WHERE wb.id = $1`

	b, err := scanBill(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("bill")
	}
	if err != nil {
		return nil, apperrors.Upstream("get bill", err)
	}
	return b, nil
}

func (r *BillRepository) queryBills(ctx context.Context, op, query string, args ...interface{}) ([]*models.Bill, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Upstream(op, err)
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, apperrors.Upstream(op, err)
		}
		bills = append(bills, b)
	}

	return bills, rows.Err()
}

func (r *BillRepository) List(ctx context.Context) ([]*models.Bill, error) {
	query := billSelect + ` ORDER BY wb.billing_month DESC, wb.created_at DESC`
	return r.queryBills(ctx, "list bills", query)
}

func (r *BillRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*models.Bill, error) {
	query := billSelect + ` WHERE wb.customer_id = $1 ORDER BY wb.billing_month DESC`
	return r.queryBills(ctx, "list customer bills", query, customerID)
}

// GetLatestByCustomer returns the customer's most recent bill by billing
// month, or nil when the customer has never been billed.
func (r *BillRepository) GetLatestByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Bill, error) {
	query := billSelect + ` WHERE wb.customer_id = $1 ORDER BY wb.billing_month DESC LIMIT 1`

	b, err := scanBill(r.DB.QueryRow(ctx, query, customerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Upstream("get latest bill", err)
	}
	return b, nil
}

// CustomersBilledInMonth returns the set of customer IDs that already have
// a bill in the given month (matched on year+month, ignoring the day).
func (r *BillRepository) CustomersBilledInMonth(ctx context.Context, monthStart time.Time) (map[uuid.UUID]bool, error) {
	query := `
		SELECT DISTINCT customer_id FROM water_bills
		WHERE date_trunc('month', billing_month) = date_trunc('month', $1::date)
	`

	rows, err := r.DB.Query(ctx, query, monthStart)
	if err != nil {
		return nil, apperrors.Upstream("customers billed in month", err)
	}
	defer rows.Close()

	billed := make(map[uuid.UUID]bool)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.Upstream("customers billed in month", err)
		}
		billed[id] = true
	}

	return billed, rows.Err()
}

// MarkOverdue persists the derived overdue status. The guard clause keeps
// the write idempotent and refuses to touch paid bills.
func (r *BillRepository) MarkOverdue(ctx context.Context, id uuid.UUID) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE water_bills SET status = 'overdue', updated_at = NOW()
		WHERE id = $1 AND status IN ('unpaid', 'partial') AND balance > 0
	`, id)
	if err != nil {
		return apperrors.Upstream("mark overdue", err)
	}
	return nil
}
