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

type ProfileRepository struct {
	DB *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

const profileColumns = `id, full_name, email, password_hash, role, account_number,
	phone_number, address, created_at, updated_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	p := &models.Profile{}
	err := row.Scan(
		&p.ID,
		&p.FullName,
		&p.Email,
		&p.PasswordHash,
		&p.Role,
		&p.AccountNumber,
		&p.PhoneNumber,
		&p.Address,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	query := `
		INSERT INTO profiles (full_name, email, password_hash, role, account_number, phone_number, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.DB.QueryRow(ctx, query,
		p.FullName,
		p.Email,
		p.PasswordHash,
		p.Role,
		p.AccountNumber,
		p.PhoneNumber,
		p.Address,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return apperrors.Upstream("create profile", err)
	}
	return nil
}

func (r *ProfileRepository) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	p, err := scanProfile(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("profile")
	}
	if err != nil {
		return nil, apperrors.Upstream("get profile", err)
	}
	return p, nil
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`

	p, err := scanProfile(r.DB.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("profile")
	}
	if err != nil {
		return nil, apperrors.Upstream("get profile by email", err)
	}
	return p, nil
}

// ListCustomers returns all customer profiles, newest first.
func (r *ProfileRepository) ListCustomers(ctx context.Context) ([]*models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE role = 'customer'
		ORDER BY created_at DESC
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, apperrors.Upstream("list customers", err)
	}
	defer rows.Close()

	var customers []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, apperrors.Upstream("list customers", err)
		}
		customers = append(customers, p)
	}

	return customers, rows.Err()
}

// ListBillableCustomers returns customers with an assigned account number,
// the cohort eligible for monthly bill generation.
func (r *ProfileRepository) ListBillableCustomers(ctx context.Context) ([]*models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE role = 'customer' AND account_number IS NOT NULL
		ORDER BY account_number
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, apperrors.Upstream("list billable customers", err)
	}
	defer rows.Close()

	var customers []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, apperrors.Upstream("list billable customers", err)
		}
		customers = append(customers, p)
	}

	return customers, rows.Err()
}

// NextAccountNumber draws the next account number from the database
// sequence, formatted WTR-000001 style.
func (r *ProfileRepository) NextAccountNumber(ctx context.Context) (string, error) {
	var nextNum int
	err := r.DB.QueryRow(ctx, "SELECT nextval('account_number_sequence')").Scan(&nextNum)
	if err != nil {
		return "", fmt.Errorf("failed to get next account number: %w", err)
	}

	return fmt.Sprintf("WTR-%06d", nextNum), nil
}

// AssignAccountNumber sets a generated account number on a profile that
// does not have one yet.
func (r *ProfileRepository) AssignAccountNumber(ctx context.Context, id uuid.UUID) (string, error) {
	accountNumber, err := r.NextAccountNumber(ctx)
	if err != nil {
		return "", apperrors.Upstream("assign account number", err)
	}

	tag, err := r.DB.Exec(ctx, `
		UPDATE profiles SET account_number = $1, updated_at = NOW()
		WHERE id = $2 AND role = 'customer' AND account_number IS NULL
	`, accountNumber, id)
	if err != nil {
		return "", apperrors.Upstream("assign account number", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the profile is missing or the account number is taken
		if _, err := r.Get(ctx, id); err != nil {
			return "", err
		}
		return "", apperrors.Validation("customer already has an account number")
	}

	return accountNumber, nil
}
