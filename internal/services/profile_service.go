package services

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"

	"waterbill-backend/internal/apperrors"
	"waterbill-backend/internal/auth"
	"waterbill-backend/internal/config"
	"waterbill-backend/internal/models"
)

// ProfileStore is the slice of the profile repository the service needs.
type ProfileStore interface {
	Create(ctx context.Context, p *models.Profile) error
	Get(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	ListCustomers(ctx context.Context) ([]*models.Profile, error)
	ListBillableCustomers(ctx context.Context) ([]*models.Profile, error)
	AssignAccountNumber(ctx context.Context, id uuid.UUID) (string, error)
}

type ProfileService struct {
	store ProfileStore
	jwt   *auth.JWTManager
	cfg   *config.Config
}

func NewProfileService(store ProfileStore, jwt *auth.JWTManager, cfg *config.Config) *ProfileService {
	return &ProfileService{store: store, jwt: jwt, cfg: cfg}
}

// Signup registers a customer account. When auto-assignment is enabled the
// new customer gets an account number immediately and is billable from the
// next run; otherwise a cashier assigns one later.
func (s *ProfileService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.FullName == "" {
		return nil, apperrors.Validation("full name is required")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return nil, apperrors.Validation("a valid email is required")
	}
	if len(req.Password) < 8 {
		return nil, apperrors.Validation("password must be at least 8 characters")
	}

	if existing, err := s.store.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apperrors.Validation("an account with this email already exists")
	} else if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Upstream("hash password", err)
	}

	profile := &models.Profile{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         models.RoleCustomer,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
	}

	if err := s.store.Create(ctx, profile); err != nil {
		return nil, err
	}

	if s.cfg.Billing.AutoAssignAccounts {
		accountNumber, err := s.store.AssignAccountNumber(ctx, profile.ID)
		if err != nil {
			// Signup still succeeds; the customer just isn't billable yet
			log.Printf("[Auth] account number assignment failed for %s: %v", profile.ID, err)
		} else {
			profile.AccountNumber = &accountNumber
		}
	}

	token, err := s.jwt.GenerateToken(profile)
	if err != nil {
		return nil, apperrors.Upstream("generate token", err)
	}

	log.Printf("[Auth] New customer registered: %s", profile.Email)
	return &models.AuthResponse{Token: token, Profile: profile}, nil
}

// Login authenticates by email and password and returns a signed token.
func (s *ProfileService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	profile, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized("invalid email or password")
		}
		return nil, err
	}

	if !auth.VerifyPassword(profile.PasswordHash, req.Password) {
		return nil, apperrors.Unauthorized("invalid email or password")
	}

	token, err := s.jwt.GenerateToken(profile)
	if err != nil {
		return nil, apperrors.Upstream("generate token", err)
	}

	return &models.AuthResponse{Token: token, Profile: profile}, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return s.store.Get(ctx, id)
}

func (s *ProfileService) ListCustomers(ctx context.Context) ([]*models.Profile, error) {
	return s.store.ListCustomers(ctx)
}

// AssignAccountNumber gives a customer their account number, making them
// eligible for monthly billing. Cashier-only at the handler level.
func (s *ProfileService) AssignAccountNumber(ctx context.Context, customerID uuid.UUID) (*models.Profile, error) {
	if _, err := s.store.AssignAccountNumber(ctx, customerID); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, customerID)
}
