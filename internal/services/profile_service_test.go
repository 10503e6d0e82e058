package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waterbill-backend/internal/apperrors"
	"waterbill-backend/internal/auth"
	"waterbill-backend/internal/config"
	"waterbill-backend/internal/models"
)

func profileServiceFixture(t *testing.T, autoAssign bool) (*ProfileService, *fakeProfileStore) {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "waterbill-backend"
	cfg.Billing.AutoAssignAccounts = autoAssign

	store := newFakeProfileStore()
	return NewProfileService(store, auth.NewJWTManager(cfg), cfg), store
}

func TestSignup(t *testing.T) {
	svc, _ := profileServiceFixture(t, true)

	resp, err := svc.Signup(context.Background(), &models.SignupRequest{
		FullName: "Alice Example",
		Email:    "Alice@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleCustomer, resp.Profile.Role)
	assert.Equal(t, "alice@example.com", resp.Profile.Email, "email is normalised")
	require.NotNil(t, resp.Profile.AccountNumber)
	assert.Equal(t, "WTR-000001", *resp.Profile.AccountNumber)
}

func TestSignupWithoutAutoAssign(t *testing.T) {
	svc, _ := profileServiceFixture(t, false)

	resp, err := svc.Signup(context.Background(), &models.SignupRequest{
		FullName: "Alice Example",
		Email:    "alice@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Profile.AccountNumber, "account number assignment is a cashier action")
}

func TestSignupValidation(t *testing.T) {
	svc, _ := profileServiceFixture(t, true)

	tests := []struct {
		name string
		req  *models.SignupRequest
	}{
		{"missing name", &models.SignupRequest{Email: "a@b.com", Password: "correct-horse"}},
		{"bad email", &models.SignupRequest{FullName: "A", Email: "not-an-email", Password: "correct-horse"}},
		{"short password", &models.SignupRequest{FullName: "A", Email: "a@b.com", Password: "short"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Signup(context.Background(), tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
		})
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := profileServiceFixture(t, true)
	req := &models.SignupRequest{FullName: "Alice", Email: "alice@example.com", Password: "correct-horse"}

	_, err := svc.Signup(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), req)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestLogin(t *testing.T) {
	svc, _ := profileServiceFixture(t, true)
	_, err := svc.Signup(context.Background(), &models.SignupRequest{
		FullName: "Alice", Email: "alice@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email: "alice@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(context.Background(), &models.LoginRequest{
		Email: "alice@example.com", Password: "wrong",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthorization(err))

	// Unknown accounts get the same answer as bad passwords
	_, err = svc.Login(context.Background(), &models.LoginRequest{
		Email: "nobody@example.com", Password: "correct-horse",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthorization(err))
}

func TestAssignAccountNumber(t *testing.T) {
	svc, store := profileServiceFixture(t, false)
	customer := store.add(&models.Profile{FullName: "Alice", Email: "alice@example.com", Role: models.RoleCustomer})

	updated, err := svc.AssignAccountNumber(context.Background(), customer.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.AccountNumber)
	assert.Equal(t, "WTR-000001", *updated.AccountNumber)

	_, err = svc.AssignAccountNumber(context.Background(), customer.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
