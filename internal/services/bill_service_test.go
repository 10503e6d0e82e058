package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waterbill-backend/internal/apperrors"
	"waterbill-backend/internal/models"
	"waterbill-backend/internal/timeutil"
)

func billServiceFixture(t *testing.T) (*BillService, *fakeBillStore, *fakeProfileStore) {
	t.Helper()
	bills := newFakeBillStore()
	profiles := newFakeProfileStore()
	svc := NewBillService(bills, profiles, &fakeNotifier{}, billingConfig())
	return svc, bills, profiles
}

func TestCreateBill(t *testing.T) {
	svc, _, profiles := billServiceFixture(t)
	customer := billableCustomer(profiles, "alice")
	cashier := uuid.New()

	bill, err := svc.CreateBill(context.Background(), &models.CreateBillRequest{
		CustomerID:      customer.ID,
		BillingMonth:    "2025-03-01",
		PreviousReading: decimal.NewFromInt(100),
		CurrentReading:  decimal.NewFromInt(150),
		RatePerUnit:     decimal.RequireFromString("2.50"),
		DueDate:         "2025-04-15",
	}, cashier)
	require.NoError(t, err)

	assert.Equal(t, "March 2025", bill.BillingPeriod)
	assert.True(t, decimal.NewFromInt(50).Equal(bill.Consumption))
	assert.True(t, decimal.NewFromInt(125).Equal(bill.AmountDue))
	assert.True(t, bill.Balance.Equal(bill.AmountDue))
	assert.Equal(t, models.BillStatusUnpaid, bill.Status)
	assert.Equal(t, *customer.AccountNumber, bill.AccountNumber)
	require.NotNil(t, bill.CreatedBy)
	assert.Equal(t, cashier, *bill.CreatedBy)
}

func TestCreateBillValidation(t *testing.T) {
	svc, _, profiles := billServiceFixture(t)
	customer := billableCustomer(profiles, "alice")
	staff := profiles.add(&models.Profile{FullName: "Carol", Email: "carol@example.com", Role: models.RoleCashier})

	tests := []struct {
		name    string
		req     *models.CreateBillRequest
		wantErr func(error) bool
	}{
		{
			name: "unknown customer",
			req: &models.CreateBillRequest{
				CustomerID: uuid.New(), BillingMonth: "2025-03-01",
				CurrentReading: decimal.NewFromInt(10), RatePerUnit: decimal.NewFromInt(2), DueDate: "2025-04-15",
			},
			wantErr: apperrors.IsNotFound,
		},
		{
			name: "target is not a customer",
			req: &models.CreateBillRequest{
				CustomerID: staff.ID, BillingMonth: "2025-03-01",
				CurrentReading: decimal.NewFromInt(10), RatePerUnit: decimal.NewFromInt(2), DueDate: "2025-04-15",
			},
			wantErr: apperrors.IsNotFound,
		},
		{
			name: "reading regression",
			req: &models.CreateBillRequest{
				CustomerID: customer.ID, BillingMonth: "2025-03-01",
				PreviousReading: decimal.NewFromInt(150), CurrentReading: decimal.NewFromInt(100),
				RatePerUnit: decimal.RequireFromString("2.50"), DueDate: "2025-04-15",
			},
			wantErr: apperrors.IsValidation,
		},
		{
			name: "malformed billing month",
			req: &models.CreateBillRequest{
				CustomerID: customer.ID, BillingMonth: "03/2025",
				CurrentReading: decimal.NewFromInt(10), RatePerUnit: decimal.NewFromInt(2), DueDate: "2025-04-15",
			},
			wantErr: apperrors.IsValidation,
		},
		{
			name: "malformed due date",
			req: &models.CreateBillRequest{
				CustomerID: customer.ID, BillingMonth: "2025-03-01",
				CurrentReading: decimal.NewFromInt(10), RatePerUnit: decimal.NewFromInt(2), DueDate: "soon",
			},
			wantErr: apperrors.IsValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBill(context.Background(), tt.req, uuid.New())
			require.Error(t, err)
			assert.True(t, tt.wantErr(err))
		})
	}
}

func TestCreateBillDuplicateMonth(t *testing.T) {
	svc, _, profiles := billServiceFixture(t)
	customer := billableCustomer(profiles, "alice")

	req := &models.CreateBillRequest{
		CustomerID:      customer.ID,
		BillingMonth:    "2025-03-01",
		PreviousReading: decimal.NewFromInt(100),
		CurrentReading:  decimal.NewFromInt(150),
		RatePerUnit:     decimal.RequireFromString("2.50"),
		DueDate:         "2025-04-15",
	}

	_, err := svc.CreateBill(context.Background(), req, uuid.New())
	require.NoError(t, err)

	// A second manual bill for the same customer and month surfaces as a
	// validation failure, not a server error.
	_, err = svc.CreateBill(context.Background(), req, uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "already has a bill")
}

func TestGetBillOwnership(t *testing.T) {
	svc, bills, profiles := billServiceFixture(t)
	customer := billableCustomer(profiles, "alice")

	bill := &models.Bill{
		CustomerID:   customer.ID,
		BillingMonth: timeutil.MonthStart(2025, time.March),
		DueDate:      time.Now().UTC().AddDate(0, 1, 0),
		Balance:      decimal.NewFromInt(100),
		Status:       models.BillStatusUnpaid,
	}
	require.NoError(t, bills.Create(context.Background(), bill))

	got, err := svc.GetBill(context.Background(), bill.ID, customer.ID, models.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, bill.ID, got.ID)

	_, err = svc.GetBill(context.Background(), bill.ID, uuid.New(), models.RoleCustomer)
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthorization(err))

	_, err = svc.GetBill(context.Background(), bill.ID, uuid.New(), models.RoleCashier)
	assert.NoError(t, err, "cashiers can read any bill")
}

func TestListBillsDerivesOverdue(t *testing.T) {
	svc, bills, profiles := billServiceFixture(t)
	customer := billableCustomer(profiles, "alice")
	today := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return today }

	require.NoError(t, bills.Create(context.Background(), &models.Bill{
		CustomerID: customer.ID,
		DueDate:    today.AddDate(0, 0, -5),
		Balance:    decimal.NewFromInt(100),
		Status:     models.BillStatusUnpaid,
	}))

	listed, err := svc.ListBills(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, models.BillStatusOverdue, listed[0].Status)
}

func TestDueBillsReport(t *testing.T) {
	svc, bills, profiles := billServiceFixture(t)
	customer := billableCustomer(profiles, "alice")
	today := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return today }

	add := func(due time.Time, balance int64, status string) {
		require.NoError(t, bills.Create(context.Background(), &models.Bill{
			CustomerID: customer.ID,
			DueDate:    due,
			Balance:    decimal.NewFromInt(balance),
			Status:     status,
		}))
	}

	add(today.AddDate(0, 0, -10), 100, models.BillStatusUnpaid) // overdue
	add(today.AddDate(0, 0, 3), 50, models.BillStatusUnpaid)    // due soon
	add(today.AddDate(0, 0, 7), 25, models.BillStatusPartial)   // edge of the window
	add(today.AddDate(0, 0, 20), 75, models.BillStatusUnpaid)   // not urgent
	add(today.AddDate(0, 0, -3), 0, models.BillStatusPaid)      // settled

	report, err := svc.DueBills(context.Background())
	require.NoError(t, err)

	assert.Len(t, report.Overdue, 1)
	assert.Len(t, report.DueSoon, 2)
	assert.True(t, decimal.NewFromInt(100).Equal(report.TotalOverdue))
	assert.True(t, decimal.NewFromInt(75).Equal(report.TotalDueSoon))
}
