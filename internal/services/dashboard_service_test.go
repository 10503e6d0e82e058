package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waterbill-backend/internal/models"
)

func dashboardFixture(t *testing.T) (*DashboardService, *fakeBillStore, *fakePaymentStore, *fakeProfileStore, *BillService) {
	t.Helper()
	bills := newFakeBillStore()
	payments := newFakePaymentStore(bills)
	profiles := newFakeProfileStore()

	billSvc := NewBillService(bills, profiles, &fakeNotifier{}, billingConfig())
	paymentSvc := NewPaymentService(payments, bills, &fakeNotifier{})
	activitySvc := NewActivityService(bills, payments, FeedOptions{})
	dash := NewDashboardService(profiles, billSvc, paymentSvc, activitySvc)
	return dash, bills, payments, profiles, billSvc
}

func TestCustomerDashboard(t *testing.T) {
	dash, bills, _, profiles, billSvc := dashboardFixture(t)
	customer := billableCustomer(profiles, "alice")
	today := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	billSvc.now = func() time.Time { return today }
	dash.now = func() time.Time { return today }

	// One overdue, one upcoming, one settled
	require.NoError(t, bills.Create(context.Background(), &models.Bill{
		CustomerID: customer.ID, DueDate: today.AddDate(0, 0, -10),
		Balance: decimal.NewFromInt(100), Status: models.BillStatusUnpaid,
	}))
	upcoming := &models.Bill{
		CustomerID: customer.ID, DueDate: today.AddDate(0, 0, 10),
		Balance: decimal.NewFromInt(50), Status: models.BillStatusUnpaid,
	}
	require.NoError(t, bills.Create(context.Background(), upcoming))
	require.NoError(t, bills.Create(context.Background(), &models.Bill{
		CustomerID: customer.ID, DueDate: today.AddDate(0, 0, -30),
		Balance: decimal.Zero, Status: models.BillStatusPaid,
	}))

	view, err := dash.CustomerDashboard(context.Background(), customer.ID)
	require.NoError(t, err)

	assert.Equal(t, customer.ID, view.Profile.ID)
	assert.Len(t, view.Bills, 3)
	assert.True(t, decimal.NewFromInt(150).Equal(view.TotalOutstanding))
	assert.Equal(t, 1, view.OverdueCount)
	require.NotNil(t, view.NextDueBill)
	assert.Equal(t, upcoming.ID, view.NextDueBill.ID)
}

func TestCashierDashboard(t *testing.T) {
	dash, bills, payments, profiles, billSvc := dashboardFixture(t)
	customer := billableCustomer(profiles, "alice")
	today := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	billSvc.now = func() time.Time { return today }

	require.NoError(t, bills.Create(context.Background(), &models.Bill{
		CustomerID: customer.ID, DueDate: today.AddDate(0, 0, -5),
		Balance: decimal.NewFromInt(100), Status: models.BillStatusUnpaid,
		BillingPeriod: "February 2025",
	}))
	require.NoError(t, bills.Create(context.Background(), &models.Bill{
		CustomerID: customer.ID, DueDate: today.AddDate(0, 0, 20),
		Balance: decimal.NewFromInt(75), Status: models.BillStatusPartial,
		BillingPeriod: "March 2025",
	}))
	require.NoError(t, payments.Create(context.Background(), &models.Payment{
		BillID: bills.bills[1].ID, CustomerID: customer.ID,
		Amount: decimal.NewFromInt(25), PaymentStatus: models.PaymentStatusCompleted,
		PaymentMethod: models.PaymentMethodCash,
	}))

	view, err := dash.CashierDashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, view.Stats.TotalCustomers)
	assert.Equal(t, 2, view.Stats.TotalBills)
	assert.Equal(t, 1, view.Stats.OverdueBills)
	assert.Equal(t, 1, view.Stats.UnpaidBills)
	assert.True(t, decimal.NewFromInt(25).Equal(view.Stats.TotalCollected))
	assert.Len(t, view.RecentActivity, 3)
	assert.Len(t, view.DueBills.Overdue, 1)
}
