package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"waterbill-backend/internal/apperrors"
	"waterbill-backend/internal/models"
	"waterbill-backend/internal/timeutil"
)

// In-memory stores standing in for the pgx repositories.

type fakeBillStore struct {
	mu           sync.Mutex
	bills        []*models.Bill
	failCreate   map[uuid.UUID]error
	overdueMarks []uuid.UUID
}

func newFakeBillStore() *fakeBillStore {
	return &fakeBillStore{failCreate: make(map[uuid.UUID]error)}
}

func (s *fakeBillStore) Create(_ context.Context, b *models.Bill) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failCreate[b.CustomerID]; err != nil {
		return err
	}
	// Mirrors the one-bill-per-customer-per-month unique index.
	if !b.BillingMonth.IsZero() {
		for _, existing := range s.bills {
			if existing.CustomerID == b.CustomerID && timeutil.SameMonth(existing.BillingMonth, b.BillingMonth) {
				return apperrors.Validation("customer already has a bill for this month")
			}
		}
	}
	b.ID = uuid.New()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	s.bills = append(s.bills, b)
	return nil
}

func (s *fakeBillStore) Get(_ context.Context, id uuid.UUID) (*models.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bills {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, apperrors.NotFound("bill")
}

func (s *fakeBillStore) List(_ context.Context) ([]*models.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Bill, len(s.bills))
	copy(out, s.bills)
	return out, nil
}

func (s *fakeBillStore) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]*models.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Bill
	for _, b := range s.bills {
		if b.CustomerID == customerID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeBillStore) GetLatestByCustomer(_ context.Context, customerID uuid.UUID) (*models.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *models.Bill
	for _, b := range s.bills {
		if b.CustomerID != customerID {
			continue
		}
		if latest == nil || b.BillingMonth.After(latest.BillingMonth) {
			latest = b
		}
	}
	return latest, nil
}

func (s *fakeBillStore) CustomersBilledInMonth(_ context.Context, monthStart time.Time) (map[uuid.UUID]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	billed := make(map[uuid.UUID]bool)
	for _, b := range s.bills {
		if timeutil.SameMonth(b.BillingMonth, monthStart) {
			billed[b.CustomerID] = true
		}
	}
	return billed, nil
}

func (s *fakeBillStore) MarkOverdue(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overdueMarks = append(s.overdueMarks, id)
	return nil
}

type fakePaymentStore struct {
	mu       sync.Mutex
	bills    *fakeBillStore
	payments []*models.Payment
	seq      int
}

func newFakePaymentStore(bills *fakeBillStore) *fakePaymentStore {
	return &fakePaymentStore{bills: bills}
}

func (s *fakePaymentStore) GenerateReceiptNumber(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return fmt.Sprintf("RCP-%06d", s.seq), nil
}

// Create mirrors the repository's conditional settlement: the bill update
// only happens while the balance still covers the amount.
func (s *fakePaymentStore) Create(ctx context.Context, p *models.Payment) error {
	bill, err := s.bills.Get(ctx, p.BillID)
	if err != nil {
		return err
	}

	s.bills.mu.Lock()
	if bill.Balance.LessThan(p.Amount) {
		s.bills.mu.Unlock()
		return apperrors.Validation("payment amount exceeds the bill's remaining balance")
	}
	bill.AmountPaid = bill.AmountPaid.Add(p.Amount)
	bill.Balance = bill.Balance.Sub(p.Amount)
	if bill.Balance.IsPositive() {
		bill.Status = models.BillStatusPartial
	} else {
		bill.Status = models.BillStatusPaid
	}
	s.bills.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.New()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.payments = append(s.payments, p)
	return nil
}

func (s *fakePaymentStore) List(_ context.Context) ([]*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Payment, len(s.payments))
	copy(out, s.payments)
	return out, nil
}

func (s *fakePaymentStore) ListByBill(_ context.Context, billID uuid.UUID) ([]*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Payment
	for _, p := range s.payments {
		if p.BillID == billID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakePaymentStore) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Payment
	for _, p := range s.payments {
		if p.CustomerID == customerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakePaymentStore) GetByReceiptNumber(_ context.Context, receiptNumber string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.ReceiptNumber == receiptNumber {
			return p, nil
		}
	}
	return nil, apperrors.NotFound("payment")
}

type fakeProfileStore struct {
	mu         sync.Mutex
	profiles   []*models.Profile
	accountSeq int
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{}
}

func (s *fakeProfileStore) add(p *models.Profile) *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.profiles = append(s.profiles, p)
	return p
}

func (s *fakeProfileStore) Create(_ context.Context, p *models.Profile) error {
	s.add(p)
	return nil
}

func (s *fakeProfileStore) Get(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperrors.NotFound("profile")
}

func (s *fakeProfileStore) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, apperrors.NotFound("profile")
}

func (s *fakeProfileStore) ListCustomers(_ context.Context) ([]*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Profile
	for _, p := range s.profiles {
		if p.Role == models.RoleCustomer {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeProfileStore) ListBillableCustomers(_ context.Context) ([]*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Profile
	for _, p := range s.profiles {
		if p.Role == models.RoleCustomer && p.AccountNumber != nil {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeProfileStore) AssignAccountNumber(_ context.Context, id uuid.UUID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.ID == id {
			if p.AccountNumber != nil {
				return "", apperrors.Validation("customer already has an account number")
			}
			s.accountSeq++
			num := fmt.Sprintf("WTR-%06d", s.accountSeq)
			p.AccountNumber = &num
			return num, nil
		}
	}
	return "", apperrors.NotFound("profile")
}

type fakeNotifier struct {
	mu     sync.Mutex
	pushes []string
}

func (n *fakeNotifier) Push(severity, title, description string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushes = append(n.pushes, severity+": "+title)
}
