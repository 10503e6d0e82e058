package services

import (
	"context"
	"sort"

	"waterbill-backend/internal/models"
)

// FeedOptions controls how the activity feed is assembled. A zero
// SourceLimit disables the per-source cap; FeedLimit bounds the merged
// result.
type FeedOptions struct {
	SourceLimit int
	FeedLimit   int
}

// ActivityService derives the recent-activity feed from bills and payments.
// Nothing is persisted; the feed is rebuilt on every read.
type ActivityService struct {
	bills    BillStore
	payments PaymentStore
	opts     FeedOptions
}

func NewActivityService(bills BillStore, payments PaymentStore, opts FeedOptions) *ActivityService {
	if opts.FeedLimit <= 0 {
		opts.FeedLimit = 50
	}
	return &ActivityService{bills: bills, payments: payments, opts: opts}
}

// Feed returns the merged feed, newest first.
func (s *ActivityService) Feed(ctx context.Context) ([]models.Activity, error) {
	bills, err := s.bills.List(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildFeed(bills, payments, s.opts), nil
}

// BuildFeed merges bill and payment events into one feed sorted newest
// first. Both inputs are expected newest-first already, so the optional
// per-source cap keeps each source's most recent entries.
func BuildFeed(bills []*models.Bill, payments []*models.Payment, opts FeedOptions) []models.Activity {
	if opts.FeedLimit <= 0 {
		opts.FeedLimit = 50
	}
	if opts.SourceLimit > 0 {
		if len(bills) > opts.SourceLimit {
			bills = bills[:opts.SourceLimit]
		}
		if len(payments) > opts.SourceLimit {
			payments = payments[:opts.SourceLimit]
		}
	}

	feed := make([]models.Activity, 0, len(bills)+len(payments))

	for _, b := range bills {
		actor := b.CreatorName
		if actor == "" {
			actor = "System"
		}
		feed = append(feed, models.Activity{
			ID:          "bill-" + b.ID.String(),
			Type:        models.ActivityBillCreated,
			Description: "Bill created for " + b.BillingPeriod,
			ActorName:   actor,
			Amount:      b.AmountDue,
			CreatedAt:   b.CreatedAt,
			Bill: &models.BillActivity{
				BillingPeriod: b.BillingPeriod,
				CustomerName:  b.CustomerName,
			},
		})
	}

	for _, p := range payments {
		actor := p.ProcessorName
		if actor == "" {
			// Self-service payments are attributed to the customer
			actor = p.CustomerName
		}
		feed = append(feed, models.Activity{
			ID:          "payment-" + p.ID.String(),
			Type:        models.ActivityPaymentProcessed,
			Description: "Payment received for " + p.BillingPeriod,
			ActorName:   actor,
			Amount:      p.Amount,
			CreatedAt:   p.CreatedAt,
			Payment: &models.PaymentActivity{
				BillingPeriod: p.BillingPeriod,
				CustomerName:  p.CustomerName,
				PaymentMethod: p.PaymentMethod,
			},
		})
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].CreatedAt.After(feed[j].CreatedAt)
	})

	if len(feed) > opts.FeedLimit {
		feed = feed[:opts.FeedLimit]
	}
	return feed
}
