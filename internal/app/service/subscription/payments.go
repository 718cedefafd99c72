package subscription

import (
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/fatflowers/planledger/pkg/types"
)

// BuildPaymentsTrail maps a plan's payment events to trail entries, newest
// first. When a terminal payment exists, the projection of the next charge is
// prepended.
func BuildPaymentsTrail(events []*types.PaymentEvent) []*types.PaymentTrailEntry {
	desc := slices.Clone(events)
	slices.SortStableFunc(desc, func(a, b *types.PaymentEvent) int {
		return b.EventTime.Compare(a.EventTime)
	})

	trail := make([]*types.PaymentTrailEntry, 0, len(desc)+1)
	if latest, ok := lo.Find(desc, func(e *types.PaymentEvent) bool { return e.IsTerminal() }); ok {
		if upcoming := upcomingPayment(latest); upcoming != nil {
			trail = append(trail, upcoming)
		}
	}
	for _, e := range desc {
		trail = append(trail, trailEntry(e))
	}
	return trail
}

func upcomingPayment(e *types.PaymentEvent) *types.PaymentTrailEntry {
	var at *time.Time
	switch e.AlertName {
	case types.AlertSubscriptionPaymentFailed:
		at = lo.CoalesceOrEmpty(e.NextRetryDate, e.NextBillDate)
	default:
		at = lo.CoalesceOrEmpty(e.NextBillDate, e.NextRetryDate)
	}
	if at == nil {
		return nil
	}
	total := e.Amount
	if e.NextPaymentAmount != nil {
		total = *e.NextPaymentAmount
	}
	return &types.PaymentTrailEntry{
		EventTime:          *at,
		Description:        types.AlertUpcomingPayment,
		SubscriptionPlanID: e.SubscriptionPlanID,
		Amount: types.TrailAmount{
			Currency:  e.Currency,
			Total:     total,
			Quantity:  e.Quantity,
			UnitPrice: e.UnitPrice,
		},
	}
}

func trailEntry(e *types.PaymentEvent) *types.PaymentTrailEntry {
	entry := &types.PaymentTrailEntry{
		EventTime:          e.EventTime,
		Description:        e.AlertName,
		SubscriptionPlanID: e.SubscriptionPlanID,
		Amount: types.TrailAmount{
			Currency:  e.Currency,
			Total:     e.Amount,
			Quantity:  e.Quantity,
			UnitPrice: e.UnitPrice,
		},
	}
	switch e.AlertName {
	case types.AlertSubscriptionPaymentFailed:
		if e.NextRetryDate != nil {
			entry.NextTry = &types.NextTry{Date: *e.NextRetryDate}
		}
		entry.Instalments = e.Instalments
	case types.AlertSubscriptionPaymentRefunded:
		entry.Refund = &types.Refund{Reason: e.RefundReason, Type: e.RefundType}
		entry.Instalments = e.Instalments
		entry.Amount.Total = e.GrossRefund
	case types.AlertSubscriptionPaymentSucceeded, types.AlertHydrationPaymentSucceeded:
		next := decimal.Zero
		if e.NextPaymentAmount != nil {
			next = *e.NextPaymentAmount
		}
		entry.NextPayment = &types.NextPayment{
			Date:   e.NextBillDate,
			Amount: types.Money{Currency: e.Currency, Total: next},
		}
		entry.ReceiptURL = e.ReceiptURL
		entry.Instalments = e.Instalments
		entry.Amount.Total = e.SaleGross
	}
	return entry
}

// PruneUpcomingPayment drops the projection when the plan ends at or before it.
func PruneUpcomingPayment(trail []*types.PaymentTrailEntry, end *time.Time) []*types.PaymentTrailEntry {
	if end == nil {
		return trail
	}
	return lo.Reject(trail, func(e *types.PaymentTrailEntry, _ int) bool {
		return e.IsUpcoming() && !e.EventTime.Before(*end)
	})
}
