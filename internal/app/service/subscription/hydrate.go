package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/fatflowers/planledger/internal/models"
	"github.com/fatflowers/planledger/internal/platform/docstore"
	"github.com/fatflowers/planledger/internal/platform/paddle"
	"github.com/fatflowers/planledger/pkg/apperr"
	"github.com/fatflowers/planledger/pkg/logctx"
	"github.com/fatflowers/planledger/pkg/types"
)

const (
	hydrationCreated   = "created"
	hydrationCancelled = "cancelled"

	// maxScanDays bounds the walk to the next billing day.
	maxScanDays = 62
)

// verifyOwner checks the correlation ids the provider echoes back against the
// caller's owner key.
func verifyOwner(rec paddle.Subscription, owner types.OwnerKey) error {
	if rec.Passthrough == nil || !rec.Passthrough.Valid {
		return apperr.BadRequest("subscription %s carries no correlation ids", rec.SubscriptionID)
	}
	if !rec.Passthrough.IDs.Equal(owner) {
		return apperr.InvalidPassthrough("subscription %s belongs to another owner", rec.SubscriptionID)
	}
	return nil
}

// HydrateSubscriptionCreated brings the owner's document up to date with the
// provider's record of subscriptionID when the creation webhook has not landed
// yet. It is a no-op when the provider has no such record, when the plan is
// already active locally, or when the provider does not consider it active.
func (s *Service) HydrateSubscriptionCreated(ctx context.Context, owner types.OwnerKey, subscriptionID, checkoutID string) error {
	if err := validateOwner(owner); err != nil {
		return err
	}
	if subscriptionID == "" {
		return apperr.InvalidArguments("subscription_id is required")
	}
	ctx = logctx.WithOwner(ctx, owner.DocumentKey())
	log := logctx.FromCtx(ctx, s.log).With("subscription_id", subscriptionID)

	result := "appended"
	err := s.withOwnerLock(ctx, owner, func(ctx context.Context) error {
		recs, err := s.remote.GetSubscriptionBySubscriptionID(ctx, subscriptionID)
		if err != nil {
			return fmt.Errorf("failed to fetch remote subscription: %w", err)
		}
		if len(recs) == 0 {
			result = "noop_remote_missing"
			return nil
		}
		rec := recs[0]
		if err := verifyOwner(rec, owner); err != nil {
			return err
		}
		planID := rec.PlanID.String()

		stored, err := s.storedStatusEvents(ctx, owner)
		if err != nil {
			return err
		}
		if IsActive(Partition(stored, farFuture)[planID], s.now()) {
			result = "noop_already_active"
			return nil
		}
		if types.StatusDescription(rec.State) != types.DescriptionActive {
			result = "noop_remote_not_active"
			return nil
		}

		status := hydratedCreatedEvent(rec, checkoutID)
		if status.EventTime.IsZero() {
			status.EventTime = s.now().UTC()
		}
		var payments []*types.PaymentEvent
		paid, err := s.latestPaidPayment(ctx, rec)
		if err != nil {
			return err
		}
		if paid != nil {
			payments = append(payments, hydratedPaymentEvent(rec, *paid))
		}

		log.Infow("hydrating created subscription", "plan_id", planID, "with_payment", paid != nil)
		if err := s.ensureDocument(ctx, owner); err != nil {
			return err
		}
		return s.union(ctx, owner, []*types.StatusEvent{status}, payments)
	})
	if err != nil {
		result = hydrationErrorResult(err)
	}
	s.metrics.ObserveHydration(hydrationCreated, result)
	log.Infow("hydrate created finished", "result", result, "err", err)
	return err
}

// storedStatusEvents returns the owner's status events. A missing document has
// none.
func (s *Service) storedStatusEvents(ctx context.Context, owner types.OwnerKey) ([]*types.StatusEvent, error) {
	doc, err := s.loadDocument(ctx, owner)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.StatusEvents(), nil
}

// ensureDocument creates an empty document for owner unless one exists.
func (s *Service) ensureDocument(ctx context.Context, owner types.OwnerKey) error {
	created, err := s.store.Create(ctx, models.NewSubscriptionDocument(owner.DocumentKey(), nil, nil))
	if err != nil {
		return fmt.Errorf("failed to create subscription document: %w", err)
	}
	if created {
		logctx.FromCtx(ctx, s.log).Infow("subscription document created")
	}
	return nil
}

func (s *Service) latestPaidPayment(ctx context.Context, rec paddle.Subscription) (*paddle.Payment, error) {
	paid := true
	pays, err := s.remote.GetPaymentsForSubscription(ctx, rec.SubscriptionID.String(), paddle.PaymentFilter{IsPaid: &paid})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote payments: %w", err)
	}
	pays = lo.Filter(pays, func(p paddle.Payment, _ int) bool { return p.Paid() })
	if len(pays) == 0 {
		return nil, nil
	}
	latest := lo.MaxBy(pays, func(a, b paddle.Payment) bool { return a.PayoutDate.After(b.PayoutDate.Time) })
	return &latest, nil
}

func remoteCurrency(rec paddle.Subscription) string {
	for _, c := range []*paddle.Charge{rec.LastPayment, rec.NextPayment} {
		if c != nil && c.Currency != "" {
			return c.Currency
		}
	}
	return ""
}

func hydratedCreatedEvent(rec paddle.Subscription, checkoutID string) *types.StatusEvent {
	e := &types.StatusEvent{
		AlertID:            types.AlertIDHydrationCreated,
		AlertName:          types.AlertSubscriptionCreated,
		SubscriptionID:     rec.SubscriptionID.String(),
		SubscriptionPlanID: rec.PlanID.String(),
		Description:        types.StatusDescription(rec.State),
		EventTime:          rec.SignupDate.Time,
		Currency:           remoteCurrency(rec),
		Quantity:           rec.Quantity.String(),
		UpdateURL:          rec.UpdateURL,
		CancelURL:          rec.CancelURL,
		CheckoutID:         checkoutID,
		VendorUserID:       rec.UserID.String(),
		Source:             types.EventSourceHydration,
	}
	if rec.NextPayment != nil {
		e.NextBillDate = rec.NextPayment.Date.Ptr()
	}
	return e
}

func hydratedPaymentEvent(rec paddle.Subscription, pay paddle.Payment) *types.PaymentEvent {
	amount := pay.Amount.Round(2)
	quantity := rec.Quantity
	if !quantity.IsPositive() {
		quantity = decimal.NewFromInt(1)
	}
	e := &types.PaymentEvent{
		AlertID:            types.AlertIDHydrationPayment,
		AlertName:          types.AlertHydrationPaymentSucceeded,
		SubscriptionID:     rec.SubscriptionID.String(),
		SubscriptionPlanID: rec.PlanID.String(),
		EventTime:          pay.PayoutDate.Time,
		Currency:           pay.Currency,
		Amount:             amount,
		SaleGross:          amount,
		Quantity:           quantity,
		UnitPrice:          amount.Div(quantity).Round(2),
		ReceiptURL:         pay.ReceiptURL,
		InitialPayment:     true,
		Source:             types.EventSourceHydration,
	}
	if rec.NextPayment != nil {
		e.NextBillDate = rec.NextPayment.Date.Ptr()
		next := rec.NextPayment.Amount.Round(2)
		e.NextPaymentAmount = &next
	}
	return e
}

// HydrateSubscriptionCancelled records the provider's cancellation of planID
// when the cancellation webhook has not landed. The provider must already
// consider the subscription deleted.
func (s *Service) HydrateSubscriptionCancelled(ctx context.Context, owner types.OwnerKey, planID string) error {
	if err := validateOwner(owner); err != nil {
		return err
	}
	if planID == "" {
		return apperr.InvalidArguments("plan_id is required")
	}
	ctx = logctx.WithOwner(ctx, owner.DocumentKey())
	log := logctx.FromCtx(ctx, s.log).With("plan_id", planID)

	err := s.withOwnerLock(ctx, owner, func(ctx context.Context) error {
		doc, err := s.loadDocument(ctx, owner)
		if err != nil {
			return err
		}
		subscriptionID, ok := firstSubscriptionID(doc.StatusEvents(), planID)
		if !ok {
			return apperr.NotFound("no subscription id recorded for plan %s", planID)
		}

		recs, err := s.remote.GetSubscriptionBySubscriptionID(ctx, subscriptionID)
		if err != nil {
			return fmt.Errorf("failed to fetch remote subscription: %w", err)
		}
		if len(recs) == 0 {
			return apperr.NotFound("provider has no subscription %s", subscriptionID)
		}
		rec := recs[0]
		if err := verifyOwner(rec, owner); err != nil {
			return err
		}
		if types.StatusDescription(rec.State) != types.DescriptionDeleted {
			return apperr.BadRequest("subscription %s is %q at the provider", subscriptionID, rec.State)
		}

		from := rec.SignupDate.Time
		if rec.LastPayment != nil && !rec.LastPayment.Date.IsZero() {
			from = rec.LastPayment.Date.Time
		}
		validUntil := CancellationValidUntil(from, rec.SignupDate.Day())

		log.Infow("hydrating cancelled subscription", "subscription_id", subscriptionID, "valid_until", validUntil)
		return s.union(ctx, owner, []*types.StatusEvent{hydratedCancelledEvent(rec, planID, validUntil)}, nil)
	})
	result := "appended"
	if err != nil {
		result = hydrationErrorResult(err)
	}
	s.metrics.ObserveHydration(hydrationCancelled, result)
	return err
}

// hydrationErrorResult labels a failed hydration for metrics.
func hydrationErrorResult(err error) string {
	if errors.Is(err, apperr.ErrInvalidPassthrough) {
		return "owner_mismatch"
	}
	return "error"
}

func hydratedCancelledEvent(rec paddle.Subscription, planID string, validUntil time.Time) *types.StatusEvent {
	return &types.StatusEvent{
		AlertID:                   types.AlertIDHydrationCancelled,
		AlertName:                 types.AlertSubscriptionCancelled,
		SubscriptionID:            rec.SubscriptionID.String(),
		SubscriptionPlanID:        planID,
		Description:               types.DescriptionDeleted,
		EventTime:                 validUntil,
		Currency:                  remoteCurrency(rec),
		Quantity:                  rec.Quantity.String(),
		UpdateURL:                 rec.UpdateURL,
		CancelURL:                 rec.CancelURL,
		VendorUserID:              rec.UserID.String(),
		Source:                    types.EventSourceHydration,
		CancellationEffectiveDate: &validUntil,
	}
}

// firstSubscriptionID returns the subscription id of the first stored status
// event of the plan, in append order.
// TODO: prefer the most recent event once re-subscriptions under a new
// subscription id are supported; the first match can be stale.
func firstSubscriptionID(events []*types.StatusEvent, planID string) (string, bool) {
	e, ok := lo.Find(events, func(e *types.StatusEvent) bool {
		return e.SubscriptionPlanID == planID && e.SubscriptionID != ""
	})
	if !ok {
		return "", false
	}
	return e.SubscriptionID, true
}

// CancellationValidUntil projects the end of the period paid by the charge at
// from: the next day whose day-of-month is one before the signup day, at
// 23:59:59 UTC. Months shorter than the target day use their last day, and a
// signup on the 1st targets the last day of the month.
func CancellationValidUntil(from time.Time, signupDay int) time.Time {
	from = from.UTC()
	d := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < maxScanDays; i++ {
		d = d.AddDate(0, 0, 1)
		if d.Day() == billingDay(d, signupDay) {
			break
		}
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, time.UTC)
}

func billingDay(d time.Time, signupDay int) int {
	last := time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	target := signupDay - 1
	if target <= 0 || target > last {
		return last
	}
	return target
}
