package subscription

import (
	"context"
	"fmt"

	"github.com/fatflowers/planledger/internal/models"
	"github.com/fatflowers/planledger/pkg/apperr"
	"github.com/fatflowers/planledger/pkg/logctx"
	"github.com/fatflowers/planledger/pkg/types"
)

// RegisterCheckout records that a checkout for planID was opened, creating the
// owner's document on first use. Registering the same checkout twice stores
// one placeholder.
func (s *Service) RegisterCheckout(ctx context.Context, owner types.OwnerKey, planID, checkoutID string) error {
	if err := validateOwner(owner); err != nil {
		return err
	}
	if planID == "" || checkoutID == "" {
		return apperr.InvalidArguments("plan_id and checkout_id are required")
	}
	ctx = logctx.WithOwner(ctx, owner.DocumentKey())

	placeholder := types.NewPlaceholderEvent(planID, checkoutID)
	return s.withOwnerLock(ctx, owner, func(ctx context.Context) error {
		doc := models.NewSubscriptionDocument(owner.DocumentKey(), []*types.StatusEvent{placeholder}, nil)
		created, err := s.store.Create(ctx, doc)
		if err != nil {
			return fmt.Errorf("failed to create subscription document: %w", err)
		}
		if created {
			logctx.FromCtx(ctx, s.log).Infow("subscription document created", "plan_id", planID, "checkout_id", checkoutID)
			return nil
		}
		return s.union(ctx, owner, []*types.StatusEvent{placeholder}, nil)
	})
}

// CancelSubscription asks the provider to cancel the plan's subscription. Local
// state changes once the provider's cancellation webhook lands.
func (s *Service) CancelSubscription(ctx context.Context, owner types.OwnerKey, planID string) error {
	if err := validateOwner(owner); err != nil {
		return err
	}
	if planID == "" {
		return apperr.InvalidArguments("plan_id is required")
	}
	ctx = logctx.WithOwner(ctx, owner.DocumentKey())

	doc, err := s.loadDocument(ctx, owner)
	if err != nil {
		return err
	}
	events := doc.StatusEvents()
	if !IsActive(Partition(events, farFuture)[planID], s.now()) {
		return apperr.New(apperr.CodeSubscriptionAlreadyCancel, "plan %s is not active", planID)
	}
	subscriptionID, ok := firstSubscriptionID(events, planID)
	if !ok {
		return apperr.NotFound("no subscription id recorded for plan %s", planID)
	}
	if err := s.remote.CancelSubscription(ctx, subscriptionID); err != nil {
		return fmt.Errorf("failed to cancel subscription %s: %w", subscriptionID, err)
	}
	logctx.FromCtx(ctx, s.log).Infow("cancellation requested", "plan_id", planID, "subscription_id", subscriptionID)
	return nil
}
