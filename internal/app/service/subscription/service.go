package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fatflowers/planledger/internal/models"
	"github.com/fatflowers/planledger/internal/platform/docstore"
	"github.com/fatflowers/planledger/internal/platform/lock"
	"github.com/fatflowers/planledger/internal/platform/paddle"
	"github.com/fatflowers/planledger/pkg/apperr"
	"github.com/fatflowers/planledger/pkg/config"
	"github.com/fatflowers/planledger/pkg/logctx"
	"github.com/fatflowers/planledger/pkg/metrics"
	"github.com/fatflowers/planledger/pkg/types"
)

// Remote is the provider API as used by hydration and cancellation.
type Remote interface {
	GetSubscriptionBySubscriptionID(ctx context.Context, id string) ([]paddle.Subscription, error)
	GetPaymentsForSubscription(ctx context.Context, id string, filter paddle.PaymentFilter) ([]paddle.Payment, error)
	CancelSubscription(ctx context.Context, id string) error
}

type Service struct {
	cfg     *config.Config
	store   docstore.Store
	remote  Remote
	locker  lock.Locker
	metrics *metrics.Domain
	log     *zap.SugaredLogger
	now     func() time.Time
}

func NewService(cfg *config.Config, store docstore.Store, remote Remote, locker lock.Locker, m *metrics.Domain, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, store: store, remote: remote, locker: locker, metrics: m, log: log, now: time.Now}
}

func validateOwner(owner types.OwnerKey) error {
	if !owner.Valid() {
		return apperr.InvalidArguments("owner ids must be a non-empty list of non-empty strings")
	}
	return nil
}

// withOwnerLock runs fn while holding the owner's document lock.
func (s *Service) withOwnerLock(ctx context.Context, owner types.OwnerKey, fn func(ctx context.Context) error) error {
	unlock, err := s.locker.Lock(ctx, "subscription/"+owner.DocumentKey())
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", owner.DocumentKey(), err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			logctx.FromCtx(ctx, s.log).Warnw("failed to release document lock", "err", err)
		}
	}()
	return fn(ctx)
}

func (s *Service) loadDocument(ctx context.Context, owner types.OwnerKey) (*models.SubscriptionDocument, error) {
	doc, err := s.store.Get(ctx, owner.DocumentKey())
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load subscription document: %w", err)
	}
	return doc, nil
}

// AppendEvents adds events to the owner's document through the array union.
// Events already stored with the same encoding are skipped.
func (s *Service) AppendEvents(ctx context.Context, owner types.OwnerKey, status []*types.StatusEvent, payments []*types.PaymentEvent) error {
	if err := validateOwner(owner); err != nil {
		return err
	}
	ctx = logctx.WithOwner(ctx, owner.DocumentKey())
	return s.withOwnerLock(ctx, owner, func(ctx context.Context) error {
		return s.union(ctx, owner, status, payments)
	})
}

func (s *Service) union(ctx context.Context, owner types.OwnerKey, status []*types.StatusEvent, payments []*types.PaymentEvent) error {
	if err := s.store.Union(ctx, owner.DocumentKey(), status, payments); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to append events: %w", err)
	}
	return nil
}

// GetSubscriptionInfo reduces the owner's document. asOf limits the considered
// history; nil means everything.
func (s *Service) GetSubscriptionInfo(ctx context.Context, owner types.OwnerKey, asOf *time.Time) (map[string]*types.SubscriptionPlanInfo, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}
	defer s.metrics.ObserveProcess("subscription", "info", time.Now())
	ctx = logctx.WithOwner(ctx, owner.DocumentKey())

	doc, err := s.loadDocument(ctx, owner)
	if err != nil {
		return nil, err
	}
	validBefore := farFuture
	if asOf != nil {
		validBefore = *asOf
	}
	infos, skipped := BuildSubscriptionInfo(doc, validBefore, s.now())
	if len(skipped) > 0 {
		logctx.FromCtx(ctx, s.log).Warnw("plans without a real status event left out of subscription info", "plan_ids", skipped)
	}
	return infos, nil
}

// GetAllSubscriptionsStatus reports liveness per plan at asOf, or now when nil.
func (s *Service) GetAllSubscriptionsStatus(ctx context.Context, owner types.OwnerKey, asOf *time.Time) (map[string]bool, error) {
	if err := validateOwner(owner); err != nil {
		return nil, err
	}
	doc, err := s.loadDocument(logctx.WithOwner(ctx, owner.DocumentKey()), owner)
	if err != nil {
		return nil, err
	}
	at := s.now()
	if asOf != nil {
		at = *asOf
	}
	return SubscriptionsStatus(doc, at), nil
}
