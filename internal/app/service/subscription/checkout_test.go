package subscription

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatflowers/planledger/pkg/apperr"
	"github.com/fatflowers/planledger/pkg/types"
)

func TestRegisterCheckout_CreatesOncePerCheckout(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, ts("2024-03-20T00:00:00Z"))

	require.NoError(t, env.svc.RegisterCheckout(ctx, owner, "8", "chk_1"))
	require.NoError(t, env.svc.RegisterCheckout(ctx, owner, "8", "chk_1"))
	require.NoError(t, env.svc.RegisterCheckout(ctx, owner, "9", "chk_2"))

	events := env.doc(t, owner).StatusEvents()
	require.Len(t, events, 2)
	for _, e := range events {
		require.True(t, e.IsPlaceholder())
		require.Equal(t, types.PlaceholderEventTime, e.EventTime)
	}

	status, err := env.svc.GetAllSubscriptionsStatus(ctx, owner, nil)
	require.NoError(t, err)
	require.Equal(t, map[string]bool{"8": false, "9": false}, status)

	infos, err := env.svc.GetSubscriptionInfo(ctx, owner, nil)
	require.NoError(t, err)
	require.Empty(t, infos)
}

func TestRegisterCheckout_InvalidArguments(t *testing.T) {
	env := newTestEnv(t, ts("2024-03-20T00:00:00Z"))
	err := env.svc.RegisterCheckout(context.Background(), types.OwnerKey{"org_1", ""}, "8", "chk")
	require.True(t, errors.Is(err, apperr.ErrInvalidArguments))
	err = env.svc.RegisterCheckout(context.Background(), owner, "8", "")
	require.True(t, errors.Is(err, apperr.ErrInvalidArguments))
}

func TestGetSubscriptionInfo_UnknownOwnerIsNotFound(t *testing.T) {
	env := newTestEnv(t, ts("2024-03-20T00:00:00Z"))
	_, err := env.svc.GetSubscriptionInfo(context.Background(), owner, nil)
	require.True(t, errors.Is(err, apperr.ErrNotFound))
	_, err = env.svc.GetAllSubscriptionsStatus(context.Background(), owner, nil)
	require.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestCancelSubscription(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, ts("2024-03-20T00:00:00Z"))
	setupCreated(t, env)

	require.NoError(t, env.svc.CancelSubscription(ctx, owner, "8"))
	require.Equal(t, []string{"502198"}, env.remote.cancelled)
	require.Len(t, env.doc(t, owner).StatusEvents(), 2, "local state waits for the webhook")
}

func TestCancelSubscription_AlreadyCancelled(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, ts("2024-03-20T00:00:00Z"))
	setupCreated(t, env)
	require.NoError(t, env.svc.AppendEvents(ctx, owner, []*types.StatusEvent{
		cancelledEv("8", ts("2024-03-01T00:00:00Z")),
	}, nil))

	err := env.svc.CancelSubscription(ctx, owner, "8")
	require.True(t, errors.Is(err, apperr.ErrSubscriptionAlreadyCancelled))
	require.Empty(t, env.remote.cancelled)

	err = env.svc.CancelSubscription(ctx, owner, "unknown_plan")
	require.True(t, errors.Is(err, apperr.ErrSubscriptionAlreadyCancelled))
}

func TestCancelSubscription_NoSubscriptionID(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, ts("2024-03-20T00:00:00Z"))
	require.NoError(t, env.svc.RegisterCheckout(ctx, owner, "8", "chk_1"))
	active := statusEv("c1", "8", types.DescriptionActive, ts("2024-01-01T00:00:00Z"))
	active.SubscriptionID = ""
	require.NoError(t, env.svc.AppendEvents(ctx, owner, []*types.StatusEvent{active}, nil))

	err := env.svc.CancelSubscription(ctx, owner, "8")
	require.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestAppendEvents_UnknownOwner(t *testing.T) {
	env := newTestEnv(t, ts("2024-03-20T00:00:00Z"))
	err := env.svc.AppendEvents(context.Background(), owner, []*types.StatusEvent{
		statusEv("c1", "8", types.DescriptionActive, ts("2024-01-01T00:00:00Z")),
	}, nil)
	require.True(t, errors.Is(err, apperr.ErrNotFound))
}
