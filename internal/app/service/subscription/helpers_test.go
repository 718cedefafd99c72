package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fatflowers/planledger/internal/models"
	"github.com/fatflowers/planledger/internal/platform/docstore"
	"github.com/fatflowers/planledger/internal/platform/lock"
	"github.com/fatflowers/planledger/internal/platform/paddle"
	"github.com/fatflowers/planledger/pkg/config"
	"github.com/fatflowers/planledger/pkg/types"
)

type fakeRemote struct {
	subs         map[string][]paddle.Subscription
	payments     map[string][]paddle.Payment
	cancelled    []string
	subCalls     int
	paymentCalls int
	err          error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{subs: map[string][]paddle.Subscription{}, payments: map[string][]paddle.Payment{}}
}

func (f *fakeRemote) GetSubscriptionBySubscriptionID(_ context.Context, id string) ([]paddle.Subscription, error) {
	f.subCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.subs[id], nil
}

func (f *fakeRemote) GetPaymentsForSubscription(_ context.Context, id string, _ paddle.PaymentFilter) ([]paddle.Payment, error) {
	f.paymentCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.payments[id], nil
}

func (f *fakeRemote) CancelSubscription(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.cancelled = append(f.cancelled, id)
	return nil
}

type testEnv struct {
	svc    *Service
	store  *docstore.Memory
	remote *fakeRemote
}

func newTestEnv(t *testing.T, now time.Time) *testEnv {
	t.Helper()
	store := docstore.NewMemory()
	remote := newFakeRemote()
	svc := NewService(&config.Config{}, store, remote, lock.NewLocal(), nil, zap.NewNop().Sugar())
	svc.now = func() time.Time { return now }
	return &testEnv{svc: svc, store: store, remote: remote}
}

func (e *testEnv) doc(t *testing.T, owner types.OwnerKey) *models.SubscriptionDocument {
	t.Helper()
	doc, err := e.store.Get(context.Background(), owner.DocumentKey())
	require.NoError(t, err)
	return doc
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func tp(s string) *time.Time {
	t := ts(s)
	return &t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func statusEv(alertID, planID string, d types.StatusDescription, at time.Time) *types.StatusEvent {
	name := types.AlertSubscriptionUpdated
	switch {
	case d == types.DescriptionDeleted:
		name = types.AlertSubscriptionCancelled
	case alertID == "c1":
		name = types.AlertSubscriptionCreated
	}
	return &types.StatusEvent{
		AlertID:            alertID,
		AlertName:          name,
		SubscriptionID:     "sub_" + planID,
		SubscriptionPlanID: planID,
		Description:        d,
		EventTime:          at,
	}
}

func succeededPayment(planID string, at time.Time, nextBill *time.Time) *types.PaymentEvent {
	next := dec("12.5")
	return &types.PaymentEvent{
		AlertID:            "p-" + at.Format(time.RFC3339),
		AlertName:          types.AlertSubscriptionPaymentSucceeded,
		SubscriptionPlanID: planID,
		EventTime:          at,
		Currency:           "USD",
		Amount:             dec("10"),
		SaleGross:          dec("11.9"),
		Quantity:           dec("1"),
		UnitPrice:          dec("10"),
		NextBillDate:       nextBill,
		NextPaymentAmount:  &next,
		ReceiptURL:         "https://receipt",
	}
}

func remoteRecord(subscriptionID, planID, state string, owner types.OwnerKey) paddle.Subscription {
	pt := types.ParsePassthrough(types.EncodePassthrough(owner))
	return paddle.Subscription{
		SubscriptionID: paddle.ID(subscriptionID),
		PlanID:         paddle.ID(planID),
		UserID:         "285846",
		State:          state,
		SignupDate:     paddle.Time{Time: ts("2024-01-15T10:20:30Z")},
		LastPayment:    &paddle.Charge{Amount: dec("10"), Currency: "USD", Date: paddle.Time{Time: ts("2024-03-15T00:00:00Z")}},
		NextPayment:    &paddle.Charge{Amount: dec("10"), Currency: "USD", Date: paddle.Time{Time: ts("2024-04-15T00:00:00Z")}},
		UpdateURL:      "https://update",
		CancelURL:      "https://cancel",
		Quantity:       dec("1"),
		Passthrough:    &pt,
	}
}
