package paddle

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cfgpkg "github.com/fatflowers/planledger/pkg/config"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := &cfgpkg.Config{Paddle: cfgpkg.PaddleConfig{
		BaseURL:        srv.URL + "/",
		VendorID:       "42",
		VendorAuthCode: "secret",
		Timeout:        time.Second,
	}}
	return NewClient(cfg, zap.NewNop().Sugar())
}

func TestGetSubscriptionBySubscriptionID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, pathSubscriptionUsers, r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "42", r.PostForm.Get("vendor_id"))
		require.Equal(t, "secret", r.PostForm.Get("vendor_auth_code"))
		require.Equal(t, "502198", r.PostForm.Get("subscription_id"))
		_, _ = w.Write([]byte(`{"success":true,"response":[{
			"subscription_id":502198,"plan_id":"8","user_id":285846,"user_email":"a@b.c",
			"state":"active","signup_date":"2024-01-15 10:20:30",
			"last_payment":{"amount":5,"currency":"USD","date":"2024-03-15"},
			"next_payment":{"amount":"10.00","currency":"USD","date":"2024-04-15"},
			"update_url":"https://u","cancel_url":"https://c","quantity":2,
			"passthrough":"{\"ids\":[\"org_1\",\"p_2\"]}"}]}`))
	})

	subs, err := c.GetSubscriptionBySubscriptionID(context.Background(), "502198")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	s := subs[0]
	require.Equal(t, ID("502198"), s.SubscriptionID)
	require.Equal(t, ID("8"), s.PlanID)
	require.Equal(t, ID("285846"), s.UserID)
	require.Equal(t, time.Date(2024, 1, 15, 10, 20, 30, 0, time.UTC), s.SignupDate.Time)
	require.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), s.LastPayment.Date.Time)
	require.Equal(t, "10", s.NextPayment.Amount.String())
	require.Equal(t, "2", s.Quantity.String())
	require.NotNil(t, s.Passthrough)
	require.True(t, s.Passthrough.Valid)
	require.Equal(t, []string{"org_1", "p_2"}, []string(s.Passthrough.IDs))
}

func TestGetSubscriptionBySubscriptionID_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"response":[]}`))
	})
	subs, err := c.GetSubscriptionBySubscriptionID(context.Background(), "1")
	require.NoError(t, err)
	require.NotNil(t, subs)
	require.Empty(t, subs)
}

func TestGetSubscription_MissingPassthroughIsNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"response":[{"subscription_id":1,"plan_id":8,"state":"active"}]}`))
	})
	subs, err := c.GetSubscriptionBySubscriptionID(context.Background(), "1")
	require.NoError(t, err)
	require.Nil(t, subs[0].Passthrough)
}

func TestGetPaymentsForSubscription_SendsFilter(t *testing.T) {
	paid := true
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, pathSubscriptionPayments, r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "1", r.PostForm.Get("is_paid"))
		require.Equal(t, "8", r.PostForm.Get("plan"))
		require.Empty(t, r.PostForm.Get("from"))
		_, _ = w.Write([]byte(`{"success":true,"response":[
			{"id":1,"subscription_id":7,"amount":9.99,"currency":"EUR","payout_date":"2024-03-15","is_paid":1,"receipt_url":"https://r"}]}`))
	})
	pays, err := c.GetPaymentsForSubscription(context.Background(), "7", PaymentFilter{Plan: "8", IsPaid: &paid})
	require.NoError(t, err)
	require.Len(t, pays, 1)
	require.True(t, pays[0].Paid())
	require.Equal(t, "9.99", pays[0].Amount.String())
}

func TestPost_ProviderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":107,"message":"You don't have permission to access this resource"}}`))
	})
	err := c.CancelSubscription(context.Background(), "7")
	require.Error(t, err)
	var perr *Error
	require.ErrorAs(t, err, &perr)
	require.Equal(t, 107, perr.Code)
}

func TestPost_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.GetPaymentsForSubscription(context.Background(), "7", PaymentFilter{})
	require.ErrorContains(t, err, "HTTP 502")
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime("2024-02-29")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseTime(" 2024-02-29 23:59:59 ")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), got)

	_, err = ParseTime("29/02/2024")
	require.Error(t, err)
}
