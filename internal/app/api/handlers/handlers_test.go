package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	notificationlog "github.com/fatflowers/planledger/internal/app/service/notification_log"
	"github.com/fatflowers/planledger/internal/app/service/statistics"
	"github.com/fatflowers/planledger/internal/models"
	"github.com/fatflowers/planledger/pkg/apperr"
	"github.com/fatflowers/planledger/pkg/response"
	"github.com/fatflowers/planledger/pkg/types"
)

type stubSubscriptionService struct {
	err        error
	owner      types.OwnerKey
	asOf       *time.Time
	planID     string
	checkoutID string
	subID      string
}

func (s *stubSubscriptionService) GetSubscriptionInfo(_ context.Context, owner types.OwnerKey, asOf *time.Time) (map[string]*types.SubscriptionPlanInfo, error) {
	s.owner, s.asOf = owner, asOf
	if s.err != nil {
		return nil, s.err
	}
	return map[string]*types.SubscriptionPlanInfo{"plan_a": {Active: true, Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}}, nil
}

func (s *stubSubscriptionService) GetAllSubscriptionsStatus(_ context.Context, owner types.OwnerKey, asOf *time.Time) (map[string]bool, error) {
	s.owner, s.asOf = owner, asOf
	return map[string]bool{"plan_a": true, "plan_b": false}, s.err
}

func (s *stubSubscriptionService) RegisterCheckout(_ context.Context, owner types.OwnerKey, planID, checkoutID string) error {
	s.owner, s.planID, s.checkoutID = owner, planID, checkoutID
	return s.err
}

func (s *stubSubscriptionService) HydrateSubscriptionCreated(_ context.Context, owner types.OwnerKey, subscriptionID, checkoutID string) error {
	s.owner, s.subID, s.checkoutID = owner, subscriptionID, checkoutID
	return s.err
}

func (s *stubSubscriptionService) HydrateSubscriptionCancelled(_ context.Context, owner types.OwnerKey, planID string) error {
	s.owner, s.planID = owner, planID
	return s.err
}

func (s *stubSubscriptionService) CancelSubscription(_ context.Context, owner types.OwnerKey, planID string) error {
	s.owner, s.planID = owner, planID
	return s.err
}

type stubWebhook struct {
	err     error
	payload map[string]string
}

func (s *stubWebhook) Handle(_ context.Context, payload map[string]string) error {
	s.payload = payload
	return s.err
}

type stubLogs struct{ req *notificationlog.ListRequest }

func (s *stubLogs) List(_ context.Context, req *notificationlog.ListRequest) (*notificationlog.ListResult, error) {
	s.req = req
	return &notificationlog.ListResult{Items: []*models.PaymentNotificationLog{{ID: "l1", AlertName: "subscription_created"}}, Total: 1}, nil
}

type stubStats struct{}

func (stubStats) GetDailyNotificationStatistic(_ context.Context, req *statistics.NotificationStatisticRequest) (*statistics.NotificationStatisticResponse, error) {
	out := map[statistics.StatisticType][]statistics.NotificationStatisticResponseDataItem{}
	for _, di := range req.DataItems {
		out[di.ID] = []statistics.NotificationStatisticResponseDataItem{{Date: "2024-03-01", Value: 3}}
	}
	return &statistics.NotificationStatisticResponse{DataItems: out}, nil
}

func newTestRouter(sub SubscriptionService, webhook WebhookHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterHealthRoutes(r)
	RegisterSubscriptionRoutes(r.Group("/api/v1/subscription"), sub)
	RegisterAdminRoutes(r.Group("/api/v1/admin"), &stubLogs{}, stubStats{})
	RegisterPaymentWebhookRoutes(r.Group("/api/v2/payment"), webhook, zap.NewNop().Sugar())
	return r
}

func postJSON(r http.Handler, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    json.RawMessage          `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestRoutes_Registered(t *testing.T) {
	r := newTestRouter(&stubSubscriptionService{}, &stubWebhook{})
	got := map[string]bool{}
	for _, rt := range r.Routes() {
		got[rt.Method+" "+rt.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"POST /api/v1/subscription/info",
		"POST /api/v1/subscription/status",
		"POST /api/v1/subscription/checkout",
		"POST /api/v1/subscription/hydrate_created",
		"POST /api/v1/subscription/hydrate_cancelled",
		"POST /api/v1/subscription/cancel",
		"POST /api/v1/admin/list_notification_log",
		"POST /api/v1/admin/get_notification_statistic",
		"POST /api/v2/payment/webhook/paddle",
	} {
		require.True(t, got[want], want)
	}
}

func TestApiGetSubscriptionInfo(t *testing.T) {
	sub := &stubSubscriptionService{}
	r := newTestRouter(sub, &stubWebhook{})

	w := postJSON(r, "/api/v1/subscription/info", map[string]any{
		"owner_ids": []string{"org_1", "project_7"},
		"as_of":     "2024-03-01T00:00:00Z",
	})
	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	require.Contains(t, string(env.Data), `"plan_a"`)
	require.Equal(t, types.OwnerKey{"org_1", "project_7"}, sub.owner)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), sub.asOf.UTC())
}

func TestApiGetSubscriptionsStatus(t *testing.T) {
	sub := &stubSubscriptionService{}
	r := newTestRouter(sub, &stubWebhook{})

	w := postJSON(r, "/api/v1/subscription/status", map[string]any{"owner_ids": []string{"org_1"}})
	env := decode(t, w)
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	require.JSONEq(t, `{"plan_a":true,"plan_b":false}`, string(env.Data))
	require.Nil(t, sub.asOf)
}

func TestSubscriptionRoutes_RejectInvalidBodies(t *testing.T) {
	r := newTestRouter(&stubSubscriptionService{}, &stubWebhook{})
	tests := []struct {
		path string
		body any
	}{
		{path: "/api/v1/subscription/info", body: map[string]any{"owner_ids": []string{}}},
		{path: "/api/v1/subscription/status", body: map[string]any{"owner_ids": []string{"org_1", ""}}},
		{path: "/api/v1/subscription/checkout", body: map[string]any{"owner_ids": []string{"org_1"}, "plan_id": "plan_a"}},
		{path: "/api/v1/subscription/hydrate_created", body: map[string]any{"owner_ids": []string{"org_1"}}},
		{path: "/api/v1/subscription/hydrate_cancelled", body: map[string]any{"plan_id": "plan_a"}},
		{path: "/api/v1/subscription/cancel", body: "not an object"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			env := decode(t, postJSON(r, tc.path, tc.body))
			require.Equal(t, response.APIResponseCodeBadRequest, env.Code)
			require.Contains(t, string(env.Data), string(apperr.CodeInvalidArguments))
		})
	}
}

func TestApiRegisterCheckout_ReturnsPassthrough(t *testing.T) {
	sub := &stubSubscriptionService{}
	r := newTestRouter(sub, &stubWebhook{})

	env := decode(t, postJSON(r, "/api/v1/subscription/checkout", map[string]any{
		"owner_ids": []string{"org_1", "project_7"}, "plan_id": "plan_a", "checkout_id": "chk_1",
	}))
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	var data struct {
		Passthrough string `json:"passthrough"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	p := types.ParsePassthrough(data.Passthrough)
	require.True(t, p.Valid)
	require.Equal(t, types.OwnerKey{"org_1", "project_7"}, p.IDs)
	require.Equal(t, "plan_a", sub.planID)
	require.Equal(t, "chk_1", sub.checkoutID)
}

func TestSubscriptionRoutes_MapServiceErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     map[string]any
		err      error
		wantCode response.APIResponseCode
		wantErr  apperr.Code
	}{
		{
			name: "hydrate created passthrough mismatch", path: "/api/v1/subscription/hydrate_created",
			body: map[string]any{"owner_ids": []string{"org_1"}, "subscription_id": "sub_1"},
			err:  apperr.New(apperr.CodeInvalidPassthrough, "ids mismatch"), wantCode: response.APIResponseCodeUnauthorized, wantErr: apperr.CodeInvalidPassthrough,
		},
		{
			name: "hydrate cancelled unknown document", path: "/api/v1/subscription/hydrate_cancelled",
			body: map[string]any{"owner_ids": []string{"org_1"}, "plan_id": "plan_a"},
			err:  apperr.NotFound("subscription document org_1"), wantCode: response.APIResponseCodeNotFound, wantErr: apperr.CodeNotFound,
		},
		{
			name: "cancel already cancelled", path: "/api/v1/subscription/cancel",
			body: map[string]any{"owner_ids": []string{"org_1"}, "plan_id": "plan_a"},
			err:  apperr.ErrSubscriptionAlreadyCancelled, wantCode: response.APIResponseCodeConflict, wantErr: apperr.CodeSubscriptionAlreadyCancel,
		},
		{
			name: "info infrastructure failure", path: "/api/v1/subscription/info",
			body: map[string]any{"owner_ids": []string{"org_1"}},
			err:  errors.New("connection refused"), wantCode: response.APIResponseCodeError,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&stubSubscriptionService{err: tc.err}, &stubWebhook{})
			w := postJSON(r, tc.path, tc.body)
			require.Equal(t, http.StatusOK, w.Code)
			env := decode(t, w)
			require.Equal(t, tc.wantCode, env.Code)
			var data response.ErrorData
			require.NoError(t, json.Unmarshal(env.Data, &data))
			require.Equal(t, tc.wantErr, data.ErrorCode)
		})
	}
}

func postForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestApiPaddleWebhook(t *testing.T) {
	form := url.Values{
		"alert_id":    {"1001"},
		"alert_name":  {"subscription_created"},
		"passthrough": {`{"ids":["org_1"]}`},
	}

	t.Run("handled", func(t *testing.T) {
		hook := &stubWebhook{}
		w := postForm(newTestRouter(&stubSubscriptionService{}, hook), "/api/v2/payment/webhook/paddle", form)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, response.APIResponseCodeOK, decode(t, w).Code)
		require.Equal(t, map[string]string{
			"alert_id":    "1001",
			"alert_name":  "subscription_created",
			"passthrough": `{"ids":["org_1"]}`,
		}, hook.payload)
	})

	t.Run("coded failure is acknowledged", func(t *testing.T) {
		hook := &stubWebhook{err: apperr.InvalidArguments("bad passthrough")}
		w := postForm(newTestRouter(&stubSubscriptionService{}, hook), "/api/v2/payment/webhook/paddle", form)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, response.APIResponseCodeBadRequest, decode(t, w).Code)
	})

	t.Run("unknown owner document asks for redelivery", func(t *testing.T) {
		hook := &stubWebhook{err: fmt.Errorf("failed to apply subscription_created alert: %w", apperr.NotFound("document org_1/project_7"))}
		w := postForm(newTestRouter(&stubSubscriptionService{}, hook), "/api/v2/payment/webhook/paddle", form)
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, response.APIResponseCodeNotFound, decode(t, w).Code)
	})

	t.Run("infrastructure failure asks for redelivery", func(t *testing.T) {
		hook := &stubWebhook{err: errors.New("failed to append events: timeout")}
		w := postForm(newTestRouter(&stubSubscriptionService{}, hook), "/api/v2/payment/webhook/paddle", form)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Equal(t, response.APIResponseCodeError, decode(t, w).Code)
	})
}

func TestAdminRoutes(t *testing.T) {
	r := newTestRouter(&stubSubscriptionService{}, &stubWebhook{})

	env := decode(t, postJSON(r, "/api/v1/admin/list_notification_log", map[string]any{
		"filters": []map[string]any{{"field": "status", "operator": "eq", "values": []string{"handle_failed"}}},
		"size":    10,
	}))
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	require.Contains(t, string(env.Data), `"total":1`)

	env = decode(t, postJSON(r, "/api/v1/admin/list_notification_log", map[string]any{"sort_order": "sideways"}))
	require.Equal(t, response.APIResponseCodeBadRequest, env.Code)

	env = decode(t, postJSON(r, "/api/v1/admin/get_notification_statistic", map[string]any{
		"data_items": []map[string]any{{"id": "daily_failed_count"}},
	}))
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	require.Contains(t, string(env.Data), "daily_failed_count")

	env = decode(t, postJSON(r, "/api/v1/admin/get_notification_statistic", map[string]any{
		"data_items": []map[string]any{{"id": "daily_gmv"}},
	}))
	require.Equal(t, response.APIResponseCodeBadRequest, env.Code)
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(&stubSubscriptionService{}, &stubWebhook{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"ok"`)
}
