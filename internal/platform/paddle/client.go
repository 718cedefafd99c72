// Package paddle talks to the provider's vendor API. Calls are single
// request/response round trips; callers own retries.
package paddle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	cfgpkg "github.com/fatflowers/planledger/pkg/config"
	"github.com/fatflowers/planledger/pkg/logctx"
)

const (
	pathSubscriptionUsers    = "/2.0/subscription/users"
	pathSubscriptionPayments = "/2.0/subscription/payments"
	pathSubscriptionCancel   = "/2.0/subscription/users_cancel"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	vendorID   string
	authCode   string
	log        *zap.SugaredLogger
}

func NewClient(cfg *cfgpkg.Config, log *zap.SugaredLogger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Paddle.Timeout},
		baseURL:    strings.TrimRight(cfg.Paddle.BaseURL, "/"),
		vendorID:   cfg.Paddle.VendorID,
		authCode:   cfg.Paddle.VendorAuthCode,
		log:        log,
	}
}

// GetSubscriptionBySubscriptionID returns the records matching id, empty when
// the provider knows none.
func (c *Client) GetSubscriptionBySubscriptionID(ctx context.Context, id string) ([]Subscription, error) {
	form := url.Values{}
	form.Set("subscription_id", id)
	var out []Subscription
	if err := c.post(ctx, pathSubscriptionUsers, form, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Subscription{}
	}
	return out, nil
}

// GetPaymentsForSubscription lists payments of a subscription, empty when none
// match the filter.
func (c *Client) GetPaymentsForSubscription(ctx context.Context, id string, filter PaymentFilter) ([]Payment, error) {
	form := url.Values{}
	form.Set("subscription_id", id)
	if filter.Plan != "" {
		form.Set("plan", filter.Plan)
	}
	if filter.IsPaid != nil {
		form.Set("is_paid", boolFlag(*filter.IsPaid))
	}
	if !filter.From.IsZero() {
		form.Set("from", filter.From.UTC().Format(layoutDate))
	}
	if !filter.To.IsZero() {
		form.Set("to", filter.To.UTC().Format(layoutDate))
	}
	if filter.IsOneOffCharge != nil {
		form.Set("is_one_off_charge", strconv.FormatBool(*filter.IsOneOffCharge))
	}
	var out []Payment
	if err := c.post(ctx, pathSubscriptionPayments, form, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Payment{}
	}
	return out, nil
}

func (c *Client) CancelSubscription(ctx context.Context, id string) error {
	form := url.Values{}
	form.Set("subscription_id", id)
	return c.post(ctx, pathSubscriptionCancel, form, nil)
}

func (c *Client) post(ctx context.Context, endpoint string, form url.Values, response any) error {
	form.Set("vendor_id", c.vendorID)
	form.Set("vendor_auth_code", c.authCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	logctx.FromCtx(ctx, c.log).Debugw("paddle call",
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("paddle %s: HTTP %d: %s", endpoint, resp.StatusCode, string(body))
	}

	var env envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if !env.Success {
		if env.Error != nil {
			return fmt.Errorf("paddle %s: %w", endpoint, env.Error)
		}
		return fmt.Errorf("paddle %s: unsuccessful response", endpoint)
	}
	if response != nil && len(env.Response) > 0 {
		if err := json.Unmarshal(env.Response, response); err != nil {
			return fmt.Errorf("failed to unmarshal %s response: %w", endpoint, err)
		}
	}
	return nil
}

func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
