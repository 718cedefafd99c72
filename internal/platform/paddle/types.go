package paddle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fatflowers/planledger/pkg/types"
)

const (
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// ParseTime parses the provider's timestamp formats. All provider times are UTC;
// a bare date is midnight of that day.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{layoutDateTime, layoutDate, time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

// Time decodes any layout accepted by ParseTime. Empty strings and null decode
// to the zero value.
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseTime(*s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// Ptr returns nil for the zero time.
func (t Time) Ptr() *time.Time {
	if t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

// ID is an identifier the API sends either as a number or as a string.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Charge is a past or scheduled charge attached to a subscription record.
type Charge struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Date     Time            `json:"date"`
}

// Subscription is one record of /2.0/subscription/users.
type Subscription struct {
	SubscriptionID ID                 `json:"subscription_id"`
	PlanID         ID                 `json:"plan_id"`
	UserID         ID                 `json:"user_id"`
	UserEmail      string             `json:"user_email"`
	State          string             `json:"state"`
	SignupDate     Time               `json:"signup_date"`
	LastPayment    *Charge            `json:"last_payment"`
	NextPayment    *Charge            `json:"next_payment"`
	UpdateURL      string             `json:"update_url"`
	CancelURL      string             `json:"cancel_url"`
	Quantity       decimal.Decimal    `json:"quantity"`
	Passthrough    *types.Passthrough `json:"passthrough"`
}

// Payment is one record of /2.0/subscription/payments.
type Payment struct {
	ID             ID              `json:"id"`
	SubscriptionID ID              `json:"subscription_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	PayoutDate     Time            `json:"payout_date"`
	IsPaid         int             `json:"is_paid"`
	IsOneOffCharge bool            `json:"is_one_off_charge"`
	ReceiptURL     string          `json:"receipt_url"`
}

func (p Payment) Paid() bool { return p.IsPaid == 1 }

// PaymentFilter narrows /2.0/subscription/payments. Zero fields are not sent.
type PaymentFilter struct {
	Plan           string
	IsPaid         *bool
	From           time.Time
	To             time.Time
	IsOneOffCharge *bool
}

type envelope[T any] struct {
	Success  bool   `json:"success"`
	Response T      `json:"response"`
	Error    *Error `json:"error"`
}

// Error is the API's failure payload.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("paddle error %d: %s", e.Code, e.Message)
}
