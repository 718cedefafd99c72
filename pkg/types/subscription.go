package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusDescription is the lifecycle code carried by a status event. Besides the
// provider's own states it has two local sentinels, see DescriptionPlaceholder and
// DescriptionSuperseded.
type StatusDescription string

const (
	DescriptionActive   StatusDescription = "active"
	DescriptionTrialing StatusDescription = "trialing"
	DescriptionPastDue  StatusDescription = "past_due"
	DescriptionPaused   StatusDescription = "paused"
	DescriptionDeleted  StatusDescription = "deleted"

	// DescriptionPlaceholder marks the event appended when a checkout is opened.
	DescriptionPlaceholder StatusDescription = "pi/placeholder"
	// DescriptionSuperseded marks a plan that was replaced by a plan change.
	DescriptionSuperseded StatusDescription = "pi/superseded"
)

var activeDescriptions = map[StatusDescription]struct{}{
	DescriptionActive:   {},
	DescriptionTrialing: {},
	DescriptionPastDue:  {},
}

// IsActive reports whether the description keeps a plan live.
func (d StatusDescription) IsActive() bool {
	_, ok := activeDescriptions[d]
	return ok
}

func (d StatusDescription) IsPlaceholder() bool {
	return d == DescriptionPlaceholder
}

// Alert names as delivered by the provider, plus the ones synthesized locally.
const (
	AlertSubscriptionCreated          = "subscription_created"
	AlertSubscriptionUpdated          = "subscription_updated"
	AlertSubscriptionCancelled        = "subscription_cancelled"
	AlertSubscriptionPaymentSucceeded = "subscription_payment_succeeded"
	AlertSubscriptionPaymentFailed    = "subscription_payment_failed"
	AlertSubscriptionPaymentRefunded  = "subscription_payment_refunded"

	// AlertHydrationPaymentSucceeded is the alert name of the initial payment
	// synthesized while hydrating a freshly created subscription.
	AlertHydrationPaymentSucceeded = "pi/hydration_payment_succeeded"
	// AlertUpcomingPayment is the description of the projected next payment.
	AlertUpcomingPayment = "pi/upcoming_payment"
	AlertPlaceholder     = "pi/placeholder"
)

// Reserved alert ids for events not coming from a webhook.
const (
	AlertIDHydrationCreated   = "pi/hydration_created"
	AlertIDHydrationCancelled = "pi/hydration_cancelled"
	AlertIDHydrationPayment   = "pi/hydration_payment"
)

type EventSource string

const (
	EventSourceWebhook   EventSource = "webhook"
	EventSourceHydration EventSource = "hydration"
	EventSourceCheckout  EventSource = "checkout"
)

// PlaceholderEventTime sorts before every real event.
var PlaceholderEventTime = time.Unix(0, 0).UTC()

// StatusEvent is one lifecycle transition of a subscription plan. Events are
// immutable once stored; cancellations store their effective instant as EventTime.
type StatusEvent struct {
	AlertID                   string            `json:"alert_id"`
	AlertName                 string            `json:"alert_name"`
	SubscriptionID            string            `json:"subscription_id,omitempty"`
	SubscriptionPlanID        string            `json:"subscription_plan_id"`
	Description               StatusDescription `json:"description"`
	EventTime                 time.Time         `json:"event_time"`
	Currency                  string            `json:"currency,omitempty"`
	Quantity                  string            `json:"quantity,omitempty"`
	NextBillDate              *time.Time        `json:"next_bill_date,omitempty"`
	UpdateURL                 string            `json:"update_url,omitempty"`
	CancelURL                 string            `json:"cancel_url,omitempty"`
	CheckoutID                string            `json:"checkout_id,omitempty"`
	VendorUserID              string            `json:"vendor_user_id,omitempty"`
	Source                    EventSource       `json:"source,omitempty"`
	CancellationEffectiveDate *time.Time        `json:"cancellation_effective_date,omitempty"`
}

func (e *StatusEvent) PlanID() string { return e.SubscriptionPlanID }
func (e *StatusEvent) Time() time.Time { return e.EventTime }
func (e *StatusEvent) IsPlaceholder() bool { return e.Description.IsPlaceholder() }

// NewPlaceholderEvent returns the pre-checkout sentinel event for a plan.
func NewPlaceholderEvent(planID, checkoutID string) *StatusEvent {
	return &StatusEvent{
		AlertID:            AlertPlaceholder + "/" + checkoutID,
		AlertName:          AlertPlaceholder,
		SubscriptionPlanID: planID,
		Description:        DescriptionPlaceholder,
		EventTime:          PlaceholderEventTime,
		CheckoutID:         checkoutID,
		Source:             EventSourceCheckout,
	}
}

// PaymentEvent is one billing outcome of a subscription plan.
type PaymentEvent struct {
	AlertID            string           `json:"alert_id,omitempty"`
	AlertName          string           `json:"alert_name"`
	SubscriptionID     string           `json:"subscription_id,omitempty"`
	SubscriptionPlanID string           `json:"subscription_plan_id"`
	EventTime          time.Time        `json:"event_time"`
	Currency           string           `json:"currency"`
	Amount             decimal.Decimal  `json:"amount"`
	SaleGross          decimal.Decimal  `json:"sale_gross"`
	GrossRefund        decimal.Decimal  `json:"gross_refund"`
	Quantity           decimal.Decimal  `json:"quantity"`
	UnitPrice          decimal.Decimal  `json:"unit_price"`
	NextBillDate       *time.Time       `json:"next_bill_date,omitempty"`
	NextRetryDate      *time.Time       `json:"next_retry_date,omitempty"`
	NextPaymentAmount  *decimal.Decimal `json:"next_payment_amount,omitempty"`
	ReceiptURL         string           `json:"receipt_url,omitempty"`
	RefundReason       string           `json:"refund_reason,omitempty"`
	RefundType         string           `json:"refund_type,omitempty"`
	Instalments        string           `json:"instalments,omitempty"`
	InitialPayment     bool             `json:"initial_payment,omitempty"`
	Source             EventSource      `json:"source,omitempty"`
}

func (e *PaymentEvent) PlanID() string { return e.SubscriptionPlanID }
func (e *PaymentEvent) Time() time.Time { return e.EventTime }

// IsTerminal reports whether the payment closes a billing cycle. Refunds do not.
func (e *PaymentEvent) IsTerminal() bool {
	switch e.AlertName {
	case AlertSubscriptionPaymentSucceeded, AlertSubscriptionPaymentFailed, AlertHydrationPaymentSucceeded:
		return true
	}
	return false
}

// StatusTrailEntry is one row of the derived status history.
type StatusTrailEntry struct {
	EventTime   time.Time         `json:"event_time"`
	Description StatusDescription `json:"description"`
	Type        string            `json:"type"`
}

type NextTry struct {
	Date time.Time `json:"date"`
}

type Refund struct {
	Reason string `json:"reason,omitempty"`
	Type   string `json:"type,omitempty"`
}

type NextPayment struct {
	Date   *time.Time `json:"date,omitempty"`
	Amount Money      `json:"amount"`
}

// PaymentTrailEntry is one row of the derived payment history. The upcoming
// payment projection uses the same shape with Description AlertUpcomingPayment.
type PaymentTrailEntry struct {
	EventTime          time.Time    `json:"event_time"`
	Description        string       `json:"description"`
	SubscriptionPlanID string       `json:"subscription_plan_id"`
	Amount             TrailAmount  `json:"amount"`
	NextTry            *NextTry     `json:"next_try,omitempty"`
	Refund             *Refund      `json:"refund,omitempty"`
	NextPayment        *NextPayment `json:"next_payment,omitempty"`
	ReceiptURL         string       `json:"receipt_url,omitempty"`
	Instalments        string       `json:"instalments,omitempty"`
}

func (e *PaymentTrailEntry) IsUpcoming() bool {
	return e.Description == AlertUpcomingPayment
}

// SubscriptionPlanInfo is recomputed from the stored events on every read.
type SubscriptionPlanInfo struct {
	Active        bool                 `json:"active"`
	Start         time.Time            `json:"start"`
	End           *time.Time           `json:"end"`
	StatusTrail   []*StatusTrailEntry  `json:"status_trail"`
	PaymentsTrail []*PaymentTrailEntry `json:"payments_trail"`
}
