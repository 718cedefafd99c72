package notification_handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/fatflowers/planledger/internal/platform/paddle"
	"github.com/fatflowers/planledger/pkg/apperr"
	"github.com/fatflowers/planledger/pkg/types"
)

var validate = validator.New()

// Alert is the flat form payload of a Paddle subscription alert. Fields a given
// alert kind does not carry stay empty.
type Alert struct {
	AlertID               string `form:"alert_id" json:"alert_id" validate:"required"`
	AlertName             string `form:"alert_name" json:"alert_name" validate:"required,oneof=subscription_created subscription_updated subscription_cancelled subscription_payment_succeeded subscription_payment_failed subscription_payment_refunded"`
	SubscriptionID        string `form:"subscription_id" json:"subscription_id" validate:"required"`
	SubscriptionPlanID    string `form:"subscription_plan_id" json:"subscription_plan_id" validate:"required"`
	OldSubscriptionPlanID string `form:"old_subscription_plan_id" json:"old_subscription_plan_id,omitempty"`
	Passthrough           string `form:"passthrough" json:"passthrough" validate:"required"`
	EventTime             string `form:"event_time" json:"event_time" validate:"required"`
	Status                string `form:"status" json:"status,omitempty" validate:"required_if=AlertName subscription_created"`
	UserID                string `form:"user_id" json:"user_id,omitempty"`
	CheckoutID            string `form:"checkout_id" json:"checkout_id,omitempty"`
	Currency              string `form:"currency" json:"currency,omitempty"`
	Quantity              string `form:"quantity" json:"quantity,omitempty"`
	NewQuantity           string `form:"new_quantity" json:"new_quantity,omitempty"`
	UnitPrice             string `form:"unit_price" json:"unit_price,omitempty"`
	NewUnitPrice          string `form:"new_unit_price" json:"new_unit_price,omitempty"`
	UpdateURL             string `form:"update_url" json:"update_url,omitempty"`
	CancelURL             string `form:"cancel_url" json:"cancel_url,omitempty"`
	NextBillDate          string `form:"next_bill_date" json:"next_bill_date,omitempty"`
	NextRetryDate         string `form:"next_retry_date" json:"next_retry_date,omitempty"`
	NextPaymentAmount     string `form:"next_payment_amount" json:"next_payment_amount,omitempty"`
	CancellationEffective string `form:"cancellation_effective_date" json:"cancellation_effective_date,omitempty" validate:"required_if=AlertName subscription_cancelled"`
	Amount                string `form:"amount" json:"amount,omitempty"`
	SaleGross             string `form:"sale_gross" json:"sale_gross,omitempty"`
	GrossRefund           string `form:"gross_refund" json:"gross_refund,omitempty"`
	RefundReason          string `form:"refund_reason" json:"refund_reason,omitempty"`
	RefundType            string `form:"refund_type" json:"refund_type,omitempty"`
	ReceiptURL            string `form:"receipt_url" json:"receipt_url,omitempty"`
	Instalments           string `form:"instalments" json:"instalments,omitempty"`
	InitialPayment        string `form:"initial_payment" json:"initial_payment,omitempty"`

	passthrough types.Passthrough
	eventTime   time.Time
}

// PaddleNotificationParser decodes a Paddle alert once and answers from the
// decoded value.
type PaddleNotificationParser struct {
	alert      *Alert
	receivedAt time.Time
}

// NewPaddleNotificationParser decodes and validates payload. Every failure is
// reported as INVALID_ARGUMENTS.
func NewPaddleNotificationParser(payload map[string]string, receivedAt time.Time) (*PaddleNotificationParser, error) {
	if len(payload) == 0 {
		return nil, apperr.InvalidArguments("empty alert payload")
	}
	form := lo.MapValues(payload, func(v string, _ string) []string { return []string{v} })
	var alert Alert
	if err := binding.MapFormWithTag(&alert, form, "form"); err != nil {
		return nil, apperr.InvalidArguments("failed to decode alert: %v", err)
	}
	if err := validate.Struct(&alert); err != nil {
		return nil, apperr.InvalidArguments("invalid %q alert: %v", alert.AlertName, err)
	}
	if alert.AlertName == types.AlertSubscriptionUpdated && alert.Status == "" {
		return nil, apperr.InvalidArguments("subscription_updated alert %s has no status", alert.AlertID)
	}

	alert.passthrough = types.ParsePassthrough(alert.Passthrough)
	if !alert.passthrough.Valid || !alert.passthrough.IDs.Valid() {
		return nil, apperr.InvalidArguments("alert %s carries an invalid passthrough", alert.AlertID)
	}
	t, err := paddle.ParseTime(alert.EventTime)
	if err != nil {
		return nil, apperr.InvalidArguments("alert %s: event_time: %v", alert.AlertID, err)
	}
	alert.eventTime = t
	return &PaddleNotificationParser{alert: &alert, receivedAt: receivedAt}, nil
}

func (p *PaddleNotificationParser) GetProvider(context.Context) types.PaymentProvider {
	return types.PaymentProviderPaddle
}

func (p *PaddleNotificationParser) GetAlertID(context.Context) string { return p.alert.AlertID }

func (p *PaddleNotificationParser) GetAlertName(context.Context) string { return p.alert.AlertName }

func (p *PaddleNotificationParser) GetNotificationTime(context.Context) time.Time {
	return p.receivedAt
}

func (p *PaddleNotificationParser) GetOwner(context.Context) (types.OwnerKey, error) {
	return p.alert.passthrough.IDs, nil
}

func (p *PaddleNotificationParser) GetData(context.Context) any { return p.alert }

func (p *PaddleNotificationParser) GetEvents(context.Context) ([]*types.StatusEvent, []*types.PaymentEvent, error) {
	a := p.alert
	switch a.AlertName {
	case types.AlertSubscriptionCreated, types.AlertSubscriptionUpdated:
		ev, err := a.statusEvent()
		if err != nil {
			return nil, nil, err
		}
		status := []*types.StatusEvent{ev}
		if a.AlertName == types.AlertSubscriptionUpdated && a.OldSubscriptionPlanID != "" && a.OldSubscriptionPlanID != a.SubscriptionPlanID {
			status = append(status, a.supersededEvent())
		}
		return status, nil, nil
	case types.AlertSubscriptionCancelled:
		ev, err := a.cancelledEvent()
		if err != nil {
			return nil, nil, err
		}
		return []*types.StatusEvent{ev}, nil, nil
	case types.AlertSubscriptionPaymentSucceeded, types.AlertSubscriptionPaymentFailed, types.AlertSubscriptionPaymentRefunded:
		ev, err := a.paymentEvent()
		if err != nil {
			return nil, nil, err
		}
		return nil, []*types.PaymentEvent{ev}, nil
	}
	return nil, nil, apperr.InvalidArguments("unsupported alert %q", a.AlertName)
}

func (a *Alert) statusEvent() (*types.StatusEvent, error) {
	next, err := optionalTime("next_bill_date", a.NextBillDate)
	if err != nil {
		return nil, err
	}
	return &types.StatusEvent{
		AlertID:            a.AlertID,
		AlertName:          a.AlertName,
		SubscriptionID:     a.SubscriptionID,
		SubscriptionPlanID: a.SubscriptionPlanID,
		Description:        types.StatusDescription(a.Status),
		EventTime:          a.eventTime,
		Currency:           a.Currency,
		Quantity:           lo.CoalesceOrEmpty(a.NewQuantity, a.Quantity),
		NextBillDate:       next,
		UpdateURL:          a.UpdateURL,
		CancelURL:          a.CancelURL,
		CheckoutID:         a.CheckoutID,
		VendorUserID:       a.UserID,
		Source:             types.EventSourceWebhook,
	}, nil
}

// supersededEvent closes the plan a subscription_updated alert moved away from.
func (a *Alert) supersededEvent() *types.StatusEvent {
	return &types.StatusEvent{
		AlertID:            a.AlertID,
		AlertName:          a.AlertName,
		SubscriptionID:     a.SubscriptionID,
		SubscriptionPlanID: a.OldSubscriptionPlanID,
		Description:        types.DescriptionSuperseded,
		EventTime:          a.eventTime,
		VendorUserID:       a.UserID,
		Source:             types.EventSourceWebhook,
	}
}

// cancelledEvent stores the effective date as the event instant.
func (a *Alert) cancelledEvent() (*types.StatusEvent, error) {
	effective, err := paddle.ParseTime(a.CancellationEffective)
	if err != nil {
		return nil, apperr.InvalidArguments("alert %s: cancellation_effective_date: %v", a.AlertID, err)
	}
	return &types.StatusEvent{
		AlertID:                   a.AlertID,
		AlertName:                 a.AlertName,
		SubscriptionID:            a.SubscriptionID,
		SubscriptionPlanID:        a.SubscriptionPlanID,
		Description:               types.StatusDescription(lo.CoalesceOrEmpty(a.Status, string(types.DescriptionDeleted))),
		EventTime:                 effective,
		Currency:                  a.Currency,
		Quantity:                  a.Quantity,
		CheckoutID:                a.CheckoutID,
		VendorUserID:              a.UserID,
		Source:                    types.EventSourceWebhook,
		CancellationEffectiveDate: lo.ToPtr(effective),
	}, nil
}

func (a *Alert) paymentEvent() (*types.PaymentEvent, error) {
	amounts := map[string]string{
		"amount":              a.Amount,
		"sale_gross":          a.SaleGross,
		"gross_refund":        a.GrossRefund,
		"quantity":            a.Quantity,
		"unit_price":          a.UnitPrice,
		"next_payment_amount": a.NextPaymentAmount,
	}
	parsed := make(map[string]decimal.Decimal, len(amounts))
	for field, raw := range amounts {
		d, err := types.ParseAmount(raw)
		if err != nil {
			return nil, apperr.InvalidArguments("alert %s: %s: %v", a.AlertID, field, err)
		}
		parsed[field] = d
	}
	nextBill, err := optionalTime("next_bill_date", a.NextBillDate)
	if err != nil {
		return nil, err
	}
	nextRetry, err := optionalTime("next_retry_date", a.NextRetryDate)
	if err != nil {
		return nil, err
	}

	amount := parsed["amount"]
	if a.Amount == "" {
		amount = parsed["sale_gross"]
	}
	ev := &types.PaymentEvent{
		AlertID:            a.AlertID,
		AlertName:          a.AlertName,
		SubscriptionID:     a.SubscriptionID,
		SubscriptionPlanID: a.SubscriptionPlanID,
		EventTime:          a.eventTime,
		Currency:           a.Currency,
		Amount:             amount,
		SaleGross:          parsed["sale_gross"],
		GrossRefund:        parsed["gross_refund"],
		Quantity:           parsed["quantity"],
		UnitPrice:          parsed["unit_price"],
		NextBillDate:       nextBill,
		NextRetryDate:      nextRetry,
		ReceiptURL:         a.ReceiptURL,
		RefundReason:       a.RefundReason,
		RefundType:         a.RefundType,
		Instalments:        a.Instalments,
		InitialPayment:     a.InitialPayment == "1" || a.InitialPayment == "true",
		Source:             types.EventSourceWebhook,
	}
	if a.NextPaymentAmount != "" {
		ev.NextPaymentAmount = lo.ToPtr(parsed["next_payment_amount"])
	}
	return ev, nil
}

func optionalTime(field, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := paddle.ParseTime(raw)
	if err != nil {
		return nil, apperr.InvalidArguments("%s: %v", field, err)
	}
	return &t, nil
}

var _ NotificationParser = (*PaddleNotificationParser)(nil)
