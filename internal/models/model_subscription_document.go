package models

import (
	"time"

	"github.com/fatflowers/planledger/pkg/types"

	"gorm.io/datatypes"
)

// SubscriptionDocument holds every status and payment event of one owner. Both
// arrays are append-only; nothing is ever removed or edited in place.
type SubscriptionDocument struct {
	// Key is the owner key joined with "/".
	Key       string                                   `gorm:"column:key;type:varchar(255);primary_key" json:"key"`
	Status    datatypes.JSONType[[]*types.StatusEvent]  `gorm:"column:status;type:jsonb;default:'[]'" json:"status"`
	Payments  datatypes.JSONType[[]*types.PaymentEvent] `gorm:"column:payments;type:jsonb;default:'[]'" json:"payments"`
	CreatedAt time.Time                                `json:"created_at"`
	UpdatedAt time.Time                                `json:"updated_at"`
}

func (SubscriptionDocument) TableName() string {
	return "subscription_document"
}

// StatusEvents returns the stored status events, never nil.
func (d *SubscriptionDocument) StatusEvents() []*types.StatusEvent {
	if d == nil || d.Status.Data() == nil {
		return []*types.StatusEvent{}
	}
	return d.Status.Data()
}

// PaymentEvents returns the stored payment events, never nil.
func (d *SubscriptionDocument) PaymentEvents() []*types.PaymentEvent {
	if d == nil || d.Payments.Data() == nil {
		return []*types.PaymentEvent{}
	}
	return d.Payments.Data()
}

// NewSubscriptionDocument builds a document value; it does not persist anything.
func NewSubscriptionDocument(key string, status []*types.StatusEvent, payments []*types.PaymentEvent) *SubscriptionDocument {
	if status == nil {
		status = []*types.StatusEvent{}
	}
	if payments == nil {
		payments = []*types.PaymentEvent{}
	}
	return &SubscriptionDocument{
		Key:      key,
		Status:   datatypes.NewJSONType(status),
		Payments: datatypes.NewJSONType(payments),
	}
}
