package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentNotificationLogStatus string

const (
	PaymentNotificationLogStatusReceived     PaymentNotificationLogStatus = "received"
	PaymentNotificationLogStatusHandled      PaymentNotificationLogStatus = "handled"
	PaymentNotificationLogStatusHandleFailed PaymentNotificationLogStatus = "handle_failed"
)

// PaymentNotificationLog records each webhook delivery and its outcome.
type PaymentNotificationLog struct {
	ID               string                       `gorm:"column:id;type:uuid;primary_key" json:"id"`
	ProviderID       string                       `gorm:"column:provider_id;type:varchar(64);not null" json:"provider_id"`
	OwnerKey         *string                      `gorm:"column:owner_key;type:varchar(255);index" json:"owner_key"`
	TraceID          string                       `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	AlertID          string                       `gorm:"column:alert_id;type:varchar(128);index" json:"alert_id"`
	AlertName        string                       `gorm:"column:alert_name;type:varchar(64)" json:"alert_name"`
	NotificationTime time.Time                    `gorm:"column:notification_time" json:"notification_time"`
	Data             datatypes.JSON               `gorm:"column:data;type:jsonb" json:"data"`
	Result           *datatypes.JSON              `gorm:"column:result;type:jsonb" json:"result"`
	Status           PaymentNotificationLogStatus `gorm:"column:status;type:varchar(64);not null" json:"status"`
	CreatedAt        time.Time                    `json:"created_at"`
	UpdatedAt        time.Time                    `json:"updated_at"`
}

func (PaymentNotificationLog) TableName() string { return "payment_notification_log" }

// PaymentNotificationLogFilterColumns are the columns admin queries may filter on.
var PaymentNotificationLogFilterColumns = []string{
	"provider_id",
	"owner_key",
	"trace_id",
	"alert_id",
	"alert_name",
	"notification_time",
	"status",
	"created_at",
}
