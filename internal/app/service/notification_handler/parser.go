package notification_handler

import (
	"context"
	"time"

	"github.com/fatflowers/planledger/pkg/types"
)

// NotificationParser exposes one decoded provider alert.
type NotificationParser interface {
	GetProvider(ctx context.Context) types.PaymentProvider
	GetAlertID(ctx context.Context) string
	GetAlertName(ctx context.Context) string
	GetNotificationTime(ctx context.Context) time.Time
	// GetOwner returns the owner key echoed back through passthrough.
	GetOwner(ctx context.Context) (types.OwnerKey, error)
	// GetEvents maps the alert to the events appended to the owner's document.
	GetEvents(ctx context.Context) ([]*types.StatusEvent, []*types.PaymentEvent, error)
	GetData(ctx context.Context) any
}
