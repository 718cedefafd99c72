package notification_handler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	notificationlog "github.com/fatflowers/planledger/internal/app/service/notification_log"
	"github.com/fatflowers/planledger/internal/app/service/subscription"
	"github.com/fatflowers/planledger/internal/models"
	"github.com/fatflowers/planledger/pkg/logctx"
	"github.com/fatflowers/planledger/pkg/metrics"
	"github.com/fatflowers/planledger/pkg/types"
)

// LogSaver persists notification log rows.
type LogSaver interface {
	Save(ctx context.Context, log *models.PaymentNotificationLog)
}

// EventAppender applies decoded events to an owner's document.
type EventAppender interface {
	AppendEvents(ctx context.Context, owner types.OwnerKey, status []*types.StatusEvent, payments []*types.PaymentEvent) error
}

type NotificationHandler struct {
	notifSvc LogSaver
	subSvc   EventAppender
	metrics  *metrics.Domain
	Logger   *zap.SugaredLogger
	now      func() time.Time
}

func NewNotificationHandler(notif *notificationlog.Service, sub *subscription.Service, m *metrics.Domain, log *zap.SugaredLogger) *NotificationHandler {
	return &NotificationHandler{notifSvc: notif, subSvc: sub, metrics: m, Logger: log, now: time.Now}
}

// Handle decodes one provider alert and appends its events to the owner's
// document. Every delivery leaves a received row and a handled or handle_failed
// row in the notification log.
func (h *NotificationHandler) Handle(ctx context.Context, payload map[string]string) (resErr error) {
	traceID, _ := ctx.Value("traceID").(string)

	parser, err := NewPaddleNotificationParser(payload, h.now())
	if err != nil {
		h.rejected(ctx, traceID, payload, err)
		return err
	}

	owner, _ := parser.GetOwner(ctx)
	ownerKey := lo.ToPtr(owner.DocumentKey())
	alertName := parser.GetAlertName(ctx)
	ctx = logctx.WithOwner(ctx, owner.DocumentKey())
	dataBytes, _ := json.Marshal(parser.GetData(ctx))

	h.notifSvc.Save(ctx, &models.PaymentNotificationLog{
		ProviderID:       string(parser.GetProvider(ctx)),
		OwnerKey:         ownerKey,
		TraceID:          traceID,
		AlertID:          parser.GetAlertID(ctx),
		AlertName:        alertName,
		NotificationTime: parser.GetNotificationTime(ctx),
		Data:             datatypes.JSON(dataBytes),
		Status:           models.PaymentNotificationLogStatusReceived,
	})

	var status []*types.StatusEvent
	var payments []*types.PaymentEvent
	defer func() {
		resMap := map[string]any{
			"status_events":  len(status),
			"payment_events": len(payments),
		}
		logStatus := models.PaymentNotificationLogStatusHandled
		result := "handled"
		if resErr != nil {
			resMap["error"] = resErr.Error()
			logStatus = models.PaymentNotificationLogStatusHandleFailed
			result = "failed"
		}
		resBytes, _ := json.Marshal(resMap)
		h.notifSvc.Save(ctx, &models.PaymentNotificationLog{
			ProviderID:       string(parser.GetProvider(ctx)),
			OwnerKey:         ownerKey,
			TraceID:          traceID,
			AlertID:          parser.GetAlertID(ctx),
			AlertName:        alertName,
			NotificationTime: h.now(),
			Data:             datatypes.JSON(dataBytes),
			Result:           lo.ToPtr(datatypes.JSON(resBytes)),
			Status:           logStatus,
		})
		h.metrics.ObserveWebhook(alertName, result)
	}()

	status, payments, resErr = parser.GetEvents(ctx)
	if resErr != nil {
		logctx.FromCtx(ctx, h.Logger).Errorw("failed to map alert to events", "alert_name", alertName, "error", resErr.Error())
		return resErr
	}

	if resErr = h.subSvc.AppendEvents(ctx, owner, status, payments); resErr != nil {
		resErr = fmt.Errorf("failed to apply %s alert: %w", alertName, resErr)
		return resErr
	}
	logctx.FromCtx(ctx, h.Logger).Infow("alert applied",
		"alert_name", alertName,
		"alert_id", parser.GetAlertID(ctx),
		"status_events", len(status),
		"payment_events", len(payments))
	return nil
}

// rejected records a delivery that could not be decoded.
func (h *NotificationHandler) rejected(ctx context.Context, traceID string, payload map[string]string, err error) {
	alertName := lo.CoalesceOrEmpty(payload["alert_name"], "unknown")
	dataBytes, _ := json.Marshal(payload)
	resBytes, _ := json.Marshal(map[string]any{"error": err.Error()})
	h.notifSvc.Save(ctx, &models.PaymentNotificationLog{
		ProviderID:       string(types.PaymentProviderPaddle),
		TraceID:          traceID,
		AlertID:          payload["alert_id"],
		AlertName:        alertName,
		NotificationTime: h.now(),
		Data:             datatypes.JSON(dataBytes),
		Result:           lo.ToPtr(datatypes.JSON(resBytes)),
		Status:           models.PaymentNotificationLogStatusHandleFailed,
	})
	h.metrics.ObserveWebhook(alertName, "rejected")
	logctx.FromCtx(ctx, h.Logger).Warnw("rejected alert", "alert_name", alertName, "error", err.Error())
}
