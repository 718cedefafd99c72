package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"

	mw "github.com/fatflowers/planledger/internal/app/api/middleware"
	"github.com/fatflowers/planledger/pkg/apperr"
	"github.com/fatflowers/planledger/pkg/logctx"
	"github.com/fatflowers/planledger/pkg/response"
)

// WebhookHandler applies one decoded provider alert.
type WebhookHandler interface {
	Handle(ctx context.Context, payload map[string]string) error
}

// ApiPaddleWebhook acknowledges coded failures with 200, except NOT_FOUND which
// answers 404: an alert for an owner whose document does not exist yet can
// succeed once the checkout is registered, so the provider must redeliver it.
// Uncoded failures answer 500.
//
// @Summary      Paddle webhook
// @Description  Applies one Paddle Classic alert to the owner's event log.
// @Tags         Payment
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Success      200  {object}  response.APIResponse[any]
// @Failure      404  {object}  response.APIResponse[response.ErrorData]
// @Failure      500  {object}  response.APIResponse[response.ErrorData]
// @Router       /api/v2/payment/webhook/paddle [post]
func ApiPaddleWebhook(h WebhookHandler, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		logctx.FromGin(c, log).Infow("webhook_paddle_received")

		if err := c.Request.ParseForm(); err != nil {
			writeError(c, apperr.InvalidArguments("failed to parse form: %v", err))
			return
		}
		payload := lo.MapValues(c.Request.PostForm, func(v []string, _ string) string { return lo.FirstOrEmpty(v) })

		if err := h.Handle(c.Request.Context(), payload); err != nil {
			logctx.FromGin(c, log).Errorw("webhook_paddle_handle_error", "error", err.Error())
			code, coded := apperr.CodeOf(err)
			switch {
			case !coded:
				c.JSON(http.StatusInternalServerError, response.FromError(err))
			case code == apperr.CodeNotFound:
				c.Set(mw.ErrorCodeKey, string(code))
				c.JSON(http.StatusNotFound, response.FromError(err))
			default:
				writeError(c, err)
			}
			return
		}
		logctx.FromGin(c, log).Infow("webhook_paddle_handled")
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterPaymentWebhookRoutes(r gin.IRouter, h WebhookHandler, log *zap.SugaredLogger) {
	r.POST("/webhook/paddle", ApiPaddleWebhook(h, log))
}
