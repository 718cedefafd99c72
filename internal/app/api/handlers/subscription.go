package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/planledger/pkg/response"
	"github.com/fatflowers/planledger/pkg/types"
)

// SubscriptionService is the part of subscription.Service served over HTTP.
type SubscriptionService interface {
	GetSubscriptionInfo(ctx context.Context, owner types.OwnerKey, asOf *time.Time) (map[string]*types.SubscriptionPlanInfo, error)
	GetAllSubscriptionsStatus(ctx context.Context, owner types.OwnerKey, asOf *time.Time) (map[string]bool, error)
	RegisterCheckout(ctx context.Context, owner types.OwnerKey, planID, checkoutID string) error
	HydrateSubscriptionCreated(ctx context.Context, owner types.OwnerKey, subscriptionID, checkoutID string) error
	HydrateSubscriptionCancelled(ctx context.Context, owner types.OwnerKey, planID string) error
	CancelSubscription(ctx context.Context, owner types.OwnerKey, planID string) error
}

type SubscriptionQueryRequest struct {
	OwnerIDs []string   `json:"owner_ids" validate:"required,min=1,dive,required"`
	AsOf     *time.Time `json:"as_of"`
}

type CheckoutRequest struct {
	OwnerIDs   []string `json:"owner_ids" validate:"required,min=1,dive,required"`
	PlanID     string   `json:"plan_id" validate:"required"`
	CheckoutID string   `json:"checkout_id" validate:"required"`
}

type CheckoutResponse struct {
	// Passthrough is the value to hand to the provider's checkout.
	Passthrough string `json:"passthrough"`
}

type HydrateCreatedRequest struct {
	OwnerIDs       []string `json:"owner_ids" validate:"required,min=1,dive,required"`
	SubscriptionID string   `json:"subscription_id" validate:"required"`
	CheckoutID     string   `json:"checkout_id"`
}

type PlanRequest struct {
	OwnerIDs []string `json:"owner_ids" validate:"required,min=1,dive,required"`
	PlanID   string   `json:"plan_id" validate:"required"`
}

// @Summary      Get Subscription Info
// @Description  Reduces the owner's event log to per-plan start, end, liveness and trails.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body SubscriptionQueryRequest true "Owner ids and optional as_of cutoff"
// @Success      200  {object}  response.APIResponse[map[string]types.SubscriptionPlanInfo]
// @Failure      200  {object}  response.APIResponse[response.ErrorData]
// @Router       /api/v1/subscription/info [post]
func ApiGetSubscriptionInfo(svc SubscriptionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscriptionQueryRequest
		if !bindJSON(c, &req) {
			return
		}
		infos, err := svc.GetSubscriptionInfo(c.Request.Context(), req.OwnerIDs, req.AsOf)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(infos))
	}
}

// @Summary      Get Subscriptions Status
// @Description  Reports liveness per plan at as_of, or now.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body SubscriptionQueryRequest true "Owner ids and optional as_of instant"
// @Success      200  {object}  response.APIResponse[map[string]bool]
// @Failure      200  {object}  response.APIResponse[response.ErrorData]
// @Router       /api/v1/subscription/status [post]
func ApiGetSubscriptionsStatus(svc SubscriptionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscriptionQueryRequest
		if !bindJSON(c, &req) {
			return
		}
		status, err := svc.GetAllSubscriptionsStatus(c.Request.Context(), req.OwnerIDs, req.AsOf)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(status))
	}
}

// @Summary      Register Checkout
// @Description  Stores the placeholder event for a plan and returns the passthrough for the provider checkout.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body CheckoutRequest true "Checkout registration"
// @Success      200  {object}  response.APIResponse[handlers.CheckoutResponse]
// @Failure      200  {object}  response.APIResponse[response.ErrorData]
// @Router       /api/v1/subscription/checkout [post]
func ApiRegisterCheckout(svc SubscriptionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckoutRequest
		if !bindJSON(c, &req) {
			return
		}
		if err := svc.RegisterCheckout(c.Request.Context(), req.OwnerIDs, req.PlanID, req.CheckoutID); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(CheckoutResponse{Passthrough: types.EncodePassthrough(req.OwnerIDs)}))
	}
}

// @Summary      Hydrate Created Subscription
// @Description  Appends the provider's record of a new subscription when the creation webhook has not landed.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body HydrateCreatedRequest true "Subscription to reconcile"
// @Success      200  {object}  response.APIResponse[any]
// @Failure      200  {object}  response.APIResponse[response.ErrorData]
// @Router       /api/v1/subscription/hydrate_created [post]
func ApiHydrateSubscriptionCreated(svc SubscriptionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req HydrateCreatedRequest
		if !bindJSON(c, &req) {
			return
		}
		if err := svc.HydrateSubscriptionCreated(c.Request.Context(), req.OwnerIDs, req.SubscriptionID, req.CheckoutID); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Hydrate Cancelled Subscription
// @Description  Appends the provider's cancellation of a plan when the cancellation webhook has not landed.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body PlanRequest true "Plan to reconcile"
// @Success      200  {object}  response.APIResponse[any]
// @Failure      200  {object}  response.APIResponse[response.ErrorData]
// @Router       /api/v1/subscription/hydrate_cancelled [post]
func ApiHydrateSubscriptionCancelled(svc SubscriptionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlanRequest
		if !bindJSON(c, &req) {
			return
		}
		if err := svc.HydrateSubscriptionCancelled(c.Request.Context(), req.OwnerIDs, req.PlanID); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Cancel Subscription
// @Description  Asks the provider to cancel the plan's subscription.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request body PlanRequest true "Plan to cancel"
// @Success      200  {object}  response.APIResponse[any]
// @Failure      200  {object}  response.APIResponse[response.ErrorData]
// @Router       /api/v1/subscription/cancel [post]
func ApiCancelSubscription(svc SubscriptionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlanRequest
		if !bindJSON(c, &req) {
			return
		}
		if err := svc.CancelSubscription(c.Request.Context(), req.OwnerIDs, req.PlanID); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterSubscriptionRoutes(r gin.IRouter, svc SubscriptionService) {
	r.POST("/info", ApiGetSubscriptionInfo(svc))
	r.POST("/status", ApiGetSubscriptionsStatus(svc))
	r.POST("/checkout", ApiRegisterCheckout(svc))
	r.POST("/hydrate_created", ApiHydrateSubscriptionCreated(svc))
	r.POST("/hydrate_cancelled", ApiHydrateSubscriptionCancelled(svc))
	r.POST("/cancel", ApiCancelSubscription(svc))
}
