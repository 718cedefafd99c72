package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	notificationlog "github.com/fatflowers/planledger/internal/app/service/notification_log"
	"github.com/fatflowers/planledger/internal/app/service/statistics"
	"github.com/fatflowers/planledger/pkg/response"
)

type NotificationLogLister interface {
	List(ctx context.Context, req *notificationlog.ListRequest) (*notificationlog.ListResult, error)
}

type NotificationStatistics interface {
	GetDailyNotificationStatistic(ctx context.Context, req *statistics.NotificationStatisticRequest) (*statistics.NotificationStatisticResponse, error)
}

// @Summary      List Notification Log (Admin)
// @Description  Pages through recorded webhook deliveries.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        request body notification_log.ListRequest true "Filters, pagination and sorting"
// @Success      200  {object}  response.APIResponse[notification_log.ListResult]
// @Router       /api/v1/admin/list_notification_log [post]
func ApiListNotificationLog(svc NotificationLogLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req notificationlog.ListRequest
		if !bindJSON(c, &req) {
			return
		}
		res, err := svc.List(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get Notification Statistic (Admin)
// @Description  Daily webhook delivery series, computed per requested data item.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        request body statistics.NotificationStatisticRequest true "Statistic request parameters"
// @Success      200  {object}  response.APIResponse[statistics.NotificationStatisticResponse]
// @Router       /api/v1/admin/get_notification_statistic [post]
func ApiGetNotificationStatistic(svc NotificationStatistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.NotificationStatisticRequest
		if !bindJSON(c, &req) {
			return
		}
		res, err := svc.GetDailyNotificationStatistic(c.Request.Context(), &req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, logs NotificationLogLister, stats NotificationStatistics) {
	r.POST("/list_notification_log", ApiListNotificationLog(logs))
	r.POST("/get_notification_statistic", ApiGetNotificationStatistic(stats))
}
