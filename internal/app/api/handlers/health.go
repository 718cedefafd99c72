package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/planledger/pkg/response"
)

// @Summary      Health check
// @Description  Reports liveness only; does not touch the database or the provider.
// @Tags         System
// @Produce      json
// @Success      200  {object}  response.APIResponse[map[string]string]
// @Router       /healthz [get]
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, response.OKT(map[string]string{"status": "ok"}))
}

func RegisterHealthRoutes(r gin.IRouter) {
	r.GET("/healthz", Healthz)
}
