package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	mw "github.com/fatflowers/planledger/internal/app/api/middleware"
	"github.com/fatflowers/planledger/pkg/apperr"
	"github.com/fatflowers/planledger/pkg/response"
)

var validate = validator.New()

// bindJSON decodes and validates the request body. On failure it writes an
// INVALID_ARGUMENTS response and returns false.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c, apperr.InvalidArguments("failed to decode request: %v", err))
		return false
	}
	if err := validate.Struct(req); err != nil {
		writeError(c, apperr.InvalidArguments("%v", err))
		return false
	}
	return true
}

func writeError(c *gin.Context, err error) {
	res := response.FromError(err)
	if res.Data.ErrorCode != "" {
		c.Set(mw.ErrorCodeKey, string(res.Data.ErrorCode))
	}
	c.JSON(http.StatusOK, res)
}
