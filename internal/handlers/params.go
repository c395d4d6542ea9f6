package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
)

// parseIDParam reads a numeric path parameter, responding with a validation
// error when the value is not a positive integer.
func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 64)

	if err != nil {
		apperrors.Respond(ctx, apperrors.Validation(map[string]string{name: "must be a positive integer"}))
		return 0, false
	}

	return uint(value), true
}
