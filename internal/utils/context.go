package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow/internal/authz"
	"github.com/taskflow-dev/taskflow/internal/types"
)

func GetCurrentPrincipal(ctx *gin.Context) (authz.Principal, error) {
	value, exists := ctx.Get(types.ContextPrincipalKey)

	if !exists {
		return authz.Principal{}, fmt.Errorf("user not authenticated")
	}

	principal, ok := value.(authz.Principal)

	if !ok {
		return authz.Principal{}, fmt.Errorf("invalid principal type in context")
	}

	return principal, nil
}
