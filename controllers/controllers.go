package controllers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// opCtx bounds one store operation. Derived from the request context so a
// dropped connection cancels in-flight queries.
func opCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 5*time.Second)
}
