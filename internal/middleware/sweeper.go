package middleware

import (
	"github.com/gin-gonic/gin"

	"clinic-portal-server/internal/scheduling"
)

// SweeperMiddleware runs the status sweeper at the start of every request
// into the portal. The sweep is synchronous and best-effort; its errors are
// logged inside Run and never abort the request.
func SweeperMiddleware(sweeper *scheduling.Sweeper) gin.HandlerFunc {
	return func(c *gin.Context) {
		sweeper.Run()
		c.Next()
	}
}
