package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/usercoursecontrol-api/internal/service"
	appErrors "github.com/noah-isme/usercoursecontrol-api/pkg/errors"
)

// OutcomeOK labels RPC calls that completed without error.
const OutcomeOK = "ok"

// Metrics returns middleware that captures request metrics using the provided service.
// Requests routed with a :function parameter are also counted per function and outcome.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, status, duration)

		if fn := c.Param("function"); fn != "" {
			metricsSvc.RecordRPCCall(fn, Outcome(c))
		}
	}
}

// Outcome reports "ok" or the error code of the last error attached to the request.
func Outcome(c *gin.Context) string {
	if last := c.Errors.Last(); last != nil {
		return appErrors.FromError(last.Err).Code
	}
	if c.Writer.Status() >= 400 {
		return appErrors.ErrInternal.Code
	}
	return OutcomeOK
}
