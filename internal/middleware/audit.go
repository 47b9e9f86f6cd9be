package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/usercoursecontrol-api/pkg/middleware/requestid"
)

// Audit logs every call to a write function after it completes, including failed ones.
func Audit(logger *zap.Logger, isWrite func(function string) bool) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		function := c.Param("function")
		if function == "" || !isWrite(function) {
			return
		}

		fields := []zap.Field{
			zap.String("function", function),
			zap.Int("status", c.Writer.Status()),
			zap.String("outcome", Outcome(c)),
			zap.Int64("latency_ms", time.Since(start).Milliseconds()),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", c.GetHeader("User-Agent")),
		}
		if actor, ok := Actor(c); ok {
			fields = append(fields, zap.Int64("actor_id", actor.UserID), zap.String("actor_username", actor.Username))
		}
		if reqID := requestid.Value(c); reqID != "" {
			fields = append(fields, zap.String("request_id", reqID))
		}
		logger.Info("rpc_write", fields...)
	}
}
