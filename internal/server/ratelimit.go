package server

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/vitrine/internal/ratelimit"
	"go.uber.org/zap"
)

// rateLimited throttles a route per client IP. Limiter failures let the
// request through.
func (s *Server) rateLimited(scope ratelimit.Scope) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Enabled() {
			c.Next()
			return
		}

		res, err := s.limiter.Allow(c.Request.Context(), scope, c.ClientIP())
		if err != nil {
			s.log.Warn("rate limiter unavailable", zap.String("scope", string(scope)), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			s.metrics.RecordRateLimited(c.Request.Context(), string(scope))
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}
