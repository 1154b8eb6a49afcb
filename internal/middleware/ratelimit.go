package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/taskhub/internal/services"
	"github.com/temcen/taskhub/pkg/models"
)

// RateLimit enforces one fixed-window policy keyed by client IP. The limit
// headers are set on every response, allowed or rejected, so clients can
// track their remaining quota.
func RateLimit(limiter *services.RateLimitService, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if key == "" {
			key = "unknown"
		}

		allowed, info := limiter.Check(key)

		c.Header("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(info.Reset, 10))

		if !allowed {
			logger.WithFields(logrus.Fields{
				"client_ip": key,
				"limit":     info.Limit,
				"path":      c.Request.URL.Path,
			}).Warn("Rate limit exceeded")

			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				models.Failure("Too many requests. Try again later."))
			return
		}

		c.Next()
	}
}
