package middleware

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const cacheKeyPrefix = "cache"

// Cache is a best-effort redis cache for GET responses on protected routes.
// Keys include the principal id, so one user's cached page is never served
// to another. A nil client disables caching entirely; redis errors fall
// through to the handler.
func Cache(client *redis.Client, ttl time.Duration, logger *logrus.Logger) gin.HandlerFunc {
	if client == nil {
		return func(c *gin.Context) { c.Next() }
	}
	if ttl <= 0 {
		ttl = time.Minute
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(c)
		if cached, err := client.Get(c.Request.Context(), key).Bytes(); err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			c.Abort()
			return
		}

		writer := &cacheBodyWriter{ResponseWriter: c.Writer}
		c.Writer = writer
		c.Header("X-Cache", "MISS")

		c.Next()

		// Only successful JSON payloads are worth keeping.
		if writer.Status() == http.StatusOK && len(writer.body) > 0 {
			if err := client.Set(context.Background(), key, writer.body, ttl).Err(); err != nil {
				logger.WithError(err).Debug("Failed to cache response")
			}
		}
	}
}

// CacheInvalidation drops a user's cached GET responses after any mutation,
// so stale task lists do not outlive a write.
func CacheInvalidation(client *redis.Client, logger *logrus.Logger) gin.HandlerFunc {
	if client == nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
		default:
			return
		}
		if c.Writer.Status() >= 400 {
			return
		}

		pattern := fmt.Sprintf("%s:%s:*", cacheKeyPrefix, principalCacheScope(c))
		ctx := context.Background()
		keys, err := client.Keys(ctx, pattern).Result()
		if err != nil {
			logger.WithError(err).Debug("Failed to list cache keys for invalidation")
			return
		}
		if len(keys) == 0 {
			return
		}
		if err := client.Del(ctx, keys...).Err(); err != nil {
			logger.WithError(err).Debug("Failed to invalidate cache keys")
		}
	}
}

type cacheBodyWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *cacheBodyWriter) Write(data []byte) (int, error) {
	w.body = append(w.body, data...)
	return w.ResponseWriter.Write(data)
}

func cacheKey(c *gin.Context) string {
	sum := sha256.Sum256([]byte(c.Request.URL.Path + "?" + c.Request.URL.RawQuery))
	return fmt.Sprintf("%s:%s:%x", cacheKeyPrefix, principalCacheScope(c), sum[:16])
}

func principalCacheScope(c *gin.Context) string {
	if principal, ok := PrincipalFromContext(c); ok {
		return principal.ID.String()
	}
	return "anonymous"
}
