package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/taskhub/internal/services"
	"github.com/temcen/taskhub/pkg/models"
)

const principalKey = "principal"

// Messages are deliberately uniform: a missing header gets one message, and
// every verification or lookup failure gets another, so responses never
// reveal whether a token was expired, tampered with, or orphaned.
const (
	msgMissingCredential = "Not authorized. Please log in."
	msgUnauthenticated   = "Invalid or expired token. Please log in again."
	msgForbidden         = "Admin access required."
)

// Auth is the gate in front of every protected route: it parses the bearer
// header, verifies the token and resolves the subject to a live account.
// Handlers behind it can rely on a trustworthy principal being present.
func Auth(verifier services.TokenVerifier, users services.PrincipalResolver, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Failure(msgMissingCredential))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Failure(msgMissingCredential))
			return
		}

		claims, err := verifier.VerifyToken(parts[1])
		if err != nil {
			logger.WithError(err).WithField("client_ip", c.ClientIP()).Warn("Token verification failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Failure(msgUnauthenticated))
			return
		}

		// Re-resolve the subject on every request; a token that outlives its
		// account must not authenticate a stale identity.
		user, err := users.GetUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			logger.WithError(err).WithField("user_id", claims.UserID).Warn("Token subject lookup failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Failure(msgUnauthenticated))
			return
		}

		SetPrincipal(c, user.Principal())
		c.Next()
	}
}

// SetPrincipal attaches the authenticated principal to the request context.
func SetPrincipal(c *gin.Context, p *models.Principal) {
	c.Set(principalKey, p)
}

// RequireRole gates elevated operations. It assumes Auth ran earlier in the
// chain.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Failure(msgMissingCredential))
			return
		}
		if principal.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, models.Failure(msgForbidden))
			return
		}
		c.Next()
	}
}

func PrincipalFromContext(c *gin.Context) (*models.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	principal, ok := v.(*models.Principal)
	return principal, ok
}
