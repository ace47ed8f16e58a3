package middleware

import (
	"github.com/gin-gonic/gin"

	"luxegear-backend/internal/api/dto"
	"luxegear-backend/internal/auth"
	"luxegear-backend/internal/domain"
)

const (
	identityKey = "identity"
	userKey     = "user"

	IdempotencyKeyHeader = "X-Idempotency-Key"
)

// Protect requires a valid bearer token for an existing user.
func Protect(resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolver.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			dto.Abort(c, err)
			return
		}
		c.Set(userKey, user)
		c.Set(identityKey, auth.IdentityOf(user))
		c.Next()
	}
}

// AdminOnly must follow Protect.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IdentityFrom(c).IsAdmin() {
			dto.Abort(c, domain.Forbidden("Admin access required"))
			return
		}
		c.Next()
	}
}

// OptionalIdentity resolves the caller without ever rejecting the request.
func OptionalIdentity(resolver *auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(identityKey, resolver.Resolve(c.GetHeader("Authorization")))
		c.Next()
	}
}

// IdentityFrom returns the identity set by Protect or OptionalIdentity, or Anonymous.
func IdentityFrom(c *gin.Context) auth.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(auth.Identity); ok {
			return id
		}
	}
	return auth.Anonymous
}

// UserFrom returns the user loaded by Protect.
func UserFrom(c *gin.Context) *domain.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}
