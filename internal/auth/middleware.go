package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"newswire/internal/config"
	"newswire/internal/db"
	"newswire/internal/token"
	"newswire/internal/user"
)

const currentUserKey = "currentUser"

// RequireAuth admits only requests carrying a valid bearer JWT whose
// subject still exists. The user row is re-read on every request so a
// role change or deletion takes effect immediately, not at token
// expiry. minRole is enforced against the stored role, not the claim.
func RequireAuth(cfg *config.Config, minRole user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, cfg)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Missing or invalid Authorization header"}})
			return
		}
		var u user.User
		if err := db.DB.First(&u, claims.UserID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "No user found for this token"}})
			return
		}
		attachUser(c, &u)
		if !u.Role.AtLeast(minRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Insufficient privileges"}})
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches an identity when a valid bearer JWT is
// present; absence or invalidity is swallowed and the request
// proceeds anonymously.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, cfg); ok {
			var u user.User
			if err := db.DB.First(&u, claims.UserID).Error; err == nil {
				attachUser(c, &u)
			}
		}
		c.Next()
	}
}

// RequireAPIToken admits machine clients presenting a store-issued
// opaque token in X-API-Token (or a token query parameter). The
// active flag is checked before expiry.
func RequireAPIToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		value := c.GetHeader("X-API-Token")
		if value == "" {
			value = c.Query("token")
		}
		if value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "API token is required"}})
			return
		}
		t, err := token.Lookup(db.DB, value)
		if err != nil {
			msg := "Invalid or inactive API token"
			if errors.Is(err, token.ErrExpired) {
				msg = "API token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": msg}})
			return
		}
		c.Set("apiToken", t)
		c.Next()
	}
}

func bearerClaims(c *gin.Context, cfg *config.Config) (*Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, false
	}
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := ParseJWT(cfg.Server.JWTSecret, tokenStr)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func attachUser(c *gin.Context, u *user.User) {
	c.Set("userId", u.ID)
	c.Set("username", u.Username)
	c.Set("role", u.Role)
	c.Set(currentUserKey, u)
}

// CurrentUser returns the authenticated user attached by RequireAuth
// or OptionalAuth.
func CurrentUser(c *gin.Context) (*user.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*user.User)
	return u, ok
}

// CurrentRole returns the caller's role; anonymous callers rank as
// VISITOR for visibility purposes.
func CurrentRole(c *gin.Context) user.Role {
	if u, ok := CurrentUser(c); ok {
		return u.Role
	}
	return user.RoleVisitor
}
