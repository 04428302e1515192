package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/lironatar/TasksList/internal/auth"
	"github.com/lironatar/TasksList/pkg/errors"
	"github.com/lironatar/TasksList/pkg/response"
)

const (
	CtxClaimsKey = "authClaims"
	CtxUserIDKey = "userID"
	CtxTokenKey  = "authToken"
)

// Authenticator validates bearer tokens, including revocation checks.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*iauth.Claims, error)
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) (string, bool) {
	authz := c.GetHeader("Authorization")
	if len(authz) < 8 || !strings.EqualFold(authz[:7], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(authz[7:])
	return token, token != ""
}

// Auth rejects requests without a valid, unrevoked bearer token.
func Auth(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			// Normalise all validation failures to 401
			c.Header("WWW-Authenticate", "Bearer")
			response.Error(c, errors.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(CtxClaimsKey, claims)
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxTokenKey, token)

		c.Next()
	}
}
