package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/lironatar/TasksList/internal/middleware"
	"github.com/lironatar/TasksList/pkg/errors"
	"github.com/lironatar/TasksList/pkg/response"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// requireUserID returns the authenticated user id or writes a 401 response.
func requireUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return "", false
	}
	return userID, true
}
