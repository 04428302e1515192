package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lironatar/TasksList/internal/middleware"
	"github.com/lironatar/TasksList/internal/services"
	apperrors "github.com/lironatar/TasksList/pkg/errors"
	"github.com/lironatar/TasksList/pkg/logger"
	"github.com/lironatar/TasksList/pkg/response"
)

// AuthHandler serves registration, login, logout, current user and email verification.
type AuthHandler struct {
	auth         *services.AuthService
	verification *services.VerificationService
}

// NewAuthHandler wires the auth and verification services into HTTP handlers.
func NewAuthHandler(auth *services.AuthService, verification *services.VerificationService) (*AuthHandler, error) {
	if auth == nil {
		return nil, errors.New("auth handler: auth service is required")
	}
	if verification == nil {
		return nil, errors.New("auth handler: verification service is required")
	}
	return &AuthHandler{auth: auth, verification: verification}, nil
}

type registerRequest struct {
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	Name      string `json:"name" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.auth.Register(requestContext(c), services.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		Name:      req.Name,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"user":                  toUserDTO(result.User),
		"requires_verification": result.RequiresVerification,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.auth.Login(requestContext(c), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.RequiresVerification {
		response.Success(c, http.StatusOK, gin.H{
			"requires_verification": true,
			"email":                 result.Email,
		})
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"user":       toUserDTO(result.User),
		"token":      result.Token,
		"token_type": "Bearer",
		"expires_in": int(time.Until(result.ExpiresAt).Seconds()),
	})
}

// POST /api/v1/auth/logout
// Always succeeds; a valid token is revoked until it expires.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, ok := middleware.BearerToken(c); ok {
		if err := h.auth.Logout(requestContext(c), token); err != nil {
			logger.WithModule("auth").Warn("token revocation failed", zap.Error(err))
		}
	}
	response.Success(c, http.StatusOK, gin.H{"logged_out": true})
}

// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	token, _ := middleware.BearerToken(c)
	user, err := h.auth.CurrentUser(requestContext(c), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	if user == nil {
		c.Header("WWW-Authenticate", "Bearer")
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}
	response.Success(c, http.StatusOK, toUserDTO(user))
}

type verifyRequest struct {
	Email string `json:"email" validate:"required"`
	Code  string `json:"code"`
}

// POST /api/v1/auth/verify
// An empty code re-issues a verification code instead of checking one.
func (h *AuthHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if !bindAndValidate(c, &req) {
		return
	}

	ctx := requestContext(c)
	if req.Code == "" {
		if err := h.verification.SendCode(ctx, req.Email); err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"sent": true})
		return
	}

	if err := h.verification.VerifyCode(ctx, req.Email, req.Code); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"verified": true})
}

type sendCodeRequest struct {
	Email string `json:"email" validate:"required"`
}

// POST /api/v1/auth/send-code
func (h *AuthHandler) SendCode(c *gin.Context) {
	var req sendCodeRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.verification.SendCode(requestContext(c), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sent": true})
}
