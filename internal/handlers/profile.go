package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lironatar/TasksList/internal/services"
	"github.com/lironatar/TasksList/pkg/response"
)

// ProfileHandler exposes the authenticated user's profile.
type ProfileHandler struct {
	auth *services.AuthService
}

// NewProfileHandler builds a ProfileHandler.
func NewProfileHandler(auth *services.AuthService) (*ProfileHandler, error) {
	if auth == nil {
		return nil, errors.New("profile handler: auth service is required")
	}
	return &ProfileHandler{auth: auth}, nil
}

// GET /api/v1/users/profile
func (h *ProfileHandler) Get(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	user, err := h.auth.GetUser(requestContext(c), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserDTO(user))
}

type updateProfileRequest struct {
	Name      *string `json:"name" validate:"omitempty,max=255"`
	FirstName *string `json:"first_name" validate:"omitempty,max=255"`
	LastName  *string `json:"last_name" validate:"omitempty,max=255"`
}

// PUT /api/v1/users/profile
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.auth.UpdateProfile(requestContext(c), userID, services.UpdateProfileInput{
		Name:      req.Name,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserDTO(user))
}

type updateProfileIconRequest struct {
	ProfileIcon string `json:"profile_icon"`
}

// PUT /api/v1/users/profile-icon
func (h *ProfileHandler) UpdateIcon(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req updateProfileIconRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.auth.UpdateProfileIcon(requestContext(c), userID, req.ProfileIcon)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"profile_icon": user.ProfileIcon})
}

// GET /api/v1/users/profile-icons
func (h *ProfileHandler) Icons(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"icons": h.auth.ProfileIcons()})
}
