package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lironatar/TasksList/internal/auth"
	"github.com/lironatar/TasksList/internal/models"
	"github.com/lironatar/TasksList/pkg/crypto"
	apperrors "github.com/lironatar/TasksList/pkg/errors"
	"github.com/lironatar/TasksList/pkg/logger"
	"github.com/lironatar/TasksList/pkg/metrics"
	"github.com/lironatar/TasksList/pkg/validator"
)

const (
	minPasswordLength  = 6
	maxProfileIconSize = 2048
)

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	Email     string
	Password  string
	Name      string
	FirstName string
	LastName  string
}

// RegisterResult is returned after sign-up. New accounts always need verification.
type RegisterResult struct {
	User                 *models.User
	RequiresVerification bool
}

// LoginResult carries either an access token or a verification requirement, never both.
type LoginResult struct {
	User                 *models.User
	Token                string
	ExpiresAt            time.Time
	RequiresVerification bool
	Email                string
}

// UpdateProfileInput lists mutable name fields. A nil pointer leaves the field unchanged.
type UpdateProfileInput struct {
	Name      *string
	FirstName *string
	LastName  *string
}

// AuthOption customises the AuthService.
type AuthOption func(*AuthService)

// WithTokenRevoker enables server-side logout.
func WithTokenRevoker(revoker *auth.TokenRevoker) AuthOption {
	return func(s *AuthService) {
		s.revoker = revoker
	}
}

// WithProfileIcons sets the icon catalogue new users are assigned from.
func WithProfileIcons(icons []string) AuthOption {
	return func(s *AuthService) {
		s.icons = append([]string(nil), icons...)
	}
}

// WithIconPicker overrides how a registration icon is chosen from the catalogue.
func WithIconPicker(pick func(icons []string) string) AuthOption {
	return func(s *AuthService) {
		if pick != nil {
			s.pickIcon = pick
		}
	}
}

// WithAuthClock injects a custom time source.
func WithAuthClock(clock func() time.Time) AuthOption {
	return func(s *AuthService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// AuthService registers accounts, authenticates users and manages profile fields.
type AuthService struct {
	db           *gorm.DB
	jwt          *auth.JWTService
	verification *VerificationService
	revoker      *auth.TokenRevoker
	icons        []string
	pickIcon     func([]string) string
	now          func() time.Time
	log          *zap.Logger
}

// NewAuthService wires the auth gateway.
func NewAuthService(db *gorm.DB, jwt *auth.JWTService, verification *VerificationService, opts ...AuthOption) (*AuthService, error) {
	if db == nil {
		return nil, errors.New("auth service: db is required")
	}
	if jwt == nil {
		return nil, errors.New("auth service: jwt service is required")
	}

	svc := &AuthService{
		db:           db,
		jwt:          jwt,
		verification: verification,
		pickIcon:     randomIcon,
		now:          time.Now,
		log:          logger.WithModule("auth"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

func randomIcon(icons []string) string {
	if len(icons) == 0 {
		return ""
	}
	return icons[rand.IntN(len(icons))]
}

// ProfileIcons returns a copy of the selectable icon catalogue.
func (s *AuthService) ProfileIcons() []string {
	return append([]string(nil), s.icons...)
}

// Register creates an unverified user and issues a verification code.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	ctx = ensureContext(ctx)

	email := normaliseEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	switch {
	case email == "" || input.Password == "" || name == "":
		return nil, apperrors.NewValidation("email, password and name are required")
	case !validator.IsEmail(email):
		return nil, apperrors.NewValidation("a valid email is required")
	case len(input.Password) < minPasswordLength:
		return nil, apperrors.NewValidation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("auth service: check email: %w", err)
	}
	if existing > 0 {
		return nil, apperrors.ErrConflict.WithMessage("Email already registered")
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth service: hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		BaseModel:   models.BaseModel{CreatedAt: now, UpdatedAt: now},
		Email:       email,
		Password:    hash,
		Name:        name,
		FirstName:   strings.TrimSpace(input.FirstName),
		LastName:    strings.TrimSpace(input.LastName),
		ProfileIcon: s.pickIcon(s.icons),
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, writeError("auth service: create user", err, apperrors.ErrConflict.WithMessage("Email already registered"))
	}
	metrics.Registrations.Inc()

	if s.verification != nil {
		if err := s.verification.SendCode(ctx, email); err != nil {
			// The account exists; the caller can resend.
			s.log.Warn("issue verification code after registration", zap.String("user_id", user.ID), zap.Error(err))
		}
	}

	return &RegisterResult{User: user, RequiresVerification: true}, nil
}

// Login checks credentials. Unverified users get RequiresVerification and no token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	ctx = ensureContext(ctx)
	email = normaliseEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidation("email and password are required")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("auth service: find user: %w", err)
	}
	if !crypto.VerifyPassword(user.Password, password) {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsVerified {
		metrics.AuthAttempts.WithLabelValues("unverified").Inc()
		return &LoginResult{User: &user, RequiresVerification: true, Email: user.Email}, nil
	}

	issued, err := s.jwt.GenerateAccessToken(auth.AccessTokenInput{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("auth service: issue token: %w", err)
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		s.log.Warn("record last login", zap.String("user_id", user.ID), zap.Error(err))
	}
	user.LastLoginAt = &now
	metrics.AuthAttempts.WithLabelValues("success").Inc()

	return &LoginResult{
		User:      &user,
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
		Email:     user.Email,
	}, nil
}

// Authenticate validates a bearer token, rejecting revoked ones. Failures are ErrUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	ctx = ensureContext(ctx)
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.ErrUnauthorized
	}

	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, apperrors.ErrUnauthorized.WithMessage("Invalid or expired token").WithInternal(err)
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("auth service: check revocation: %w", err)
	}
	if revoked {
		return nil, apperrors.ErrUnauthorized.WithMessage("Token has been revoked")
	}
	return claims, nil
}

// CurrentUser resolves the verified user behind token. Missing, invalid or revoked tokens yield (nil, nil).
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.Authenticate(ctx, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			return nil, nil
		}
		return nil, err
	}

	user, err := s.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !user.IsVerified {
		return nil, nil
	}
	return user, nil
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	ctx = ensureContext(ctx)
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(id)).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewNotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("auth service: get user: %w", err)
	}
	return &user, nil
}

// Logout revokes token until it expires. Invalid tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	ctx = ensureContext(ctx)
	claims, err := s.jwt.ValidateAccessToken(strings.TrimSpace(token))
	if err != nil {
		return nil
	}
	if claims.ExpiresAt == nil || claims.ID == "" {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("auth service: revoke token: %w", err)
	}
	return nil
}

// UpdateProfileIcon replaces the user's icon reference.
func (s *AuthService) UpdateProfileIcon(ctx context.Context, userID, icon string) (*models.User, error) {
	ctx = ensureContext(ctx)
	icon = strings.TrimSpace(icon)
	if icon == "" {
		return nil, apperrors.NewValidation("profile_icon is required")
	}
	if len(icon) > maxProfileIconSize {
		return nil, apperrors.NewValidation("profile_icon is too long")
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(user).Update("profile_icon", icon).Error; err != nil {
		return nil, fmt.Errorf("auth service: update profile icon: %w", err)
	}
	user.ProfileIcon = icon
	return user, nil
}

// UpdateProfile applies the supplied name fields.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	updates := map[string]any{}
	if name := trimmedPtr(input.Name); name != nil {
		if *name == "" {
			return nil, apperrors.NewValidation("name cannot be empty")
		}
		updates["name"] = *name
	}
	if first := trimmedPtr(input.FirstName); first != nil {
		updates["first_name"] = *first
	}
	if last := trimmedPtr(input.LastName); last != nil {
		updates["last_name"] = *last
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return user, nil
	}
	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("auth service: update profile: %w", err)
	}
	return s.GetUser(ctx, userID)
}
