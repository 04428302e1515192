package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lironatar/TasksList/internal/api"
	"github.com/lironatar/TasksList/internal/app"
	iauth "github.com/lironatar/TasksList/internal/auth"
	"github.com/lironatar/TasksList/internal/cache"
	sharedtestutil "github.com/lironatar/TasksList/internal/database/testutil"
	"github.com/lironatar/TasksList/internal/middleware"
	"github.com/lironatar/TasksList/internal/models"
	"github.com/lironatar/TasksList/internal/services"
	"github.com/lironatar/TasksList/pkg/crypto"
	"github.com/lironatar/TasksList/pkg/mail"
	"github.com/lironatar/TasksList/pkg/response"
)

// TestIcons is the profile icon catalogue served by test environments.
var TestIcons = []string{"https://icons.example.com/cat.png", "https://icons.example.com/dog.png"}

// Mailer records outgoing mail so tests can read issued verification codes.
type Mailer struct {
	mu       sync.Mutex
	messages []mail.Message
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

// Send implements mail.Mailer.
func (m *Mailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

// Count returns the number of messages sent so far.
func (m *Mailer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// LastCode returns the code from the most recent message sent to email, or "".
func (m *Mailer) LastCode(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.messages) - 1; i >= 0; i-- {
		msg := m.messages[i]
		for _, to := range msg.To {
			if to == email {
				return codePattern.FindString(msg.Body)
			}
		}
	}
	return ""
}

// Env encapsulates a fully-wired API instance backed by an in-memory database for handler tests.
type Env struct {
	T        *testing.T
	DB       *gorm.DB
	Router   *gin.Engine
	JWT      *iauth.JWTService
	Mailer   *Mailer
	Config   *app.Config
	Services api.Dependencies
}

// Option adjusts the configuration before the router is built.
type Option func(cfg *app.Config)

// WithRateLimit enables rate limiting with the supplied budget.
func WithRateLimit(requests int, window time.Duration) Option {
	return func(cfg *app.Config) {
		cfg.RateLimit = app.RateLimitConfig{Enabled: true, Requests: requests, Window: window}
	}
}

// NewEnv provisions a fresh handler test environment with migrations applied.
func NewEnv(t *testing.T, opts ...Option) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithAutoMigrate())

	cfg := &app.Config{
		Auth: app.AuthConfig{
			JWT: app.JWTSettings{
				Secret: "test-suite-super-secret-key-32-bytes!!",
				Issuer: "test-suite",
				TTL:    time.Hour,
			},
		},
		Profile: app.ProfileConfig{Icons: TestIcons},
		Monitoring: app.MonitoringConfig{
			Prometheus: app.PrometheusConfig{Enabled: true, Endpoint: "/metrics"},
			Health:     app.HealthConfig{Enabled: true},
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	require.NoError(t, err)

	mailer := &Mailer{}
	verification, err := services.NewVerificationService(db, mailer)
	require.NoError(t, err)

	store := cache.NewDatabaseStore(db)
	authSvc, err := services.NewAuthService(db, jwtSvc, verification,
		services.WithTokenRevoker(iauth.NewTokenRevoker(store)),
		services.WithProfileIcons(cfg.Profile.Catalogue()),
	)
	require.NoError(t, err)

	lists, err := services.NewTaskListService(db, nil)
	require.NoError(t, err)
	tasks, err := services.NewTaskService(db, nil)
	require.NoError(t, err)

	deps := api.Dependencies{
		DB:           db,
		Auth:         authSvc,
		Verification: verification,
		TaskLists:    lists,
		Tasks:        tasks,
		RateStore:    middleware.NewCacheRateStore(store),
	}
	router, err := api.NewRouter(cfg, deps)
	require.NoError(t, err)

	return &Env{
		T:        t,
		DB:       db,
		Router:   router,
		JWT:      jwtSvc,
		Mailer:   mailer,
		Config:   cfg,
		Services: deps,
	}
}

// CreateVerifiedUser inserts a verified user directly and returns the record.
func (e *Env) CreateVerifiedUser(email, password string) *models.User {
	e.T.Helper()

	hashed, err := crypto.HashPassword(password)
	require.NoError(e.T, err)

	user := &models.User{
		Email:       email,
		Password:    hashed,
		Name:        email,
		ProfileIcon: TestIcons[0],
		IsVerified:  true,
	}
	require.NoError(e.T, e.DB.Create(user).Error)
	return user
}

// UserPayload captures the user fields returned from auth endpoints.
type UserPayload struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	ProfileIcon string `json:"profile_icon"`
	IsVerified  bool   `json:"is_verified"`
}

// LoginResult bundles the JSON response from POST /api/v1/auth/login.
type LoginResult struct {
	User                 UserPayload `json:"user"`
	Token                string      `json:"token"`
	TokenType            string      `json:"token_type"`
	ExpiresIn            int         `json:"expires_in"`
	RequiresVerification bool        `json:"requires_verification"`
	Email                string      `json:"email"`
}

// Login authenticates a verified user and returns the issued token.
func (e *Env) Login(email, password string) LoginResult {
	e.T.Helper()

	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	w := e.Request(http.MethodPost, "/api/v1/auth/login", payload, "")
	require.Equal(e.T, http.StatusOK, w.Code, w.Body.String())

	resp := DecodeResponse(e.T, w)
	require.True(e.T, resp.Success, w.Body.String())

	var result LoginResult
	DecodeInto(e.T, resp.Data, &result)
	require.NotEmpty(e.T, result.Token)
	require.Greater(e.T, result.ExpiresIn, 0)
	require.Equal(e.T, email, result.User.Email)

	return result
}

// LoginAs creates a verified user and returns a bearer token for it.
func (e *Env) LoginAs(email string) (*models.User, string) {
	e.T.Helper()
	user := e.CreateVerifiedUser(email, "Secret123!")
	return user, e.Login(email, "Secret123!").Token
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// Request executes an HTTP request against the test router, applying JSON encoding and auth headers automatically.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	buf := bytes.NewBuffer(nil)
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// RequireError asserts the recorder holds an error envelope with the given status and code.
func RequireError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	resp := DecodeResponse(t, w)
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	require.Equal(t, code, resp.Error.Code)
}
