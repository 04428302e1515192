package services

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lironatar/TasksList/internal/auth"
	"github.com/lironatar/TasksList/internal/cache"
	"github.com/lironatar/TasksList/internal/database/testutil"
	"github.com/lironatar/TasksList/internal/models"
	"github.com/lironatar/TasksList/pkg/crypto"
	"github.com/lironatar/TasksList/pkg/mail"
)

var codePattern = regexp.MustCompile(`\d{6}`)

type captureMailer struct {
	mu       sync.Mutex
	messages []mail.Message
	err      error
}

func (m *captureMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return m.err
}

func (m *captureMailer) lastCode(t *testing.T, email string) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.messages) - 1; i >= 0; i-- {
		msg := m.messages[i]
		if len(msg.To) == 1 && msg.To[0] == email {
			code := codePattern.FindString(msg.Body)
			require.NotEmpty(t, code, "no code in message body")
			return code
		}
	}
	t.Fatalf("no verification mail sent to %s", email)
	return ""
}

// steppingClock advances by one second on every read so creation order is observable.
type steppingClock struct {
	mu      sync.Mutex
	current time.Time
}

func newSteppingClock() *steppingClock {
	return &steppingClock{current: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(time.Second)
	return c.current
}

type testServices struct {
	db           *gorm.DB
	mailer       *captureMailer
	clock        *steppingClock
	jwt          *auth.JWTService
	verification *VerificationService
	auth         *AuthService
	lists        *TaskListService
	tasks        *TaskService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	mailer := &captureMailer{}
	clock := newSteppingClock()

	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", Issuer: "taskslist-test", AccessTokenTTL: time.Hour})
	require.NoError(t, err)

	verification, err := NewVerificationService(db, mailer)
	require.NoError(t, err)

	authSvc, err := NewAuthService(db, jwtSvc, verification,
		WithTokenRevoker(auth.NewTokenRevoker(cache.NewDatabaseStore(db))),
		WithProfileIcons([]string{"icon-a", "icon-b"}),
	)
	require.NoError(t, err)

	lists, err := NewTaskListService(db, clock.Now)
	require.NoError(t, err)
	tasks, err := NewTaskService(db, clock.Now)
	require.NoError(t, err)

	return &testServices{
		db:           db,
		mailer:       mailer,
		clock:        clock,
		jwt:          jwtSvc,
		verification: verification,
		auth:         authSvc,
		lists:        lists,
		tasks:        tasks,
	}
}

// seedVerifiedUser inserts a verified account directly.
func seedVerifiedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := crypto.HashPassword("secret123")
	require.NoError(t, err)

	user := &models.User{
		Email:      email,
		Password:   hash,
		Name:       email,
		IsVerified: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func authInput(userID string) auth.AccessTokenInput {
	return auth.AccessTokenInput{UserID: userID}
}
