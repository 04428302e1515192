package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/lironatar/TasksList/internal/handlers/testutil"
	"github.com/lironatar/TasksList/pkg/client"
	appErrors "github.com/lironatar/TasksList/pkg/errors"
)

func newServer(t *testing.T) (*testutil.Env, *httptest.Server) {
	t.Helper()
	env := testutil.NewEnv(t)
	srv := httptest.NewServer(env.Router)
	t.Cleanup(srv.Close)
	return env, srv
}

func newClient(t *testing.T, baseURL string, opts ...client.Option) *client.Client {
	t.Helper()
	c, err := client.New(baseURL, opts...)
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "   ", "not a url", "/relative"} {
		_, err := client.New(raw)
		require.ErrorIs(t, err, appErrors.ErrValidation, raw)
	}
}

func TestRegisterVerifyLoginLogout(t *testing.T) {
	env, srv := newServer(t)
	c := newClient(t, srv.URL)
	ctx := context.Background()

	reg, err := c.Register(ctx, client.RegisterInput{Email: "dana@example.com", Password: "Secret123!", Name: "Dana"})
	require.NoError(t, err)
	require.True(t, reg.RequiresVerification)
	require.False(t, reg.User.IsVerified)

	res, err := c.Login(ctx, "dana@example.com", "Secret123!")
	require.NoError(t, err)
	require.True(t, res.RequiresVerification)
	require.Equal(t, "dana@example.com", res.Email)
	require.False(t, c.Session().Authenticated())

	code := env.Mailer.LastCode("dana@example.com")
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	require.ErrorIs(t, c.Verify(ctx, "dana@example.com", wrong), appErrors.ErrInvalidCode)
	require.NoError(t, c.Verify(ctx, "dana@example.com", code))

	res, err = c.Login(ctx, "dana@example.com", "Secret123!")
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, "Bearer", res.TokenType)
	require.True(t, c.Session().Authenticated())
	require.Equal(t, "Dana", c.Session().User().Name)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "dana@example.com", me.Email)
	require.True(t, me.IsVerified)

	require.NoError(t, c.Logout(ctx))
	require.False(t, c.Session().Authenticated())

	me, err = c.Me(ctx)
	require.NoError(t, err)
	require.Nil(t, me)
}

func TestMeReturnsNilForRevokedToken(t *testing.T) {
	env, srv := newServer(t)
	_, token := env.LoginAs("erin@example.com")

	c := newClient(t, srv.URL, client.WithSession(client.NewSession(token, nil)))
	other := newClient(t, srv.URL, client.WithSession(client.NewSession(token, nil)))
	require.NoError(t, other.Logout(context.Background()))

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	require.Nil(t, me)
	require.False(t, c.Session().Authenticated())
}

func TestValidationHappensBeforeNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(srv.Close)
	c := newClient(t, srv.URL)
	ctx := context.Background()

	_, err := c.Login(ctx, "", "pw")
	require.ErrorIs(t, err, appErrors.ErrValidation)
	_, err = c.CreateTaskList(ctx, client.TaskListInput{Title: "Trip", Tasks: []client.TaskInput{{Title: "ok"}, {Title: " "}}})
	require.ErrorIs(t, err, appErrors.ErrValidation)
	require.Contains(t, err.Error(), "tasks[1]")
	_, err = c.UpdateTask(ctx, "t1", client.TaskUpdate{Title: client.String("")})
	require.ErrorIs(t, err, appErrors.ErrValidation)
	require.ErrorIs(t, c.DeleteTask(ctx, ""), appErrors.ErrValidation)

	require.Zero(t, hits.Load())
}

func TestTransportErrors(t *testing.T) {
	t.Run("non envelope body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
		}))
		t.Cleanup(srv.Close)

		_, err := newClient(t, srv.URL).ProfileIcons(context.Background())
		var transportErr *client.TransportError
		require.ErrorAs(t, err, &transportErr)
		require.Equal(t, http.StatusBadGateway, transportErr.StatusCode)
		require.False(t, errors.Is(err, appErrors.ErrInternalServer))
	})

	t.Run("unknown error code", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte(`{"success":false,"error":{"code":"TEAPOT","message":"short and stout"}}`))
		}))
		t.Cleanup(srv.Close)

		_, err := newClient(t, srv.URL).ProfileIcons(context.Background())
		var transportErr *client.TransportError
		require.ErrorAs(t, err, &transportErr)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, err := newClient(t, url).ProfileIcons(context.Background())
		var transportErr *client.TransportError
		require.ErrorAs(t, err, &transportErr)
		require.Zero(t, transportErr.StatusCode)
	})
}

func TestLogoutClearsSessionWhenServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	session := client.NewSession("stale-token", nil)
	c := newClient(t, url, client.WithSession(session))

	require.NoError(t, c.Logout(context.Background()))
	require.False(t, session.Authenticated())
}

func TestSendCodeThrottle(t *testing.T) {
	env, srv := newServer(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newClient(t, srv.URL, client.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	_, err := c.Register(ctx, client.RegisterInput{Email: "finn@example.com", Password: "Secret123!", Name: "Finn"})
	require.NoError(t, err)
	require.Equal(t, 1, env.Mailer.Count())

	require.ErrorIs(t, c.SendCode(ctx, "FINN@example.com"), client.ErrResendThrottled)
	require.ErrorIs(t, c.Verify(ctx, "finn@example.com", ""), client.ErrResendThrottled)
	require.Equal(t, 2*time.Minute, c.ResendAvailableIn("finn@example.com"))

	now = now.Add(2 * time.Minute)
	require.NoError(t, c.SendCode(ctx, "finn@example.com"))
	require.Equal(t, 2, env.Mailer.Count())

	unthrottled := newClient(t, srv.URL, client.WithResendCooldown(0))
	require.NoError(t, unthrottled.SendCode(ctx, "finn@example.com"))
	require.NoError(t, unthrottled.SendCode(ctx, "finn@example.com"))
}

func TestTaskListLifecycle(t *testing.T) {
	env, srv := newServer(t)
	_, token := env.LoginAs("gil@example.com")
	c := newClient(t, srv.URL, client.WithSession(client.NewSession(token, nil)))
	ctx := context.Background()

	list, err := c.CreateTaskList(ctx, client.TaskListInput{
		Title: "Groceries",
		Tasks: []client.TaskInput{{Title: "Milk"}, {Title: "Bread", Priority: client.PriorityHigh, DueDate: "2025-03-02"}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, list.TaskCount)
	require.Len(t, list.Tasks, 2)

	eggs, err := c.CreateTask(ctx, list.ID, client.TaskInput{Title: "Eggs"})
	require.NoError(t, err)
	require.Equal(t, client.StatusPending, eggs.Status)
	require.Equal(t, client.PriorityMedium, eggs.Priority)
	require.Nil(t, eggs.DueDate)

	bread := list.Tasks[1]
	require.NotNil(t, bread.DueDate)
	updated, err := c.UpdateTask(ctx, bread.ID, client.TaskUpdate{DueDate: client.String("")})
	require.NoError(t, err)
	require.Nil(t, updated.DueDate)
	require.Equal(t, "Bread", updated.Title)

	tasks, err := c.Tasks(ctx, list.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"Milk", "Bread", "Eggs"}, []string{tasks[0].Title, tasks[1].Title, tasks[2].Title})

	completed, err := c.CompleteAll(ctx, list.ID)
	require.NoError(t, err)
	for _, task := range completed {
		require.Equal(t, client.StatusCompleted, task.Status)
	}

	n, err := c.SetAllStatus(ctx, list.ID, client.StatusPending)
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	got, err := c.TaskList(ctx, list.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, got.TaskCount)
	require.Zero(t, got.CompletedCount)
	require.Len(t, got.Tasks, 3)
	require.Equal(t, "Eggs", got.Tasks[2].Title)

	renamed, err := c.UpdateTaskList(ctx, list.ID, client.TaskListUpdate{Title: client.String("Weekly groceries")})
	require.NoError(t, err)
	require.Equal(t, "Weekly groceries", renamed.Title)

	require.NoError(t, c.DeleteTask(ctx, eggs.ID))
	require.ErrorIs(t, c.DeleteTask(ctx, eggs.ID), appErrors.ErrNotFound)

	require.NoError(t, c.DeleteTaskList(ctx, list.ID))
	lists, err := c.TaskLists(ctx)
	require.NoError(t, err)
	require.Empty(t, lists)
}

func TestOwnershipErrorsAreNormalised(t *testing.T) {
	env, srv := newServer(t)
	_, ownerToken := env.LoginAs("hana@example.com")
	_, otherToken := env.LoginAs("ido@example.com")
	owner := newClient(t, srv.URL, client.WithSession(client.NewSession(ownerToken, nil)))
	other := newClient(t, srv.URL, client.WithSession(client.NewSession(otherToken, nil)))
	ctx := context.Background()

	list, err := owner.CreateTaskList(ctx, client.TaskListInput{Title: "Private"})
	require.NoError(t, err)

	_, err = other.TaskList(ctx, list.ID)
	require.ErrorIs(t, err, appErrors.ErrForbidden)
	_, err = other.CreateTask(ctx, list.ID, client.TaskInput{Title: "Sneaky"})
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	_, err = other.TaskList(ctx, "missing")
	require.ErrorIs(t, err, appErrors.ErrNotFound)

	anonymous := newClient(t, srv.URL)
	_, err = anonymous.TaskLists(ctx)
	require.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestCompleteAllAggregatesFailures(t *testing.T) {
	var updates atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`{"success":true,"data":[` +
				`{"id":"a","title":"A","status":"pending"},` +
				`{"id":"b","title":"B","status":"pending"},` +
				`{"id":"c","title":"C","status":"completed"}]}`))
		case r.URL.Path == "/api/v1/tasks/b":
			updates.Add(1)
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"success":false,"error":{"code":"NOT_FOUND","message":"task not found"}}`))
		default:
			updates.Add(1)
			_, _ = w.Write([]byte(`{"success":true,"data":{"id":"a","title":"A","status":"completed"}}`))
		}
	}))
	t.Cleanup(srv.Close)

	c := newClient(t, srv.URL, client.WithSession(client.NewSession("token", nil)))
	tasks, err := c.CompleteAll(context.Background(), "list")
	require.Error(t, err)
	require.ErrorIs(t, err, appErrors.ErrNotFound)
	require.Len(t, multierr.Errors(err), 1)
	require.EqualValues(t, 2, updates.Load())

	require.Equal(t, client.StatusCompleted, tasks[0].Status)
	require.Equal(t, client.StatusPending, tasks[1].Status)
	require.Equal(t, client.StatusCompleted, tasks[2].Status)
}

func TestProfileIconsAndUpdate(t *testing.T) {
	env, srv := newServer(t)
	user, token := env.LoginAs("jo@example.com")
	c := newClient(t, srv.URL, client.WithSession(client.NewSession(token, &client.User{ID: user.ID, Email: user.Email})))
	ctx := context.Background()

	icons, err := c.ProfileIcons(ctx)
	require.NoError(t, err)
	require.Equal(t, testutil.TestIcons, icons)

	icon, err := c.UpdateProfileIcon(ctx, icons[1])
	require.NoError(t, err)
	require.Equal(t, icons[1], icon)
	require.Equal(t, icons[1], c.Session().User().ProfileIcon)

	profile, err := c.UpdateProfile(ctx, client.ProfileUpdate{FirstName: client.String("Jo")})
	require.NoError(t, err)
	require.Equal(t, "Jo", profile.FirstName)
}
