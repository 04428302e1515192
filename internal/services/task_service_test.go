package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lironatar/TasksList/internal/models"
	apperrors "github.com/lironatar/TasksList/pkg/errors"
)

func newOwnedList(t *testing.T, svcs *testServices, email string) (*models.User, *TaskListSummary) {
	t.Helper()
	owner := seedVerifiedUser(t, svcs.db, email)
	list, err := svcs.lists.Create(context.Background(), owner.ID, CreateTaskListInput{Title: "List of " + email})
	require.NoError(t, err)
	return owner, list
}

func TestCreateTaskDefaults(t *testing.T) {
	svcs := newTestServices(t)
	owner, list := newOwnedList(t, svcs, "owner@example.com")

	task, err := svcs.tasks.Create(context.Background(), owner.ID, list.ID, CreateTaskInput{Title: " Water plants "})
	require.NoError(t, err)
	require.Equal(t, "Water plants", task.Title)
	require.Equal(t, models.TaskPriorityMedium, task.Priority)
	require.Equal(t, models.TaskStatusPending, task.Status)
	require.Nil(t, task.DueDate)
	require.Equal(t, list.ID, task.ListID)
}

func TestCreateTaskValidation(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()
	owner, list := newOwnedList(t, svcs, "owner@example.com")

	cases := []struct {
		name  string
		input CreateTaskInput
	}{
		{"missing title", CreateTaskInput{Title: " "}},
		{"unknown priority", CreateTaskInput{Title: "x", Priority: "urgent"}},
		{"unknown status", CreateTaskInput{Title: "x", Status: "done"}},
		{"bad due date", CreateTaskInput{Title: "x", DueDate: "next week"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svcs.tasks.Create(ctx, owner.ID, list.ID, tc.input)
			require.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestCreateTaskInForeignListIsNotFound(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()
	_, list := newOwnedList(t, svcs, "owner@example.com")
	intruder := seedVerifiedUser(t, svcs.db, "intruder@example.com")

	_, err := svcs.tasks.Create(ctx, intruder.ID, list.ID, CreateTaskInput{Title: "sneaky"})
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svcs.tasks.Create(ctx, intruder.ID, "missing", CreateTaskInput{Title: "sneaky"})
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svcs.tasks.List(ctx, intruder.ID, list.ID)
	require.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestListTasksInCreationOrder(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()
	owner, list := newOwnedList(t, svcs, "owner@example.com")

	for _, title := range []string{"one", "two", "three"} {
		_, err := svcs.tasks.Create(ctx, owner.ID, list.ID, CreateTaskInput{Title: title})
		require.NoError(t, err)
	}

	tasks, err := svcs.tasks.List(ctx, owner.ID, list.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	require.Equal(t, "one", tasks[0].Title)
	require.Equal(t, "three", tasks[2].Title)
}

func TestTasksAddedRightAfterInitialBatchKeepOrder(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()
	owner := seedVerifiedUser(t, svcs.db, "owner@example.com")

	lists, err := NewTaskListService(svcs.db, nil)
	require.NoError(t, err)
	tasks, err := NewTaskService(svcs.db, nil)
	require.NoError(t, err)

	initial := []CreateTaskInput{{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"}, {Title: "e"}}
	list, err := lists.Create(ctx, owner.ID, CreateTaskListInput{Title: "Letters", Tasks: initial})
	require.NoError(t, err)

	added, err := tasks.Create(ctx, owner.ID, list.ID, CreateTaskInput{Title: "f"})
	require.NoError(t, err)
	require.EqualValues(t, 6, added.Position)

	got, err := tasks.List(ctx, owner.ID, list.ID)
	require.NoError(t, err)
	titles := make([]string, len(got))
	for i, task := range got {
		titles[i] = task.Title
	}
	require.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, titles)
}

func TestUpdateTaskIsSparse(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()
	owner, list := newOwnedList(t, svcs, "owner@example.com")

	task, err := svcs.tasks.Create(ctx, owner.ID, list.ID, CreateTaskInput{
		Title:       "Report",
		Description: "Q3",
		Priority:    "low",
		DueDate:     "2025-03-01",
	})
	require.NoError(t, err)
	require.NotNil(t, task.DueDate)

	status := "in_progress"
	updated, err := svcs.tasks.Update(ctx, owner.ID, task.ID, UpdateTaskInput{Status: &status})
	require.NoError(t, err)
	require.Equal(t, models.TaskStatusInProgress, updated.Status)
	require.Equal(t, "Report", updated.Title)
	require.Equal(t, "Q3", updated.Description)
	require.Equal(t, models.TaskPriorityLow, updated.Priority)
	require.NotNil(t, updated.DueDate)
	require.Equal(t, "2025-03-01", time.Time(*updated.DueDate).Format(time.DateOnly))

	noDate := ""
	updated, err = svcs.tasks.Update(ctx, owner.ID, task.ID, UpdateTaskInput{DueDate: &noDate})
	require.NoError(t, err)
	require.Nil(t, updated.DueDate)

	bad := "urgent"
	_, err = svcs.tasks.Update(ctx, owner.ID, task.ID, UpdateTaskInput{Priority: &bad})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	unchanged, err := svcs.tasks.Update(ctx, owner.ID, task.ID, UpdateTaskInput{})
	require.NoError(t, err)
	require.Equal(t, task.ID, unchanged.ID)
}

func TestForeignTaskIsNotFound(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()
	owner, list := newOwnedList(t, svcs, "owner@example.com")
	intruder := seedVerifiedUser(t, svcs.db, "intruder@example.com")

	task, err := svcs.tasks.Create(ctx, owner.ID, list.ID, CreateTaskInput{Title: "mine"})
	require.NoError(t, err)

	title := "theirs"
	_, err = svcs.tasks.Update(ctx, intruder.ID, task.ID, UpdateTaskInput{Title: &title})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.ErrorIs(t, svcs.tasks.Delete(ctx, intruder.ID, task.ID), apperrors.ErrNotFound)

	got, err := svcs.tasks.Get(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	require.Equal(t, "mine", got.Title)
}

func TestDeleteTaskTwiceIsNotFound(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()
	owner, list := newOwnedList(t, svcs, "owner@example.com")

	task, err := svcs.tasks.Create(ctx, owner.ID, list.ID, CreateTaskInput{Title: "once"})
	require.NoError(t, err)

	require.NoError(t, svcs.tasks.Delete(ctx, owner.ID, task.ID))
	require.ErrorIs(t, svcs.tasks.Delete(ctx, owner.ID, task.ID), apperrors.ErrNotFound)
}
