package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"go.uber.org/multierr"
)

func listPath(id string) string { return "/task-lists/" + url.PathEscape(id) }
func taskPath(id string) string { return "/tasks/" + url.PathEscape(id) }

// TaskLists returns the caller's lists, newest first, with live counts.
func (c *Client) TaskLists(ctx context.Context) ([]TaskList, error) {
	var out []TaskList
	if err := c.do(ctx, http.MethodGet, "/task-lists", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TaskList returns one list including its tasks.
func (c *Client) TaskList(ctx context.Context, id string) (*TaskList, error) {
	if err := requireValue("list id", id); err != nil {
		return nil, err
	}
	var out TaskList
	if err := c.do(ctx, http.MethodGet, listPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTaskList creates a list and its initial tasks in one all-or-nothing call.
func (c *Client) CreateTaskList(ctx context.Context, input TaskListInput) (*TaskList, error) {
	if err := requireValue("title", input.Title); err != nil {
		return nil, err
	}
	for i, task := range input.Tasks {
		if err := requireValue(fmt.Sprintf("tasks[%d].title", i), task.Title); err != nil {
			return nil, err
		}
	}
	var out TaskList
	if err := c.do(ctx, http.MethodPost, "/task-lists", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTaskList(ctx context.Context, id string, update TaskListUpdate) (*TaskList, error) {
	if err := requireValue("list id", id); err != nil {
		return nil, err
	}
	if update.Title != nil {
		if err := requireValue("title", *update.Title); err != nil {
			return nil, err
		}
	}
	var out TaskList
	if err := c.do(ctx, http.MethodPut, listPath(id), update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTaskList removes a list together with its tasks.
func (c *Client) DeleteTaskList(ctx context.Context, id string) error {
	if err := requireValue("list id", id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, listPath(id), nil, nil)
}

// Tasks returns the tasks of a list, oldest first.
func (c *Client) Tasks(ctx context.Context, listID string) ([]Task, error) {
	if err := requireValue("list id", listID); err != nil {
		return nil, err
	}
	var out []Task
	if err := c.do(ctx, http.MethodGet, listPath(listID)+"/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateTask(ctx context.Context, listID string, input TaskInput) (*Task, error) {
	if err := requireValue("list id", listID); err != nil {
		return nil, err
	}
	if err := requireValue("title", input.Title); err != nil {
		return nil, err
	}
	var out Task
	if err := c.do(ctx, http.MethodPost, listPath(listID)+"/tasks", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, update TaskUpdate) (*Task, error) {
	if err := requireValue("task id", id); err != nil {
		return nil, err
	}
	if update.Title != nil {
		if err := requireValue("title", *update.Title); err != nil {
			return nil, err
		}
	}
	var out Task
	if err := c.do(ctx, http.MethodPut, taskPath(id), update, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTask removes a task. Deleting it again yields NotFound.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if err := requireValue("task id", id); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

// SetAllStatus sets every task of the list to status in one server-side transaction
// and returns the number of tasks updated.
func (c *Client) SetAllStatus(ctx context.Context, listID, status string) (int64, error) {
	if err := requireValue("list id", listID); err != nil {
		return 0, err
	}
	if err := requireValue("status", status); err != nil {
		return 0, err
	}
	var out struct {
		Updated int64 `json:"updated"`
	}
	if err := c.do(ctx, http.MethodPut, listPath(listID)+"/tasks/status", map[string]string{"status": status}, &out); err != nil {
		return 0, err
	}
	return out.Updated, nil
}

// CompleteAll marks every task of the list completed with one concurrent update per task.
// It is best effort: tasks that succeeded stay completed when others fail, and all failures
// are returned combined.
func (c *Client) CompleteAll(ctx context.Context, listID string) ([]Task, error) {
	tasks, err := c.Tasks(ctx, listID)
	if err != nil {
		return nil, err
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs error
	)
	updated := make([]Task, len(tasks))
	status := StatusCompleted
	for i := range tasks {
		if tasks[i].Status == StatusCompleted {
			updated[i] = tasks[i]
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			task, err := c.UpdateTask(ctx, tasks[i].ID, TaskUpdate{Status: &status})
			if err != nil {
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("task %s: %w", tasks[i].ID, err))
				mu.Unlock()
				updated[i] = tasks[i]
				return
			}
			updated[i] = *task
		}(i)
	}
	wg.Wait()

	return updated, errs
}
