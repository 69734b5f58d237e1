package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListTasks retrieves tasks, optionally filtered by pillar category.
// The backend treats the literal category "All" the same as no filter.
func (c *Client) ListTasks(ctx context.Context, category string) ([]Task, error) {
	var query url.Values
	if category != "" {
		query = url.Values{"category": {category}}
	}
	var tasks []Task
	if err := c.do(ctx, http.MethodGet, c.endpoint("/tasks", query), nil, "", &tasks); err != nil {
		return nil, wrapOp(err, "ListTasks")
	}
	return tasks, nil
}

// CreateTask creates a task via POST /tasks.
func (c *Client) CreateTask(ctx context.Context, t TaskCreate) (*Task, error) {
	var out Task
	if err := c.doJSON(ctx, http.MethodPost, c.endpoint("/tasks", nil), t, &out); err != nil {
		return nil, wrapOp(err, "CreateTask")
	}
	return &out, nil
}

// UpdateTask replaces a task's fields via PUT /tasks/{id}.
func (c *Client) UpdateTask(ctx context.Context, id int, t TaskCreate) (*Task, error) {
	var out Task
	path := fmt.Sprintf("/tasks/%d", id)
	if err := c.doJSON(ctx, http.MethodPut, c.endpoint(path, nil), t, &out); err != nil {
		return nil, wrapOp(err, "UpdateTask")
	}
	return &out, nil
}

// UpdateTaskStatus patches only the status. The backend takes the new
// status as a query parameter, not a body.
func (c *Client) UpdateTaskStatus(ctx context.Context, id int, status string) error {
	path := fmt.Sprintf("/tasks/%d/status", id)
	query := url.Values{"status": {status}}
	return wrapOp(c.do(ctx, http.MethodPatch, c.endpoint(path, query), nil, "", nil), "UpdateTaskStatus")
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id int) error {
	path := fmt.Sprintf("/tasks/%d", id)
	return wrapOp(c.do(ctx, http.MethodDelete, c.endpoint(path, nil), nil, "", nil), "DeleteTask")
}
