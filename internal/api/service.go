// Package api simulates the project-management backend. The dashboard
// has no real server; every operation here resolves in memory after a
// simulated network delay, and the toggle endpoint fails at random to
// exercise the store's rollback path.
package api

import (
	"context"
	"errors"

	"github.com/taskdeck/taskdeck/internal/model"
)

// Service is the data-access boundary the entity store talks to.
type Service interface {
	// ListProjects returns a snapshot copy of all projects.
	ListProjects(ctx context.Context) ([]model.Project, error)

	// SaveProject creates the project when its id is empty, otherwise
	// replaces the stored record with the same id. Returns the full
	// resulting record.
	SaveProject(ctx context.Context, p model.Project) (model.Project, error)

	// SaveTask assigns an id to the task when absent and returns the
	// result. The service does not merge the task into its own copy of
	// the parent project; the caller owns that reconciliation.
	SaveTask(ctx context.Context, projectID string, t model.Task) (model.Task, error)

	// ToggleTask flips a task's completion on the backend. Success or
	// failure is the entire signal; no payload comes back.
	ToggleTask(ctx context.Context, taskID string) error

	// Login authenticates and returns session credentials.
	Login(ctx context.Context, email, password string) (Credentials, error)
}

// Credentials is a successful login result
type Credentials struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

var (
	// ErrInvalidCredentials is returned by Login for a malformed email
	// or a password shorter than six characters.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrToggleUnavailable is the simulated flaky-network failure of
	// ToggleTask.
	ErrToggleUnavailable = errors.New("toggle failed")
)
