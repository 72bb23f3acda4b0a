// Package store is the single source of truth for authentication and
// project state. Every mutation flows through a declared operation that
// wraps a service call with request lifecycle tracking; views render
// from Snapshot copies and never touch state directly.
package store

import (
	"errors"
	"sync"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/localstore"
	"github.com/taskdeck/taskdeck/internal/model"
)

var (
	// ErrProjectNotFound is returned when an operation names a project
	// the store does not hold.
	ErrProjectNotFound = errors.New("project not found")

	// ErrTaskNotFound is returned when an operation names a task absent
	// from its project's task list.
	ErrTaskNotFound = errors.New("task not found")

	// ErrStaleFetch marks a fetch whose result was discarded because a
	// newer fetch already resolved.
	ErrStaleFetch = errors.New("stale fetch discarded")
)

// StatusFilter narrows the project list by status
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterActive    StatusFilter = StatusFilter(model.StatusActive)
	FilterCompleted StatusFilter = StatusFilter(model.StatusCompleted)
	FilterPending   StatusFilter = StatusFilter(model.StatusPending)
)

// AuthState is the authentication slice of store state
type AuthState struct {
	IsAuthenticated bool
	Email           string
	Loading         bool
	Error           string
}

// ProjectsState is the projects slice of store state. Loading is a
// single flag for the whole category: overlapping operations of the
// same kind share it, and it drops when any one of them terminates.
// The UI dispatches single-flight, so the simplification holds.
type ProjectsState struct {
	List         []model.Project
	Loading      bool
	Error        string
	Search       string
	StatusFilter StatusFilter
}

// Snapshot is a point-in-time copy of all store state
type Snapshot struct {
	Auth     AuthState
	Projects ProjectsState
}

// Storage is the durable key-value store the session persists to
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Clear() error
}

var _ Storage = (*localstore.Store)(nil)

// EventKind classifies store events
type EventKind int

const (
	// EventToggleApplied fires when a toggle's optimistic flip lands,
	// before the service call resolves, so the view can re-render the
	// pending state right away.
	EventToggleApplied EventKind = iota

	// EventToggleRollback fires after a failed toggle is rolled back,
	// so the view can show a notice instead of inferring the failure
	// from state flipping back.
	EventToggleRollback
)

// Event is an out-of-band notification from the store to the view
type Event struct {
	Kind      EventKind
	ProjectID string
	TaskID    string
	Err       error
}

// Store owns auth and project state and mediates every mutation
// through the data service.
type Store struct {
	mu      sync.Mutex
	svc     api.Service
	storage Storage

	auth     AuthState
	projects ProjectsState

	// Monotonic sequencing for overlapping fetches: a resolution is
	// applied only if nothing newer has been applied already.
	fetchSeq     uint64
	fetchApplied uint64

	events chan Event
}

// New creates a store backed by the given service. storage may be nil,
// in which case the session is not persisted. An existing session in
// storage seeds the auth state.
func New(svc api.Service, storage Storage) *Store {
	s := &Store{
		svc:     svc,
		storage: storage,
		projects: ProjectsState{
			StatusFilter: FilterAll,
		},
		events: make(chan Event, 8),
	}

	if storage != nil {
		if token, err := storage.Get(localstore.KeyToken); err == nil && token != "" {
			s.auth.IsAuthenticated = true
			if email, err := storage.Get(localstore.KeyEmail); err == nil {
				s.auth.Email = email
			}
		}
	}

	return s
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Auth:     s.auth,
		Projects: s.projects,
	}
	snap.Projects.List = model.CloneProjects(s.projects.List)
	return snap
}

// Events returns the store's notification channel. The channel is
// buffered and sends never block; if nobody is listening, events are
// dropped.
func (s *Store) Events() <-chan Event {
	return s.events
}

func (s *Store) emit(e Event) {
	select {
	case s.events <- e:
	default:
	}
}

// SetSearch replaces the search text. Synchronous, no service call.
func (s *Store) SetSearch(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects.Search = text
}

// SetStatusFilter replaces the status filter. Synchronous, no service call.
func (s *Store) SetStatusFilter(f StatusFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects.StatusFilter = f
}

func (s *Store) findProject(projectID string) int {
	for i := range s.projects.List {
		if s.projects.List[i].ID == projectID {
			return i
		}
	}
	return -1
}
