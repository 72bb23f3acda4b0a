package api

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck/internal/model"
)

// Default latencies per operation, matching the simulated network the
// dashboard was tuned against.
const (
	DefaultListDelay   = 500 * time.Millisecond
	DefaultSaveDelay   = 500 * time.Millisecond
	DefaultTaskDelay   = 400 * time.Millisecond
	DefaultToggleDelay = 500 * time.Millisecond
	DefaultLoginDelay  = 600 * time.Millisecond

	// DefaultToggleFailRate is the probability that ToggleTask rejects.
	DefaultToggleFailRate = 0.1
)

// Latency bundles the per-operation simulated delays
type Latency struct {
	List   time.Duration
	Save   time.Duration
	Task   time.Duration
	Toggle time.Duration
	Login  time.Duration
}

// DefaultLatency returns the standard delays
func DefaultLatency() Latency {
	return Latency{
		List:   DefaultListDelay,
		Save:   DefaultSaveDelay,
		Task:   DefaultTaskDelay,
		Toggle: DefaultToggleDelay,
		Login:  DefaultLoginDelay,
	}
}

// Mock is an in-memory Service. Each instance owns its own project
// collection; nothing is shared at package level, so tests construct a
// fresh one per case.
type Mock struct {
	mu       sync.Mutex
	projects []model.Project

	latency  Latency
	failRate float64
	rng      *rand.Rand
	newID    func() string
	now      func() time.Time
}

var _ Service = (*Mock)(nil)

// Option configures a Mock
type Option func(*Mock)

// WithLatency overrides the simulated delays
func WithLatency(l Latency) Option {
	return func(m *Mock) { m.latency = l }
}

// WithZeroLatency removes all simulated delays
func WithZeroLatency() Option {
	return func(m *Mock) { m.latency = Latency{} }
}

// WithToggleFailRate overrides the toggle failure probability
func WithToggleFailRate(rate float64) Option {
	return func(m *Mock) { m.failRate = rate }
}

// WithRand injects the random source used for toggle failures
func WithRand(rng *rand.Rand) Option {
	return func(m *Mock) { m.rng = rng }
}

// WithIDFunc injects the id generator used for new projects and tasks
func WithIDFunc(fn func() string) Option {
	return func(m *Mock) { m.newID = fn }
}

// WithClock injects the time source used for tokens and created-at stamps
func WithClock(now func() time.Time) Option {
	return func(m *Mock) { m.now = now }
}

// WithProjects replaces the seed data
func WithProjects(projects []model.Project) Option {
	return func(m *Mock) { m.projects = model.CloneProjects(projects) }
}

// NewMock creates a mock service seeded with the demo projects
func NewMock(opts ...Option) *Mock {
	m := &Mock{
		projects: seedProjects(),
		latency:  DefaultLatency(),
		failRate: DefaultToggleFailRate,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func seedProjects() []model.Project {
	return []model.Project{
		{
			ID:        "1",
			Name:      "Website Redesign",
			Owner:     "Alice",
			Status:    model.StatusActive,
			Progress:  70,
			CreatedAt: "2024-12-01",
		},
		{
			ID:        "2",
			Name:      "Mobile App",
			Owner:     "Bob",
			Status:    model.StatusCompleted,
			Progress:  100,
			CreatedAt: "2024-11-15",
		},
		{
			ID:        "3",
			Name:      "Admin Dashboard",
			Owner:     "Charlie",
			Status:    model.StatusPending,
			Progress:  20,
			CreatedAt: "2025-01-05",
		},
	}
}

// sleep waits for the simulated delay, or returns early when ctx is
// cancelled. The browser original had no cancellation; a dispatched
// operation always landed. Here every wait is context-aware so views
// that go away can abandon in-flight calls.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ListProjects returns a deep copy of the collection. Never fails.
func (m *Mock) ListProjects(ctx context.Context) ([]model.Project, error) {
	if err := sleep(ctx, m.latency.List); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.CloneProjects(m.projects), nil
}

// SaveProject upserts a project. With an id it replaces the matching
// record in place; without one it assigns a fresh id and an empty task
// list and appends. Never fails.
func (m *Mock) SaveProject(ctx context.Context, p model.Project) (model.Project, error) {
	if err := sleep(ctx, m.latency.Save); err != nil {
		return model.Project{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID != "" {
		for i := range m.projects {
			if m.projects[i].ID == p.ID {
				m.projects[i] = p.Clone()
				return p.Clone(), nil
			}
		}
		// Unknown id: the original silently dropped the edit from its
		// collection but still resolved with the payload. Keep that.
		return p.Clone(), nil
	}

	p.ID = m.newID()
	p.Tasks = []model.Task{}
	if p.CreatedAt == "" {
		p.CreatedAt = m.now().Format("2006-01-02")
	}
	m.projects = append(m.projects, p.Clone())
	return p.Clone(), nil
}

// SaveTask assigns an id when absent and returns the task. The parent
// project is deliberately not mutated here: the service is not
// authoritative for tasks, the store merges the result into its own
// state. Never fails.
func (m *Mock) SaveTask(ctx context.Context, projectID string, t model.Task) (model.Task, error) {
	_ = projectID
	if err := sleep(ctx, m.latency.Task); err != nil {
		return model.Task{}, err
	}
	if t.ID == "" {
		t.ID = m.newID()
	}
	return t, nil
}

// ToggleTask succeeds with probability 1-failRate, otherwise returns
// ErrToggleUnavailable. There is no payload either way.
func (m *Mock) ToggleTask(ctx context.Context, taskID string) error {
	_ = taskID
	if err := sleep(ctx, m.latency.Toggle); err != nil {
		return err
	}
	m.mu.Lock()
	failed := m.rng.Float64() < m.failRate
	m.mu.Unlock()
	if failed {
		return ErrToggleUnavailable
	}
	return nil
}

// Login accepts any email containing "@" with a password of at least
// six characters and returns a time-based token.
func (m *Mock) Login(ctx context.Context, email, password string) (Credentials, error) {
	if err := sleep(ctx, m.latency.Login); err != nil {
		return Credentials{}, err
	}
	if !strings.Contains(email, "@") || len(password) < 6 {
		return Credentials{}, ErrInvalidCredentials
	}
	return Credentials{
		Email: email,
		Token: strconv.FormatInt(m.now().UnixMilli(), 10),
	}, nil
}
