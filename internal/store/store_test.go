package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/api"
	"github.com/taskdeck/taskdeck/internal/localstore"
	"github.com/taskdeck/taskdeck/internal/model"
)

// memStorage is an in-memory Storage for tests
type memStorage struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{data: map[string]string{}}
}

func (m *memStorage) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", localstore.ErrNotFound
	}
	return v, nil
}

func (m *memStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = map[string]string{}
	return nil
}

func (m *memStorage) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// fakeService is a scriptable api.Service for ordering and failure tests
type fakeService struct {
	listFn   func(ctx context.Context) ([]model.Project, error)
	saveFn   func(ctx context.Context, p model.Project) (model.Project, error)
	taskFn   func(ctx context.Context, projectID string, t model.Task) (model.Task, error)
	toggleFn func(ctx context.Context, taskID string) error
	loginFn  func(ctx context.Context, email, password string) (api.Credentials, error)
}

func (f *fakeService) ListProjects(ctx context.Context) ([]model.Project, error) {
	return f.listFn(ctx)
}

func (f *fakeService) SaveProject(ctx context.Context, p model.Project) (model.Project, error) {
	return f.saveFn(ctx, p)
}

func (f *fakeService) SaveTask(ctx context.Context, projectID string, t model.Task) (model.Task, error) {
	return f.taskFn(ctx, projectID, t)
}

func (f *fakeService) ToggleTask(ctx context.Context, taskID string) error {
	return f.toggleFn(ctx, taskID)
}

func (f *fakeService) Login(ctx context.Context, email, password string) (api.Credentials, error) {
	return f.loginFn(ctx, email, password)
}

func newTestMock(opts ...api.Option) *api.Mock {
	base := []api.Option{api.WithZeroLatency(), api.WithToggleFailRate(0)}
	return api.NewMock(append(base, opts...)...)
}

func seededStore(t *testing.T, opts ...api.Option) *Store {
	t.Helper()
	s := New(newTestMock(opts...), newMemStorage())
	require.NoError(t, s.FetchProjects(context.Background()))
	return s
}

func TestLoginSuccess(t *testing.T) {
	storage := newMemStorage()
	s := New(newTestMock(), storage)

	err := s.Login(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.True(t, snap.Auth.IsAuthenticated)
	assert.Equal(t, "a@b.com", snap.Auth.Email)
	assert.False(t, snap.Auth.Loading)
	assert.Empty(t, snap.Auth.Error)

	token, err := storage.Get(localstore.KeyToken)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	email, err := storage.Get(localstore.KeyEmail)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", email)
}

func TestLoginInvalidCredentials(t *testing.T) {
	storage := newMemStorage()
	s := New(newTestMock(), storage)

	err := s.Login(context.Background(), "bad", "x")
	require.ErrorIs(t, err, api.ErrInvalidCredentials)

	snap := s.Snapshot()
	assert.False(t, snap.Auth.IsAuthenticated)
	assert.False(t, snap.Auth.Loading)
	assert.Equal(t, "invalid credentials", snap.Auth.Error)
	assert.Zero(t, storage.len(), "failed login must not persist anything")
}

func TestLoginClearsPreviousError(t *testing.T) {
	s := New(newTestMock(), newMemStorage())

	require.Error(t, s.Login(context.Background(), "bad", "x"))
	require.NoError(t, s.Login(context.Background(), "a@b.com", "secret1"))

	assert.Empty(t, s.Snapshot().Auth.Error)
}

func TestSessionSeededFromStorage(t *testing.T) {
	storage := newMemStorage()
	require.NoError(t, storage.Set(localstore.KeyToken, "tok"))
	require.NoError(t, storage.Set(localstore.KeyEmail, "a@b.com"))

	s := New(newTestMock(), storage)
	snap := s.Snapshot()
	assert.True(t, snap.Auth.IsAuthenticated)
	assert.Equal(t, "a@b.com", snap.Auth.Email)
}

func TestLogoutClearsSessionAndStorage(t *testing.T) {
	storage := newMemStorage()
	s := New(newTestMock(), storage)
	require.NoError(t, s.Login(context.Background(), "a@b.com", "secret1"))
	require.NoError(t, storage.Set(localstore.KeySettings, "{}"))

	s.Logout()

	snap := s.Snapshot()
	assert.False(t, snap.Auth.IsAuthenticated)
	assert.Empty(t, snap.Auth.Email)
	assert.Zero(t, storage.len(), "logout clears every key, not just the session")
}

func TestFetchProjects(t *testing.T) {
	s := New(newTestMock(), nil)

	require.NoError(t, s.FetchProjects(context.Background()))

	snap := s.Snapshot()
	require.Len(t, snap.Projects.List, 3)
	assert.Equal(t, "1", snap.Projects.List[0].ID)
	assert.Equal(t, "2", snap.Projects.List[1].ID)
	assert.Equal(t, "3", snap.Projects.List[2].ID)
	assert.False(t, snap.Projects.Loading)
	assert.Empty(t, snap.Projects.Error)
}

func TestFetchProjectsIdempotent(t *testing.T) {
	s := New(newTestMock(), nil)

	require.NoError(t, s.FetchProjects(context.Background()))
	first := s.Snapshot().Projects.List

	require.NoError(t, s.FetchProjects(context.Background()))
	second := s.Snapshot().Projects.List

	assert.Equal(t, first, second, "fetch with no interleaved mutations must be stable")
}

func TestFetchProjectsError(t *testing.T) {
	svc := &fakeService{
		listFn: func(ctx context.Context) ([]model.Project, error) {
			return nil, errors.New("boom")
		},
	}
	s := New(svc, nil)

	require.Error(t, s.FetchProjects(context.Background()))

	snap := s.Snapshot()
	assert.Equal(t, FetchProjectsError, snap.Projects.Error)
	assert.False(t, snap.Projects.Loading)
}

func TestFetchProjectsStaleResolutionDiscarded(t *testing.T) {
	// The first fetch is held open until after the second one has
	// resolved; its late resolution must not clobber the newer list.
	release := make(chan struct{})
	calls := 0
	var mu sync.Mutex
	svc := &fakeService{
		listFn: func(ctx context.Context) ([]model.Project, error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			if n == 1 {
				<-release
				return []model.Project{{ID: "old"}}, nil
			}
			return []model.Project{{ID: "new"}}, nil
		},
	}
	s := New(svc, nil)

	done := make(chan error, 1)
	go func() {
		done <- s.FetchProjects(context.Background())
	}()

	// Second fetch dispatches after the first and resolves immediately.
	// Its listFn call may race with the goroutine's, so wait until the
	// slow call is registered.
	for {
		mu.Lock()
		n := calls
		mu.Unlock()
		if n >= 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	require.NoError(t, s.FetchProjects(context.Background()))
	require.Equal(t, "new", s.Snapshot().Projects.List[0].ID)

	close(release)
	err := <-done
	require.ErrorIs(t, err, ErrStaleFetch)
	assert.Equal(t, "new", s.Snapshot().Projects.List[0].ID,
		"late resolution of the older fetch must be discarded")
}

func TestSaveProjectCreateAppends(t *testing.T) {
	s := seededStore(t)
	before := s.Snapshot().Projects.List

	saved, err := s.SaveProject(context.Background(), model.Project{
		Name:   "X",
		Owner:  "Y",
		Status: model.StatusActive,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	for _, p := range before {
		assert.NotEqual(t, p.ID, saved.ID, "new id must be fresh")
	}
	require.NotNil(t, saved.Tasks)
	assert.Empty(t, saved.Tasks)

	after := s.Snapshot().Projects.List
	require.Len(t, after, len(before)+1)
	assert.Equal(t, saved.ID, after[len(after)-1].ID, "create appends at the end")
}

func TestSaveProjectEditReplacesInPlace(t *testing.T) {
	s := seededStore(t)

	edited := s.Snapshot().Projects.List[1]
	edited.Name = "Mobile App v2"
	edited.Progress = 80

	saved, err := s.SaveProject(context.Background(), edited)
	require.NoError(t, err)
	assert.Equal(t, "2", saved.ID)

	after := s.Snapshot().Projects.List
	require.Len(t, after, 3)
	assert.Equal(t, "Mobile App v2", after[1].Name, "edit keeps list position")
	assert.Equal(t, "1", after[0].ID)
	assert.Equal(t, "3", after[2].ID)
}

func TestSaveProjectFailureLeavesListUntouched(t *testing.T) {
	svc := &fakeService{
		listFn: func(ctx context.Context) ([]model.Project, error) {
			return []model.Project{{ID: "1", Name: "A"}}, nil
		},
		saveFn: func(ctx context.Context, p model.Project) (model.Project, error) {
			return model.Project{}, errors.New("backend down")
		},
	}
	s := New(svc, nil)
	require.NoError(t, s.FetchProjects(context.Background()))

	_, err := s.SaveProject(context.Background(), model.Project{Name: "B", Owner: "C"})
	require.Error(t, err)

	snap := s.Snapshot()
	assert.Len(t, snap.Projects.List, 1)
	assert.False(t, snap.Projects.Loading)
}

func TestSaveTaskCreateAppends(t *testing.T) {
	s := seededStore(t)

	saved, err := s.SaveTask(context.Background(), "1", model.NewTask("Write copy"))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.Completed)

	p := findByID(t, s, "1")
	require.Len(t, p.Tasks, 1)
	assert.Equal(t, saved.ID, p.Tasks[0].ID)

	// A second save with the same id replaces, not appends.
	saved.Title = "Write better copy"
	again, err := s.SaveTask(context.Background(), "1", saved)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, again.ID)

	p = findByID(t, s, "1")
	require.Len(t, p.Tasks, 1)
	assert.Equal(t, "Write better copy", p.Tasks[0].Title)
}

func TestSaveTaskPreservesOrderOnEdit(t *testing.T) {
	s := seededStore(t)

	first, err := s.SaveTask(context.Background(), "1", model.NewTask("first"))
	require.NoError(t, err)
	_, err = s.SaveTask(context.Background(), "1", model.NewTask("second"))
	require.NoError(t, err)

	first.Title = "first, edited"
	_, err = s.SaveTask(context.Background(), "1", first)
	require.NoError(t, err)

	p := findByID(t, s, "1")
	require.Len(t, p.Tasks, 2)
	assert.Equal(t, "first, edited", p.Tasks[0].Title)
	assert.Equal(t, "second", p.Tasks[1].Title)
}

func TestSaveTaskUnknownProjectFailsLoudly(t *testing.T) {
	s := seededStore(t)

	_, err := s.SaveTask(context.Background(), "nope", model.NewTask("orphan"))
	require.ErrorIs(t, err, ErrProjectNotFound)

	for _, p := range s.Snapshot().Projects.List {
		assert.Empty(t, p.Tasks)
	}
}

func TestToggleTaskSuccessKeepsOptimisticFlip(t *testing.T) {
	s := seededStore(t, api.WithToggleFailRate(0))
	seedTask(t, s, "1", "t1")

	require.NoError(t, s.ToggleTask(context.Background(), "1", "t1"))
	assert.True(t, taskByID(t, s, "1", "t1").Completed)

	require.NoError(t, s.ToggleTask(context.Background(), "1", "t1"))
	assert.False(t, taskByID(t, s, "1", "t1").Completed)
}

func TestToggleTaskFailureRollsBack(t *testing.T) {
	s := seededStore(t, api.WithToggleFailRate(1))
	seedTask(t, s, "1", "t1")

	err := s.ToggleTask(context.Background(), "1", "t1")
	require.ErrorIs(t, err, api.ErrToggleUnavailable)
	assert.False(t, taskByID(t, s, "1", "t1").Completed,
		"failed toggle must restore the previous value")
}

func TestToggleTaskOptimisticBeforeResolution(t *testing.T) {
	gate := make(chan struct{})
	svc := &fakeService{
		listFn: func(ctx context.Context) ([]model.Project, error) {
			return []model.Project{{ID: "1", Tasks: []model.Task{{ID: "t1", Title: "task"}}}}, nil
		},
		toggleFn: func(ctx context.Context, taskID string) error {
			<-gate
			return api.ErrToggleUnavailable
		},
	}
	s := New(svc, nil)
	require.NoError(t, s.FetchProjects(context.Background()))

	done := make(chan error, 1)
	go func() {
		done <- s.ToggleTask(context.Background(), "1", "t1")
	}()

	// The flip happens on dispatch, before the service resolves, and
	// the applied event is already observable.
	for !taskByID(t, s, "1", "t1").Completed {
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, EventToggleApplied, nextEvent(t, s).Kind)

	close(gate)
	require.ErrorIs(t, <-done, api.ErrToggleUnavailable)
	assert.False(t, taskByID(t, s, "1", "t1").Completed)
}

func TestToggleTaskFailureEmitsAppliedThenRollback(t *testing.T) {
	s := seededStore(t, api.WithToggleFailRate(1))
	seedTask(t, s, "1", "t1")

	require.Error(t, s.ToggleTask(context.Background(), "1", "t1"))

	applied := nextEvent(t, s)
	assert.Equal(t, EventToggleApplied, applied.Kind)
	assert.Equal(t, "1", applied.ProjectID)
	assert.Equal(t, "t1", applied.TaskID)
	assert.NoError(t, applied.Err)

	rollback := nextEvent(t, s)
	assert.Equal(t, EventToggleRollback, rollback.Kind)
	assert.Equal(t, "1", rollback.ProjectID)
	assert.Equal(t, "t1", rollback.TaskID)
	require.ErrorIs(t, rollback.Err, api.ErrToggleUnavailable)
}

func TestToggleTaskSuccessEmitsOnlyApplied(t *testing.T) {
	s := seededStore(t, api.WithToggleFailRate(0))
	seedTask(t, s, "1", "t1")

	require.NoError(t, s.ToggleTask(context.Background(), "1", "t1"))

	assert.Equal(t, EventToggleApplied, nextEvent(t, s).Kind)
	select {
	case ev := <-s.Events():
		t.Fatalf("unexpected event: %+v", ev)
	default:
	}
}

func TestToggleTaskMissingTargets(t *testing.T) {
	s := seededStore(t)
	seedTask(t, s, "1", "t1")

	require.ErrorIs(t, s.ToggleTask(context.Background(), "nope", "t1"), ErrProjectNotFound)
	require.ErrorIs(t, s.ToggleTask(context.Background(), "1", "nope"), ErrTaskNotFound)
	assert.False(t, taskByID(t, s, "1", "t1").Completed)
}

func TestConcurrentTogglesOnDifferentTasks(t *testing.T) {
	// One failing and one succeeding toggle on sibling tasks: the
	// rollback must hit only the failed task.
	var calls int
	var mu sync.Mutex
	svc := &fakeService{
		listFn: func(ctx context.Context) ([]model.Project, error) {
			return []model.Project{{ID: "1", Tasks: []model.Task{
				{ID: "t1", Title: "a"},
				{ID: "t2", Title: "b"},
			}}}, nil
		},
		toggleFn: func(ctx context.Context, taskID string) error {
			mu.Lock()
			calls++
			mu.Unlock()
			if taskID == "t1" {
				return api.ErrToggleUnavailable
			}
			return nil
		},
	}
	s := New(svc, nil)
	require.NoError(t, s.FetchProjects(context.Background()))

	var wg sync.WaitGroup
	wg.Add(2)
	var err1, err2 error
	go func() {
		defer wg.Done()
		err1 = s.ToggleTask(context.Background(), "1", "t1")
	}()
	go func() {
		defer wg.Done()
		err2 = s.ToggleTask(context.Background(), "1", "t2")
	}()
	wg.Wait()

	require.Error(t, err1)
	require.NoError(t, err2)
	assert.False(t, taskByID(t, s, "1", "t1").Completed)
	assert.True(t, taskByID(t, s, "1", "t2").Completed)
	assert.Equal(t, 2, calls)
}

func TestSetSearchAndStatusFilter(t *testing.T) {
	s := New(newTestMock(), nil)

	s.SetSearch("web")
	s.SetStatusFilter(FilterActive)

	snap := s.Snapshot()
	assert.Equal(t, "web", snap.Projects.Search)
	assert.Equal(t, FilterActive, snap.Projects.StatusFilter)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := seededStore(t)
	seedTask(t, s, "1", "t1")

	snap := s.Snapshot()
	snap.Projects.List[0].Name = "mutated"
	snap.Projects.List[0].Tasks[0].Completed = true

	fresh := s.Snapshot()
	assert.Equal(t, "Website Redesign", fresh.Projects.List[0].Name)
	assert.False(t, fresh.Projects.List[0].Tasks[0].Completed)
}

// nextEvent pops one event from the store's buffered channel
func nextEvent(t *testing.T, s *Store) Event {
	t.Helper()
	select {
	case ev := <-s.Events():
		return ev
	case <-time.After(time.Second):
		t.Fatal("expected a store event")
		return Event{}
	}
}

// seedTask inserts a task with a fixed id directly through the store
func seedTask(t *testing.T, s *Store, projectID, taskID string) {
	t.Helper()
	_, err := s.SaveTask(context.Background(), projectID, model.Task{
		ID:    taskID,
		Title: fmt.Sprintf("task %s", taskID),
	})
	require.NoError(t, err)
}

func findByID(t *testing.T, s *Store, id string) model.Project {
	t.Helper()
	for _, p := range s.Snapshot().Projects.List {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("project %s not found", id)
	return model.Project{}
}

func taskByID(t *testing.T, s *Store, projectID, taskID string) model.Task {
	t.Helper()
	p := findByID(t, s, projectID)
	if i := p.FindTask(taskID); i >= 0 {
		return p.Tasks[i]
	}
	t.Fatalf("task %s not found in project %s", taskID, projectID)
	return model.Task{}
}
