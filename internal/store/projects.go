package store

import (
	"context"

	"github.com/taskdeck/taskdeck/internal/logger"
	"github.com/taskdeck/taskdeck/internal/model"
)

// FetchProjectsError is the fixed message surfaced when a fetch rejects
const FetchProjectsError = "Failed to load projects"

// FetchProjects replaces the project list with a fresh snapshot from
// the service. Safe to call repeatedly; overlapping calls are sequenced
// and a resolution older than the newest applied one is discarded with
// ErrStaleFetch, so a slow early fetch can never clobber a later one.
func (s *Store) FetchProjects(ctx context.Context) error {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.projects.Loading = true
	s.mu.Unlock()

	list, err := s.svc.ListProjects(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects.Loading = false

	if s.fetchApplied >= seq {
		logger.Debug("Discarding stale fetch", logger.F("seq", seq))
		return ErrStaleFetch
	}

	if err != nil {
		s.projects.Error = FetchProjectsError
		return err
	}

	s.fetchApplied = seq
	s.projects.List = list
	s.projects.Error = ""
	return nil
}

// SaveProject upserts a project through the service. With a known id
// the returned record replaces the list entry in place, keeping its
// position; otherwise it is appended. The service's save never rejects;
// if a real backend ever does, the error is returned to the caller and
// the list is left untouched, there being no optimistic change to undo.
func (s *Store) SaveProject(ctx context.Context, p model.Project) (model.Project, error) {
	s.mu.Lock()
	s.projects.Loading = true
	s.mu.Unlock()

	saved, err := s.svc.SaveProject(ctx, p)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects.Loading = false

	if err != nil {
		return model.Project{}, err
	}

	if i := s.findProject(saved.ID); i >= 0 {
		s.projects.List[i] = saved.Clone()
	} else {
		s.projects.List = append(s.projects.List, saved.Clone())
	}
	return saved, nil
}

// SaveTask upserts a task within a project. The service only assigns
// the id; merging the result into the parent project is done here. A
// projectID the store does not hold fails with ErrProjectNotFound,
// checked both before dispatch and again on resolution in case the
// list was replaced during the suspension.
func (s *Store) SaveTask(ctx context.Context, projectID string, t model.Task) (model.Task, error) {
	s.mu.Lock()
	if s.findProject(projectID) < 0 {
		s.mu.Unlock()
		return model.Task{}, ErrProjectNotFound
	}
	s.mu.Unlock()

	saved, err := s.svc.SaveTask(ctx, projectID, t)
	if err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pi := s.findProject(projectID)
	if pi < 0 {
		return model.Task{}, ErrProjectNotFound
	}

	project := &s.projects.List[pi]
	if ti := project.FindTask(saved.ID); ti >= 0 {
		project.Tasks[ti] = saved
	} else {
		project.Tasks = append(project.Tasks, saved)
	}
	return saved, nil
}

// ToggleTask flips a task's completion optimistically: local state
// changes before the service call resolves, and the flip is announced
// on the event channel so views render it during the pending window.
// On failure the previous
// value is restored by id lookup, not by flipping again, so the
// rollback is exact even if unrelated mutations moved things around in
// the meantime, and the rollback is announced on the event channel.
// On success the optimistic flip already is the final state.
func (s *Store) ToggleTask(ctx context.Context, projectID, taskID string) error {
	s.mu.Lock()
	pi := s.findProject(projectID)
	if pi < 0 {
		s.mu.Unlock()
		return ErrProjectNotFound
	}
	ti := s.projects.List[pi].FindTask(taskID)
	if ti < 0 {
		s.mu.Unlock()
		return ErrTaskNotFound
	}
	prev := s.projects.List[pi].Tasks[ti].Completed
	s.projects.List[pi].Tasks[ti].Completed = !prev
	s.mu.Unlock()

	s.emit(Event{
		Kind:      EventToggleApplied,
		ProjectID: projectID,
		TaskID:    taskID,
	})

	err := s.svc.ToggleTask(ctx, taskID)
	if err == nil {
		return nil
	}

	s.mu.Lock()
	if pi := s.findProject(projectID); pi >= 0 {
		if ti := s.projects.List[pi].FindTask(taskID); ti >= 0 {
			s.projects.List[pi].Tasks[ti].Completed = prev
		}
	}
	s.mu.Unlock()

	logger.Debug("Toggle rolled back",
		logger.F("project", projectID),
		logger.F("task", taskID),
		logger.F("error", err))
	s.emit(Event{
		Kind:      EventToggleRollback,
		ProjectID: projectID,
		TaskID:    taskID,
		Err:       err,
	})
	return err
}
