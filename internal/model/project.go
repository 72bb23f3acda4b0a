package model

// Status is the lifecycle state of a project
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
)

// Valid reports whether s is one of the known project statuses
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusPending:
		return true
	}
	return false
}

// Project represents a project and its tasks
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Owner       string `json:"owner"`
	Status      Status `json:"status"`
	Progress    int    `json:"progress"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	CreatedAt   string `json:"created_at"`
	Tasks       []Task `json:"tasks"`
}

// Clone returns a deep copy of the project, including its task list.
// Shared task slices leaking across the store boundary would make
// optimistic rollback observable from the outside.
func (p Project) Clone() Project {
	dup := p
	if p.Tasks != nil {
		dup.Tasks = make([]Task, len(p.Tasks))
		copy(dup.Tasks, p.Tasks)
	}
	return dup
}

// CloneProjects deep-copies a project list
func CloneProjects(list []Project) []Project {
	if list == nil {
		return nil
	}
	dup := make([]Project, len(list))
	for i, p := range list {
		dup[i] = p.Clone()
	}
	return dup
}

// FindTask returns the index of the task with the given id, or -1
func (p *Project) FindTask(taskID string) int {
	for i := range p.Tasks {
		if p.Tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}
