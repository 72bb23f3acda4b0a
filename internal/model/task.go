package model

// Task title length limits enforced by the form layer
const (
	TitleMinLen = 3
	TitleMaxLen = 100
)

// Task represents a single work item inside a project
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// NewTask creates a task with the given title, not yet completed.
// The service assigns the id on save.
func NewTask(title string) Task {
	return Task{Title: title}
}
