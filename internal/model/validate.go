package model

import (
	"errors"
	"strings"
	"time"
)

// Form-layer validation. These rules belong to the forms, not the store:
// the store trusts its callers and never re-validates.

var (
	ErrNameRequired   = errors.New("project name is required")
	ErrNameTooShort   = errors.New("project name must be at least 3 characters")
	ErrNameTooLong    = errors.New("project name must be less than 100 characters")
	ErrOwnerRequired  = errors.New("project owner is required")
	ErrProgressRange  = errors.New("progress must be between 0 and 100")
	ErrEndBeforeStart = errors.New("end date must be after start date")
	ErrTitleRequired  = errors.New("task title is required")
	ErrTitleTooShort  = errors.New("task title must be at least 3 characters")
	ErrTitleTooLong   = errors.New("task title must be less than 100 characters")
)

// ValidateProject checks the form rules for a project payload
func ValidateProject(p Project) error {
	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		return ErrNameRequired
	case len(name) < TitleMinLen:
		return ErrNameTooShort
	case len(name) > TitleMaxLen:
		return ErrNameTooLong
	}

	if strings.TrimSpace(p.Owner) == "" {
		return ErrOwnerRequired
	}

	if p.Progress < 0 || p.Progress > 100 {
		return ErrProgressRange
	}

	if p.StartDate != "" && p.EndDate != "" {
		start, err1 := time.Parse("2006-01-02", p.StartDate)
		end, err2 := time.Parse("2006-01-02", p.EndDate)
		if err1 == nil && err2 == nil && start.After(end) {
			return ErrEndBeforeStart
		}
	}

	return nil
}

// ValidateTaskTitle checks the form rules for a task title
func ValidateTaskTitle(title string) error {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		return ErrTitleRequired
	case len(title) < TitleMinLen:
		return ErrTitleTooShort
	case len(title) > TitleMaxLen:
		return ErrTitleTooLong
	}
	return nil
}
