package repository

import "errors"

// Common repository errors
var (
	// ErrTaskNotFound is returned when no task with the given id exists
	ErrTaskNotFound = errors.New("task not found")
)
