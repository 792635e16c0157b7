package domain

import "errors"

// Domain-specific errors for task stream operations.
var (
	// Task errors
	ErrTaskNotFound = errors.New("task not found")
	ErrTaskExists   = errors.New("task already exists")

	// Stream errors
	ErrCorruptStream = errors.New("corrupt event stream")
	ErrConflict      = errors.New("concurrent append conflict")

	// Validation errors
	ErrEmptyTitle    = errors.New("title is required")
	ErrEmptyAssignee = errors.New("assigned user is required")
	ErrEmptyStatus   = errors.New("status is required")
)
