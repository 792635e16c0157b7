package dto

import "time"

// CreateTaskRequest represents the request body for POST /tasks.
type CreateTaskRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	DueDate      time.Time `json:"due_date,omitempty"`
	Status       string    `json:"status,omitempty"`
	AssignedUser string    `json:"assigned_user,omitempty"`
}

// UpdateTaskRequest represents the request body for PUT /tasks/:id.
// Nil fields were not provided and leave the task untouched.
type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Status      *string    `json:"status"`
}

// AssignTaskRequest represents the request body for PUT /tasks/:id/assign.
type AssignTaskRequest struct {
	AssignedUser string `json:"assigned_user"`
}
