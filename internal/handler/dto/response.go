package dto

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mtlprog/taskledger/internal/domain"
	"github.com/mtlprog/taskledger/internal/repository"
)

// TaskResponse represents the projected state of a task.
type TaskResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	DueDate      time.Time `json:"due_date"`
	Status       string    `json:"status"`
	AssignedUser string    `json:"assigned_user"`
	CreatedAt    time.Time `json:"created_at"`
	Deleted      bool      `json:"deleted"`
}

// TasksListResponse represents the response for GET /tasks.
type TasksListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// EventResponse represents a single stored event in a task's history.
type EventResponse struct {
	Seq        int64           `json:"seq"`
	Kind       string          `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	RecordedAt time.Time       `json:"recorded_at"`
}

// TaskEventsResponse represents the response for GET /tasks/:id/events.
type TaskEventsResponse struct {
	TaskID string          `json:"task_id"`
	Events []EventResponse `json:"events"`
}

// CountByStatusResponse represents the response for GET /reports/count-by-status.
type CountByStatusResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// AverageCompletionTimeResponse represents the response for GET /reports/average-completion-time.
type AverageCompletionTimeResponse struct {
	AverageCompletionDays float64 `json:"average_completion_days"`
}

// UserTaskCountResponse represents one row of GET /reports/tasks-per-user.
type UserTaskCountResponse struct {
	User      string `json:"user"`
	TaskCount int    `json:"task_count"`
}

// ToTaskResponse converts domain.Task to TaskResponse.
func ToTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		DueDate:      task.DueDate,
		Status:       string(task.Status),
		AssignedUser: task.AssignedUser,
		CreatedAt:    task.CreatedAt,
		Deleted:      task.Deleted,
	}
}

// ToTasksListResponse converts a slice of tasks to TasksListResponse.
func ToTasksListResponse(tasks []*domain.Task) TasksListResponse {
	resp := TasksListResponse{
		Tasks: make([]TaskResponse, 0, len(tasks)),
		Total: len(tasks),
	}
	for _, task := range tasks {
		resp.Tasks = append(resp.Tasks, ToTaskResponse(task))
	}
	return resp
}

// ToTaskEventsResponse converts a task's event history to TaskEventsResponse.
func ToTaskEventsResponse(taskID string, events []domain.Event) TaskEventsResponse {
	resp := TaskEventsResponse{
		TaskID: taskID,
		Events: make([]EventResponse, 0, len(events)),
	}
	for _, event := range events {
		data, err := json.Marshal(event.Payload)
		if err != nil {
			// Payloads round-tripped through the store; this cannot fail.
			slog.Error("failed to encode event payload", "kind", event.Kind, "error", err)
			data = []byte("{}")
		}
		resp.Events = append(resp.Events, EventResponse{
			Seq:        event.Seq,
			Kind:       string(event.Kind),
			Payload:    data,
			RecordedAt: event.RecordedAt,
		})
	}
	return resp
}

// ToUserTaskCountResponses converts repository user counts to response rows.
func ToUserTaskCountResponses(counts []repository.UserTaskCount) []UserTaskCountResponse {
	resp := make([]UserTaskCountResponse, 0, len(counts))
	for _, count := range counts {
		resp = append(resp, UserTaskCountResponse{
			User:      count.User,
			TaskCount: count.TaskCount,
		})
	}
	return resp
}
