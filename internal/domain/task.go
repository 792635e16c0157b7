package domain

import "time"

// TaskStatus represents the workflow status of a task.
//
// The set is open-ended by design: status transitions are recorded as events,
// not validated against a state machine. Only TaskStatusCompleted carries
// special meaning (completion-time reporting).
type TaskStatus string

const (
	TaskStatusOpen       TaskStatus = "Open"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// Task is the projected state of a task stream.
//
// It is never persisted: every read replays the stream and rebuilds this
// value from scratch. A Task is owned by the call that projected it.
type Task struct {
	ID           string
	Title        string
	Description  string
	DueDate      time.Time
	Status       TaskStatus
	AssignedUser string
	CreatedAt    time.Time
	Deleted      bool
}

// IsLive returns true if the task exists and has not been tombstoned.
func (t *Task) IsLive() bool {
	return t != nil && !t.Deleted
}
