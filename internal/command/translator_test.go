package command_test

import (
	"testing"
	"time"

	"github.com/mtlprog/taskledger/internal/command"
	"github.com/mtlprog/taskledger/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func currentTask() *domain.Task {
	return &domain.Task{
		ID:           "00000000-0000-0000-0000-000000000001",
		Title:        "Write spec",
		Description:  "Draft the first version",
		DueDate:      time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Status:       domain.TaskStatusOpen,
		AssignedUser: "alice",
		CreatedAt:    time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func strPtr(s string) *string { return &s }

func statusPtr(s domain.TaskStatus) *domain.TaskStatus { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestTranslate_NoFieldsProvided(t *testing.T) {
	batch := command.Translate(currentTask(), command.Change{}, time.Now())
	assert.Empty(t, batch)
}

func TestTranslate_UnchangedValuesEmitNothing(t *testing.T) {
	task := currentTask()
	change := command.Change{
		Title:       strPtr(task.Title),
		Description: strPtr(task.Description),
		DueDate:     timePtr(task.DueDate),
		Status:      statusPtr(task.Status),
	}

	batch := command.Translate(task, change, time.Now())
	assert.Empty(t, batch)
}

func TestTranslate_SingleFieldIsMinimal(t *testing.T) {
	at := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)
	batch := command.Translate(currentTask(), command.Change{
		Status: statusPtr(domain.TaskStatusCompleted),
	}, at)

	require.Len(t, batch, 1)
	status, ok := batch[0].(domain.StatusUpdated)
	require.True(t, ok)
	assert.Equal(t, domain.TaskStatusCompleted, status.NewStatus)
	assert.Equal(t, at, status.At)
}

func TestTranslate_FixedFieldOrder(t *testing.T) {
	at := time.Now()
	batch := command.Translate(currentTask(), command.Change{
		// Provided in no particular order; output order must still be
		// title, description, due date, status.
		Status:  statusPtr(domain.TaskStatusInProgress),
		DueDate: timePtr(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)),
		Title:   strPtr("Write spec v2"),
	}, at)

	require.Len(t, batch, 3)
	assert.IsType(t, domain.TitleUpdated{}, batch[0])
	assert.IsType(t, domain.DueDateUpdated{}, batch[1])
	assert.IsType(t, domain.StatusUpdated{}, batch[2])
}

func TestTranslate_SharedTimestamp(t *testing.T) {
	at := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)
	batch := command.Translate(currentTask(), command.Change{
		Title:       strPtr("Write spec v2"),
		Description: strPtr("Rewritten"),
		Status:      statusPtr(domain.TaskStatusInProgress),
	}, at)

	require.Len(t, batch, 3)
	for _, payload := range batch {
		assert.Equal(t, at, payload.OccurredAt())
	}
}

func TestTranslate_EmptyStringsAreIgnored(t *testing.T) {
	// Empty title, description, and status are treated as "not a value",
	// never as a request to blank the field.
	batch := command.Translate(currentTask(), command.Change{
		Title:       strPtr(""),
		Description: strPtr(""),
		Status:      statusPtr(""),
	}, time.Now())

	assert.Empty(t, batch)
}

func TestTranslate_DueDateComparesByInstant(t *testing.T) {
	task := currentTask()
	sameInstant := task.DueDate.In(time.FixedZone("UTC+2", 2*60*60))

	batch := command.Translate(task, command.Change{DueDate: timePtr(sameInstant)}, time.Now())
	assert.Empty(t, batch)

	later := task.DueDate.Add(48 * time.Hour)
	batch = command.Translate(task, command.Change{DueDate: timePtr(later)}, time.Now())
	require.Len(t, batch, 1)
	dueDate, ok := batch[0].(domain.DueDateUpdated)
	require.True(t, ok)
	assert.True(t, dueDate.NewDueDate.Equal(later))
}
