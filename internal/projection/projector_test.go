package projection_test

import (
	"testing"
	"time"

	"github.com/mtlprog/taskledger/internal/domain"
	"github.com/mtlprog/taskledger/internal/projection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const streamID = "00000000-0000-0000-0000-000000000001"

func stream(payloads ...domain.Payload) []domain.Event {
	events := make([]domain.Event, 0, len(payloads))
	for i, payload := range payloads {
		events = append(events, domain.Event{
			StreamID: streamID,
			Seq:      int64(i) + 1,
			Kind:     payload.Kind(),
			Payload:  payload,
		})
	}
	return events
}

func created() domain.Created {
	return domain.Created{
		Title:        "Write spec",
		Description:  "Draft the first version",
		DueDate:      time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Status:       domain.TaskStatusOpen,
		AssignedUser: "alice",
		CreatedAt:    time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestProject_EmptyStream(t *testing.T) {
	task, err := projection.Project(nil)
	require.NoError(t, err)
	assert.Nil(t, task)
}

func TestProject_CreatedOnly(t *testing.T) {
	task, err := projection.Project(stream(created()))
	require.NoError(t, err)
	require.NotNil(t, task)

	assert.Equal(t, streamID, task.ID)
	assert.Equal(t, "Write spec", task.Title)
	assert.Equal(t, "Draft the first version", task.Description)
	assert.Equal(t, domain.TaskStatusOpen, task.Status)
	assert.Equal(t, "alice", task.AssignedUser)
	assert.False(t, task.Deleted)
}

func TestProject_FoldOverwritesNamedFieldsOnly(t *testing.T) {
	at := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)
	task, err := projection.Project(stream(
		created(),
		domain.TitleUpdated{NewTitle: "Write spec v2", At: at},
		domain.StatusUpdated{NewStatus: domain.TaskStatusInProgress, At: at},
		domain.Assigned{AssignedUser: "bob", At: at},
	))
	require.NoError(t, err)

	assert.Equal(t, "Write spec v2", task.Title)
	assert.Equal(t, domain.TaskStatusInProgress, task.Status)
	assert.Equal(t, "bob", task.AssignedUser)
	// Fields not named by any later event keep their Created values.
	assert.Equal(t, "Draft the first version", task.Description)
	assert.Equal(t, created().DueDate, task.DueDate)
	assert.Equal(t, created().CreatedAt, task.CreatedAt)
}

func TestProject_Deterministic(t *testing.T) {
	events := stream(
		created(),
		domain.DueDateUpdated{NewDueDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), At: time.Now()},
		domain.DescriptionUpdated{NewDescription: "Rewritten", At: time.Now()},
	)

	first, err := projection.Project(events)
	require.NoError(t, err)
	second, err := projection.Project(events)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestProject_SoftDeleteRetainsFields(t *testing.T) {
	task, err := projection.Project(stream(
		created(),
		domain.Deleted{At: time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)},
	))
	require.NoError(t, err)

	assert.True(t, task.Deleted)
	assert.Equal(t, "Write spec", task.Title)
	assert.Equal(t, "Draft the first version", task.Description)
	assert.Equal(t, "alice", task.AssignedUser)
	assert.False(t, task.IsLive())
}

func TestProject_FirstEventNotCreated(t *testing.T) {
	_, err := projection.Project(stream(
		domain.TitleUpdated{NewTitle: "orphan", At: time.Now()},
	))
	require.ErrorIs(t, err, domain.ErrCorruptStream)
}

func TestProject_DuplicateCreatedMidStream(t *testing.T) {
	_, err := projection.Project(stream(created(), created()))
	require.ErrorIs(t, err, domain.ErrCorruptStream)
}
