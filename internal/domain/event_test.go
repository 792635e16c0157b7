package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/mtlprog/taskledger/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayload_Created(t *testing.T) {
	original := domain.Created{
		Title:        "Write spec",
		Description:  "Draft the first version",
		DueDate:      time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Status:       domain.TaskStatusOpen,
		AssignedUser: "alice",
		CreatedAt:    time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	payload, err := domain.DecodePayload(domain.EventKindCreated, data)
	require.NoError(t, err)
	assert.Equal(t, original, payload)
	assert.Equal(t, domain.EventKindCreated, payload.Kind())
	assert.Equal(t, original.CreatedAt, payload.OccurredAt())
}

func TestDecodePayload_StatusUpdated(t *testing.T) {
	at := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)
	data, err := json.Marshal(domain.StatusUpdated{NewStatus: domain.TaskStatusCompleted, At: at})
	require.NoError(t, err)

	payload, err := domain.DecodePayload(domain.EventKindStatusUpdated, data)
	require.NoError(t, err)

	status, ok := payload.(domain.StatusUpdated)
	require.True(t, ok)
	assert.Equal(t, domain.TaskStatusCompleted, status.NewStatus)
	assert.Equal(t, at, payload.OccurredAt())
}

func TestDecodePayload_UnknownKind(t *testing.T) {
	_, err := domain.DecodePayload("task_exploded", []byte(`{}`))
	require.ErrorIs(t, err, domain.ErrCorruptStream)
}

func TestDecodePayload_MalformedJSON(t *testing.T) {
	_, err := domain.DecodePayload(domain.EventKindDeleted, []byte(`{not json`))
	require.ErrorIs(t, err, domain.ErrCorruptStream)
}
