package repository

import (
	"context"
	"fmt"

	"github.com/mtlprog/taskledger/internal/domain"
)

// UserTaskCount holds the number of assignment events recorded for one user.
type UserTaskCount struct {
	User      string
	TaskCount int
}

// CountTasksByStatus counts live tasks whose current status equals the given
// value, reading the latest status-bearing event per stream instead of
// replaying every stream. Must agree with full-replay projection; the
// replay-check command verifies this.
func (s *EventStore) CountTasksByStatus(ctx context.Context, status domain.TaskStatus) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM (
			SELECT DISTINCT ON (stream_id) stream_id,
				COALESCE(payload->>'new_status', payload->>'status') AS status
			FROM task_events
			WHERE kind IN ($1, $2)
			ORDER BY stream_id, seq DESC
		) latest
		WHERE latest.status = $3
		  AND NOT EXISTS (
			SELECT 1 FROM task_events d
			WHERE d.stream_id = latest.stream_id AND d.kind = $4
		  )
	`

	var count int
	err := s.pool.QueryRow(ctx, query,
		domain.EventKindCreated,
		domain.EventKindStatusUpdated,
		status,
		domain.EventKindDeleted,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count tasks by status: %w", err)
	}

	return count, nil
}

// TasksPerUser counts assignment-bearing events per user across all streams:
// every Created event carrying a non-empty assigned user plus every Assigned
// event. It is a historical measure over the raw log, so tombstoned streams
// are included.
func (s *EventStore) TasksPerUser(ctx context.Context) ([]UserTaskCount, error) {
	query := `
		SELECT payload->>'assigned_user' AS assigned_user, COUNT(*) AS task_count
		FROM task_events
		WHERE kind IN ($1, $2)
		  AND COALESCE(payload->>'assigned_user', '') <> ''
		GROUP BY payload->>'assigned_user'
		ORDER BY assigned_user
	`

	rows, err := s.pool.Query(ctx, query, domain.EventKindCreated, domain.EventKindAssigned)
	if err != nil {
		return nil, fmt.Errorf("query tasks per user: %w", err)
	}
	defer rows.Close()

	var results []UserTaskCount
	for rows.Next() {
		var result UserTaskCount
		if err := rows.Scan(&result.User, &result.TaskCount); err != nil {
			return nil, fmt.Errorf("scan user task count: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user task count rows: %w", err)
	}

	return results, nil
}
