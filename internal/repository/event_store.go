package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/taskledger/internal/domain"
)

// eventColumns is the shared list of columns for event queries.
var eventColumns = []string{"stream_id", "seq", "kind", "payload", "recorded_at"}

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// EventStore is the append-only log of task events. Events are never updated
// or removed; the current state of a task is always derived by replaying its
// stream.
type EventStore struct {
	pool *pgxpool.Pool
}

// NewEventStore creates a new EventStore.
func NewEventStore(pool *pgxpool.Pool) *EventStore {
	return &EventStore{pool: pool}
}

// Append writes a batch of payloads to the tail of a stream in one
// transaction, assigning each a strictly increasing sequence number.
//
// expectedSeq is the stream tail observed when the caller read the stream
// (0 for a new stream). If the tail has advanced since, nothing is written
// and ErrConflict is returned; the caller should re-read and retry. The
// (stream_id, seq) primary key backstops the check, so two racing appends
// can never both land. An empty batch is a no-op.
func (s *EventStore) Append(
	ctx context.Context,
	streamID string,
	expectedSeq int64,
	payloads []domain.Payload,
) ([]domain.Event, error) {
	if len(payloads) == 0 {
		return nil, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	query, args, err := psql.
		Select("COALESCE(MAX(seq), 0)").
		From("task_events").
		Where(sq.Eq{"stream_id": streamID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build tail query for stream %s: %w", streamID, err)
	}

	var tail int64
	if err := tx.QueryRow(ctx, query, args...).Scan(&tail); err != nil {
		return nil, fmt.Errorf("read stream tail: %w", err)
	}

	if tail != expectedSeq {
		return nil, fmt.Errorf("%w: stream %s is at seq %d, expected %d",
			domain.ErrConflict, streamID, tail, expectedSeq)
	}

	events := make([]domain.Event, 0, len(payloads))
	for i, payload := range payloads {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", payload.Kind(), err)
		}

		event := domain.Event{
			StreamID: streamID,
			Seq:      expectedSeq + int64(i) + 1,
			Kind:     payload.Kind(),
			Payload:  payload,
		}

		query, args, err := psql.
			Insert("task_events").
			Columns("stream_id", "seq", "kind", "payload", "occurred_at").
			Values(event.StreamID, event.Seq, event.Kind, data, payload.OccurredAt()).
			Suffix("RETURNING recorded_at").
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build append query for stream %s: %w", streamID, err)
		}

		if err := tx.QueryRow(ctx, query, args...).Scan(&event.RecordedAt); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return nil, fmt.Errorf("%w: stream %s seq %d was taken by a concurrent append",
					domain.ErrConflict, streamID, event.Seq)
			}
			return nil, fmt.Errorf("append event: %w", err)
		}

		events = append(events, event)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return events, nil
}

// Fetch returns all events of a stream in ascending sequence order, or an
// empty slice if the stream does not exist.
func (s *EventStore) Fetch(ctx context.Context, streamID string) ([]domain.Event, error) {
	query, args, err := psql.
		Select(eventColumns...).
		From("task_events").
		Where(sq.Eq{"stream_id": streamID}).
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Fetch query for stream %s: %w", streamID, err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stream %s: %w", streamID, err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var (
			event domain.Event
			data  []byte
		)
		if err := rows.Scan(&event.StreamID, &event.Seq, &event.Kind, &data, &event.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		event.Payload, err = domain.DecodePayload(event.Kind, data)
		if err != nil {
			return nil, err
		}

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return events, nil
}

// StreamIDs returns the distinct ids of all streams containing at least one
// event of the given kind. Order is unspecified.
func (s *EventStore) StreamIDs(ctx context.Context, kind domain.EventKind) ([]string, error) {
	query, args, err := psql.
		Select("DISTINCT stream_id").
		From("task_events").
		Where(sq.Eq{"kind": kind}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build StreamIDs query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stream ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan stream id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return ids, nil
}
