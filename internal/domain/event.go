package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventKind identifies the type of a task event.
type EventKind string

const (
	EventKindCreated            EventKind = "task_created"
	EventKindTitleUpdated       EventKind = "task_title_updated"
	EventKindDescriptionUpdated EventKind = "task_description_updated"
	EventKindDueDateUpdated     EventKind = "task_due_date_updated"
	EventKindStatusUpdated      EventKind = "task_status_updated"
	EventKindAssigned           EventKind = "task_assigned"
	EventKindDeleted            EventKind = "task_deleted"
)

// Payload is the closed set of task event payloads. Each concrete payload
// reports its kind and the moment the fact occurred. The set is closed:
// projection and storage both switch exhaustively on the concrete type, so
// adding a kind forces every fold site to handle it.
type Payload interface {
	Kind() EventKind
	OccurredAt() time.Time
}

// Created starts a stream. It must be the first event of every stream;
// a stream whose first event is anything else is corrupt.
type Created struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	DueDate      time.Time  `json:"due_date"`
	Status       TaskStatus `json:"status"`
	AssignedUser string     `json:"assigned_user"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (Created) Kind() EventKind { return EventKindCreated }
func (p Created) OccurredAt() time.Time { return p.CreatedAt }

// TitleUpdated records a new title.
type TitleUpdated struct {
	NewTitle string    `json:"new_title"`
	At       time.Time `json:"at"`
}

func (TitleUpdated) Kind() EventKind { return EventKindTitleUpdated }
func (p TitleUpdated) OccurredAt() time.Time { return p.At }

// DescriptionUpdated records a new description.
type DescriptionUpdated struct {
	NewDescription string    `json:"new_description"`
	At             time.Time `json:"at"`
}

func (DescriptionUpdated) Kind() EventKind { return EventKindDescriptionUpdated }
func (p DescriptionUpdated) OccurredAt() time.Time { return p.At }

// DueDateUpdated records a new due date.
type DueDateUpdated struct {
	NewDueDate time.Time `json:"new_due_date"`
	At         time.Time `json:"at"`
}

func (DueDateUpdated) Kind() EventKind { return EventKindDueDateUpdated }
func (p DueDateUpdated) OccurredAt() time.Time { return p.At }

// StatusUpdated records a new status.
type StatusUpdated struct {
	NewStatus TaskStatus `json:"new_status"`
	At        time.Time  `json:"at"`
}

func (StatusUpdated) Kind() EventKind { return EventKindStatusUpdated }
func (p StatusUpdated) OccurredAt() time.Time { return p.At }

// Assigned records a (re)assignment to a user.
type Assigned struct {
	AssignedUser string    `json:"assigned_user"`
	At           time.Time `json:"at"`
}

func (Assigned) Kind() EventKind { return EventKindAssigned }
func (p Assigned) OccurredAt() time.Time { return p.At }

// Deleted tombstones the task. The stream is retained; projection keeps the
// last known field values and only flips the deleted flag.
type Deleted struct {
	At time.Time `json:"at"`
}

func (Deleted) Kind() EventKind { return EventKindDeleted }
func (p Deleted) OccurredAt() time.Time { return p.At }

// Event is an immutable fact in a task stream. Seq is the per-stream
// position assigned by the store at append time; RecordedAt is the storage
// timestamp, distinct from the payload's OccurredAt.
type Event struct {
	StreamID   string
	Seq        int64
	Kind       EventKind
	Payload    Payload
	RecordedAt time.Time
}

// DecodePayload unmarshals a stored payload into its concrete type.
// An unrecognized kind means a writer bug and is reported as ErrCorruptStream.
func DecodePayload(kind EventKind, data []byte) (Payload, error) {
	var (
		payload Payload
		err     error
	)

	switch kind {
	case EventKindCreated:
		var p Created
		err = json.Unmarshal(data, &p)
		payload = p
	case EventKindTitleUpdated:
		var p TitleUpdated
		err = json.Unmarshal(data, &p)
		payload = p
	case EventKindDescriptionUpdated:
		var p DescriptionUpdated
		err = json.Unmarshal(data, &p)
		payload = p
	case EventKindDueDateUpdated:
		var p DueDateUpdated
		err = json.Unmarshal(data, &p)
		payload = p
	case EventKindStatusUpdated:
		var p StatusUpdated
		err = json.Unmarshal(data, &p)
		payload = p
	case EventKindAssigned:
		var p Assigned
		err = json.Unmarshal(data, &p)
		payload = p
	case EventKindDeleted:
		var p Deleted
		err = json.Unmarshal(data, &p)
		payload = p
	default:
		return nil, fmt.Errorf("%w: unknown event kind %q", ErrCorruptStream, kind)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: decode %s payload: %v", ErrCorruptStream, kind, err)
	}
	return payload, nil
}
