// Package command translates requested state changes into event batches.
package command

import (
	"time"

	"github.com/mtlprog/taskledger/internal/domain"
)

// Change is a requested update to a task. Nil fields were not provided and
// are left untouched; a provided field that equals the current value emits
// nothing. "Not provided" is distinct from "set to empty".
type Change struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Status      *domain.TaskStatus
}

// Translate compares the current task against the requested change and
// returns the minimal event batch representing the difference.
//
// Fields are evaluated in a fixed order (title, description, due date,
// status) so that identical inputs always produce an identically ordered
// batch. Every emitted event shares the same timestamp, captured once by the
// caller, so one update request lands as one coherent batch. An unchanged
// request yields an empty batch.
//
// The caller must pass a live task; translating against a deleted or absent
// task is a caller error.
func Translate(current *domain.Task, change Change, at time.Time) []domain.Payload {
	var batch []domain.Payload

	if change.Title != nil && *change.Title != "" && *change.Title != current.Title {
		batch = append(batch, domain.TitleUpdated{NewTitle: *change.Title, At: at})
	}

	if change.Description != nil && *change.Description != "" && *change.Description != current.Description {
		batch = append(batch, domain.DescriptionUpdated{NewDescription: *change.Description, At: at})
	}

	if change.DueDate != nil && !change.DueDate.Equal(current.DueDate) {
		batch = append(batch, domain.DueDateUpdated{NewDueDate: *change.DueDate, At: at})
	}

	if change.Status != nil && *change.Status != "" && *change.Status != current.Status {
		batch = append(batch, domain.StatusUpdated{NewStatus: *change.Status, At: at})
	}

	return batch
}
