// Package projection rebuilds task state by folding event streams.
package projection

import (
	"fmt"

	"github.com/mtlprog/taskledger/internal/domain"
)

// Project folds an ordered event stream into the task's current state.
//
// An empty stream yields (nil, nil): the task does not exist. The first event
// must be Created; anything else is a writer bug reported as ErrCorruptStream.
// The fold is pure and deterministic: the same stream always yields the same
// task.
func Project(events []domain.Event) (*domain.Task, error) {
	if len(events) == 0 {
		return nil, nil
	}

	first := events[0]
	created, ok := first.Payload.(domain.Created)
	if !ok {
		return nil, fmt.Errorf("%w: stream %s starts with %s, expected %s",
			domain.ErrCorruptStream, first.StreamID, first.Kind, domain.EventKindCreated)
	}

	task := &domain.Task{
		ID:           first.StreamID,
		Title:        created.Title,
		Description:  created.Description,
		DueDate:      created.DueDate,
		Status:       created.Status,
		AssignedUser: created.AssignedUser,
		CreatedAt:    created.CreatedAt,
	}

	for _, event := range events[1:] {
		if err := apply(task, event); err != nil {
			return nil, err
		}
	}

	return task, nil
}

// apply folds a single event into the task. The type switch is exhaustive
// over the closed payload set; a new event kind must be handled here.
func apply(task *domain.Task, event domain.Event) error {
	switch p := event.Payload.(type) {
	case domain.Created:
		return fmt.Errorf("%w: stream %s has %s at seq %d, past the stream start",
			domain.ErrCorruptStream, event.StreamID, event.Kind, event.Seq)
	case domain.TitleUpdated:
		task.Title = p.NewTitle
	case domain.DescriptionUpdated:
		task.Description = p.NewDescription
	case domain.DueDateUpdated:
		task.DueDate = p.NewDueDate
	case domain.StatusUpdated:
		task.Status = p.NewStatus
	case domain.Assigned:
		task.AssignedUser = p.AssignedUser
	case domain.Deleted:
		task.Deleted = true
	default:
		return fmt.Errorf("%w: stream %s has unhandled payload %T at seq %d",
			domain.ErrCorruptStream, event.StreamID, event.Payload, event.Seq)
	}
	return nil
}
