package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mtlprog/taskledger/internal/command"
	"github.com/mtlprog/taskledger/internal/domain"
	"github.com/mtlprog/taskledger/internal/projection"
	"github.com/mtlprog/taskledger/internal/repository"
)

// TaskService orchestrates the event store, the projector and the command
// translator. It is the only component touching both I/O and the pure core:
// reads fetch and project, writes project, translate and append.
type TaskService struct {
	store *repository.EventStore
}

// NewTaskService creates a new TaskService.
func NewTaskService(store *repository.EventStore) *TaskService {
	return &TaskService{store: store}
}

// CreateTaskParams holds the fields for creating a task.
type CreateTaskParams struct {
	Title        string
	Description  string
	DueDate      time.Time
	Status       domain.TaskStatus
	AssignedUser string
}

// loadTask fetches and projects a stream, returning the projected task
// (nil when the stream does not exist) and the stream's tail sequence.
func (s *TaskService) loadTask(ctx context.Context, taskID string) (*domain.Task, int64, error) {
	events, err := s.store.Fetch(ctx, taskID)
	if err != nil {
		return nil, 0, err
	}

	task, err := projection.Project(events)
	if err != nil {
		return nil, 0, err
	}

	var tail int64
	if len(events) > 0 {
		tail = events[len(events)-1].Seq
	}

	return task, tail, nil
}

// requireLiveTask loads a task and fails with ErrTaskNotFound unless it
// exists and is not tombstoned. All mutating operations go through this
// check so that no operation can ever start a stream without a Created
// event.
func (s *TaskService) requireLiveTask(ctx context.Context, taskID string) (*domain.Task, int64, error) {
	task, tail, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, 0, err
	}
	if !task.IsLive() {
		return nil, 0, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, taskID)
	}
	return task, tail, nil
}

// CreateTask starts a new stream with a single Created event.
func (s *TaskService) CreateTask(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	if params.Title == "" {
		return nil, domain.ErrEmptyTitle
	}

	status := params.Status
	if status == "" {
		status = domain.TaskStatusOpen
	}

	taskID := uuid.NewString()
	created := domain.Created{
		Title:        params.Title,
		Description:  params.Description,
		DueDate:      params.DueDate,
		Status:       status,
		AssignedUser: params.AssignedUser,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := s.store.Append(ctx, taskID, 0, []domain.Payload{created}); err != nil {
		// A conflict on a freshly generated uuid means the id already has a
		// stream. Practically impossible, but the contract names it.
		if errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("%w: %s", domain.ErrTaskExists, taskID)
		}
		return nil, err
	}

	slog.Info("task created", "task_id", taskID, "title", params.Title)

	task, _, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// GetTask returns the projected state of a task. Tombstoned tasks are still
// returned with their last known fields and Deleted set; a stream that never
// existed is ErrTaskNotFound.
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	task, _, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, taskID)
	}
	return task, nil
}

// GetTaskEvents returns the full event history of a task.
func (s *TaskService) GetTaskEvents(ctx context.Context, taskID string) ([]domain.Event, error) {
	events, err := s.store.Fetch(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, taskID)
	}
	return events, nil
}

// ListTasks projects every stream that has a Created event. Tombstoned tasks
// are excluded unless includeDeleted is set.
func (s *TaskService) ListTasks(ctx context.Context, includeDeleted bool) ([]*domain.Task, error) {
	ids, err := s.store.StreamIDs(ctx, domain.EventKindCreated)
	if err != nil {
		return nil, err
	}

	tasks := make([]*domain.Task, 0, len(ids))
	for _, id := range ids {
		task, _, err := s.loadTask(ctx, id)
		if err != nil {
			return nil, err
		}
		if task == nil {
			continue
		}
		if task.Deleted && !includeDeleted {
			continue
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

// UpdateTask diffs the requested change against the current state and
// appends the resulting batch. A change that changes nothing is a successful
// no-op. A concurrent append surfaces as ErrConflict; the caller should
// retry against the re-read state.
func (s *TaskService) UpdateTask(ctx context.Context, taskID string, change command.Change) (*domain.Task, error) {
	task, tail, err := s.requireLiveTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	batch := command.Translate(task, change, time.Now().UTC())
	if len(batch) == 0 {
		return task, nil
	}

	events, err := s.store.Append(ctx, taskID, tail, batch)
	if err != nil {
		return nil, err
	}

	slog.Info("task updated", "task_id", taskID, "events", len(events))

	task, _, err = s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// AssignTask appends a single Assigned event. Re-assigning the same user
// still appends an event: an assignment command maps to exactly one event,
// unlike the change-only diff of UpdateTask.
func (s *TaskService) AssignTask(ctx context.Context, taskID, assignedUser string) (*domain.Task, error) {
	if assignedUser == "" {
		return nil, domain.ErrEmptyAssignee
	}

	_, tail, err := s.requireLiveTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	assigned := domain.Assigned{AssignedUser: assignedUser, At: time.Now().UTC()}
	if _, err := s.store.Append(ctx, taskID, tail, []domain.Payload{assigned}); err != nil {
		return nil, err
	}

	slog.Info("task assigned", "task_id", taskID, "assigned_user", assignedUser)

	task, _, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask appends a single Deleted event, tombstoning the task. The
// stream is retained; projection keeps the last known fields. Deleting an
// absent or already tombstoned task is ErrTaskNotFound.
func (s *TaskService) DeleteTask(ctx context.Context, taskID string) error {
	_, tail, err := s.requireLiveTask(ctx, taskID)
	if err != nil {
		return err
	}

	deleted := domain.Deleted{At: time.Now().UTC()}
	if _, err := s.store.Append(ctx, taskID, tail, []domain.Payload{deleted}); err != nil {
		return err
	}

	slog.Info("task deleted", "task_id", taskID)

	return nil
}

// CountTasksByStatus counts live tasks with the given current status via the
// store's aggregate query.
func (s *TaskService) CountTasksByStatus(ctx context.Context, status domain.TaskStatus) (int, error) {
	if status == "" {
		return 0, domain.ErrEmptyStatus
	}
	return s.store.CountTasksByStatus(ctx, status)
}

// AverageCompletionDays returns the mean of (due date - created at) in
// fractional days over live completed tasks, or 0 when none are completed.
func (s *TaskService) AverageCompletionDays(ctx context.Context) (float64, error) {
	tasks, err := s.ListTasks(ctx, false)
	if err != nil {
		return 0, err
	}

	var (
		total float64
		count int
	)
	for _, task := range tasks {
		if task.Status != domain.TaskStatusCompleted {
			continue
		}
		total += task.DueDate.Sub(task.CreatedAt).Hours() / 24
		count++
	}

	if count == 0 {
		return 0, nil
	}
	return total / float64(count), nil
}

// TasksPerUser returns assignment counts per user over the raw event log.
func (s *TaskService) TasksPerUser(ctx context.Context) ([]repository.UserTaskCount, error) {
	return s.store.TasksPerUser(ctx)
}

// ReplayCountsByStatus recomputes the per-status counts of live tasks by
// full replay. Used to cross-check the SQL fast path of CountTasksByStatus.
func (s *TaskService) ReplayCountsByStatus(ctx context.Context) (map[domain.TaskStatus]int, error) {
	tasks, err := s.ListTasks(ctx, false)
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.TaskStatus]int)
	for _, task := range tasks {
		counts[task.Status]++
	}
	return counts, nil
}
