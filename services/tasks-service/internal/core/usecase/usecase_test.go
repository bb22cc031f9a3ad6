package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/events"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/port"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/tasks-service/internal/core/port/usecases_port"
)

type fakeTaskRepository struct {
	tasks   map[uuid.UUID]*domain.Task
	failAll bool
}

func newFakeTaskRepository() *fakeTaskRepository {
	return &fakeTaskRepository{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (r *fakeTaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if r.failAll {
		return errors.New("db down")
	}
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *fakeTaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if r.failAll {
		return errors.New("db down")
	}
	if _, ok := r.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	copied := *task
	r.tasks[task.ID] = &copied
	return nil
}

func (r *fakeTaskRepository) Delete(ctx context.Context, taskID uuid.UUID) error {
	if r.failAll {
		return errors.New("db down")
	}
	if _, ok := r.tasks[taskID]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, taskID)
	return nil
}

func (r *fakeTaskRepository) FindByID(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	if r.failAll {
		return nil, errors.New("db down")
	}
	if task, ok := r.tasks[taskID]; ok {
		copied := *task
		return &copied, nil
	}
	return nil, domain.ErrTaskNotFound
}

func (r *fakeTaskRepository) FindAll(ctx context.Context, userID uuid.UUID, filter port.TaskFilter, limit, offset int) ([]domain.Task, int64, error) {
	if r.failAll {
		return nil, 0, errors.New("db down")
	}
	visible := make([]domain.Task, 0)
	for _, task := range r.tasks {
		if task.CreatedByID != userID && !contains(task.AssignedUserIDs, userID) {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && task.Priority != filter.Priority {
			continue
		}
		visible = append(visible, *task)
	}
	total := int64(len(visible))
	if offset >= len(visible) {
		return []domain.Task{}, total, nil
	}
	end := offset + limit
	if end > len(visible) {
		end = len(visible)
	}
	return visible[offset:end], total, nil
}

func contains(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type fakeCommentRepository struct {
	comments []domain.Comment
	failAll  bool
}

func (r *fakeCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	if r.failAll {
		return errors.New("db down")
	}
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *fakeCommentRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]domain.Comment, error) {
	if r.failAll {
		return nil, errors.New("db down")
	}
	out := make([]domain.Comment, 0)
	for _, c := range r.comments {
		if c.TaskID == taskID {
			out = append(out, c)
		}
	}
	return out, nil
}

// fakePublisher records every event, optionally reporting drops.
type fakePublisher struct {
	published []events.DomainEvent
	drop      bool
}

func (p *fakePublisher) Publish(ctx context.Context, event events.DomainEvent) port.PublishResult {
	p.published = append(p.published, event)
	if p.drop {
		return port.PublishResult{Delivered: false, Reason: "broker unavailable"}
	}
	return port.PublishResult{Delivered: true}
}

func TestCreateTask(t *testing.T) {
	repo := newFakeTaskRepository()
	publisher := &fakePublisher{}
	uc := NewCreateTaskUseCase(repo, publisher)

	userID := uuid.New()
	assignee := uuid.New()
	deadline := time.Now().Add(48 * time.Hour).UTC()

	task, err := uc.Execute(context.Background(), usecases_port.CreateTaskInput{
		Title:           "Ship the release",
		Description:     "Cut the tag and publish",
		Deadline:        &deadline,
		Priority:        domain.PriorityHigh,
		AssignedUserIDs: []uuid.UUID{assignee},
	}, userID)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusTodo, task.Status)
	assert.Equal(t, domain.PriorityHigh, task.Priority)
	assert.Equal(t, userID, task.CreatedByID)

	require.Len(t, publisher.published, 1)
	event, ok := publisher.published[0].(events.TaskCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, task.ID, event.TaskID)
	assert.Equal(t, []uuid.UUID{assignee}, event.AssignedUserIDs)
	assert.Equal(t, userID, event.CreatedBy)
}

func TestCreateTaskDefaultsPriority(t *testing.T) {
	uc := NewCreateTaskUseCase(newFakeTaskRepository(), &fakePublisher{})

	task, err := uc.Execute(context.Background(), usecases_port.CreateTaskInput{Title: "t"}, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMedium, task.Priority)
}

func TestCreateTaskRejectsUnknownPriority(t *testing.T) {
	uc := NewCreateTaskUseCase(newFakeTaskRepository(), &fakePublisher{})

	_, err := uc.Execute(context.Background(), usecases_port.CreateTaskInput{
		Title:    "t",
		Priority: domain.TaskPriority("WHENEVER"),
	}, uuid.New())
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)
}

func TestCreateTaskSucceedsWhenEventDropped(t *testing.T) {
	// Publishing is fire-and-forget: a broken broker must not fail the create.
	repo := newFakeTaskRepository()
	publisher := &fakePublisher{drop: true}
	uc := NewCreateTaskUseCase(repo, publisher)

	task, err := uc.Execute(context.Background(), usecases_port.CreateTaskInput{Title: "t"}, uuid.New())
	require.NoError(t, err)

	stored, err := repo.FindByID(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, stored.ID)
	assert.Len(t, publisher.published, 1)
}

func TestUpdateTask(t *testing.T) {
	repo := newFakeTaskRepository()
	publisher := &fakePublisher{}
	createUC := NewCreateTaskUseCase(repo, publisher)
	updateUC := NewUpdateTaskUseCase(repo, publisher)

	creator := uuid.New()
	task, err := createUC.Execute(context.Background(), usecases_port.CreateTaskInput{Title: "before"}, creator)
	require.NoError(t, err)

	editor := uuid.New()
	newTitle := "after"
	newStatus := domain.StatusInProgress
	updated, err := updateUC.Execute(context.Background(), task.ID, usecases_port.UpdateTaskInput{
		Title:  &newTitle,
		Status: &newStatus,
	}, editor)
	require.NoError(t, err)

	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, domain.StatusInProgress, updated.Status)

	require.Len(t, publisher.published, 2)
	event, ok := publisher.published[1].(events.TaskUpdatedEvent)
	require.True(t, ok)
	assert.Equal(t, task.ID, event.TaskID)
	assert.Equal(t, editor, event.UpdatedBy)
}

func TestUpdateTaskRejectsUnknownStatus(t *testing.T) {
	repo := newFakeTaskRepository()
	publisher := &fakePublisher{}
	createUC := NewCreateTaskUseCase(repo, publisher)
	updateUC := NewUpdateTaskUseCase(repo, publisher)

	task, err := createUC.Execute(context.Background(), usecases_port.CreateTaskInput{Title: "t"}, uuid.New())
	require.NoError(t, err)

	bad := domain.TaskStatus("SHIPPED")
	_, err = updateUC.Execute(context.Background(), task.ID, usecases_port.UpdateTaskInput{Status: &bad}, uuid.New())
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	// No update event on rejection.
	assert.Len(t, publisher.published, 1)
}

func TestUpdateTaskNotFound(t *testing.T) {
	uc := NewUpdateTaskUseCase(newFakeTaskRepository(), &fakePublisher{})

	_, err := uc.Execute(context.Background(), uuid.New(), usecases_port.UpdateTaskInput{}, uuid.New())
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestDeleteTaskOnlyByCreator(t *testing.T) {
	repo := newFakeTaskRepository()
	createUC := NewCreateTaskUseCase(repo, &fakePublisher{})
	deleteUC := NewDeleteTaskUseCase(repo)

	creator := uuid.New()
	task, err := createUC.Execute(context.Background(), usecases_port.CreateTaskInput{Title: "t"}, creator)
	require.NoError(t, err)

	err = deleteUC.Execute(context.Background(), task.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotTaskOwner)

	err = deleteUC.Execute(context.Background(), task.ID, creator)
	require.NoError(t, err)

	_, err = repo.FindByID(context.Background(), task.ID)
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestGetTasksListPagination(t *testing.T) {
	repo := newFakeTaskRepository()
	createUC := NewCreateTaskUseCase(repo, &fakePublisher{})
	listUC := NewGetTasksListUseCase(repo)

	userID := uuid.New()
	for i := 0; i < 25; i++ {
		_, err := createUC.Execute(context.Background(), usecases_port.CreateTaskInput{Title: "t"}, userID)
		require.NoError(t, err)
	}

	page, total, err := listUC.Execute(context.Background(), userID, port.TaskFilter{}, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, page, 10)

	last, total, err := listUC.Execute(context.Background(), userID, port.TaskFilter{}, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	assert.Len(t, last, 5)
}

func TestGetTasksListNormalizesPageParams(t *testing.T) {
	repo := newFakeTaskRepository()
	listUC := NewGetTasksListUseCase(repo)

	_, _, err := listUC.Execute(context.Background(), uuid.New(), port.TaskFilter{}, 0, -5)
	require.NoError(t, err)
}

func TestGetTasksListRejectsUnknownFilter(t *testing.T) {
	listUC := NewGetTasksListUseCase(newFakeTaskRepository())

	_, _, err := listUC.Execute(context.Background(), uuid.New(), port.TaskFilter{Status: "SHIPPED"}, 1, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestCreateComment(t *testing.T) {
	taskRepo := newFakeTaskRepository()
	commentRepo := &fakeCommentRepository{}
	publisher := &fakePublisher{}
	createTaskUC := NewCreateTaskUseCase(taskRepo, publisher)
	createCommentUC := NewCreateCommentUseCase(taskRepo, commentRepo, publisher)

	creator := uuid.New()
	assignee := uuid.New()
	task, err := createTaskUC.Execute(context.Background(), usecases_port.CreateTaskInput{
		Title:           "t",
		AssignedUserIDs: []uuid.UUID{assignee},
	}, creator)
	require.NoError(t, err)

	author := uuid.New()
	comment, err := createCommentUC.Execute(context.Background(), task.ID, "looks good", author)
	require.NoError(t, err)
	assert.Equal(t, "looks good", comment.Content)
	assert.False(t, comment.CreatedAt.IsZero())
	assert.Equal(t, comment.CreatedAt, comment.UpdatedAt)

	require.Len(t, publisher.published, 2)
	event, ok := publisher.published[1].(events.CommentCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, task.ID, event.TaskID)
	assert.Equal(t, comment.ID, event.CommentID)
	assert.Equal(t, author, event.AuthorID)
	// The event carries the task's assignees so the consumer can fan out.
	assert.Equal(t, []uuid.UUID{assignee}, event.AssignedUserIDs)
}

func TestCreateCommentTaskNotFound(t *testing.T) {
	uc := NewCreateCommentUseCase(newFakeTaskRepository(), &fakeCommentRepository{}, &fakePublisher{})

	_, err := uc.Execute(context.Background(), uuid.New(), "hello", uuid.New())
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestGetComments(t *testing.T) {
	taskRepo := newFakeTaskRepository()
	commentRepo := &fakeCommentRepository{}
	publisher := &fakePublisher{}
	createTaskUC := NewCreateTaskUseCase(taskRepo, publisher)
	createCommentUC := NewCreateCommentUseCase(taskRepo, commentRepo, publisher)
	getCommentsUC := NewGetCommentsUseCase(taskRepo, commentRepo)

	task, err := createTaskUC.Execute(context.Background(), usecases_port.CreateTaskInput{Title: "t"}, uuid.New())
	require.NoError(t, err)

	_, err = createCommentUC.Execute(context.Background(), task.ID, "first", uuid.New())
	require.NoError(t, err)
	_, err = createCommentUC.Execute(context.Background(), task.ID, "second", uuid.New())
	require.NoError(t, err)

	comments, err := getCommentsUC.Execute(context.Background(), task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)
}
