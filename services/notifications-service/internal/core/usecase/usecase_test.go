package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/events"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/adapters/notifier"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/port"
)

type fakeNotificationRepository struct {
	notifications []domain.Notification
	failForUser   map[uuid.UUID]bool
	readIDs       []uuid.UUID
	readAllUsers  []uuid.UUID
}

func newFakeNotificationRepository() *fakeNotificationRepository {
	return &fakeNotificationRepository{failForUser: make(map[uuid.UUID]bool)}
}

func (r *fakeNotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	if r.failForUser[notification.UserID] {
		return errors.New("db down")
	}
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *fakeNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Notification, int64, error) {
	var owned []domain.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			owned = append(owned, n)
		}
	}
	total := int64(len(owned))
	if offset >= len(owned) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], total, nil
}

func (r *fakeNotificationRepository) MarkAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	for i := range r.notifications {
		if r.notifications[i].ID == notificationID && r.notifications[i].UserID == userID {
			r.notifications[i].Read = true
		}
	}
	r.readIDs = append(r.readIDs, notificationID)
	return nil
}

func (r *fakeNotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	for i := range r.notifications {
		if r.notifications[i].UserID == userID {
			r.notifications[i].Read = true
		}
	}
	r.readAllUsers = append(r.readAllUsers, userID)
	return nil
}

func (r *fakeNotificationRepository) forUser(userID uuid.UUID) []domain.Notification {
	var owned []domain.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			owned = append(owned, n)
		}
	}
	return owned
}

type fakePushNotifier struct {
	sent      []domain.Notification
	connected map[uuid.UUID]bool
}

func newFakePushNotifier() *fakePushNotifier {
	return &fakePushNotifier{connected: make(map[uuid.UUID]bool)}
}

func (n *fakePushNotifier) SendToUser(ctx context.Context, userID uuid.UUID, notification domain.Notification) port.DeliveryResult {
	if !n.connected[userID] {
		return port.DeliveryResult{Delivered: false, Reason: "user not connected"}
	}
	n.sent = append(n.sent, notification)
	return port.DeliveryResult{Delivered: true}
}

func (n *fakePushNotifier) Broadcast(ctx context.Context, notification domain.Notification) map[uuid.UUID]port.DeliveryResult {
	results := make(map[uuid.UUID]port.DeliveryResult)
	for userID := range n.connected {
		results[userID] = n.SendToUser(ctx, userID, notification)
	}
	return results
}

func TestProcessEventCreatesRowPerAssignedUser(t *testing.T) {
	repo := newFakeNotificationRepository()
	notifier := newFakePushNotifier()
	uc := NewProcessEventUseCase(repo, notifier)

	taskID := uuid.New()
	userA := uuid.New()
	userB := uuid.New()
	creator := uuid.New()

	err := uc.Execute(context.Background(), events.TaskCreatedEvent{
		TaskID:          taskID,
		AssignedUserIDs: []uuid.UUID{userA, userB},
		CreatedBy:       creator,
	})
	require.NoError(t, err)

	require.Len(t, repo.notifications, 2)
	for i, userID := range []uuid.UUID{userA, userB} {
		n := repo.notifications[i]
		assert.Equal(t, userID, n.UserID)
		assert.Equal(t, domain.TypeTaskCreated, n.Type)
		assert.Equal(t, "You have been assigned to a new task", n.Message)
		require.NotNil(t, n.TaskID)
		assert.Equal(t, taskID, *n.TaskID)
		assert.False(t, n.Read)
	}
}

func TestProcessEventDoesNotExcludeActor(t *testing.T) {
	repo := newFakeNotificationRepository()
	uc := NewProcessEventUseCase(repo, newFakePushNotifier())

	actor := uuid.New()

	// The actor appears in the recipient set and still gets a row.
	err := uc.Execute(context.Background(), events.TaskUpdatedEvent{
		TaskID:          uuid.New(),
		AssignedUserIDs: []uuid.UUID{actor},
		UpdatedBy:       actor,
	})
	require.NoError(t, err)

	require.Len(t, repo.notifications, 1)
	assert.Equal(t, actor, repo.notifications[0].UserID)
	assert.Equal(t, domain.TypeTaskUpdated, repo.notifications[0].Type)
}

func TestProcessEventCommentCreated(t *testing.T) {
	repo := newFakeNotificationRepository()
	notifier := newFakePushNotifier()
	uc := NewProcessEventUseCase(repo, notifier)

	userA := uuid.New()
	notifier.connected[userA] = true

	err := uc.Execute(context.Background(), events.CommentCreatedEvent{
		TaskID:          uuid.New(),
		CommentID:       uuid.New(),
		AssignedUserIDs: []uuid.UUID{userA},
		AuthorID:        uuid.New(),
	})
	require.NoError(t, err)

	require.Len(t, repo.notifications, 1)
	assert.Equal(t, domain.TypeCommentNew, repo.notifications[0].Type)
	assert.Equal(t, "New comment on a task you are assigned to", repo.notifications[0].Message)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, repo.notifications[0].ID, notifier.sent[0].ID)
}

func TestProcessEventAttemptsAllRowsOnPartialFailure(t *testing.T) {
	repo := newFakeNotificationRepository()
	uc := NewProcessEventUseCase(repo, newFakePushNotifier())

	failing := uuid.New()
	healthy := uuid.New()
	repo.failForUser[failing] = true

	err := uc.Execute(context.Background(), events.TaskCreatedEvent{
		TaskID:          uuid.New(),
		AssignedUserIDs: []uuid.UUID{failing, healthy},
		CreatedBy:       uuid.New(),
	})
	require.Error(t, err)

	// The failure for the first recipient does not stop the second row.
	require.Len(t, repo.forUser(healthy), 1)
	assert.Empty(t, repo.forUser(failing))
}

func TestProcessEventDroppedPushIsNotAnError(t *testing.T) {
	repo := newFakeNotificationRepository()
	notifier := newFakePushNotifier()
	uc := NewProcessEventUseCase(repo, notifier)

	err := uc.Execute(context.Background(), events.TaskCreatedEvent{
		TaskID:          uuid.New(),
		AssignedUserIDs: []uuid.UUID{uuid.New()},
		CreatedBy:       uuid.New(),
	})

	require.NoError(t, err)
	assert.Len(t, repo.notifications, 1)
	assert.Empty(t, notifier.sent)
}

func TestGetNotificationsNormalizesPaging(t *testing.T) {
	repo := newFakeNotificationRepository()
	uc := NewGetNotificationsUseCase(repo)

	userID := uuid.New()
	for i := 0; i < 15; i++ {
		n := domain.NewNotification(domain.TypeTaskCreated, "m", userID, nil)
		require.NoError(t, repo.Create(context.Background(), n))
	}

	page1, total, err := uc.Execute(context.Background(), userID, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 15, total)
	assert.Len(t, page1, 10)

	page2, _, err := uc.Execute(context.Background(), userID, 2, 10)
	require.NoError(t, err)
	assert.Len(t, page2, 5)
}

func TestMarkAsReadIsScoped(t *testing.T) {
	repo := newFakeNotificationRepository()
	uc := NewMarkAsReadUseCase(repo)

	owner := uuid.New()
	stranger := uuid.New()
	n := domain.NewNotification(domain.TypeTaskCreated, "m", owner, nil)
	require.NoError(t, repo.Create(context.Background(), n))

	// A foreign user id matches nothing and is still not an error.
	require.NoError(t, uc.Execute(context.Background(), n.ID, stranger))
	assert.False(t, repo.notifications[0].Read)

	require.NoError(t, uc.Execute(context.Background(), n.ID, owner))
	assert.True(t, repo.notifications[0].Read)
}

func TestMarkAllAsReadIsIdempotent(t *testing.T) {
	repo := newFakeNotificationRepository()
	uc := NewMarkAllAsReadUseCase(repo)

	userID := uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(context.Background(), domain.NewNotification(domain.TypeTaskUpdated, "m", userID, nil)))
	}

	require.NoError(t, uc.Execute(context.Background(), userID))
	require.NoError(t, uc.Execute(context.Background(), userID))

	for _, n := range repo.forUser(userID) {
		assert.True(t, n.Read)
	}
}

func TestProcessEventRejectsUnknownKind(t *testing.T) {
	_, ok := domain.TypeForKind(events.Kind("task.archived"))
	assert.False(t, ok)
}

type stubLogger struct{}

func (stubLogger) Info(msg string, fields port.Fields)             {}
func (stubLogger) Warn(msg string, fields port.Fields)             {}
func (stubLogger) Error(msg string, err error, fields port.Fields) {}
func (stubLogger) Debug(msg string, fields port.Fields)            {}
func (s stubLogger) WithFields(fields port.Fields) port.LoggerPort { return s }

func TestProcessEventEndToEndWithLivePresence(t *testing.T) {
	repo := newFakeNotificationRepository()
	presence := notifier.NewInMemoryPresence(stubLogger{})
	pushNotifier := notifier.NewChannelPushNotifier(presence)
	uc := NewProcessEventUseCase(repo, pushNotifier)

	taskID := uuid.New()
	connectedUser := uuid.New()
	offlineUser := uuid.New()
	ch := presence.Register(connectedUser)

	err := uc.Execute(context.Background(), events.TaskCreatedEvent{
		TaskID:          taskID,
		AssignedUserIDs: []uuid.UUID{connectedUser, offlineUser},
		CreatedBy:       uuid.New(),
	})
	require.NoError(t, err)

	// Both users got a row, only the connected one got a push.
	require.Len(t, repo.notifications, 2)
	for _, n := range repo.notifications {
		assert.Equal(t, domain.TypeTaskCreated, n.Type)
		assert.False(t, n.Read)
	}

	select {
	case pushed := <-ch:
		assert.Equal(t, connectedUser, pushed.UserID)
		require.NotNil(t, pushed.TaskID)
		assert.Equal(t, taskID, *pushed.TaskID)
	default:
		t.Fatal("expected a push for the connected user")
	}

	select {
	case extra := <-ch:
		t.Fatalf("unexpected second push: %v", extra.ID)
	default:
	}
}
