package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/domain"
)

func TestParsePageParamsDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/v1/notifications", nil)

	page, size, err := parsePageParams(r)
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)
}

func TestParsePageParamsRejectsGarbage(t *testing.T) {
	for _, q := range []string{"page=0", "page=abc", "size=-1", "size=x"} {
		r := httptest.NewRequest("GET", "/api/v1/notifications?"+q, nil)
		_, _, err := parsePageParams(r)
		assert.Error(t, err, q)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 10))
	assert.Equal(t, 1, totalPages(1, 10))
	assert.Equal(t, 2, totalPages(11, 10))
}

func TestToNotificationResponse(t *testing.T) {
	taskID := uuid.New()
	n := &domain.Notification{
		ID:        uuid.New(),
		Type:      domain.TypeCommentNew,
		Message:   "New comment on a task you are assigned to",
		UserID:    uuid.New(),
		TaskID:    &taskID,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}

	resp := toNotificationResponse(n)

	assert.Equal(t, n.ID.String(), resp.ID)
	assert.Equal(t, "comment:new", resp.Type)
	require.NotNil(t, resp.TaskID)
	assert.Equal(t, taskID.String(), *resp.TaskID)
	assert.False(t, resp.Read)
}

func TestToNotificationResponseOmitsNilTaskID(t *testing.T) {
	n := domain.NewNotification(domain.TypeTaskCreated, "m", uuid.New(), nil)

	payload, err := json.Marshal(toNotificationResponse(n))
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "taskId")
}

type fakeGetNotificationsUC struct {
	notifications []domain.Notification
	total         int64
}

func (f *fakeGetNotificationsUC) Execute(ctx context.Context, userID uuid.UUID, page, size int) ([]domain.Notification, int64, error) {
	return f.notifications, f.total, nil
}

type fakeMarkUC struct{ called bool }

func (f *fakeMarkUC) Execute(ctx context.Context, notificationID, userID uuid.UUID) error {
	f.called = true
	return nil
}

type fakeMarkAllUC struct{ called bool }

func (f *fakeMarkAllUC) Execute(ctx context.Context, userID uuid.UUID) error {
	f.called = true
	return nil
}

func TestGetNotificationsHandlerReturnsPage(t *testing.T) {
	userID := uuid.New()
	n := domain.NewNotification(domain.TypeTaskCreated, "You have been assigned to a new task", userID, nil)
	getUC := &fakeGetNotificationsUC{notifications: []domain.Notification{*n}, total: 1}

	handler := NewNotificationHandler(getUC, &fakeMarkUC{}, &fakeMarkAllUC{}, nil)

	r := httptest.NewRequest("GET", "/api/v1/notifications", nil)
	r = r.WithContext(ContextWithUserID(r.Context(), userID))
	w := httptest.NewRecorder()

	handler.GetNotifications(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var resp PaginatedNotificationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 10, resp.Size)
	assert.Equal(t, 1, resp.TotalPages)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, n.ID.String(), resp.Data[0].ID)
}

func TestGetNotificationsHandlerRequiresUser(t *testing.T) {
	handler := NewNotificationHandler(&fakeGetNotificationsUC{}, &fakeMarkUC{}, &fakeMarkAllUC{}, nil)

	r := httptest.NewRequest("GET", "/api/v1/notifications", nil)
	w := httptest.NewRecorder()

	handler.GetNotifications(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
