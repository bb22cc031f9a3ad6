package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/events"
)

func TestTypeForKindCoversAllWireKinds(t *testing.T) {
	cases := map[events.Kind]NotificationType{
		events.KindTaskCreated:    TypeTaskCreated,
		events.KindTaskUpdated:    TypeTaskUpdated,
		events.KindCommentCreated: TypeCommentNew,
	}

	for kind, want := range cases {
		got, ok := TypeForKind(kind)
		require.True(t, ok, "kind %s", kind)
		assert.Equal(t, want, got)
	}

	_, ok := TypeForKind(events.Kind("task.deleted"))
	assert.False(t, ok)
}

func TestStoredTypesAreColonDelimited(t *testing.T) {
	assert.Equal(t, NotificationType("task:created"), TypeTaskCreated)
	assert.Equal(t, NotificationType("task:updated"), TypeTaskUpdated)
	assert.Equal(t, NotificationType("comment:new"), TypeCommentNew)
}

func TestMessageForTypeTemplates(t *testing.T) {
	assert.Equal(t, "You have been assigned to a new task", MessageForType(TypeTaskCreated))
	assert.Equal(t, "A task you are assigned to was updated", MessageForType(TypeTaskUpdated))
	assert.Equal(t, "New comment on a task you are assigned to", MessageForType(TypeCommentNew))
}

func TestNewNotificationDefaults(t *testing.T) {
	userID := uuid.New()
	taskID := uuid.New()

	n := NewNotification(TypeTaskCreated, "m", userID, &taskID)

	assert.NotEqual(t, uuid.Nil, n.ID)
	assert.False(t, n.Read)
	assert.Equal(t, userID, n.UserID)
	require.NotNil(t, n.TaskID)
	assert.Equal(t, taskID, *n.TaskID)
	assert.False(t, n.CreatedAt.IsZero())
}
