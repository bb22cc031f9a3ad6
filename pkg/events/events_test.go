package events

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	taskID := uuid.New()
	userA := uuid.New()
	userB := uuid.New()
	actor := uuid.New()
	commentID := uuid.New()

	cases := []struct {
		name  string
		event DomainEvent
	}{
		{"task created", TaskCreatedEvent{TaskID: taskID, AssignedUserIDs: []uuid.UUID{userA, userB}, CreatedBy: actor}},
		{"task updated", TaskUpdatedEvent{TaskID: taskID, AssignedUserIDs: []uuid.UUID{userA}, UpdatedBy: actor}},
		{"comment created", CommentCreatedEvent{TaskID: taskID, CommentID: commentID, AssignedUserIDs: []uuid.UUID{userB}, AuthorID: actor}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Encode(tc.event)
			require.NoError(t, err)

			decoded, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, tc.event, decoded)
			assert.Equal(t, tc.event.Kind(), decoded.Kind())
		})
	}
}

func TestEncodeProducesFlatObjectWithDiscriminant(t *testing.T) {
	ev := TaskCreatedEvent{TaskID: uuid.New(), AssignedUserIDs: []uuid.UUID{uuid.New()}, CreatedBy: uuid.New()}

	data, err := Encode(ev)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "task.created", raw["type"])
	assert.Contains(t, raw, "taskId")
	assert.Contains(t, raw, "assignedUserIds")
	assert.Contains(t, raw, "createdBy")
	// Flat object: the payload is not nested under a "data" key.
	assert.NotContains(t, raw, "data")
}

func TestEncodeNilAssignedUsersAsEmptyArray(t *testing.T) {
	cases := []struct {
		name  string
		event DomainEvent
	}{
		{"task created", TaskCreatedEvent{TaskID: uuid.New(), CreatedBy: uuid.New()}},
		{"task updated", TaskUpdatedEvent{TaskID: uuid.New(), UpdatedBy: uuid.New()}},
		{"comment created", CommentCreatedEvent{TaskID: uuid.New(), CommentID: uuid.New(), AuthorID: uuid.New()}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Encode(tc.event)
			require.NoError(t, err)

			// JSON null here would fail array validation downstream.
			assert.Contains(t, string(data), `"assignedUserIds":[]`)

			decoded, err := Decode(data)
			require.NoError(t, err)
			assert.Empty(t, AssignedUsers(decoded))
		})
	}
}

func TestDecodeUnknownKind(t *testing.T) {
	_, err := Decode([]byte(`{"type":"task.archived","taskId":"x"}`))
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestDecodeMalformedBody(t *testing.T) {
	_, err := Decode([]byte(`{`))
	assert.Error(t, err)
}

func TestRoutingKeyPreservesDots(t *testing.T) {
	assert.Equal(t, "task.created", RoutingKey(TaskCreatedEvent{}))
	assert.Equal(t, "task.updated", RoutingKey(TaskUpdatedEvent{}))
	assert.Equal(t, "task.comment.created", RoutingKey(CommentCreatedEvent{}))
}

func TestAssignedUsers(t *testing.T) {
	users := []uuid.UUID{uuid.New(), uuid.New()}
	assert.Equal(t, users, AssignedUsers(TaskCreatedEvent{AssignedUserIDs: users}))
	assert.Equal(t, users, AssignedUsers(TaskUpdatedEvent{AssignedUserIDs: users}))
	assert.Equal(t, users, AssignedUsers(CommentCreatedEvent{AssignedUserIDs: users}))
}
