package contracts

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/pkg/events"
)

func TestValidateEventAcceptsEncodedEvents(t *testing.T) {
	samples := []events.DomainEvent{
		events.TaskCreatedEvent{
			TaskID:          uuid.New(),
			AssignedUserIDs: []uuid.UUID{uuid.New()},
			CreatedBy:       uuid.New(),
		},
		events.TaskUpdatedEvent{
			TaskID:          uuid.New(),
			AssignedUserIDs: []uuid.UUID{},
			UpdatedBy:       uuid.New(),
		},
		events.CommentCreatedEvent{
			TaskID:          uuid.New(),
			CommentID:       uuid.New(),
			AssignedUserIDs: []uuid.UUID{uuid.New(), uuid.New()},
			AuthorID:        uuid.New(),
		},
	}

	for _, event := range samples {
		body, err := events.Encode(event)
		require.NoError(t, err)
		assert.NoError(t, ValidateEvent(event.Kind(), body), "kind %s", event.Kind())
	}
}

func TestValidateEventRejectsUnknownKind(t *testing.T) {
	err := ValidateEvent(events.Kind("task.deleted"), []byte(`{}`))
	assert.Error(t, err)
}

func TestValidateEventRejectsMalformedBody(t *testing.T) {
	err := ValidateEvent(events.KindTaskCreated, []byte(`not json`))
	assert.Error(t, err)
}

func TestValidateEventRejectsMissingFields(t *testing.T) {
	err := ValidateEvent(events.KindTaskCreated, []byte(`{"type":"task.created"}`))
	assert.Error(t, err)
}

func TestKindFromPath(t *testing.T) {
	assert.Equal(t, events.KindTaskCreated, kindFromPath("events/task_created.json"))
	assert.Equal(t, events.KindCommentCreated, kindFromPath("events/task_comment_created.json"))
}
