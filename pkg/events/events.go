// Package events defines the wire contract shared by the tasks-service
// publisher and the notifications-service consumer: a closed tagged union of
// domain events, serialized as a flat JSON object with a "type" discriminant.
package events

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Kind is the dot-delimited event discriminant. The same spelling is used as
// the routing key at the publish boundary.
type Kind string

const (
	KindTaskCreated    Kind = "task.created"
	KindTaskUpdated    Kind = "task.updated"
	KindCommentCreated Kind = "task.comment.created"
)

// ErrUnknownKind is returned by Decode for discriminants outside the union.
var ErrUnknownKind = errors.New("events: unknown event kind")

// DomainEvent is a closed union over the three event variants. The unexported
// marker method keeps the set of implementations local to this package, so a
// type switch over the variants is exhaustive by construction.
type DomainEvent interface {
	Kind() Kind
	sealed()
}

// TaskCreatedEvent is emitted after a task is created.
type TaskCreatedEvent struct {
	TaskID          uuid.UUID   `json:"taskId"`
	AssignedUserIDs []uuid.UUID `json:"assignedUserIds"`
	CreatedBy       uuid.UUID   `json:"createdBy"`
}

func (TaskCreatedEvent) Kind() Kind { return KindTaskCreated }
func (TaskCreatedEvent) sealed()    {}

// TaskUpdatedEvent is emitted after any task mutation, including assignment
// changes and status moves.
type TaskUpdatedEvent struct {
	TaskID          uuid.UUID   `json:"taskId"`
	AssignedUserIDs []uuid.UUID `json:"assignedUserIds"`
	UpdatedBy       uuid.UUID   `json:"updatedBy"`
}

func (TaskUpdatedEvent) Kind() Kind { return KindTaskUpdated }
func (TaskUpdatedEvent) sealed()    {}

// CommentCreatedEvent is emitted after a comment is added to a task.
type CommentCreatedEvent struct {
	TaskID          uuid.UUID   `json:"taskId"`
	CommentID       uuid.UUID   `json:"commentId"`
	AssignedUserIDs []uuid.UUID `json:"assignedUserIds"`
	AuthorID        uuid.UUID   `json:"authorId"`
}

func (CommentCreatedEvent) Kind() Kind { return KindCommentCreated }
func (CommentCreatedEvent) sealed()    {}

// RoutingKey returns the topic routing key for an event. Dots are preserved
// here; the colon-delimited spelling exists only at the notification-storage
// boundary.
func RoutingKey(e DomainEvent) string {
	return string(e.Kind())
}

// Encode serializes an event as a flat JSON object with a "type" field. The
// payload carries no timestamp or retry metadata; broker metadata covers that.
// A nil recipient set is written as an empty array, never as JSON null.
func Encode(e DomainEvent) ([]byte, error) {
	switch ev := e.(type) {
	case TaskCreatedEvent:
		if ev.AssignedUserIDs == nil {
			ev.AssignedUserIDs = []uuid.UUID{}
		}
		return json.Marshal(struct {
			Type Kind `json:"type"`
			TaskCreatedEvent
		}{ev.Kind(), ev})
	case TaskUpdatedEvent:
		if ev.AssignedUserIDs == nil {
			ev.AssignedUserIDs = []uuid.UUID{}
		}
		return json.Marshal(struct {
			Type Kind `json:"type"`
			TaskUpdatedEvent
		}{ev.Kind(), ev})
	case CommentCreatedEvent:
		if ev.AssignedUserIDs == nil {
			ev.AssignedUserIDs = []uuid.UUID{}
		}
		return json.Marshal(struct {
			Type Kind `json:"type"`
			CommentCreatedEvent
		}{ev.Kind(), ev})
	default:
		// Unreachable while the union stays closed.
		return nil, fmt.Errorf("events: cannot encode %T", e)
	}
}

type envelope struct {
	Type Kind `json:"type"`
}

// Decode parses a wire message back into its variant. Unknown discriminants
// return ErrUnknownKind so consumers can drop the message instead of guessing.
func Decode(data []byte) (DomainEvent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("events: failed to read discriminant: %w", err)
	}

	switch env.Type {
	case KindTaskCreated:
		var ev TaskCreatedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("events: failed to decode %s: %w", env.Type, err)
		}
		return ev, nil
	case KindTaskUpdated:
		var ev TaskUpdatedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("events: failed to decode %s: %w", env.Type, err)
		}
		return ev, nil
	case KindCommentCreated:
		var ev CommentCreatedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("events: failed to decode %s: %w", env.Type, err)
		}
		return ev, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, env.Type)
	}
}

// AssignedUsers returns the recipient set of any variant. Every notification
// created downstream must name a user from this set.
func AssignedUsers(e DomainEvent) []uuid.UUID {
	switch ev := e.(type) {
	case TaskCreatedEvent:
		return ev.AssignedUserIDs
	case TaskUpdatedEvent:
		return ev.AssignedUserIDs
	case CommentCreatedEvent:
		return ev.AssignedUserIDs
	}
	return nil
}
