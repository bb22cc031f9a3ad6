package notifier

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/domain"
	"github.com/EmmanuelStocco/gestao-de-tasks-desafio/services/notifications-service/internal/core/port"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, fields port.Fields)             {}
func (nopLogger) Warn(msg string, fields port.Fields)             {}
func (nopLogger) Error(msg string, err error, fields port.Fields) {}
func (nopLogger) Debug(msg string, fields port.Fields)            {}
func (n nopLogger) WithFields(fields port.Fields) port.LoggerPort { return n }

func TestPresenceRegisterReplacesExistingConnection(t *testing.T) {
	presence := NewInMemoryPresence(nopLogger{})
	userID := uuid.New()

	first := presence.Register(userID)
	second := presence.Register(userID)

	// The first channel is closed so its subscriber loop terminates.
	_, open := <-first
	assert.False(t, open)

	current, found := presence.Lookup(userID)
	require.True(t, found)
	assert.Equal(t, second, current)
}

func TestPresenceUnregisterOnlyRemovesOwnChannel(t *testing.T) {
	presence := NewInMemoryPresence(nopLogger{})
	userID := uuid.New()

	first := presence.Register(userID)
	second := presence.Register(userID)

	// The stale connection's cleanup must not evict the replacement.
	presence.Unregister(userID, first)
	current, found := presence.Lookup(userID)
	require.True(t, found)
	assert.Equal(t, second, current)

	presence.Unregister(userID, second)
	_, found = presence.Lookup(userID)
	assert.False(t, found)
}

func TestPresenceSnapshotIsACopy(t *testing.T) {
	presence := NewInMemoryPresence(nopLogger{})
	userID := uuid.New()
	presence.Register(userID)

	snapshot := presence.Snapshot()
	delete(snapshot, userID)

	_, found := presence.Lookup(userID)
	assert.True(t, found)
}

func TestSendToUserDelivered(t *testing.T) {
	presence := NewInMemoryPresence(nopLogger{})
	pushNotifier := NewChannelPushNotifier(presence)

	userID := uuid.New()
	ch := presence.Register(userID)

	notification := domain.NewNotification(domain.TypeTaskCreated, "You have been assigned to a new task", userID, nil)
	result := pushNotifier.SendToUser(context.Background(), userID, *notification)

	require.True(t, result.Delivered)
	received := <-ch
	assert.Equal(t, notification.ID, received.ID)
}

func TestSendToUserNotConnected(t *testing.T) {
	presence := NewInMemoryPresence(nopLogger{})
	pushNotifier := NewChannelPushNotifier(presence)

	notification := domain.NewNotification(domain.TypeTaskCreated, "m", uuid.New(), nil)
	result := pushNotifier.SendToUser(context.Background(), uuid.New(), *notification)

	assert.False(t, result.Delivered)
	assert.Equal(t, "user not connected", result.Reason)
}

func TestSendToUserFullBufferDrops(t *testing.T) {
	presence := NewInMemoryPresence(nopLogger{})
	pushNotifier := NewChannelPushNotifier(presence)

	userID := uuid.New()
	presence.Register(userID)

	notification := domain.NewNotification(domain.TypeTaskUpdated, "m", userID, nil)
	for i := 0; i < channelBuffer; i++ {
		result := pushNotifier.SendToUser(context.Background(), userID, *notification)
		require.True(t, result.Delivered)
	}

	result := pushNotifier.SendToUser(context.Background(), userID, *notification)
	assert.False(t, result.Delivered)
	assert.Equal(t, "connection buffer full", result.Reason)
}

func TestSendToUserDuringReconnectDoesNotPanic(t *testing.T) {
	presence := NewInMemoryPresence(nopLogger{})
	pushNotifier := NewChannelPushNotifier(presence)

	userID := uuid.New()
	presence.Register(userID)
	notification := domain.NewNotification(domain.TypeTaskCreated, "m", userID, nil)

	// Senders race against repeated reconnects. A send into a channel
	// closed by Register would panic and fail the test.
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					pushNotifier.SendToUser(context.Background(), userID, *notification)
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		presence.Register(userID)
	}

	close(done)
	wg.Wait()
}

func TestBroadcastReportsPerUserResults(t *testing.T) {
	presence := NewInMemoryPresence(nopLogger{})
	pushNotifier := NewChannelPushNotifier(presence)

	connected := uuid.New()
	presence.Register(connected)

	notification := domain.NewNotification(domain.TypeCommentNew, "m", connected, nil)
	results := pushNotifier.Broadcast(context.Background(), *notification)

	require.Len(t, results, 1)
	assert.True(t, results[connected].Delivered)
}
