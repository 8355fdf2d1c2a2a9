package publisher

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "github.com/Ip-Tec/ContactSync-sub000/pkg/domain"
	"github.com/Ip-Tec/ContactSync-sub000/pkg/platform/audit"
	"github.com/Ip-Tec/ContactSync-sub000/pkg/platform/audit/store/memory"
)

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	userID := id.UserID(uuid.New())
	event := audit.Event{
		UserID: userID,
		Action: audit.ActionContactCreated,
	}

	err := pub.Emit(context.Background(), event)
	require.NoError(t, err)

	events, err := pub.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, audit.ActionContactCreated, events[0].Action)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestPublisher_AsyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(10))

	userID := id.UserID(uuid.New())
	for i := 0; i < 5; i++ {
		err := pub.Emit(context.Background(), audit.Event{
			UserID: userID,
			Action: audit.ActionFieldInserted,
		})
		require.NoError(t, err)
	}

	// Close flushes the buffer before we read.
	pub.Close()

	events, err := pub.List(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func TestPublisher_AsyncFullBufferFallsBackToSync(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))
	defer pub.Close()

	userID := id.UserID(uuid.New())
	deadline := time.Now().Add(2 * time.Second)
	for i := 0; i < 50 && time.Now().Before(deadline); i++ {
		require.NoError(t, pub.Emit(context.Background(), audit.Event{
			UserID: userID,
			Action: audit.ActionContactUpdated,
		}))
	}
	pub.Close()

	events, err := pub.List(context.Background(), userID)
	require.NoError(t, err)
	assert.NotEmpty(t, events)
}
