package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublisherStampsTimestamp(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store)

	err := pub.Emit(context.Background(), Event{SubjectID: "p-1", Action: ActionPersonCreated})
	require.NoError(t, err)

	events, err := pub.List(context.Background(), "p-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestNilPublisherDropsEvents(t *testing.T) {
	var pub *Publisher
	assert.NoError(t, pub.Emit(context.Background(), Event{SubjectID: "p-1"}))
}

func TestQueueBridgesPublisherToWorker(t *testing.T) {
	store := NewInMemoryStore()
	queue := NewQueue(4)
	worker := NewWorker(store, queue.Inbox())
	pub := NewPublisher(queue)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	require.NoError(t, pub.Emit(context.Background(), Event{SubjectID: "p-3", Action: ActionPersonCreated}))

	require.Eventually(t, func() bool {
		events, err := store.ListBySubject(context.Background(), "p-3")
		return err == nil && len(events) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestQueueDropsWhenFull(t *testing.T) {
	queue := NewQueue(1)

	require.NoError(t, queue.Append(context.Background(), Event{SubjectID: "p-4"}))
	require.NoError(t, queue.Append(context.Background(), Event{SubjectID: "p-4"}))

	assert.Len(t, queue.inbox, 1)
}

func TestWorkerDrainsInbox(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 2)
	worker := NewWorker(store, inbox)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	inbox <- Event{SubjectID: "p-2", Action: ActionPersonUpdated, Timestamp: time.Now()}
	inbox <- Event{SubjectID: "p-2", Action: ActionPersonDeleted, Timestamp: time.Now()}

	require.Eventually(t, func() bool {
		events, err := store.ListBySubject(context.Background(), "p-2")
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
