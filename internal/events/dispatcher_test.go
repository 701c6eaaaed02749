package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToMatchingSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var created, assigned []Event
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		created = append(created, e)
		return nil
	})
	d.Subscribe(EventTicketAssigned, func(_ context.Context, e Event) error {
		assigned = append(assigned, e)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "ticket-1"}))
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketStatusChanged, TicketID: "ticket-1"}))

	require.Len(t, created, 1)
	assert.Equal(t, "ticket-1", created[0].TicketID)
	assert.Empty(t, assigned)
}

func TestDispatcherContinuesPastFailingHandler(t *testing.T) {
	d := NewInMemoryDispatcher()

	var reached bool
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		return errors.New("handler failed")
	})
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		reached = true
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCreated}))
	assert.True(t, reached)
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	d := NewInMemoryDispatcher()
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketAssigned}))
}
