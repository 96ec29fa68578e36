package events

import (
	"context"
	"errors"
	"testing"

	"disclosure-engine-be/internal/pkg/logger"
	pkgEvents "disclosure-engine-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBus struct {
	events []pkgEvents.Event
	err    error
}

func (b *recordingBus) Publish(_ context.Context, event pkgEvents.Event) error {
	b.events = append(b.events, event)
	return b.err
}

func TestPublishReportReady(t *testing.T) {
	bus := &recordingBus{}
	p := NewNatsPublisher(bus, logger.NewNopLogger())
	requester := uuid.New()

	p.PublishReportReady(context.Background(), "s-1", uuid.New(), requester, "Farm Butter")

	require.Len(t, bus.events, 1)
	evt := bus.events[0]
	assert.Equal(t, pkgEvents.DisclosureReportReady, evt.EventType())
	assert.Equal(t, requester.String(), evt.Payload()["user_id"])
	assert.Equal(t, "s-1", evt.Payload()["entity_id"])
}

func TestPublishSwallowsBusErrors(t *testing.T) {
	bus := &recordingBus{err: errors.New("nats down")}
	p := NewNatsPublisher(bus, logger.NewNopLogger())

	assert.NotPanics(t, func() {
		p.PublishReportFailed(context.Background(), "s-1", uuid.New(), uuid.New(), "Soap", "boom", 2)
	})
	assert.Len(t, bus.events, 1)
}

func TestNilBusIsNoop(t *testing.T) {
	p := NewNatsPublisher(nil, logger.NewNopLogger())

	assert.NotPanics(t, func() {
		p.PublishProductAccepted(context.Background(), uuid.New(), uuid.New(), "Soap", "cosmetics")
	})
}
