package events

import (
	"context"
	"time"

	"disclosure-engine-be/internal/pkg/logger"
	pkgEvents "disclosure-engine-be/pkg/events"

	"github.com/google/uuid"
)

// Bus is the transport side of publishing, normally *nats.Publisher.
type Bus interface {
	Publish(ctx context.Context, event pkgEvents.Event) error
}

// Publisher emits questionnaire domain events. Publishing is best effort:
// failures are logged and never surface to the caller.
type Publisher interface {
	PublishProductAccepted(ctx context.Context, productId, ownerId uuid.UUID, productName, category string)
	PublishQuestionnaireCompleted(ctx context.Context, sessionId string, productId, requesterId uuid.UUID, answers int)
	PublishReportReady(ctx context.Context, sessionId string, reportId, requesterId uuid.UUID, productName string)
	PublishReportFailed(ctx context.Context, sessionId string, reportId, requesterId uuid.UUID, productName, reason string, attempts int)
}

// NatsPublisher implements Publisher on top of a Bus. A nil bus disables publishing.
type NatsPublisher struct {
	bus    Bus
	logger logger.ILogger
	now    func() time.Time
}

func NewNatsPublisher(bus Bus, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		bus:    bus,
		logger: logger,
		now:    time.Now,
	}
}

func (p *NatsPublisher) PublishProductAccepted(ctx context.Context, productId, ownerId uuid.UUID, productName, category string) {
	p.publish(ctx, pkgEvents.ProductAccepted, map[string]interface{}{
		"user_id":      ownerId.String(),
		"product_id":   productId.String(),
		"product_name": productName,
		"category":     category,
		"entity_type":  "product",
		"entity_id":    productId.String(),
	})
}

func (p *NatsPublisher) PublishQuestionnaireCompleted(ctx context.Context, sessionId string, productId, requesterId uuid.UUID, answers int) {
	p.publish(ctx, pkgEvents.QuestionnaireCompleted, map[string]interface{}{
		"user_id":     requesterId.String(),
		"session_id":  sessionId,
		"product_id":  productId.String(),
		"answers":     answers,
		"entity_type": "session",
		"entity_id":   sessionId,
	})
}

func (p *NatsPublisher) PublishReportReady(ctx context.Context, sessionId string, reportId, requesterId uuid.UUID, productName string) {
	p.publish(ctx, pkgEvents.DisclosureReportReady, map[string]interface{}{
		"user_id":      requesterId.String(),
		"session_id":   sessionId,
		"report_id":    reportId.String(),
		"product_name": productName,
		"entity_type":  "report",
		"entity_id":    sessionId,
	})
}

func (p *NatsPublisher) PublishReportFailed(ctx context.Context, sessionId string, reportId, requesterId uuid.UUID, productName, reason string, attempts int) {
	p.publish(ctx, pkgEvents.DisclosureReportFailed, map[string]interface{}{
		"user_id":      requesterId.String(),
		"session_id":   sessionId,
		"report_id":    reportId.String(),
		"product_name": productName,
		"reason":       reason,
		"attempts":     attempts,
		"entity_type":  "report",
		"entity_id":    sessionId,
	})
}

func (p *NatsPublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.bus == nil {
		return
	}

	now := p.now()
	data["occurred_at"] = now
	evt := pkgEvents.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: now,
	}

	if err := p.bus.Publish(ctx, evt); err != nil {
		p.logger.Error("EVENTS", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}
