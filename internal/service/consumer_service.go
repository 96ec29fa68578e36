package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"disclosure-engine-be/internal/dto"
	"disclosure-engine-be/internal/entity"
	"disclosure-engine-be/internal/events"
	"disclosure-engine-be/internal/pkg/logger"
	"disclosure-engine-be/internal/repository/specification"
	"disclosure-engine-be/internal/repository/unitofwork"
	"disclosure-engine-be/pkg/disclosure/report"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// ReportSynthesizer is satisfied by *report.Pipeline.
type ReportSynthesizer interface {
	Synthesize(ctx context.Context, in report.Input) (*report.Pair, error)
}

// Pusher delivers a realtime message to every connected client of a user.
type Pusher interface {
	Send(userID uuid.UUID, messageType string, data interface{})
}

const ReportStatusMessage = "report_status"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService is the report synthesis worker.
type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	uowFactory  unitofwork.RepositoryFactory
	synthesizer ReportSynthesizer
	publisher   events.Publisher
	pusher      Pusher
	logger      logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	synthesizer ReportSynthesizer,
	publisher events.Publisher,
	pusher Pusher,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		uowFactory:  uowFactory,
		synthesizer: synthesizer,
		publisher:   publisher,
		pusher:      pusher,
		logger:      logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ReportJobMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("REPORT_WORKER", "Failed to unmarshal job", map[string]interface{}{"error": err.Error()})
		msg.Ack() // redelivery cannot fix a bad payload
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	job, err := uow.DisclosureReportRepository().FindOne(ctx, specification.BySessionID{SessionID: payload.SessionId})
	if err != nil {
		cs.logger.Error("REPORT_WORKER", "Failed to load report", map[string]interface{}{
			"session_id": payload.SessionId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}
	if job == nil || job.Status != entity.ReportStatusPending {
		// Deleted, or a duplicate delivery of a job that already finished
		msg.Ack()
		return
	}

	product, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: job.ProductId})
	if err != nil {
		cs.logger.Error("REPORT_WORKER", "Failed to load product", map[string]interface{}{
			"session_id": job.SessionId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	rows, err := uow.TranscriptRepository().FindAll(ctx,
		specification.BySessionID{SessionID: job.SessionId},
		specification.OrderBy{Field: "sequence"},
	)
	if err != nil {
		cs.logger.Error("REPORT_WORKER", "Failed to load transcript", map[string]interface{}{
			"session_id": job.SessionId,
			"error":      err.Error(),
		})
		msg.Nack()
		return
	}

	productName := ""
	var pair *report.Pair
	if product == nil {
		err = fmt.Errorf("product %s no longer exists", job.ProductId)
	} else {
		productName = product.Name
		cs.logger.Info("REPORT_WORKER", "Synthesizing report", map[string]interface{}{
			"session_id": job.SessionId,
			"entries":    len(rows),
			"attempt":    job.Attempts + 1,
		})
		pair, err = cs.synthesizer.Synthesize(ctx, report.Input{
			SessionID:  job.SessionId,
			Product:    productToState(product),
			Sector:     job.Sector,
			Transcript: transcriptFromRows(rows),
		})
	}

	now := time.Now()
	job.Attempts++
	job.UpdatedAt = &now
	if err != nil {
		job.Status = entity.ReportStatusFailed
		job.LastError = err.Error()
	} else {
		job.Status = entity.ReportStatusReady
		job.LastError = ""
		job.Summary = &entity.ReportDocument{Title: pair.Summary.Title, Content: pair.Summary.Content}
		job.Findings = &entity.ReportDocument{Title: pair.Findings.Title, Content: pair.Findings.Content}
		generatedAt := pair.GeneratedAt
		job.GeneratedAt = &generatedAt
	}

	if uerr := uow.DisclosureReportRepository().Update(ctx, job); uerr != nil {
		cs.logger.Error("REPORT_WORKER", "Failed to save report outcome", map[string]interface{}{
			"session_id": job.SessionId,
			"error":      uerr.Error(),
		})
		msg.Nack()
		return
	}

	if err != nil {
		cs.logger.Warn("REPORT_WORKER", "Report synthesis failed", map[string]interface{}{
			"session_id": job.SessionId,
			"attempts":   job.Attempts,
			"error":      err.Error(),
		})
		cs.publisher.PublishReportFailed(ctx, job.SessionId, job.Id, job.RequesterId, productName, job.LastError, job.Attempts)
	} else {
		cs.logger.Info("REPORT_WORKER", "Report ready", map[string]interface{}{
			"session_id": job.SessionId,
			"attempts":   job.Attempts,
		})
		cs.publisher.PublishReportReady(ctx, job.SessionId, job.Id, job.RequesterId, productName)
	}

	if cs.pusher != nil {
		cs.pusher.Send(job.RequesterId, ReportStatusMessage, reportToDTO(job))
	}

	// Failures are recorded on the row; a retry is an explicit request
	msg.Ack()
}
