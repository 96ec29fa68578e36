package service

import (
	"context"
	"time"

	"disclosure-engine-be/internal/dto"
	"disclosure-engine-be/internal/entity"
	"disclosure-engine-be/internal/events"
	"disclosure-engine-be/internal/pkg/logger"
	"disclosure-engine-be/internal/repository/specification"
	"disclosure-engine-be/internal/repository/unitofwork"
	"disclosure-engine-be/pkg/disclosure"
	"disclosure-engine-be/pkg/disclosure/flow"

	"github.com/google/uuid"
)

type IReportService interface {
	flow.CompletionHook
	GetReport(ctx context.Context, requesterId uuid.UUID, sessionId string) (*dto.ReportResponse, error)
	Retry(ctx context.Context, requesterId uuid.UUID, sessionId string) (*dto.ReportResponse, error)
}

type reportService struct {
	uowFactory unitofwork.RepositoryFactory
	jobs       IPublisherService
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewReportService(
	uowFactory unitofwork.RepositoryFactory,
	jobs IPublisherService,
	publisher events.Publisher,
	logger logger.ILogger,
) IReportService {
	return &reportService{
		uowFactory: uowFactory,
		jobs:       jobs,
		publisher:  publisher,
		logger:     logger,
	}
}

// OnComplete runs once per completed session, off the request goroutine.
func (s *reportService) OnComplete(ctx context.Context, c flow.Completion) {
	productId, err := uuid.Parse(c.Product.ID)
	if err != nil {
		s.logger.Error("REPORT", "Completed session has no valid product id", map[string]interface{}{
			"session_id": c.SessionID,
			"product_id": c.Product.ID,
		})
		return
	}
	requesterId, err := uuid.Parse(c.RequesterID)
	if err != nil {
		s.logger.Error("REPORT", "Completed session has no valid requester id", map[string]interface{}{
			"session_id":   c.SessionID,
			"requester_id": c.RequesterID,
		})
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		s.logger.Error("REPORT", "Failed to begin transaction", map[string]interface{}{"error": err.Error()})
		return
	}
	defer uow.Rollback()

	// The completed transcript is authoritative; rows left by an earlier run of this session id go
	rows := transcriptRows(c.SessionID, productId, requesterId, c.Transcript, 0)
	if err := uow.TranscriptRepository().Replace(ctx, c.SessionID, rows...); err != nil {
		s.logger.Error("REPORT", "Failed to mirror transcript", map[string]interface{}{
			"session_id": c.SessionID,
			"error":      err.Error(),
		})
		return
	}

	report, err := uow.DisclosureReportRepository().FindOne(ctx, specification.BySessionID{SessionID: c.SessionID})
	if err != nil {
		s.logger.Error("REPORT", "Failed to load report", map[string]interface{}{
			"session_id": c.SessionID,
			"error":      err.Error(),
		})
		return
	}

	now := time.Now()
	if report == nil {
		report = &entity.DisclosureReport{
			Id:          uuid.New(),
			SessionId:   c.SessionID,
			ProductId:   productId,
			RequesterId: requesterId,
			Sector:      c.Sector,
			Status:      entity.ReportStatusPending,
			CreatedAt:   now,
		}
		err = uow.DisclosureReportRepository().Create(ctx, report)
	} else {
		// Session was cleared and completed again
		resetReport(report, now)
		report.Sector = c.Sector
		err = uow.DisclosureReportRepository().Update(ctx, report)
	}
	if err != nil {
		s.logger.Error("REPORT", "Failed to save report", map[string]interface{}{
			"session_id": c.SessionID,
			"error":      err.Error(),
		})
		return
	}

	if err := uow.Commit(); err != nil {
		s.logger.Error("REPORT", "Failed to commit report", map[string]interface{}{
			"session_id": c.SessionID,
			"error":      err.Error(),
		})
		return
	}

	s.publisher.PublishQuestionnaireCompleted(ctx, c.SessionID, productId, requesterId, len(c.Transcript))
	s.enqueue(ctx, report)
}

func (s *reportService) GetReport(ctx context.Context, requesterId uuid.UUID, sessionId string) (*dto.ReportResponse, error) {
	report, err := s.find(ctx, requesterId, sessionId)
	if err != nil {
		return nil, err
	}
	return reportToDTO(report), nil
}

func (s *reportService) Retry(ctx context.Context, requesterId uuid.UUID, sessionId string) (*dto.ReportResponse, error) {
	report, err := s.find(ctx, requesterId, sessionId)
	if err != nil {
		return nil, err
	}

	switch report.Status {
	case entity.ReportStatusPending:
		return reportToDTO(report), nil
	case entity.ReportStatusReady:
		return nil, disclosure.ErrReportNotRetryable
	}

	resetReport(report, time.Now())
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DisclosureReportRepository().Update(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info("REPORT", "Report retry requested", map[string]interface{}{
		"session_id": sessionId,
		"attempts":   report.Attempts,
	})
	s.enqueue(ctx, report)
	return reportToDTO(report), nil
}

func (s *reportService) find(ctx context.Context, requesterId uuid.UUID, sessionId string) (*entity.DisclosureReport, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	report, err := uow.DisclosureReportRepository().FindOne(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.ByRequesterID{RequesterID: requesterId},
	)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, disclosure.ErrReportNotFound
	}
	return report, nil
}

func (s *reportService) enqueue(ctx context.Context, report *entity.DisclosureReport) {
	if err := s.jobs.PublishReportJob(ctx, dto.ReportJobMessage{SessionId: report.SessionId}); err != nil {
		s.logger.Error("REPORT", "Failed to enqueue report job", map[string]interface{}{
			"session_id": report.SessionId,
			"error":      err.Error(),
		})
		// The worker never saw it; mark failed so the retry endpoint accepts it
		now := time.Now()
		report.Status = entity.ReportStatusFailed
		report.LastError = "enqueue: " + err.Error()
		report.UpdatedAt = &now
		uow := s.uowFactory.NewUnitOfWork(ctx)
		if err := uow.DisclosureReportRepository().Update(ctx, report); err != nil {
			s.logger.Error("REPORT", "Failed to mark report failed", map[string]interface{}{
				"session_id": report.SessionId,
				"error":      err.Error(),
			})
		}
		return
	}
	s.logger.Info("REPORT", "Report job enqueued", map[string]interface{}{"session_id": report.SessionId})
}

func resetReport(r *entity.DisclosureReport, now time.Time) {
	r.Status = entity.ReportStatusPending
	r.LastError = ""
	r.Summary = nil
	r.Findings = nil
	r.GeneratedAt = nil
	r.UpdatedAt = &now
}
