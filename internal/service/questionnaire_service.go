package service

import (
	"context"
	"errors"
	"strings"

	"disclosure-engine-be/internal/dto"
	"disclosure-engine-be/internal/entity"
	"disclosure-engine-be/internal/pkg/logger"
	"disclosure-engine-be/internal/repository/specification"
	"disclosure-engine-be/internal/repository/unitofwork"
	"disclosure-engine-be/pkg/disclosure"
	"disclosure-engine-be/pkg/disclosure/document"
	"disclosure-engine-be/pkg/disclosure/flow"
	"disclosure-engine-be/pkg/disclosure/state"

	"github.com/google/uuid"
)

// QuestionnaireEngine is satisfied by *flow.Controller.
type QuestionnaireEngine interface {
	Start(ctx context.Context, product state.Product, requesterID string) (*flow.StepResult, error)
	Step(ctx context.Context, req flow.StepRequest) (*flow.StepResult, error)
	Snapshot(ctx context.Context, sessionID, requesterID string) (*state.Session, error)
	Clear(ctx context.Context, sessionID, requesterID string) error
}

// DocumentAnalyzer is satisfied by *document.Analyzer.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, req document.Request) (*document.Suggestion, error)
}

type IQuestionnaireService interface {
	Start(ctx context.Context, requesterId uuid.UUID, req *dto.StartSessionRequest) (*dto.StepResponse, error)
	Step(ctx context.Context, requesterId uuid.UUID, req *dto.StepRequest, upload *dto.Upload) (*dto.StepResponse, error)
	GetSession(ctx context.Context, requesterId uuid.UUID, sessionId string) (*dto.SessionSnapshotResponse, error)
	ClearSession(ctx context.Context, requesterId uuid.UUID, sessionId string) error
}

type questionnaireService struct {
	engine     QuestionnaireEngine
	analyzer   DocumentAnalyzer
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewQuestionnaireService(
	engine QuestionnaireEngine,
	analyzer DocumentAnalyzer,
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
) IQuestionnaireService {
	return &questionnaireService{
		engine:     engine,
		analyzer:   analyzer,
		uowFactory: uowFactory,
		logger:     logger,
	}
}

func (s *questionnaireService) Start(ctx context.Context, requesterId uuid.UUID, req *dto.StartSessionRequest) (*dto.StepResponse, error) {
	productId, err := uuid.Parse(req.ProductId)
	if err != nil {
		return nil, disclosure.ErrProductNotFound
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	product, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: productId})
	if err != nil {
		return nil, err
	}
	if product == nil || product.OwnerId != requesterId {
		return nil, disclosure.ErrProductNotFound
	}
	if !product.IsAccepted() {
		return nil, disclosure.ErrProductNotEligible
	}

	res, err := s.engine.Start(ctx, productToState(product), requesterId.String())
	if err != nil {
		return nil, err
	}

	s.logger.Info("QUESTIONNAIRE", "Session started", map[string]interface{}{
		"session_id": res.SessionID,
		"product_id": product.Id.String(),
		"progress":   res.OverallProgress,
	})

	return s.response(ctx, requesterId, res), nil
}

func (s *questionnaireService) Step(ctx context.Context, requesterId uuid.UUID, req *dto.StepRequest, upload *dto.Upload) (*dto.StepResponse, error) {
	res, err := s.engine.Step(ctx, flow.StepRequest{
		SessionID:   req.SessionId,
		RequesterID: requesterId.String(),
		Section:     req.Section,
		DataPoint:   req.DataPoint,
		Answer:      req.Answer,
	})
	if err != nil {
		return nil, err
	}

	out := s.response(ctx, requesterId, res)

	// Mirroring and analysis need the state after the step
	if res.Outcome == "" && (upload == nil || len(upload.Data) == 0) {
		return out, nil
	}
	sess, err := s.engine.Snapshot(ctx, res.SessionID, requesterId.String())
	if err != nil {
		return nil, err
	}

	if res.Outcome != "" && len(sess.Transcript) > 0 {
		s.mirrorLast(ctx, sess, requesterId)
	}

	if upload != nil && len(upload.Data) > 0 && sess.Pending != nil {
		suggestion, err := s.analyzer.Analyze(ctx, document.Request{
			Data:         upload.Data,
			Filename:     upload.Filename,
			DeclaredType: upload.ContentType,
			Product:      sess.Product,
			Section:      sess.Pending.Section,
			DataPoint:    sess.Pending.DataPoint,
			Question:     sess.Pending.Text,
		})
		if err != nil {
			// The step is already committed; a failed analysis only drops the suggestion.
			s.logger.Warn("QUESTIONNAIRE", "Evidence analysis failed", map[string]interface{}{
				"session_id":  sess.ID,
				"filename":    upload.Filename,
				"unsupported": errors.Is(err, disclosure.ErrUnsupportedMedia),
				"error":       err.Error(),
			})
		} else {
			out.Suggestion = &dto.DocumentSuggestion{
				MediaType:       suggestion.MediaType,
				Relevant:        suggestion.Relevant,
				Excerpt:         suggestion.Excerpt,
				SuggestedAnswer: suggestion.SuggestedAnswer,
			}
		}
	}

	return out, nil
}

func (s *questionnaireService) GetSession(ctx context.Context, requesterId uuid.UUID, sessionId string) (*dto.SessionSnapshotResponse, error) {
	sess, err := s.engine.Snapshot(ctx, sessionId, requesterId.String())
	if err != nil {
		return nil, err
	}
	return snapshotToDTO(sess), nil
}

func (s *questionnaireService) ClearSession(ctx context.Context, requesterId uuid.UUID, sessionId string) error {
	if err := s.engine.Clear(ctx, sessionId, requesterId.String()); err != nil {
		return err
	}

	// A restarted session numbers its transcript from zero again
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.TranscriptRepository().DeleteBySessionID(ctx, sessionId); err != nil {
		s.logger.Warn("QUESTIONNAIRE", "Failed to drop transcript mirror", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
	return nil
}

func (s *questionnaireService) mirrorLast(ctx context.Context, sess *state.Session, requesterId uuid.UUID) {
	productId, err := uuid.Parse(sess.Product.ID)
	if err != nil {
		return
	}
	last := len(sess.Transcript) - 1
	rows := transcriptRows(sess.ID, productId, requesterId, sess.Transcript[last:], last)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.TranscriptRepository().Append(ctx, rows...); err != nil {
		// The completion hook mirrors the whole transcript again, so a gap here heals.
		s.logger.Warn("QUESTIONNAIRE", "Failed to mirror transcript entry", map[string]interface{}{
			"session_id": sess.ID,
			"sequence":   last,
			"error":      err.Error(),
		})
	}
}

func (s *questionnaireService) response(ctx context.Context, requesterId uuid.UUID, res *flow.StepResult) *dto.StepResponse {
	out := &dto.StepResponse{StepResult: *res}
	if res.IsComplete {
		out.Report = s.reportHandle(ctx, requesterId, res.SessionID)
	}
	return out
}

// reportHandle reports the stored job status; a row not written yet reads as pending.
func (s *questionnaireService) reportHandle(ctx context.Context, requesterId uuid.UUID, sessionId string) *dto.ReportHandle {
	handle := &dto.ReportHandle{
		SessionId: sessionId,
		Status:    entity.ReportStatusPending,
		StatusURL: reportStatusURL(sessionId),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	report, err := uow.DisclosureReportRepository().FindOne(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.ByRequesterID{RequesterID: requesterId},
	)
	if err != nil {
		s.logger.Warn("QUESTIONNAIRE", "Failed to load report status", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return handle
	}
	if report != nil {
		handle.Status = report.Status
	}
	return handle
}

func reportStatusURL(sessionId string) string {
	return "/api/report/v1/" + strings.TrimSpace(sessionId)
}
