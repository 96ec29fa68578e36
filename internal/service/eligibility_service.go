package service

import (
	"context"
	"time"

	"disclosure-engine-be/internal/dto"
	"disclosure-engine-be/internal/entity"
	"disclosure-engine-be/internal/events"
	"disclosure-engine-be/internal/pkg/logger"
	"disclosure-engine-be/internal/repository/unitofwork"
	"disclosure-engine-be/pkg/disclosure/eligibility"

	"github.com/google/uuid"
)

// EligibilityAssessor is satisfied by *eligibility.Assessor.
type EligibilityAssessor interface {
	Assess(ctx context.Context, req eligibility.Request) (*eligibility.Verdict, error)
	Finalize(ctx context.Context, req eligibility.Request, answers []eligibility.Clarification) (*eligibility.Verdict, error)
}

type IEligibilityService interface {
	Check(ctx context.Context, ownerId uuid.UUID, req *dto.EligibilityCheckRequest) (*dto.EligibilityResponse, error)
	Finalize(ctx context.Context, ownerId uuid.UUID, req *dto.EligibilityFinalizeRequest) (*dto.EligibilityResponse, error)
}

type eligibilityService struct {
	assessor   EligibilityAssessor
	uowFactory unitofwork.RepositoryFactory
	publisher  events.Publisher
	logger     logger.ILogger
}

func NewEligibilityService(
	assessor EligibilityAssessor,
	uowFactory unitofwork.RepositoryFactory,
	publisher events.Publisher,
	logger logger.ILogger,
) IEligibilityService {
	return &eligibilityService{
		assessor:   assessor,
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *eligibilityService) Check(ctx context.Context, ownerId uuid.UUID, req *dto.EligibilityCheckRequest) (*dto.EligibilityResponse, error) {
	verdict, err := s.assessor.Assess(ctx, toEligibilityRequest(req))
	if err != nil {
		return nil, err
	}
	return s.conclude(ctx, ownerId, req, verdict)
}

func (s *eligibilityService) Finalize(ctx context.Context, ownerId uuid.UUID, req *dto.EligibilityFinalizeRequest) (*dto.EligibilityResponse, error) {
	answers := make([]eligibility.Clarification, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = eligibility.Clarification{Question: a.Question, Answer: a.Answer}
	}

	verdict, err := s.assessor.Finalize(ctx, toEligibilityRequest(&req.EligibilityCheckRequest), answers)
	if err != nil {
		return nil, err
	}
	return s.conclude(ctx, ownerId, &req.EligibilityCheckRequest, verdict)
}

// conclude persists accepted products so a questionnaire can be started for them.
func (s *eligibilityService) conclude(ctx context.Context, ownerId uuid.UUID, req *dto.EligibilityCheckRequest, verdict *eligibility.Verdict) (*dto.EligibilityResponse, error) {
	res := &dto.EligibilityResponse{
		Decision:            string(verdict.Decision),
		Reason:              verdict.Reason,
		Certifications:      verdict.Certifications,
		ClarifyingQuestions: verdict.ClarifyingQuestions,
	}
	if res.Certifications == nil {
		res.Certifications = []string{}
	}

	s.logger.Info("ELIGIBILITY", "Verdict issued", map[string]interface{}{
		"owner_id":  ownerId.String(),
		"product":   req.ProductName,
		"decision":  res.Decision,
		"questions": len(verdict.ClarifyingQuestions),
	})

	if verdict.Decision != eligibility.DecisionAccepted {
		return res, nil
	}

	certifications := verdict.Certifications
	if len(certifications) == 0 {
		certifications = req.Certifications
	}
	product := &entity.Product{
		Id:                uuid.New(),
		OwnerId:           ownerId,
		Name:              req.ProductName,
		Description:       req.Description,
		Category:          req.Category,
		Subcategories:     req.Subcategories,
		CompanyName:       req.CompanyName,
		Location:          req.Location,
		Certifications:    certifications,
		EligibilityStatus: entity.EligibilityAccepted,
		EligibilityReason: verdict.Reason,
		CreatedAt:         time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ProductRepository().Create(ctx, product); err != nil {
		return nil, err
	}

	s.publisher.PublishProductAccepted(ctx, product.Id, ownerId, product.Name, product.Category)
	res.ProductId = product.Id.String()
	return res, nil
}

func toEligibilityRequest(req *dto.EligibilityCheckRequest) eligibility.Request {
	return eligibility.Request{
		Category:       req.Category,
		Subcategories:  req.Subcategories,
		ProductName:    req.ProductName,
		CompanyName:    req.CompanyName,
		Location:       req.Location,
		Certifications: req.Certifications,
		Description:    req.Description,
	}
}
