package implementation

import (
	"context"
	"errors"

	"disclosure-engine-be/internal/entity"
	"disclosure-engine-be/internal/mapper"
	"disclosure-engine-be/internal/model"
	"disclosure-engine-be/internal/repository/contract"
	"disclosure-engine-be/internal/repository/specification"

	"gorm.io/gorm"
)

type DisclosureReportRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ReportMapper
}

func NewDisclosureReportRepository(db *gorm.DB) contract.DisclosureReportRepository {
	return &DisclosureReportRepositoryImpl{
		db:     db,
		mapper: mapper.NewReportMapper(),
	}
}

func (r *DisclosureReportRepositoryImpl) Create(ctx context.Context, report *entity.DisclosureReport) error {
	m := r.mapper.ToModel(report)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*report = *r.mapper.ToEntity(m)
	return nil
}

func (r *DisclosureReportRepositoryImpl) Update(ctx context.Context, report *entity.DisclosureReport) error {
	m := r.mapper.ToModel(report)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*report = *r.mapper.ToEntity(m)
	return nil
}

func (r *DisclosureReportRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DisclosureReport, error) {
	var m model.DisclosureReport
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DisclosureReportRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DisclosureReport, error) {
	var models []*model.DisclosureReport
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
