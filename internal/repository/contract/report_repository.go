package contract

import (
	"context"

	"disclosure-engine-be/internal/entity"
	"disclosure-engine-be/internal/repository/specification"
)

type DisclosureReportRepository interface {
	Create(ctx context.Context, report *entity.DisclosureReport) error
	Update(ctx context.Context, report *entity.DisclosureReport) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DisclosureReport, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DisclosureReport, error)
}
