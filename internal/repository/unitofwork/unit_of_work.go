package unitofwork

import (
	"context"

	"disclosure-engine-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ProductRepository() contract.ProductRepository
	TranscriptRepository() contract.TranscriptRepository
	DisclosureReportRepository() contract.DisclosureReportRepository
	NotificationRepository() contract.NotificationRepository
}
