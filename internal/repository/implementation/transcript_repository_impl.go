package implementation

import (
	"context"

	"disclosure-engine-be/internal/entity"
	"disclosure-engine-be/internal/mapper"
	"disclosure-engine-be/internal/model"
	"disclosure-engine-be/internal/repository/contract"
	"disclosure-engine-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var transcriptContentColumns = []string{
	"product_id", "requester_id", "section", "data_point", "question", "answer",
	"revisit", "deferred", "declined", "asked_at", "answered_at",
}

type TranscriptRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TranscriptMapper
}

func NewTranscriptRepository(db *gorm.DB) contract.TranscriptRepository {
	return &TranscriptRepositoryImpl{
		db:     db,
		mapper: mapper.NewTranscriptMapper(),
	}
}

func (r *TranscriptRepositoryImpl) Append(ctx context.Context, entries ...*entity.TranscriptEntry) error {
	if len(entries) == 0 {
		return nil
	}
	models := r.mapper.ToModels(entries)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "sequence"}},
			DoUpdates: clause.AssignmentColumns(transcriptContentColumns),
		}).
		Create(&models).Error
}

// Replace swaps the session's whole mirror for entries in one transaction.
func (r *TranscriptRepositoryImpl) Replace(ctx context.Context, sessionID string, entries ...*entity.TranscriptEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&model.TranscriptEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		models := r.mapper.ToModels(entries)
		return tx.Create(&models).Error
	})
}

func (r *TranscriptRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TranscriptEntry, error) {
	var models []*model.TranscriptEntry
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TranscriptRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.TranscriptEntry{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *TranscriptRepositoryImpl) DeleteBySessionID(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&model.TranscriptEntry{}).Error
}
