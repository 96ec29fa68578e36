package mapper

import (
	"disclosure-engine-be/internal/entity"
	"disclosure-engine-be/internal/model"
)

type TranscriptMapper struct{}

func NewTranscriptMapper() *TranscriptMapper {
	return &TranscriptMapper{}
}

func (m *TranscriptMapper) ToEntity(t *model.TranscriptEntry) *entity.TranscriptEntry {
	if t == nil {
		return nil
	}
	return &entity.TranscriptEntry{
		Id:          t.Id,
		SessionId:   t.SessionId,
		ProductId:   t.ProductId,
		RequesterId: t.RequesterId,
		Sequence:    t.Sequence,
		Section:     t.Section,
		DataPoint:   t.DataPoint,
		Question:    t.Question,
		Answer:      t.Answer,
		Revisit:     t.Revisit,
		Deferred:    t.Deferred,
		Declined:    t.Declined,
		AskedAt:     t.AskedAt,
		AnsweredAt:  t.AnsweredAt,
	}
}

func (m *TranscriptMapper) ToModel(t *entity.TranscriptEntry) *model.TranscriptEntry {
	if t == nil {
		return nil
	}
	return &model.TranscriptEntry{
		Id:          t.Id,
		SessionId:   t.SessionId,
		ProductId:   t.ProductId,
		RequesterId: t.RequesterId,
		Sequence:    t.Sequence,
		Section:     t.Section,
		DataPoint:   t.DataPoint,
		Question:    t.Question,
		Answer:      t.Answer,
		Revisit:     t.Revisit,
		Deferred:    t.Deferred,
		Declined:    t.Declined,
		AskedAt:     t.AskedAt,
		AnsweredAt:  t.AnsweredAt,
	}
}

func (m *TranscriptMapper) ToEntities(entries []*model.TranscriptEntry) []*entity.TranscriptEntry {
	entities := make([]*entity.TranscriptEntry, len(entries))
	for i, t := range entries {
		entities[i] = m.ToEntity(t)
	}
	return entities
}

func (m *TranscriptMapper) ToModels(entries []*entity.TranscriptEntry) []*model.TranscriptEntry {
	models := make([]*model.TranscriptEntry, len(entries))
	for i, t := range entries {
		models[i] = m.ToModel(t)
	}
	return models
}
