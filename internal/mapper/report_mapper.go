package mapper

import (
	"encoding/json"
	"time"

	"disclosure-engine-be/internal/entity"
	"disclosure-engine-be/internal/model"

	"gorm.io/datatypes"
)

type ReportMapper struct{}

func NewReportMapper() *ReportMapper {
	return &ReportMapper{}
}

func (m *ReportMapper) ToEntity(r *model.DisclosureReport) *entity.DisclosureReport {
	if r == nil {
		return nil
	}

	var updatedAt *time.Time
	if !r.UpdatedAt.IsZero() {
		t := r.UpdatedAt
		updatedAt = &t
	}

	return &entity.DisclosureReport{
		Id:          r.Id,
		SessionId:   r.SessionId,
		ProductId:   r.ProductId,
		RequesterId: r.RequesterId,
		Sector:      r.Sector,
		Status:      r.Status,
		Attempts:    r.Attempts,
		LastError:   r.LastError,
		Summary:     documentFromJSON(r.Summary),
		Findings:    documentFromJSON(r.Findings),
		GeneratedAt: r.GeneratedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *ReportMapper) ToModel(r *entity.DisclosureReport) *model.DisclosureReport {
	if r == nil {
		return nil
	}

	var updatedAt time.Time
	if r.UpdatedAt != nil {
		updatedAt = *r.UpdatedAt
	}

	return &model.DisclosureReport{
		Id:          r.Id,
		SessionId:   r.SessionId,
		ProductId:   r.ProductId,
		RequesterId: r.RequesterId,
		Sector:      r.Sector,
		Status:      r.Status,
		Attempts:    r.Attempts,
		LastError:   r.LastError,
		Summary:     documentToJSON(r.Summary),
		Findings:    documentToJSON(r.Findings),
		GeneratedAt: r.GeneratedAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *ReportMapper) ToEntities(reports []*model.DisclosureReport) []*entity.DisclosureReport {
	entities := make([]*entity.DisclosureReport, len(reports))
	for i, r := range reports {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

func documentToJSON(doc *entity.ReportDocument) datatypes.JSON {
	if doc == nil {
		return nil
	}
	raw, _ := json.Marshal(model.ReportDocument{Title: doc.Title, Content: doc.Content})
	return datatypes.JSON(raw)
}

func documentFromJSON(raw datatypes.JSON) *entity.ReportDocument {
	if len(raw) == 0 {
		return nil
	}
	var doc model.ReportDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	return &entity.ReportDocument{Title: doc.Title, Content: doc.Content}
}
