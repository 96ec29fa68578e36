package mapper

import (
	"time"

	"disclosure-engine-be/internal/entity"
	"disclosure-engine-be/internal/model"
)

type ProductMapper struct{}

func NewProductMapper() *ProductMapper {
	return &ProductMapper{}
}

func (m *ProductMapper) ToEntity(p *model.Product) *entity.Product {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Product{
		Id:                p.Id,
		OwnerId:           p.OwnerId,
		Name:              p.Name,
		Description:       p.Description,
		Category:          p.Category,
		Subcategories:     stringsFromJSON(p.Subcategories),
		CompanyName:       p.CompanyName,
		Location:          p.Location,
		Certifications:    stringsFromJSON(p.Certifications),
		EligibilityStatus: p.EligibilityStatus,
		EligibilityReason: p.EligibilityReason,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         updatedAt,
	}
}

func (m *ProductMapper) ToModel(p *entity.Product) *model.Product {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Product{
		Id:                p.Id,
		OwnerId:           p.OwnerId,
		Name:              p.Name,
		Description:       p.Description,
		Category:          p.Category,
		Subcategories:     stringsToJSON(p.Subcategories),
		CompanyName:       p.CompanyName,
		Location:          p.Location,
		Certifications:    stringsToJSON(p.Certifications),
		EligibilityStatus: p.EligibilityStatus,
		EligibilityReason: p.EligibilityReason,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         updatedAt,
	}
}

func (m *ProductMapper) ToEntities(products []*model.Product) []*entity.Product {
	entities := make([]*entity.Product, len(products))
	for i, p := range products {
		entities[i] = m.ToEntity(p)
	}
	return entities
}
