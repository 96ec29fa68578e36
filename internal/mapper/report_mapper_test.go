package mapper

import (
	"testing"

	"disclosure-engine-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportMapperKeepsDocuments(t *testing.T) {
	m := NewReportMapper()
	in := &entity.DisclosureReport{
		Id:        uuid.New(),
		SessionId: "s-1",
		Status:    entity.ReportStatusReady,
		Summary:   &entity.ReportDocument{Title: "Summary", Content: "Body"},
	}

	out := m.ToEntity(m.ToModel(in))

	require.NotNil(t, out.Summary)
	assert.Equal(t, "Body", out.Summary.Content)
	assert.Nil(t, out.Findings)
	assert.Nil(t, out.UpdatedAt)
}

func TestProductMapperEmptySlices(t *testing.T) {
	m := NewProductMapper()

	modelProduct := m.ToModel(&entity.Product{Name: "Soap"})

	assert.JSONEq(t, `[]`, string(modelProduct.Certifications))
	assert.Empty(t, m.ToEntity(modelProduct).Certifications)
}
