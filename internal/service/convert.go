package service

import (
	"disclosure-engine-be/internal/dto"
	"disclosure-engine-be/internal/entity"
	"disclosure-engine-be/pkg/disclosure/state"

	"github.com/google/uuid"
)

func productToState(p *entity.Product) state.Product {
	return state.Product{
		ID:          p.Id.String(),
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		SectorHints: append([]string(nil), p.Subcategories...),
		Location:    p.Location,
		CompanyName: p.CompanyName,
	}
}

// transcriptRows converts session entries to mirror rows; sequence numbers start at offset.
func transcriptRows(sessionId string, productId, requesterId uuid.UUID, entries []state.TranscriptEntry, offset int) []*entity.TranscriptEntry {
	rows := make([]*entity.TranscriptEntry, len(entries))
	for i, e := range entries {
		rows[i] = &entity.TranscriptEntry{
			Id:          uuid.New(),
			SessionId:   sessionId,
			ProductId:   productId,
			RequesterId: requesterId,
			Sequence:    offset + i,
			Section:     e.Section,
			DataPoint:   e.DataPoint,
			Question:    e.Question,
			Answer:      e.Answer,
			Revisit:     e.Revisit,
			Deferred:    e.Deferred,
			Declined:    e.Declined,
			AskedAt:     e.AskedAt,
			AnsweredAt:  e.AnsweredAt,
		}
	}
	return rows
}

func transcriptFromRows(rows []*entity.TranscriptEntry) []state.TranscriptEntry {
	entries := make([]state.TranscriptEntry, len(rows))
	for i, r := range rows {
		entries[i] = state.TranscriptEntry{
			Key:        state.Key{Section: r.Section, DataPoint: r.DataPoint},
			Question:   r.Question,
			Answer:     r.Answer,
			Revisit:    r.Revisit,
			Deferred:   r.Deferred,
			Declined:   r.Declined,
			AskedAt:    r.AskedAt,
			AnsweredAt: r.AnsweredAt,
		}
	}
	return entries
}

func reportToDTO(r *entity.DisclosureReport) *dto.ReportResponse {
	res := &dto.ReportResponse{
		SessionId:   r.SessionId,
		Status:      r.Status,
		Attempts:    r.Attempts,
		LastError:   r.LastError,
		Sector:      r.Sector,
		GeneratedAt: r.GeneratedAt,
	}
	if r.Summary != nil {
		res.Summary = &dto.ReportDocumentResponse{Title: r.Summary.Title, Content: r.Summary.Content}
	}
	if r.Findings != nil {
		res.Findings = &dto.ReportDocumentResponse{Title: r.Findings.Title, Content: r.Findings.Content}
	}
	return res
}

func snapshotToDTO(s *state.Session) *dto.SessionSnapshotResponse {
	res := &dto.SessionSnapshotResponse{
		SessionId:       s.ID,
		ProductId:       s.Product.ID,
		ProductName:     s.Product.Name,
		Sector:          s.Sector,
		Phase:           string(s.Phase),
		OverallProgress: s.OverallProgress(),
		Sections:        make([]dto.SectionProgress, 0, len(s.Sections)),
		Deferred:        make([]dto.DeferredItem, 0, len(s.Deferred)),
		Answers:         len(s.Transcript),
		CreatedAt:       s.CreatedAt,
		CompletedAt:     s.CompletedAt,
	}

	for _, sec := range s.Sections {
		sp := dto.SectionProgress{
			Name:       sec.Name,
			Progress:   s.SectionProgress(sec.Name),
			DataPoints: make([]dto.DataPointStatus, 0, len(sec.DataPoints)),
		}
		for _, dp := range sec.DataPoints {
			k := state.Key{Section: sec.Name, DataPoint: dp}
			status := "open"
			switch {
			case s.IsCovered(k):
				status = "covered"
			case s.IsDeferred(k):
				status = "deferred"
			}
			sp.DataPoints = append(sp.DataPoints, dto.DataPointStatus{Label: dp, Status: status})
		}
		res.Sections = append(res.Sections, sp)
	}

	for _, d := range s.Deferred {
		res.Deferred = append(res.Deferred, dto.DeferredItem{
			Section:   d.Section,
			DataPoint: d.DataPoint,
			Question:  d.Question,
			Deferrals: s.DeferCounts[d.Key.String()],
		})
	}

	if p := s.Pending; p != nil {
		res.Pending = &dto.PendingQuestion{
			Section:   p.Section,
			DataPoint: p.DataPoint,
			Question:  p.Text,
			Revisit:   p.Revisit,
		}
	}
	return res
}
