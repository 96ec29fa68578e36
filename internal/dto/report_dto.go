package dto

import "time"

// ReportJobMessage is the watermill payload asking the worker to synthesize a report.
type ReportJobMessage struct {
	SessionId string `json:"session_id"`
}

type ReportDocumentResponse struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ReportResponse struct {
	SessionId   string                  `json:"session_id"`
	Status      string                  `json:"status"`
	Attempts    int                     `json:"attempts"`
	LastError   string                  `json:"last_error,omitempty"`
	Sector      string                  `json:"sector,omitempty"`
	Summary     *ReportDocumentResponse `json:"summary,omitempty"`
	Findings    *ReportDocumentResponse `json:"findings,omitempty"`
	GeneratedAt *time.Time              `json:"generated_at,omitempty"`
}
