package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReportStatusPending = "pending"
	ReportStatusReady   = "ready"
	ReportStatusFailed  = "failed"
)

type ReportDocument struct {
	Title   string
	Content string
}

// DisclosureReport is the job handle and result of report synthesis for one session.
type DisclosureReport struct {
	Id          uuid.UUID
	SessionId   string
	ProductId   uuid.UUID
	RequesterId uuid.UUID
	Sector      string
	Status      string
	Attempts    int
	LastError   string
	Summary     *ReportDocument
	Findings    *ReportDocument
	GeneratedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func (r *DisclosureReport) IsReady() bool {
	return r != nil && r.Status == ReportStatusReady
}
