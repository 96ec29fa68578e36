package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	EligibilityAccepted = "accepted"
	EligibilityRejected = "rejected"
	EligibilityPending  = "pending"
)

type Product struct {
	Id                uuid.UUID
	OwnerId           uuid.UUID
	Name              string
	Description       string
	Category          string
	Subcategories     []string
	CompanyName       string
	Location          string
	Certifications    []string
	EligibilityStatus string
	EligibilityReason string
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

func (p *Product) IsAccepted() bool {
	return p != nil && p.EligibilityStatus == EligibilityAccepted
}
