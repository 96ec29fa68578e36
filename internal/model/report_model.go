package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ReportDocument is the jsonb shape of a synthesized document.
type ReportDocument struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type DisclosureReport struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId   string         `gorm:"type:varchar(64);not null;uniqueIndex"`
	ProductId   uuid.UUID      `gorm:"type:uuid;not null;index"`
	RequesterId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Sector      string         `gorm:"type:varchar(100)"`
	Status      string         `gorm:"type:varchar(20);not null;default:'pending';index"`
	Attempts    int            `gorm:"not null;default:0"`
	LastError   string         `gorm:"type:text"`
	Summary     datatypes.JSON `gorm:"type:jsonb"`
	Findings    datatypes.JSON `gorm:"type:jsonb"`
	GeneratedAt *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (DisclosureReport) TableName() string {
	return "disclosure_reports"
}
