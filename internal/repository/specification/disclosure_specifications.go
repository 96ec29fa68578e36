package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySessionID struct {
	SessionID string
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type ByOwnerID struct {
	OwnerID uuid.UUID
}

func (s ByOwnerID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("owner_id = ?", s.OwnerID)
}

type ByRequesterID struct {
	RequesterID uuid.UUID
}

func (s ByRequesterID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("requester_id = ?", s.RequesterID)
}

// ByStatus matches report status or product eligibility, depending on the column.
type ByStatus struct {
	Column string
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	column := s.Column
	if column == "" {
		column = "status"
	}
	return db.Where(column+" = ?", s.Status)
}
