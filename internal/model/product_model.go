package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Product struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerId           uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name              string         `gorm:"type:varchar(255);not null"`
	Description       string         `gorm:"type:text"`
	Category          string         `gorm:"type:varchar(100);index"`
	Subcategories     datatypes.JSON `gorm:"type:jsonb"`
	CompanyName       string         `gorm:"type:varchar(255)"`
	Location          string         `gorm:"type:varchar(255)"`
	Certifications    datatypes.JSON `gorm:"type:jsonb"`
	EligibilityStatus string         `gorm:"type:varchar(20);not null;default:'pending';index"`
	EligibilityReason string         `gorm:"type:text"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
