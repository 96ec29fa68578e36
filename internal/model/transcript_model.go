package model

import (
	"time"

	"github.com/google/uuid"
)

type TranscriptEntry struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId   string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_transcript_session_seq,priority:1"`
	ProductId   uuid.UUID `gorm:"type:uuid;not null;index"`
	RequesterId uuid.UUID `gorm:"type:uuid;not null"`
	Sequence    int       `gorm:"not null;uniqueIndex:idx_transcript_session_seq,priority:2"`
	Section     string    `gorm:"type:varchar(100);not null"`
	DataPoint   string    `gorm:"type:varchar(255);not null"`
	Question    string    `gorm:"type:text;not null"`
	Answer      string    `gorm:"type:text;not null"`
	Revisit     bool      `gorm:"default:false"`
	Deferred    bool      `gorm:"default:false"`
	Declined    bool      `gorm:"default:false"`
	AskedAt     time.Time
	AnsweredAt  time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (TranscriptEntry) TableName() string {
	return "transcript_entries"
}
