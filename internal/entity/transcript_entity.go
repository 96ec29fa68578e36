package entity

import (
	"time"

	"github.com/google/uuid"
)

// TranscriptEntry mirrors one answered question of a questionnaire session.
type TranscriptEntry struct {
	Id          uuid.UUID
	SessionId   string
	ProductId   uuid.UUID
	RequesterId uuid.UUID
	Sequence    int
	Section     string
	DataPoint   string
	Question    string
	Answer      string
	Revisit     bool
	Deferred    bool
	Declined    bool
	AskedAt     time.Time
	AnsweredAt  time.Time
}
