package contract

import (
	"context"

	"disclosure-engine-be/internal/entity"
	"disclosure-engine-be/internal/repository/specification"
)

type TranscriptRepository interface {
	// Append upserts entries on (session, sequence); the newest write wins.
	Append(ctx context.Context, entries ...*entity.TranscriptEntry) error
	// Replace drops every mirrored entry of the session and inserts entries.
	Replace(ctx context.Context, sessionID string, entries ...*entity.TranscriptEntry) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TranscriptEntry, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	DeleteBySessionID(ctx context.Context, sessionID string) error
}
