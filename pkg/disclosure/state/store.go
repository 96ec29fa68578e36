package state

import "context"

// Store persists session state by id. Implementations must hand out copies:
// mutating a returned *Session must not change the stored value until Save.
type Store interface {
	Get(ctx context.Context, id string) (*Session, bool, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id string) error
}
