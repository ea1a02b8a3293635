// Package userdata persists one opaque record per user. The registry treats
// it as a key-value collaborator: whole-record load, atomic whole-record
// replace, nothing finer grained.
package userdata

import (
	"context"

	"github.com/maumlog/maum/backend/internal/model/chat"
)

// Store is the persistence collaborator for user records.
type Store interface {
	// Load returns the record for username, or the default empty record if
	// none exists. Load never fails with not-found.
	Load(ctx context.Context, username string) (chat.UserRecord, error)

	// Save atomically replaces the record for username.
	Save(ctx context.Context, username string, record chat.UserRecord) error

	// Close releases the underlying storage.
	Close() error
}
