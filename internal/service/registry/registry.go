// Package registry owns the durable set of chat sessions belonging to one
// user. Every mutation writes the whole user record back through the
// userdata store; there is no partial persistence, so callers are expected
// to coalesce commits.
package registry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/maumlog/maum/backend/internal/model/chat"
	"github.com/maumlog/maum/backend/internal/store/userdata"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotSaveWorthy   = errors.New("session has no user-authored turn")
)

// Registry is the per-user session registry.
type Registry struct {
	store    userdata.Store
	username string

	mu     sync.Mutex
	record chat.UserRecord
}

// Open loads the user's record and returns a registry bound to it.
func Open(ctx context.Context, store userdata.Store, username string) (*Registry, error) {
	record, err := store.Load(ctx, username)
	if err != nil {
		return nil, err
	}
	return &Registry{store: store, username: username, record: record}, nil
}

// Upsert stores the session, replacing an existing entry with the same id in
// place or appending a new one. The modification date is re-stamped to now.
// Sessions without a user-authored turn are rejected before anything is
// written. A failed store write leaves both the store and the in-memory
// record unchanged so the same commit can be retried.
func (r *Registry) Upsert(ctx context.Context, session chat.Session) error {
	if !session.HasUserTurn() {
		return ErrNotSaveWorthy
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := session.Clone()
	stored.Date = time.Now().UTC()

	next := r.record.Clone()
	replaced := false
	for i, existing := range next.ChatSessions {
		if existing.ID == stored.ID {
			next.ChatSessions[i] = stored
			replaced = true
			break
		}
	}
	if !replaced {
		next.ChatSessions = append(next.ChatSessions, stored)
	}

	if err := r.store.Save(ctx, r.username, next); err != nil {
		return err
	}
	r.record = next
	return nil
}

// Get returns the session with the given id.
func (r *Registry) Get(ctx context.Context, id string) (chat.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.record.ChatSessions {
		if s.ID == id {
			return s.Clone(), nil
		}
	}
	return chat.Session{}, ErrSessionNotFound
}

// Delete removes the session with the given id. Deleting an absent id is a
// no-op; deletion is idempotent.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.record.Clone()
	idx := -1
	for i, s := range next.ChatSessions {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil
	}
	next.ChatSessions = append(next.ChatSessions[:idx], next.ChatSessions[idx+1:]...)

	if err := r.store.Save(ctx, r.username, next); err != nil {
		return err
	}
	r.record = next
	return nil
}

// List returns all sessions in storage order. Sorting is the caller's
// concern.
func (r *Registry) List(ctx context.Context) []chat.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]chat.Session, len(r.record.ChatSessions))
	for i, s := range r.record.ChatSessions {
		out[i] = s.Clone()
	}
	return out
}
