// Package account aggregates one user's durable and live state: the session
// registry, the conversation engine, and the autosave policy. Each user's
// actions are handled to completion before the next is accepted; a
// per-account mutex enforces that, shared with the autosave ticker.
package account

import (
	"context"
	"sync"

	modelchat "github.com/maumlog/maum/backend/internal/model/chat"
	"github.com/maumlog/maum/backend/internal/service/autosave"
	"github.com/maumlog/maum/backend/internal/service/chat"
	"github.com/maumlog/maum/backend/internal/service/registry"
)

// Account is the application state for one logged-in user.
type Account struct {
	Username string

	mu       sync.Mutex
	engine   *chat.Engine
	registry *registry.Registry
	policy   *autosave.Policy
	cancel   context.CancelFunc
}

// ConversationView is the active conversation as rendered to the user:
// system turn stripped, emotion and greeting exposed.
type ConversationView struct {
	SessionID string           `json:"sessionId"`
	Emotion   string           `json:"emotion,omitempty"`
	Messages  []modelchat.Turn `json:"messages"`
	Saved     bool             `json:"saved"`
}

// StartConversation commits any save-worthy live session, discards it, and
// starts a new one for the named emotion (empty = untagged). It returns the
// assistant greeting and the new session id.
func (a *Account) StartConversation(ctx context.Context, emotionName string) (greeting, sessionID string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.policy.Commit(ctx); err != nil {
		return "", "", err
	}
	a.engine.Reset()

	greeting, err = a.engine.Start(emotionName)
	if err != nil {
		return "", "", err
	}
	session, _ := a.engine.Active()
	return greeting, session.ID, nil
}

// SendMessage appends the user's turn and returns the assistant reply. The
// per-turn commit failure is reported through the view's Saved flag rather
// than an error: the reply already happened and the in-memory state is
// retained, so the next trigger retries the commit.
func (a *Account) SendMessage(ctx context.Context, text string) (string, ConversationView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	reply, err := a.engine.Send(ctx, text)
	if err != nil {
		return "", ConversationView{}, err
	}

	saved := true
	if err := a.policy.Commit(ctx); err != nil {
		saved = false
	}
	return reply, a.viewLocked(saved), nil
}

// EndConversation commits the live session when save-worthy and discards
// it.
func (a *Account) EndConversation(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.policy.Commit(ctx); err != nil {
		return err
	}
	a.engine.Reset()
	return nil
}

// ResumeSession makes a stored session the active one. The current live
// session, if save-worthy, is committed first; the stored sequence is
// restored verbatim so further commits update the same record.
func (a *Account) ResumeSession(ctx context.Context, id string) (ConversationView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.policy.Commit(ctx); err != nil {
		return ConversationView{}, err
	}

	stored, err := a.registry.Get(ctx, id)
	if err != nil {
		return ConversationView{}, err
	}

	a.engine.Resume(stored)
	return a.viewLocked(true), nil
}

// ListSessions returns all stored sessions in storage order.
func (a *Account) ListSessions(ctx context.Context) []modelchat.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.registry.List(ctx)
}

// GetSession returns one stored session.
func (a *Account) GetSession(ctx context.Context, id string) (modelchat.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.registry.Get(ctx, id)
}

// DeleteSession removes a stored session; deleting an absent id is a no-op.
// The live session is left alone even when its record is deleted.
func (a *Account) DeleteSession(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.registry.Delete(ctx, id)
}

// Close commits the live session and stops the autosave ticker. Called on
// logout.
func (a *Account) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	err := a.policy.Commit(ctx)
	a.engine.Reset()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	return err
}

func (a *Account) viewLocked(saved bool) ConversationView {
	session, ok := a.engine.Active()
	if !ok {
		return ConversationView{Saved: saved}
	}
	return ConversationView{
		SessionID: session.ID,
		Emotion:   session.Emotion,
		Messages:  session.VisibleMessages(),
		Saved:     saved,
	}
}

