// Package chat owns the live message sequence of the session currently open
// in the UI. It is deliberately unsynchronized; the account layer serializes
// all access per user.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/maumlog/maum/backend/internal/model/chat"
	"github.com/maumlog/maum/backend/internal/model/emotion"
	"github.com/maumlog/maum/backend/internal/service/ai"
)

var (
	ErrNoActiveSession    = errors.New("no active session")
	ErrEmptyMessage       = errors.New("message is empty")
	ErrUnknownEmotion     = errors.New("unknown emotion")
	ErrReplierUnavailable = errors.New("reply service unavailable")
)

// State names the engine's position in the conversation lifecycle.
type State string

const (
	StateNoSession       State = "no_active_session"
	StateEmotionSelected State = "emotion_selected"
	StateConversing      State = "conversing"
)

// Replier is the opaque language-model collaborator.
type Replier interface {
	GenerateReply(ctx context.Context, turns []chat.Turn) (string, error)
}

// Detector classifies text into a catalog emotion, best effort.
type Detector interface {
	Detect(ctx context.Context, text string) (string, bool)
}

// Engine is the conversation state machine for one user's active session.
type Engine struct {
	replier  Replier
	detector Detector
	catalog  *emotion.Catalog

	session *chat.Session
	dirty   bool
}

// NewEngine creates an engine. replier may be nil when no model is
// configured; Send then fails with ErrReplierUnavailable. detector may be
// nil to disable emotion auto-detection.
func NewEngine(replier Replier, detector Detector, catalog *emotion.Catalog) *Engine {
	return &Engine{replier: replier, detector: detector, catalog: catalog}
}

// State reports the current lifecycle state.
func (e *Engine) State() State {
	switch {
	case e.session == nil:
		return StateNoSession
	case e.session.HasUserTurn():
		return StateConversing
	default:
		return StateEmotionSelected
	}
}

// Active returns a snapshot of the live session.
func (e *Engine) Active() (chat.Session, bool) {
	if e.session == nil {
		return chat.Session{}, false
	}
	return e.session.Clone(), true
}

// SaveWorthy reports whether the live session may be committed: at least
// one user-authored turn and a non-empty emotion tag.
func (e *Engine) SaveWorthy() bool {
	return e.session != nil && e.session.HasUserTurn() && e.session.Emotion != ""
}

// Dirty reports whether the live session changed since the last commit.
func (e *Engine) Dirty() bool {
	return e.session != nil && e.dirty
}

// MarkSaved records that the current state reached the registry.
func (e *Engine) MarkSaved() {
	e.dirty = false
}

// Start begins a new conversation for the named emotion, seeding exactly one
// system turn and one assistant greeting. An empty name starts an untagged
// conversation whose emotion may be filled later by detection. Callers must
// commit any save-worthy session before starting a new one.
func (e *Engine) Start(emotionName string) (string, error) {
	var selected *emotion.Emotion
	if emotionName != "" {
		found, ok := e.catalog.FindByName(emotionName)
		if !ok {
			return "", ErrUnknownEmotion
		}
		selected = &found
	}

	greeting := ai.Greeting(emotionName)
	e.session = &chat.Session{
		ID:      chat.NewSessionID(),
		Emotion: emotionName,
		Messages: []chat.Turn{
			{Role: chat.RoleSystem, Content: ai.CounselorPrompt(selected)},
			{Role: chat.RoleAssistant, Content: greeting},
		},
	}
	e.dirty = true
	return greeting, nil
}

// Resume re-enters a stored conversation. The live sequence is replaced
// verbatim, system turn included, and the session id is reused so further
// commits update the same record.
func (e *Engine) Resume(s chat.Session) {
	restored := s.Clone()
	e.session = &restored
	e.dirty = false
}

// Reset discards the live session. Callers commit first when it is
// save-worthy.
func (e *Engine) Reset() {
	e.session = nil
	e.dirty = false
}

// Send appends the user's turn, asks the replier for exactly one assistant
// turn over the full sequence, and appends it. When the replier fails the
// user turn stays appended so nothing typed is lost and a resend can
// succeed.
func (e *Engine) Send(ctx context.Context, text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyMessage
	}
	if e.session == nil {
		return "", ErrNoActiveSession
	}

	e.session.Messages = append(e.session.Messages, chat.Turn{Role: chat.RoleUser, Content: trimmed})
	if e.session.Preview == "" {
		e.session.Preview = chat.BuildPreview(e.session.Messages)
	}
	e.dirty = true

	// Detection fills an absent emotion only; an explicit choice is never
	// overwritten.
	if e.session.Emotion == "" && e.detector != nil {
		if name, ok := e.detector.Detect(ctx, trimmed); ok && e.catalog.Valid(name) {
			e.session.Emotion = name
		}
	}

	if e.replier == nil {
		return "", ErrReplierUnavailable
	}

	reply, err := e.replier.GenerateReply(ctx, e.session.Messages)
	if err != nil {
		return "", err
	}

	e.session.Messages = append(e.session.Messages, chat.Turn{Role: chat.RoleAssistant, Content: reply})
	e.dirty = true
	return reply, nil
}
