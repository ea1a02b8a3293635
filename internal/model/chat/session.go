package chat

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// previewLimit caps the preview snippet length in runes.
const previewLimit = 60

// Session captures one continuous conversation tagged with an emotion.
type Session struct {
	ID      string    `json:"id"`
	Date    time.Time `json:"date"`
	Emotion string    `json:"emotion,omitempty"`
	Preview string    `json:"preview,omitempty"`
	// Messages holds the full turn sequence, system turn included. The
	// system turn must survive a save/resume round trip verbatim so the
	// model keeps its context.
	Messages []Turn `json:"messages"`
}

// NewSessionID generates a session identifier. ULIDs embed the creation
// timestamp in their prefix, so ids sort consistently with Date and two
// sessions created within the same clock tick still differ.
func NewSessionID() string {
	return ulid.Make().String()
}

// HasUserTurn reports whether the session contains at least one
// user-authored turn. Sessions without one must never reach the registry.
func (s Session) HasUserTurn() bool {
	for _, t := range s.Messages {
		if t.Role == RoleUser {
			return true
		}
	}
	return false
}

// VisibleMessages returns the turn sequence without system turns, the shape
// shown to the user.
func (s Session) VisibleMessages() []Turn {
	visible := make([]Turn, 0, len(s.Messages))
	for _, t := range s.Messages {
		if t.Role == RoleSystem {
			continue
		}
		visible = append(visible, t)
	}
	return visible
}

// Clone returns a deep copy so callers can hold a snapshot safely.
func (s Session) Clone() Session {
	out := s
	out.Messages = append([]Turn(nil), s.Messages...)
	return out
}

// BuildPreview derives the list-display snippet: the first user-authored
// turn, truncated.
func BuildPreview(messages []Turn) string {
	for _, t := range messages {
		if t.Role != RoleUser {
			continue
		}
		runes := []rune(t.Content)
		if len(runes) <= previewLimit {
			return t.Content
		}
		return string(runes[:previewLimit]) + "…"
	}
	return ""
}
