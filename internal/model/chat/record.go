package chat

import "time"

// UserRecord is the single persisted record for one user.
type UserRecord struct {
	ChatSessions []Session `json:"chatSessions"`

	// Legacy fields written by records that predate first-class sessions.
	// Read-compatibility only; the write path always emits the new shape.
	LegacyHistory  []Turn   `json:"chat_history,omitempty"`
	LegacyEmotions []string `json:"emotions,omitempty"`
}

// EmptyRecord returns the default record for an unknown user.
func EmptyRecord() UserRecord {
	return UserRecord{ChatSessions: []Session{}}
}

// Migrated folds legacy fields into the session list. A record that already
// carries sessions keeps them untouched; otherwise a legacy history with at
// least one user turn is wrapped into a single session tagged with the last
// legacy emotion. The legacy fields are dropped either way.
func (r UserRecord) Migrated() UserRecord {
	out := r
	out.LegacyHistory = nil
	out.LegacyEmotions = nil
	if out.ChatSessions == nil {
		out.ChatSessions = []Session{}
	}

	if len(r.ChatSessions) > 0 || len(r.LegacyHistory) == 0 {
		return out
	}

	legacy := Session{
		ID:       NewSessionID(),
		Date:     time.Now().UTC(),
		Preview:  BuildPreview(r.LegacyHistory),
		Messages: append([]Turn(nil), r.LegacyHistory...),
	}
	if n := len(r.LegacyEmotions); n > 0 {
		legacy.Emotion = r.LegacyEmotions[n-1]
	}
	if !legacy.HasUserTurn() {
		return out
	}

	out.ChatSessions = []Session{legacy}
	return out
}

// Clone returns a deep copy of the record.
func (r UserRecord) Clone() UserRecord {
	out := r
	out.ChatSessions = make([]Session, len(r.ChatSessions))
	for i, s := range r.ChatSessions {
		out.ChatSessions[i] = s.Clone()
	}
	if r.LegacyHistory != nil {
		out.LegacyHistory = append([]Turn(nil), r.LegacyHistory...)
	}
	if r.LegacyEmotions != nil {
		out.LegacyEmotions = append([]string(nil), r.LegacyEmotions...)
	}
	return out
}
