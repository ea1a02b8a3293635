package userdata

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/maumlog/maum/backend/internal/model/chat"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "users.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadUnknownUserReturnsEmptyRecord(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	record, err := s.Load(ctx, "nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if record.ChatSessions == nil {
		t.Fatal("expected non-nil session list")
	}
	if len(record.ChatSessions) != 0 {
		t.Fatalf("expected empty session list, got %d", len(record.ChatSessions))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	record := chat.UserRecord{ChatSessions: []chat.Session{{
		ID:      chat.NewSessionID(),
		Date:    time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
		Emotion: "기쁨",
		Preview: "오늘 좋은 일이 있었어요",
		Messages: []chat.Turn{
			{Role: chat.RoleSystem, Content: "persona"},
			{Role: chat.RoleAssistant, Content: "greeting"},
			{Role: chat.RoleUser, Content: "오늘 좋은 일이 있었어요"},
		},
	}}}

	if err := s.Save(ctx, "hana", record); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.Load(ctx, "hana")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.ChatSessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(got.ChatSessions))
	}
	if got.ChatSessions[0].Emotion != "기쁨" {
		t.Fatalf("unexpected emotion: %q", got.ChatSessions[0].Emotion)
	}
	if len(got.ChatSessions[0].Messages) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(got.ChatSessions[0].Messages))
	}
}

func TestSaveReplacesWholeRecord(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first := chat.UserRecord{ChatSessions: []chat.Session{
		{ID: "a", Messages: []chat.Turn{{Role: chat.RoleUser, Content: "one"}}},
		{ID: "b", Messages: []chat.Turn{{Role: chat.RoleUser, Content: "two"}}},
	}}
	if err := s.Save(ctx, "hana", first); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := chat.UserRecord{ChatSessions: []chat.Session{
		{ID: "b", Messages: []chat.Turn{{Role: chat.RoleUser, Content: "two"}}},
	}}
	if err := s.Save(ctx, "hana", second); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := s.Load(ctx, "hana")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.ChatSessions) != 1 || got.ChatSessions[0].ID != "b" {
		t.Fatalf("expected full replace, got %+v", got.ChatSessions)
	}
}

func TestLoadMigratesLegacyRecord(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	legacy := map[string]any{
		"chat_history": []map[string]string{
			{"role": "assistant", "content": "안녕하세요"},
			{"role": "user", "content": "요즘 많이 외로워요"},
		},
		"emotions": []string{"외로움"},
	}
	blob, err := json.Marshal(legacy)
	if err != nil {
		t.Fatalf("marshal legacy: %v", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO user_records (username, record, updated_at) VALUES (?, ?, ?)`,
		"oldtimer", blob, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		t.Fatalf("seed legacy row: %v", err)
	}

	got, err := s.Load(ctx, "oldtimer")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.ChatSessions) != 1 {
		t.Fatalf("expected legacy history wrapped into 1 session, got %d", len(got.ChatSessions))
	}
	if got.ChatSessions[0].Emotion != "외로움" {
		t.Fatalf("unexpected migrated emotion: %q", got.ChatSessions[0].Emotion)
	}
}
