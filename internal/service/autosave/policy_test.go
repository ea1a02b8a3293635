package autosave_test

import (
	"context"
	"path/filepath"
	"testing"

	modelchat "github.com/maumlog/maum/backend/internal/model/chat"
	"github.com/maumlog/maum/backend/internal/model/emotion"
	"github.com/maumlog/maum/backend/internal/service/autosave"
	chatservice "github.com/maumlog/maum/backend/internal/service/chat"
	"github.com/maumlog/maum/backend/internal/service/registry"
	"github.com/maumlog/maum/backend/internal/store/userdata"
)

type echoReplier struct{}

func (echoReplier) GenerateReply(_ context.Context, turns []modelchat.Turn) (string, error) {
	return "듣고 있어요.", nil
}

func newFixture(t *testing.T) (*chatservice.Engine, *registry.Registry, *autosave.Policy) {
	t.Helper()
	store, err := userdata.NewSQLiteStore(filepath.Join(t.TempDir(), "users.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	reg, err := registry.Open(context.Background(), store, "hana")
	if err != nil {
		t.Fatalf("open registry: %v", err)
	}

	engine := chatservice.NewEngine(echoReplier{}, nil, emotion.NewCatalog(emotion.Seed()))
	policy := autosave.NewPolicy(engine, reg, 0, nil)
	return engine, reg, policy
}

func TestCommitSkipsUnworthySession(t *testing.T) {
	ctx := context.Background()
	engine, reg, policy := newFixture(t)

	// No session at all.
	if err := policy.Commit(ctx); err != nil {
		t.Fatalf("commit with no session: %v", err)
	}

	// Greeting only, no user turn.
	if _, err := engine.Start("기쁨"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := policy.Commit(ctx); err != nil {
		t.Fatalf("commit greeting-only: %v", err)
	}
	if got := reg.List(ctx); len(got) != 0 {
		t.Fatalf("greeting-only session must never reach the registry, got %d", len(got))
	}
}

func TestCommitIsIdempotent(t *testing.T) {
	ctx := context.Background()
	engine, reg, policy := newFixture(t)

	engine.Start("기쁨")
	if _, err := engine.Send(ctx, "오늘 좋은 일이 있었어요"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if err := policy.Commit(ctx); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	first := reg.List(ctx)
	if len(first) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(first))
	}
	stampedDate := first[0].Date

	// Second commit of the unchanged session: no duplicate, no date bump.
	if err := policy.Commit(ctx); err != nil {
		t.Fatalf("second commit: %v", err)
	}
	second := reg.List(ctx)
	if len(second) != 1 {
		t.Fatalf("unchanged commit must not duplicate, got %d entries", len(second))
	}
	if !second[0].Date.Equal(stampedDate) {
		t.Fatal("unchanged commit must not re-stamp the date")
	}

	got, err := reg.Get(ctx, first[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	session, _ := engine.Active()
	if len(got.Messages) != len(session.Messages) {
		t.Fatalf("stored messages diverged: %d vs %d", len(got.Messages), len(session.Messages))
	}
	for i := range got.Messages {
		if got.Messages[i] != session.Messages[i] {
			t.Fatalf("stored turn %d diverged: %+v vs %+v", i, got.Messages[i], session.Messages[i])
		}
	}
}

func TestCommitAfterNewTurnUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	engine, reg, policy := newFixture(t)

	engine.Start("감사")
	engine.Send(ctx, "친구가 도와줬어요")
	policy.Commit(ctx)

	engine.Send(ctx, "정말 고마웠어요")
	if err := policy.Commit(ctx); err != nil {
		t.Fatalf("commit after new turn: %v", err)
	}

	got := reg.List(ctx)
	if len(got) != 1 {
		t.Fatalf("further commits must update the same record, got %d entries", len(got))
	}
	if len(got[0].Messages) != 6 {
		t.Fatalf("expected 6 turns stored, got %d", len(got[0].Messages))
	}
}

func TestResumeCommitRoundTrip(t *testing.T) {
	ctx := context.Background()
	engine, reg, policy := newFixture(t)

	engine.Start("후회")
	engine.Send(ctx, "그때 다르게 말할걸 그랬어요")
	policy.Commit(ctx)

	original, _ := engine.Active()
	engine.Reset()

	stored, err := reg.Get(ctx, original.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	engine.Resume(stored)

	// Commit without new turns: same id, same emotion, same messages.
	if err := policy.Commit(ctx); err != nil {
		t.Fatalf("commit after resume: %v", err)
	}
	got := reg.List(ctx)
	if len(got) != 1 {
		t.Fatalf("resume+commit must not duplicate, got %d", len(got))
	}
	if got[0].ID != original.ID || got[0].Emotion != "후회" {
		t.Fatalf("resume must preserve id and emotion: %+v", got[0])
	}
	if len(got[0].Messages) != len(original.Messages) {
		t.Fatal("resume must preserve the message sequence")
	}
}
