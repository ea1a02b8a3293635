package account_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	modelchat "github.com/maumlog/maum/backend/internal/model/chat"
	"github.com/maumlog/maum/backend/internal/model/emotion"
	"github.com/maumlog/maum/backend/internal/service/account"
	"github.com/maumlog/maum/backend/internal/service/chat"
	"github.com/maumlog/maum/backend/internal/store/userdata"
)

type scriptedReplier struct {
	calls int
}

func (r *scriptedReplier) GenerateReply(ctx context.Context, turns []modelchat.Turn) (string, error) {
	r.calls++
	return fmt.Sprintf("공감하는 답변 %d", r.calls), nil
}

type fixedDetector struct {
	name string
}

func (d fixedDetector) Detect(ctx context.Context, text string) (string, bool) {
	if d.name == "" {
		return "", false
	}
	return d.name, true
}

func newManager(t *testing.T, detector chat.Detector) *account.Manager {
	t.Helper()
	store, err := userdata.NewSQLiteStore(filepath.Join(t.TempDir(), "maum.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	catalog := emotion.NewCatalog(emotion.Seed())
	return account.NewManager(store, &scriptedReplier{}, detector, catalog, 0)
}

func TestConversationRoundTrip(t *testing.T) {
	ctx := context.Background()
	mgr := newManager(t, nil)

	acct, err := mgr.Attach(ctx, "tester")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}

	greeting, sessionID, err := acct.StartConversation(ctx, "기쁨")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if greeting == "" || sessionID == "" {
		t.Fatalf("expected greeting and session id, got %q / %q", greeting, sessionID)
	}

	reply, view, err := acct.SendMessage(ctx, "오늘 좋은 일이 있었어요")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply == "" {
		t.Fatal("expected a reply")
	}
	if !view.Saved {
		t.Fatal("commit should have succeeded")
	}
	if view.Emotion != "기쁨" {
		t.Fatalf("view emotion = %q", view.Emotion)
	}

	sessions := acct.ListSessions(ctx)
	if len(sessions) != 1 {
		t.Fatalf("stored sessions = %d, want 1", len(sessions))
	}
	stored := sessions[0]
	if stored.ID != sessionID {
		t.Fatalf("stored id = %q, want %q", stored.ID, sessionID)
	}
	if len(stored.Messages) != 4 {
		t.Fatalf("stored turns = %d, want 4", len(stored.Messages))
	}
	if stored.Preview != "오늘 좋은 일이 있었어요" {
		t.Fatalf("preview = %q", stored.Preview)
	}
}

func TestEndThenResumeContinuesSameRecord(t *testing.T) {
	ctx := context.Background()
	mgr := newManager(t, nil)

	acct, err := mgr.Attach(ctx, "tester")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	_, sessionID, err := acct.StartConversation(ctx, "슬픔")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, _, err := acct.SendMessage(ctx, "요즘 계속 울적해요"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := acct.EndConversation(ctx); err != nil {
		t.Fatalf("end: %v", err)
	}

	view, err := acct.ResumeSession(ctx, sessionID)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if view.SessionID != sessionID {
		t.Fatalf("resumed id = %q, want %q", view.SessionID, sessionID)
	}
	if view.Emotion != "슬픔" {
		t.Fatalf("resumed emotion = %q", view.Emotion)
	}

	if _, _, err := acct.SendMessage(ctx, "이야기하고 나니 조금 나아졌어요"); err != nil {
		t.Fatalf("send after resume: %v", err)
	}

	sessions := acct.ListSessions(ctx)
	if len(sessions) != 1 {
		t.Fatalf("stored sessions = %d, want 1 after resumed commit", len(sessions))
	}
	if len(sessions[0].Messages) != 6 {
		t.Fatalf("stored turns = %d, want 6", len(sessions[0].Messages))
	}
}

func TestStartCommitsPreviousConversation(t *testing.T) {
	ctx := context.Background()
	mgr := newManager(t, nil)

	acct, err := mgr.Attach(ctx, "tester")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if _, _, err := acct.StartConversation(ctx, "불안"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, _, err := acct.SendMessage(ctx, "내일 발표가 걱정돼요"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if _, _, err := acct.StartConversation(ctx, "기쁨"); err != nil {
		t.Fatalf("second start: %v", err)
	}

	sessions := acct.ListSessions(ctx)
	if len(sessions) != 1 {
		t.Fatalf("stored sessions = %d, want 1", len(sessions))
	}
	if sessions[0].Emotion != "불안" {
		t.Fatalf("committed emotion = %q, want 불안", sessions[0].Emotion)
	}
}

func TestUntaggedConversationFilledByDetector(t *testing.T) {
	ctx := context.Background()
	mgr := newManager(t, fixedDetector{name: "외로움"})

	acct, err := mgr.Attach(ctx, "tester")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if _, _, err := acct.StartConversation(ctx, ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, view, err := acct.SendMessage(ctx, "요즘 혼자인 기분이에요")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if view.Emotion != "외로움" {
		t.Fatalf("detected emotion = %q, want 외로움", view.Emotion)
	}
	if !view.Saved {
		t.Fatal("detector-tagged session should commit")
	}
}

func TestDetachPersistsAndReattachFindsHistory(t *testing.T) {
	ctx := context.Background()
	mgr := newManager(t, nil)

	acct, err := mgr.Attach(ctx, "tester")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if _, _, err := acct.StartConversation(ctx, "감사"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, _, err := acct.SendMessage(ctx, "도와준 친구가 고마워요"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := mgr.Detach(ctx, "tester"); err != nil {
		t.Fatalf("detach: %v", err)
	}
	if _, ok := mgr.Lookup("tester"); ok {
		t.Fatal("detached account still registered")
	}

	again, err := mgr.Attach(ctx, "tester")
	if err != nil {
		t.Fatalf("reattach: %v", err)
	}
	sessions := again.ListSessions(ctx)
	if len(sessions) != 1 || sessions[0].Emotion != "감사" {
		t.Fatalf("reattached history = %+v", sessions)
	}
}

func TestAttachIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mgr := newManager(t, nil)

	first, err := mgr.Attach(ctx, "tester")
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	second, err := mgr.Attach(ctx, "tester")
	if err != nil {
		t.Fatalf("second attach: %v", err)
	}
	if first != second {
		t.Fatal("attach should return the same account for the same user")
	}
}
