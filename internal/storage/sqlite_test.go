package storage_test

import (
	"context"
	"testing"

	"github.com/harperchat/backend/internal/model/chat"
	"github.com/harperchat/backend/internal/storage"
)

func newStore(t *testing.T) *storage.SqliteStore {
	t.Helper()
	store, err := storage.NewInMemory()
	if err != nil {
		t.Fatalf("NewInMemory err: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndListOrdering(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	contents := []string{"first", "second", "third"}
	for i, c := range contents {
		sender := chat.SenderUser
		if i%2 == 1 {
			sender = chat.SenderBot
		}
		if _, err := store.SaveMessage(ctx, "s1", sender, c); err != nil {
			t.Fatalf("SaveMessage err: %v", err)
		}
	}

	messages, err := store.SessionMessages(ctx, "s1")
	if err != nil {
		t.Fatalf("SessionMessages err: %v", err)
	}
	if len(messages) != len(contents) {
		t.Fatalf("expected %d messages, got %d", len(contents), len(messages))
	}

	for i, msg := range messages {
		if msg.Content != contents[i] {
			t.Fatalf("message %d: got %q want %q", i, msg.Content, contents[i])
		}
		if i > 0 && msg.Timestamp.Before(messages[i-1].Timestamp) {
			t.Fatalf("timestamps not non-decreasing at index %d", i)
		}
		if msg.ID == 0 {
			t.Fatalf("message %d has no id", i)
		}
	}
}

func TestSessionMessagesUnknownSession(t *testing.T) {
	store := newStore(t)

	messages, err := store.SessionMessages(context.Background(), "nope")
	if err != nil {
		t.Fatalf("SessionMessages err: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("expected empty slice, got %d messages", len(messages))
	}
}

func TestSessionsMostRecentFirst(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := store.SaveMessage(ctx, id, chat.SenderUser, "hi"); err != nil {
			t.Fatalf("SaveMessage err: %v", err)
		}
	}
	// Touch "a" again so it becomes the most recent.
	if _, err := store.SaveMessage(ctx, "a", chat.SenderBot, "hello"); err != nil {
		t.Fatalf("SaveMessage err: %v", err)
	}

	sessions, err := store.Sessions(ctx)
	if err != nil {
		t.Fatalf("Sessions err: %v", err)
	}

	want := []string{"a", "c", "b"}
	if len(sessions) != len(want) {
		t.Fatalf("expected %d sessions, got %d", len(want), len(sessions))
	}
	for i, id := range want {
		if sessions[i] != id {
			t.Fatalf("session %d: got %s want %s", i, sessions[i], id)
		}
	}
}

func TestClearSessionIdempotent(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if _, err := store.SaveMessage(ctx, "s1", chat.SenderUser, "hi"); err != nil {
		t.Fatalf("SaveMessage err: %v", err)
	}
	if _, err := store.SaveMessage(ctx, "s2", chat.SenderUser, "other"); err != nil {
		t.Fatalf("SaveMessage err: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := store.ClearSession(ctx, "s1"); err != nil {
			t.Fatalf("ClearSession round %d err: %v", i, err)
		}
	}

	messages, err := store.SessionMessages(ctx, "s1")
	if err != nil {
		t.Fatalf("SessionMessages err: %v", err)
	}
	if len(messages) != 0 {
		t.Fatalf("expected cleared session, got %d messages", len(messages))
	}

	// Other sessions untouched.
	other, err := store.SessionMessages(ctx, "s2")
	if err != nil {
		t.Fatalf("SessionMessages err: %v", err)
	}
	if len(other) != 1 {
		t.Fatalf("expected 1 message in s2, got %d", len(other))
	}

	if err := store.ClearSession(ctx, "never-existed"); err != nil {
		t.Fatalf("clearing unknown session should succeed, got %v", err)
	}
}

func TestRecentMessagesNewestFirstWithLimit(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	for _, c := range []string{"one", "two", "three", "four"} {
		if _, err := store.SaveMessage(ctx, "s1", chat.SenderUser, c); err != nil {
			t.Fatalf("SaveMessage err: %v", err)
		}
	}

	recent, err := store.RecentMessages(ctx, "s1", 2)
	if err != nil {
		t.Fatalf("RecentMessages err: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(recent))
	}
	if recent[0].Content != "four" || recent[1].Content != "three" {
		t.Fatalf("expected newest first, got %q then %q", recent[0].Content, recent[1].Content)
	}
}

func TestSearchMessages(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	for _, c := range []string{"I love tape loops", "what about drums", "Tape hiss is underrated"} {
		if _, err := store.SaveMessage(ctx, "s1", chat.SenderUser, c); err != nil {
			t.Fatalf("SaveMessage err: %v", err)
		}
	}
	if _, err := store.SaveMessage(ctx, "other", chat.SenderUser, "tape in another session"); err != nil {
		t.Fatalf("SaveMessage err: %v", err)
	}

	results, err := store.SearchMessages(ctx, "s1", "tape", 5)
	if err != nil {
		t.Fatalf("SearchMessages err: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(results))
	}
	if results[0].Content != "Tape hiss is underrated" {
		t.Fatalf("expected newest match first, got %q", results[0].Content)
	}
}

func TestSessionStats(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	turns := []struct{ sender, content string }{
		{chat.SenderUser, "hello"},
		{chat.SenderBot, "hey you"},
		{chat.SenderUser, "how are you"},
	}
	for _, turn := range turns {
		if _, err := store.SaveMessage(ctx, "s1", turn.sender, turn.content); err != nil {
			t.Fatalf("SaveMessage err: %v", err)
		}
	}

	stats, err := store.SessionStats(ctx, "s1")
	if err != nil {
		t.Fatalf("SessionStats err: %v", err)
	}
	if stats.TotalMessages != 3 || stats.UserMessages != 2 || stats.BotMessages != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.FirstInteraction == nil || stats.LastInteraction == nil {
		t.Fatal("expected interaction timestamps")
	}
	if stats.LastInteraction.Before(*stats.FirstInteraction) {
		t.Fatal("last interaction before first")
	}
}

func TestSessionStatsEmptySession(t *testing.T) {
	store := newStore(t)

	stats, err := store.SessionStats(context.Background(), "empty")
	if err != nil {
		t.Fatalf("SessionStats err: %v", err)
	}
	if stats.TotalMessages != 0 {
		t.Fatalf("expected zero messages, got %d", stats.TotalMessages)
	}
	if stats.FirstInteraction != nil || stats.LastInteraction != nil {
		t.Fatal("expected nil interaction timestamps for empty session")
	}
}
