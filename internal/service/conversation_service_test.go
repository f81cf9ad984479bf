package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"buildshare/internal/domain"
)

func TestSummaries_CollapsesBothDirectionsToOneEntry(t *testing.T) {
	users, u1, u2 := testUsers()
	repo := &memMessageRepo{}
	msgSvc := NewMessageService(zap.NewNop(), repo, users, nil, nil)
	convSvc := NewConversationService(repo, users)

	if _, err := msgSvc.Send(context.Background(), u1.ID, u2.ID, "primero"); err != nil {
		t.Fatal(err)
	}
	// Timestamps distintos para un orden estable.
	repo.messages[0].CreatedAt = repo.messages[0].CreatedAt.Add(-time.Minute)
	if _, err := msgSvc.Send(context.Background(), u2.ID, u1.ID, "segundo"); err != nil {
		t.Fatal(err)
	}

	summaries, err := convSvc.Summaries(context.Background(), u1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected one summary, got %d", len(summaries))
	}

	s := summaries[0]
	if s.LastMessage != "segundo" {
		t.Fatalf("expected newest content as preview, got %q", s.LastMessage)
	}
	if s.OtherUser.ID != u2.ID || s.OtherUser.Name != u2.Name || s.OtherUser.Title != u2.Title {
		t.Fatalf("unexpected other user %+v", s.OtherUser)
	}
	if s.UnreadCount != 1 {
		t.Fatalf("expected one unread for u1, got %d", s.UnreadCount)
	}
}

func TestSummaries_OrderedByLastMessageDesc(t *testing.T) {
	u3 := domain.User{ID: "33333333-aaaa-4bbb-8ccc-000000000003", Name: "Cris", Title: "CTO"}
	users, u1, u2 := testUsers()
	users.users[u3.ID] = u3

	repo := &memMessageRepo{}
	now := time.Now().UTC()
	conv12, _ := ConversationID(u1.ID, u2.ID)
	conv13, _ := ConversationID(u1.ID, u3.ID)
	repo.messages = []domain.Message{
		{ID: "a", SenderID: u2.ID, RecipientID: u1.ID, Content: "viejo", ConversationID: conv12, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "b", SenderID: u3.ID, RecipientID: u1.ID, Content: "reciente", ConversationID: conv13, CreatedAt: now.Add(-time.Minute)},
	}

	convSvc := NewConversationService(repo, users)
	summaries, err := convSvc.Summaries(context.Background(), u1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected two summaries, got %d", len(summaries))
	}
	if summaries[0].ConversationID != conv13 || summaries[1].ConversationID != conv12 {
		t.Fatalf("expected newest conversation first, got %s then %s",
			summaries[0].ConversationID, summaries[1].ConversationID)
	}
}

func TestSummaries_SenderViewHasZeroUnread(t *testing.T) {
	users, u1, u2 := testUsers()
	repo := &memMessageRepo{}
	msgSvc := NewMessageService(zap.NewNop(), repo, users, nil, nil)
	convSvc := NewConversationService(repo, users)

	if _, err := msgSvc.Send(context.Background(), u1.ID, u2.ID, "Hello"); err != nil {
		t.Fatal(err)
	}

	senderView, err := convSvc.Summaries(context.Background(), u1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(senderView) != 1 || senderView[0].UnreadCount != 0 {
		t.Fatalf("sender view must have zero unread, got %+v", senderView)
	}
	if senderView[0].LastMessage != "Hello" {
		t.Fatalf("expected preview Hello, got %q", senderView[0].LastMessage)
	}

	recipientView, err := convSvc.Summaries(context.Background(), u2.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(recipientView) != 1 || recipientView[0].UnreadCount != 1 {
		t.Fatalf("recipient view must have one unread, got %+v", recipientView)
	}
}

func TestSummaries_EmptyHistory(t *testing.T) {
	users, u1, _ := testUsers()
	convSvc := NewConversationService(&memMessageRepo{}, users)

	summaries, err := convSvc.Summaries(context.Background(), u1.ID)
	if err != nil {
		t.Fatalf("empty history must not error: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("expected empty slice, got %d entries", len(summaries))
	}
}
