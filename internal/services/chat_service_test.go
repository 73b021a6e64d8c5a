package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
	"github.com/biscato-app/go-marketplace-backend/internal/realtime"
)

func TestChatService_SendAndHistory(t *testing.T) {
	db := newTestDB(t)
	fx := seed(t, db)
	svc := &ChatService{DB: db}
	ctx := context.Background()

	m, err := svc.Send(ctx, fx.booking.ID, fx.client.ID, "  Bom dia  ", "")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if m.Content != "Bom dia" {
		t.Fatalf("content not trimmed: %q", m.Content)
	}
	if m.SenderID != fx.client.ID || m.IsRead {
		t.Fatalf("unexpected row: %+v", m)
	}

	// Both participants can read the thread.
	for _, uid := range []string{fx.client.ID, fx.workerUser.ID} {
		msgs, err := svc.History(ctx, fx.booking.ID, uid)
		if err != nil || len(msgs) != 1 {
			t.Fatalf("History(%s): %d msgs, err %v", uid, len(msgs), err)
		}
	}

	// A stranger cannot.
	if _, err := svc.History(ctx, fx.booking.ID, "stranger"); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestChatService_SendValidation(t *testing.T) {
	db := newTestDB(t)
	fx := seed(t, db)
	svc := &ChatService{DB: db, MaxMessageLen: 10}
	ctx := context.Background()

	if _, err := svc.Send(ctx, fx.booking.ID, fx.client.ID, "   ", ""); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("blank content: expected ErrEmptyMessage, got %v", err)
	}
	if _, err := svc.Send(ctx, fx.booking.ID, fx.client.ID, strings.Repeat("a", 11), ""); !errors.Is(err, ErrMessageTooLong) {
		t.Fatalf("over cap: expected ErrMessageTooLong, got %v", err)
	}
	// Multi-byte runes count as one.
	if _, err := svc.Send(ctx, fx.booking.ID, fx.client.ID, strings.Repeat("á", 10), ""); err != nil {
		t.Fatalf("10 runes must pass: %v", err)
	}
	if _, err := svc.Send(ctx, "missing", fx.client.ID, "olá", ""); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("unknown booking: expected ErrBookingNotFound, got %v", err)
	}
}

func TestChatService_IdempotentReplay(t *testing.T) {
	db := newTestDB(t)
	fx := seed(t, db)
	svc := &ChatService{DB: db}
	ctx := context.Background()

	first, err := svc.Send(ctx, fx.booking.ID, fx.client.ID, "só uma vez", "retry-1")
	if err != nil {
		t.Fatalf("first send: %v", err)
	}
	replay, err := svc.Send(ctx, fx.booking.ID, fx.client.ID, "só uma vez", "retry-1")
	if err != nil {
		t.Fatalf("replay send: %v", err)
	}
	if replay.ID != first.ID {
		t.Fatalf("replay stored a new row: %s vs %s", replay.ID, first.ID)
	}

	msgs, _ := svc.History(ctx, fx.booking.ID, fx.client.ID)
	if len(msgs) != 1 {
		t.Fatalf("thread has %d rows, want 1", len(msgs))
	}

	// A different key inserts normally.
	second, err := svc.Send(ctx, fx.booking.ID, fx.client.ID, "outra", "retry-2")
	if err != nil || second.ID == first.ID {
		t.Fatalf("second key: %+v, %v", second, err)
	}
}

func TestChatService_SendPublishesInsert(t *testing.T) {
	db := newTestDB(t)
	fx := seed(t, db)
	hub := realtime.NewHub()
	defer hub.Close()
	svc := &ChatService{DB: db, Hub: hub}

	sub := hub.Subscribe(4, realtime.TableFilter(realtime.TableMessages))
	defer sub.Close()

	m, err := svc.Send(context.Background(), fx.booking.ID, fx.client.ID, "olá", "")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}

	e := <-sub.C
	if e.Action != realtime.ActionInsert {
		t.Fatalf("action = %s", e.Action)
	}
	var got domain.Message
	if err := e.DecodeNew(&got); err != nil || got.ID != m.ID {
		t.Fatalf("event row mismatch: %+v, %v", got, err)
	}
}

func TestChatService_MarkReadPublishesPerRowFlips(t *testing.T) {
	db := newTestDB(t)
	fx := seed(t, db)
	hub := realtime.NewHub()
	defer hub.Close()
	svc := &ChatService{DB: db, Hub: hub}
	ctx := context.Background()

	svc.Send(ctx, fx.booking.ID, fx.workerUser.ID, "um", "")
	svc.Send(ctx, fx.booking.ID, fx.workerUser.ID, "dois", "")

	sub := hub.Subscribe(8, realtime.TableFilter(realtime.TableMessages))
	defer sub.Close()

	if err := svc.MarkRead(ctx, fx.booking.ID, fx.client.ID); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}

	for i := 0; i < 2; i++ {
		e := <-sub.C
		if e.Action != realtime.ActionUpdate {
			t.Fatalf("event %d action = %s", i, e.Action)
		}
		var fresh, stale domain.Message
		if err := e.DecodeNew(&fresh); err != nil || !fresh.IsRead {
			t.Fatalf("event %d new row: %+v, %v", i, fresh, err)
		}
		if err := e.DecodeOld(&stale); err != nil || stale.IsRead {
			t.Fatalf("event %d old row must carry unread form: %+v, %v", i, stale, err)
		}
	}
}
