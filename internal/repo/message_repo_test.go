package repo

import (
	"context"
	"testing"
)

func TestListMessages_Order(t *testing.T) {
	db := newTestDB(t)
	client, workerUser, _, b := seedPair(t, db)
	ctx := context.Background()

	for _, txt := range []string{"um", "dois", "três"} {
		if _, err := CreateMessage(ctx, db, b.ID, client.ID, txt); err != nil {
			t.Fatalf("CreateMessage: %v", err)
		}
	}
	if _, err := CreateMessage(ctx, db, b.ID, workerUser.ID, "quatro"); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}

	msgs, err := ListMessages(ctx, db, b.ID)
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("len = %d", len(msgs))
	}
	for i := 1; i < len(msgs); i++ {
		prev, cur := msgs[i-1], msgs[i]
		if cur.CreatedAt.Before(prev.CreatedAt) {
			t.Fatalf("messages out of order at %d", i)
		}
		if cur.CreatedAt.Equal(prev.CreatedAt) && cur.ID < prev.ID {
			t.Fatalf("tie not broken by id at %d", i)
		}
	}
}

func TestMarkBookingMessagesRead_FlipsOnlyCounterparty(t *testing.T) {
	db := newTestDB(t)
	client, workerUser, _, b := seedPair(t, db)
	ctx := context.Background()

	mine, _ := CreateMessage(ctx, db, b.ID, client.ID, "enviada por mim")
	theirs1, _ := CreateMessage(ctx, db, b.ID, workerUser.ID, "deles 1")
	theirs2, _ := CreateMessage(ctx, db, b.ID, workerUser.ID, "deles 2")

	rows, err := MarkBookingMessagesRead(ctx, db, b.ID, client.ID)
	if err != nil {
		t.Fatalf("MarkBookingMessagesRead: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("flipped %d rows, want 2", len(rows))
	}
	for _, r := range rows {
		if !r.IsRead {
			t.Fatalf("returned row not flagged read: %+v", r)
		}
		if r.ID != theirs1.ID && r.ID != theirs2.ID {
			t.Fatalf("unexpected row flipped: %s", r.ID)
		}
	}

	// Own message stays unread; repeat call is a no-op.
	got, _ := GetMessage(ctx, db, mine.ID)
	if got.IsRead {
		t.Fatalf("own message must not be marked read")
	}
	rows, err = MarkBookingMessagesRead(ctx, db, b.ID, client.ID)
	if err != nil || len(rows) != 0 {
		t.Fatalf("second call: rows=%d err=%v", len(rows), err)
	}
}

func TestGetMessage_NotFound(t *testing.T) {
	db := newTestDB(t)

	if _, err := GetMessage(context.Background(), db, "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCountAndListUnread(t *testing.T) {
	db := newTestDB(t)
	client, workerUser, _, b := seedPair(t, db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := CreateMessage(ctx, db, b.ID, workerUser.ID, "olá"); err != nil {
			t.Fatalf("CreateMessage: %v", err)
		}
	}

	n, err := CountUnreadMessages(ctx, db, []string{b.ID}, client.ID)
	if err != nil || n != 3 {
		t.Fatalf("unread = %d, err = %v", n, err)
	}

	unread, err := ListUnreadMessages(ctx, db, []string{b.ID}, client.ID, 2)
	if err != nil || len(unread) != 2 {
		t.Fatalf("limited unread = %d, err = %v", len(unread), err)
	}
	// Newest first.
	if unread[0].CreatedAt.Before(unread[1].CreatedAt) {
		t.Fatalf("unread list not newest-first")
	}

	// Empty id set short-circuits.
	n, err = CountUnreadMessages(ctx, db, nil, client.ID)
	if err != nil || n != 0 {
		t.Fatalf("empty set count = %d, err = %v", n, err)
	}
}

func TestLatestMessage(t *testing.T) {
	db := newTestDB(t)
	client, _, _, b := seedPair(t, db)
	ctx := context.Background()

	m, err := LatestMessage(ctx, db, []string{b.ID})
	if err != nil || m != nil {
		t.Fatalf("empty thread: m=%v err=%v", m, err)
	}

	CreateMessage(ctx, db, b.ID, client.ID, "primeira")
	last, _ := CreateMessage(ctx, db, b.ID, client.ID, "última")

	m, err = LatestMessage(ctx, db, []string{b.ID})
	if err != nil || m == nil || m.ID != last.ID {
		t.Fatalf("latest = %+v, err = %v", m, err)
	}
}
