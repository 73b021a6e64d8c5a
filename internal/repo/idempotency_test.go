package repo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestIdempotency_CreateGetDuplicate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	rec, err := CreateIdempotency(ctx, db, "u1", "b1", "key-1", "m1", 201, time.Hour)
	if err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	if rec.MessageID != "m1" || rec.Status != 201 {
		t.Fatalf("unexpected record: %+v", rec)
	}

	got, err := GetIdempotency(ctx, db, "u1", "b1", "key-1", now)
	if err != nil || got.MessageID != "m1" {
		t.Fatalf("GetIdempotency: %+v, %v", got, err)
	}

	// Same tuple again violates the unique index.
	if _, err := CreateIdempotency(ctx, db, "u1", "b1", "key-1", "m2", 201, time.Hour); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Same key under another booking is a distinct tuple.
	if _, err := CreateIdempotency(ctx, db, "u1", "b2", "key-1", "m3", 201, time.Hour); err != nil {
		t.Fatalf("different booking must not collide: %v", err)
	}
}

func TestGetIdempotency_ExpiredAndMissing(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := CreateIdempotency(ctx, db, "u1", "b1", "old", "m1", 201, time.Nanosecond); err != nil {
		t.Fatalf("CreateIdempotency: %v", err)
	}
	time.Sleep(time.Millisecond)

	if _, err := GetIdempotency(ctx, db, "u1", "b1", "old", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired record must read as ErrNotFound, got %v", err)
	}
	if _, err := GetIdempotency(ctx, db, "u1", "b1", "never", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing record must read as ErrNotFound, got %v", err)
	}
	if _, err := GetIdempotency(ctx, db, "u1", "", "k", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("blank booking id must read as ErrNotFound, got %v", err)
	}
}

func TestArchive_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := ArchiveChat(ctx, db, "u1", "b1"); err != nil {
		t.Fatalf("ArchiveChat: %v", err)
	}
	// Re-archiving the same thread is a harmless upsert.
	if err := ArchiveChat(ctx, db, "u1", "b1"); err != nil {
		t.Fatalf("re-archive: %v", err)
	}
	if err := ArchiveChat(ctx, db, "u1", "b2"); err != nil {
		t.Fatalf("ArchiveChat: %v", err)
	}

	ids, err := ListArchivedBookingIDs(ctx, db, "u1")
	if err != nil || len(ids) != 2 {
		t.Fatalf("archived = %v, err = %v", ids, err)
	}
	// Scoped per user.
	other, err := ListArchivedBookingIDs(ctx, db, "u2")
	if err != nil || len(other) != 0 {
		t.Fatalf("other user's set = %v, err = %v", other, err)
	}

	if err := UnarchiveChat(ctx, db, "u1", []string{"b1"}); err != nil {
		t.Fatalf("UnarchiveChat: %v", err)
	}
	ids, _ = ListArchivedBookingIDs(ctx, db, "u1")
	if _, still := ids["b1"]; still || len(ids) != 1 {
		t.Fatalf("after unarchive: %v", ids)
	}
}
