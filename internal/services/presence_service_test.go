package services

import (
	"context"
	"testing"
	"time"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
	"github.com/biscato-app/go-marketplace-backend/internal/realtime"
)

func TestPresenceService_UpdatePublishesChange(t *testing.T) {
	db := newTestDB(t)
	hub := realtime.NewHub()
	defer hub.Close()
	svc := &PresenceService{DB: db, Hub: hub}

	sub := hub.Subscribe(4, realtime.TableFilter(realtime.TablePresence))
	defer sub.Close()

	if err := svc.Update(context.Background(), "u1", true); err != nil {
		t.Fatalf("Update: %v", err)
	}

	select {
	case e := <-sub.C:
		var p domain.Presence
		if err := e.DecodeNew(&p); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if p.UserID != "u1" || !p.IsOnline {
			t.Fatalf("unexpected row: %+v", p)
		}
	case <-time.After(time.Second):
		t.Fatalf("no presence event published")
	}

	p, err := svc.Get(context.Background(), "u1")
	if err != nil || p == nil || !p.IsOnline {
		t.Fatalf("Get after update: %+v, %v", p, err)
	}
}

func TestTracker_HeartbeatKeepsRowFresh(t *testing.T) {
	db := newTestDB(t)
	svc := &PresenceService{DB: db, HeartbeatInterval: 20 * time.Millisecond}

	tr := svc.Track("u1")
	defer tr.Stop()

	p, err := svc.Get(context.Background(), "u1")
	if err != nil || p == nil || !p.IsOnline {
		t.Fatalf("Track must write online immediately: %+v, %v", p, err)
	}
	first := p.LastSeen

	waitFor(t, func() bool {
		p, err := svc.Get(context.Background(), "u1")
		return err == nil && p != nil && p.LastSeen.After(first)
	}, "heartbeat re-assert")
}

func TestTracker_HiddenStopsHeartbeatAndGoesOffline(t *testing.T) {
	db := newTestDB(t)
	svc := &PresenceService{DB: db, HeartbeatInterval: 20 * time.Millisecond}

	tr := svc.Track("u1")
	defer tr.Stop()

	// Hide before the first tick fires so the ticker only ever sees hidden.
	tr.SetHidden(true)
	p, _ := svc.Get(context.Background(), "u1")
	if p == nil || p.IsOnline {
		t.Fatalf("hidden session must read offline, got %+v", p)
	}
	stamp := p.LastSeen

	// Several intervals later the ticker must not have flipped the row back.
	time.Sleep(100 * time.Millisecond)
	p, _ = svc.Get(context.Background(), "u1")
	if p.IsOnline || p.LastSeen.After(stamp) {
		t.Fatalf("heartbeat ran while hidden: %+v", p)
	}

	tr.SetHidden(false)
	p, _ = svc.Get(context.Background(), "u1")
	if !p.IsOnline {
		t.Fatalf("visible again must read online, got %+v", p)
	}
}

func TestTracker_BlurRefreshesWithoutGoingOffline(t *testing.T) {
	db := newTestDB(t)
	svc := &PresenceService{DB: db, HeartbeatInterval: time.Hour}

	tr := svc.Track("u1")
	defer tr.Stop()

	before, _ := svc.Get(context.Background(), "u1")
	time.Sleep(5 * time.Millisecond)
	tr.Blur()

	after, _ := svc.Get(context.Background(), "u1")
	if !after.IsOnline {
		t.Fatalf("blur must not drop online flag")
	}
	if !after.LastSeen.After(before.LastSeen) {
		t.Fatalf("blur must refresh last_seen")
	}
}

func TestTracker_StopWritesOffline_Idempotent(t *testing.T) {
	db := newTestDB(t)
	svc := &PresenceService{DB: db, HeartbeatInterval: time.Hour}

	tr := svc.Track("u1")
	tr.Stop()
	tr.Stop() // second stop must not panic or block

	p, err := svc.Get(context.Background(), "u1")
	if err != nil || p == nil || p.IsOnline {
		t.Fatalf("after Stop expected offline row, got %+v, %v", p, err)
	}
}
