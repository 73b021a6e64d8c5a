// Package services – PresenceService
//
// This file implements presence reporting: the server-side equivalent of the
// client heartbeat that keeps a user's presence row fresh while their
// session is open, and signals offline promptly when they go away.
//
// Presence is strictly best-effort. Writes that fail are logged and
// swallowed; a tracker never blocks or aborts anything else, and readers
// compensate for stale rows with the freshness window (domain.Presence
// .ActuallyOnline) rather than trusting the stored flag.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
	"github.com/biscato-app/go-marketplace-backend/internal/realtime"
	"github.com/biscato-app/go-marketplace-backend/internal/repo"
)

// PresenceService owns reads and writes of the user_presence table and
// publishes every write to the change feed.
type PresenceService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Hub receives a user_presence UPDATE event for every upsert.
	Hub *realtime.Hub

	// HeartbeatInterval is how often a tracker re-asserts online.
	// Defaults to 20s when zero.
	HeartbeatInterval time.Duration
}

// heartbeatDefault matches the 20-second client heartbeat.
const heartbeatDefault = 20 * time.Second

// Update upserts the presence row for userID and publishes the change.
func (s *PresenceService) Update(ctx context.Context, userID string, online bool) error {
	p, err := repo.UpsertPresence(ctx, s.DB, userID, online, time.Now().UTC())
	if err != nil {
		return err
	}
	if s.Hub != nil {
		if ev, err := realtime.NewEvent(realtime.TablePresence, realtime.ActionUpdate, p, nil); err == nil {
			s.Hub.Publish(ev)
		}
	}
	return nil
}

// Get returns a user's presence row, or nil when none exists.
func (s *PresenceService) Get(ctx context.Context, userID string) (*domain.Presence, error) {
	return repo.GetPresence(ctx, s.DB, userID)
}

// Track marks userID online and returns a running Tracker that re-asserts
// the row every HeartbeatInterval until Stop is called.
func (s *PresenceService) Track(userID string) *Tracker {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Tracker{
		svc:    s,
		userID: userID,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	t.update(ctx, true)

	interval := s.HeartbeatInterval
	if interval <= 0 {
		interval = heartbeatDefault
	}
	go t.run(ctx, interval)
	return t
}

// Tracker keeps one user's presence row fresh. It reacts to visibility
// signals the way the client reports them:
//
//   - hidden  → offline immediately
//   - visible → online immediately
//   - blur    → refresh last_seen but stay online (transient focus loss
//     must not flicker the indicator)
//
// Stop performs a final best-effort offline write.
type Tracker struct {
	svc    *PresenceService
	userID string
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	hidden bool
	once   sync.Once
}

func (t *Tracker) run(ctx context.Context, interval time.Duration) {
	defer close(t.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.mu.Lock()
			hidden := t.hidden
			t.mu.Unlock()
			if !hidden {
				t.update(ctx, true)
			}
		}
	}
}

// SetHidden reports a visibility change. Hidden sessions go offline at
// once; returning to visible re-asserts online.
func (t *Tracker) SetHidden(hidden bool) {
	t.mu.Lock()
	t.hidden = hidden
	t.mu.Unlock()
	t.update(context.Background(), !hidden)
}

// Blur refreshes last_seen without dropping the online flag.
func (t *Tracker) Blur() {
	t.mu.Lock()
	hidden := t.hidden
	t.mu.Unlock()
	if !hidden {
		t.update(context.Background(), true)
	}
}

// Stop halts the heartbeat and writes a final offline row. The write is
// bounded so a dying connection cannot hang teardown.
func (t *Tracker) Stop() {
	t.once.Do(func() {
		t.cancel()
		<-t.done
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		t.update(ctx, false)
	})
}

func (t *Tracker) update(ctx context.Context, online bool) {
	if err := t.svc.Update(ctx, t.userID, online); err != nil {
		log.Warn().Err(err).Str("user_id", t.userID).Msg("presence update failed")
	}
}
