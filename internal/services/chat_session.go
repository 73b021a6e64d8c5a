// Package services – ChatSession
//
// A ChatSession is one user's live view of one booking thread: the ordered
// message list, the counterparty's presence line, and a draft being typed.
// Sessions are created by ChatService.Open, usually one per open chat window
// on a websocket connection, and torn down with Close.
//
// Incoming messages are appended in hub arrival order and never re-sorted;
// the hub delivers one publisher's events in publish order, which the write
// path guarantees per booking.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
	"github.com/biscato-app/go-marketplace-backend/internal/realtime"
	"github.com/biscato-app/go-marketplace-backend/internal/repo"
)

// SessionEvent is one update pushed to the session's consumer.
type SessionEvent struct {
	// Kind is "message" for a thread change or "presence" for a status-line
	// change.
	Kind string `json:"kind"`
	// Message is set for Kind "message".
	Message *domain.Message `json:"message,omitempty"`
	// Status and Online are set for Kind "presence".
	Status string `json:"status,omitempty"`
	Online bool   `json:"online"`
}

// ChatSession is a live, stateful view of one booking thread. All exported
// methods are safe for concurrent use.
type ChatSession struct {
	svc       *ChatService
	bookingID string
	userID    string
	otherID   string

	// Events delivers thread and presence updates until Close. A consumer
	// that falls behind loses events, matching the feed's drop semantics.
	Events <-chan SessionEvent
	events chan SessionEvent

	mu         sync.Mutex
	messages   []domain.Message
	draft      string
	foreground bool
	other      *domain.Presence

	msgSub  *realtime.Subscription
	presSub *realtime.Subscription
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
}

// Open verifies the user participates in the booking, loads the full thread,
// marks messages from the counterparty as read, and returns a running
// session subscribed to the thread and to the counterparty's presence.
func (s *ChatService) Open(ctx context.Context, bookingID, userID string) (*ChatSession, error) {
	_, otherID, err := s.participants(ctx, bookingID, userID)
	if err != nil {
		return nil, err
	}

	history, err := repo.ListMessages(ctx, s.DB, bookingID)
	if err != nil {
		return nil, err
	}

	events := make(chan SessionEvent, 64)
	sess := &ChatSession{
		svc:        s,
		bookingID:  bookingID,
		userID:     userID,
		otherID:    otherID,
		Events:     events,
		events:     events,
		messages:   history,
		foreground: true,
		done:       make(chan struct{}),
	}

	// Opening the thread is itself the read receipt.
	sess.remark(ctx)

	if p, err := repo.GetPresence(ctx, s.DB, otherID); err != nil {
		log.Warn().Err(err).Str("user_id", otherID).Msg("chat: presence read failed")
	} else {
		sess.other = p
	}

	if s.Hub != nil {
		sess.msgSub = s.Hub.Subscribe(64, func(e realtime.Event) bool {
			if e.Table != realtime.TableMessages {
				return false
			}
			var m domain.Message
			if err := e.DecodeNew(&m); err != nil {
				return false
			}
			return m.BookingID == bookingID
		})
		sess.presSub = s.Hub.Subscribe(16, func(e realtime.Event) bool {
			if e.Table != realtime.TablePresence {
				return false
			}
			var p domain.Presence
			if err := e.DecodeNew(&p); err != nil {
				return false
			}
			return p.UserID == otherID
		})
	}

	runCtx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel
	go sess.run(runCtx)
	return sess, nil
}

func (c *ChatSession) run(ctx context.Context) {
	defer close(c.done)

	remark := time.NewTicker(durationOr(c.svc.RemarkInterval, defaultRemarkInterval))
	defer remark.Stop()
	refresh := time.NewTicker(durationOr(c.svc.PresenceRefresh, defaultPresenceRefresh))
	defer refresh.Stop()

	var msgC, presC <-chan realtime.Event
	if c.msgSub != nil {
		msgC = c.msgSub.C
	}
	if c.presSub != nil {
		presC = c.presSub.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case e, ok := <-msgC:
			if !ok {
				msgC = nil
				continue
			}
			c.onMessageEvent(ctx, e)

		case e, ok := <-presC:
			if !ok {
				presC = nil
				continue
			}
			var p domain.Presence
			if err := e.DecodeNew(&p); err != nil {
				continue
			}
			c.setPresence(&p)

		case <-remark.C:
			c.mu.Lock()
			fg := c.foreground
			c.mu.Unlock()
			if fg {
				c.remark(ctx)
			}

		case <-refresh.C:
			p, err := repo.GetPresence(ctx, c.svc.DB, c.otherID)
			if err != nil {
				log.Warn().Err(err).Str("user_id", c.otherID).Msg("chat: presence refresh failed")
				continue
			}
			c.setPresence(p)
		}
	}
}

func (c *ChatSession) onMessageEvent(ctx context.Context, e realtime.Event) {
	var m domain.Message
	if err := e.DecodeNew(&m); err != nil {
		return
	}

	c.mu.Lock()
	fg := c.foreground
	switch e.Action {
	case realtime.ActionInsert:
		// Appended in arrival order; the list is never re-sorted.
		c.messages = append(c.messages, m)
	case realtime.ActionUpdate:
		for i := range c.messages {
			if c.messages[i].ID == m.ID {
				c.messages[i] = m
				break
			}
		}
	}
	c.mu.Unlock()

	// A counterparty message landing in a visible window is read right away;
	// the ticker only covers rows that raced past this point.
	if e.Action == realtime.ActionInsert && m.SenderID != c.userID && fg {
		c.remark(ctx)
	}

	c.emit(SessionEvent{Kind: "message", Message: &m})
}

func (c *ChatSession) setPresence(p *domain.Presence) {
	c.mu.Lock()
	c.other = p
	c.mu.Unlock()

	now := time.Now().UTC()
	c.emit(SessionEvent{
		Kind:   "presence",
		Status: StatusText(p, now, c.svc.Locale),
		Online: p.ActuallyOnline(now),
	})
}

func (c *ChatSession) emit(e SessionEvent) {
	select {
	case c.events <- e:
	default:
	}
}

// remark flips unread counterparty messages to read, best-effort.
func (c *ChatSession) remark(ctx context.Context) {
	rows, err := repo.MarkBookingMessagesRead(ctx, c.svc.DB, c.bookingID, c.userID)
	if err != nil {
		log.Warn().Err(err).Str("booking_id", c.bookingID).Msg("chat: mark read failed")
		return
	}
	c.svc.publishReadFlips(rows)
}

// Messages returns a snapshot of the thread in display order.
func (c *ChatSession) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Draft returns the current draft text.
func (c *ChatSession) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft replaces the draft text.
func (c *ChatSession) SetDraft(text string) {
	c.mu.Lock()
	c.draft = text
	c.mu.Unlock()
}

// Send submits the current draft. The draft is cleared before the write so
// the composer empties immediately; on failure it is restored and the error
// returned. Sending an empty draft returns ErrEmptyMessage.
func (c *ChatSession) Send(ctx context.Context) (*domain.Message, error) {
	c.mu.Lock()
	draft := c.draft
	c.draft = ""
	c.mu.Unlock()

	m, err := c.svc.Send(ctx, c.bookingID, c.userID, draft, "")
	if err != nil {
		c.mu.Lock()
		// Only restore if the user has not started a new draft meanwhile.
		if c.draft == "" {
			c.draft = draft
		}
		c.mu.Unlock()
		return nil, err
	}
	return m, nil
}

// SetForeground reports whether the chat window is visible. Backgrounded
// sessions stop re-marking incoming messages as read; returning to the
// foreground marks immediately.
func (c *ChatSession) SetForeground(fg bool) {
	c.mu.Lock()
	was := c.foreground
	c.foreground = fg
	c.mu.Unlock()
	if fg && !was {
		c.remark(context.Background())
	}
}

// StatusText renders the counterparty's current presence line.
func (c *ChatSession) StatusText() string {
	c.mu.Lock()
	p := c.other
	c.mu.Unlock()
	return StatusText(p, time.Now().UTC(), c.svc.Locale)
}

// OtherUserID returns the counterparty account id.
func (c *ChatSession) OtherUserID() string { return c.otherID }

// BookingID returns the booking scoping this session.
func (c *ChatSession) BookingID() string { return c.bookingID }

// Close tears down subscriptions and tickers. Idempotent.
func (c *ChatSession) Close() {
	c.once.Do(func() {
		c.cancel()
		<-c.done
		if c.msgSub != nil {
			c.msgSub.Close()
		}
		if c.presSub != nil {
			c.presSub.Close()
		}
		close(c.events)
	})
}

func durationOr(d, def time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return def
}
