// Package ws is the realtime plane of the service: one WebSocket connection
// per signed-in client. The connection owns that user's presence tracker and
// notification feed for its whole lifetime, plus one chat session per open
// chat window, and tears all of them down when the socket closes.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
	"github.com/biscato-app/go-marketplace-backend/internal/services"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 4096
	sendBufferSize = 256
)

var connectedClients = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "ws_connected_clients",
	Help: "Currently connected websocket clients.",
})

func init() {
	prometheus.MustRegister(connectedClients)
}

// frame is the envelope for both directions.
type frame struct {
	Type string `json:"type"`

	// Client → server fields.
	Hidden     bool   `json:"hidden,omitempty"`
	BookingID  string `json:"booking_id,omitempty"`
	Foreground bool   `json:"foreground,omitempty"`
	Text       string `json:"text,omitempty"`
	TempID     string `json:"temp_id,omitempty"`
	NotifID    string `json:"notif_id,omitempty"`

	// Server → client fields.
	Error         string                 `json:"error,omitempty"`
	Message       *domain.Message        `json:"message,omitempty"`
	Messages      []domain.Message       `json:"messages,omitempty"`
	Status        string                 `json:"status,omitempty"`
	Online        bool                   `json:"online,omitempty"`
	OtherUserID   string                 `json:"other_user_id,omitempty"`
	Notification  *domain.Notification   `json:"notification,omitempty"`
	Notifications []domain.Notification  `json:"notifications,omitempty"`
	UnreadCount   int                    `json:"unread_count,omitempty"`
	Event         *services.SessionEvent `json:"event,omitempty"`
}

// Services bundles what a connection needs.
type Services struct {
	Presence      *services.PresenceService
	Chat          *services.ChatService
	Notifications *services.NotificationService
}

// Client is one connected user.
type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	userID string
	svc    Services

	tracker *services.Tracker
	feed    *services.NotificationFeed

	mu       sync.Mutex
	sessions map[string]*services.ChatSession

	closeOnce sync.Once
	closed    chan struct{}
}

func newClient(conn *websocket.Conn, userID string, svc Services) *Client {
	return &Client{
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		userID:   userID,
		svc:      svc,
		sessions: make(map[string]*services.ChatSession),
		closed:   make(chan struct{}),
	}
}

// serve runs the connection to completion.
func (c *Client) serve(ctx context.Context) {
	connectedClients.Inc()
	defer connectedClients.Dec()

	c.tracker = c.svc.Presence.Track(c.userID)

	feed, err := c.svc.Notifications.Open(ctx, c.userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", c.userID).Msg("ws: notification feed open failed")
	} else {
		c.feed = feed
		go c.pumpAdditions(feed)
		c.sendFeedSnapshot()
	}

	go c.writePump()
	c.readPump()
	c.teardown()
}

func (c *Client) teardown() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.mu.Lock()
		sessions := c.sessions
		c.sessions = map[string]*services.ChatSession{}
		c.mu.Unlock()
		for _, s := range sessions {
			s.Close()
		}
		if c.feed != nil {
			c.feed.Close()
		}
		c.tracker.Stop()
	})
}

func (c *Client) readPump() {
	defer func() { _ = c.conn.Close() }()
	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("user_id", c.userID).Msg("ws: read error")
			}
			return
		}
		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			c.sendError("invalid_json", "")
			continue
		}
		c.handle(context.Background(), f)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (c *Client) handle(ctx context.Context, f frame) {
	switch f.Type {
	case "visibility":
		c.tracker.SetHidden(f.Hidden)
		c.mu.Lock()
		for _, s := range c.sessions {
			s.SetForeground(!f.Hidden)
		}
		c.mu.Unlock()

	case "blur":
		c.tracker.Blur()

	case "open_chat":
		c.openChat(ctx, f.BookingID)

	case "close_chat":
		c.mu.Lock()
		s, ok := c.sessions[f.BookingID]
		delete(c.sessions, f.BookingID)
		c.mu.Unlock()
		if ok {
			s.Close()
		}

	case "chat_foreground":
		if s := c.session(f.BookingID); s != nil {
			s.SetForeground(f.Foreground)
		}

	case "draft":
		if s := c.session(f.BookingID); s != nil {
			s.SetDraft(f.Text)
		}

	case "send":
		c.sendMessage(ctx, f)

	case "mark_read":
		if err := c.svc.Chat.MarkRead(ctx, f.BookingID, c.userID); err != nil {
			c.sendError("mark_read_failed", f.BookingID)
		}

	case "notif_refresh":
		if c.feed != nil {
			if err := c.feed.Refresh(ctx); err != nil {
				log.Warn().Err(err).Str("user_id", c.userID).Msg("ws: feed refresh failed")
			}
			c.sendFeedSnapshot()
		}

	case "notif_mark_read":
		if c.feed != nil {
			c.feed.MarkAsRead(f.NotifID)
			c.sendFeedSnapshot()
		}

	case "notif_mark_all_read":
		if c.feed != nil {
			if err := c.feed.MarkAllAsRead(ctx); err != nil {
				log.Warn().Err(err).Str("user_id", c.userID).Msg("ws: mark all read failed")
			}
			c.sendFeedSnapshot()
		}

	case "notif_delete":
		if c.feed != nil {
			c.feed.Delete(f.NotifID)
			c.sendFeedSnapshot()
		}

	case "notif_clear":
		if c.feed != nil {
			c.feed.Clear()
			c.sendFeedSnapshot()
		}

	default:
		c.sendError("unsupported_type", "")
	}
}

func (c *Client) session(bookingID string) *services.ChatSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[bookingID]
}

func (c *Client) openChat(ctx context.Context, bookingID string) {
	if c.session(bookingID) != nil {
		return
	}
	sess, err := c.svc.Chat.Open(ctx, bookingID, c.userID)
	if err != nil {
		c.sendError("open_failed", bookingID)
		return
	}
	c.mu.Lock()
	c.sessions[bookingID] = sess
	c.mu.Unlock()

	go c.pumpSession(bookingID, sess)
	c.sendFrame(frame{
		Type:        "chat_opened",
		BookingID:   bookingID,
		Messages:    sess.Messages(),
		Status:      sess.StatusText(),
		OtherUserID: sess.OtherUserID(),
	})
}

func (c *Client) sendMessage(ctx context.Context, f frame) {
	s := c.session(f.BookingID)
	if s == nil {
		c.sendError("chat_not_open", f.BookingID)
		return
	}
	if f.Text != "" {
		s.SetDraft(f.Text)
	}
	m, err := s.Send(ctx)
	if err != nil {
		c.sendError("send_failed", f.BookingID)
		return
	}
	c.sendFrame(frame{Type: "ack", BookingID: f.BookingID, TempID: f.TempID, Message: m})
}

func (c *Client) pumpSession(bookingID string, s *services.ChatSession) {
	for e := range s.Events {
		e := e
		c.sendFrame(frame{Type: "chat_event", BookingID: bookingID, Event: &e, Online: e.Online})
	}
}

func (c *Client) pumpAdditions(feed *services.NotificationFeed) {
	for n := range feed.Additions {
		n := n
		c.sendFrame(frame{Type: "notification", Notification: &n, UnreadCount: feed.UnreadCount()})
	}
}

func (c *Client) sendFeedSnapshot() {
	if c.feed == nil {
		return
	}
	c.sendFrame(frame{
		Type:          "notifications",
		Notifications: c.feed.Notifications(),
		UnreadCount:   c.feed.UnreadCount(),
	})
}

func (c *Client) sendError(code, bookingID string) {
	c.sendFrame(frame{Type: "error", Error: code, BookingID: bookingID})
}

func (c *Client) sendFrame(f frame) {
	b, err := json.Marshal(f)
	if err != nil {
		log.Error().Err(err).Msg("ws: marshal frame")
		return
	}
	select {
	case c.send <- b:
	default:
		// Slow client; drop rather than block the producers.
	}
}
