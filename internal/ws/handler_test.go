package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
	"github.com/biscato-app/go-marketplace-backend/internal/realtime"
	"github.com/biscato-app/go-marketplace-backend/internal/repo"
	"github.com/biscato-app/go-marketplace-backend/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestServer mounts the /ws endpoint over real services and an in-memory
// database, seeded with one booking between a client and a worker.
func newTestServer(t *testing.T) (srv *httptest.Server, db *gorm.DB, clientID, workerUserID, bookingID string) {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	ctx := context.Background()
	c, err := repo.CreateProfile(ctx, db, &domain.Profile{Name: "Ana", Phone: "+244900000001"})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}
	wu, err := repo.CreateProfile(ctx, db, &domain.Profile{Name: "Bento", Phone: "+244900000002", UserType: "worker"})
	if err != nil {
		t.Fatalf("seed worker user: %v", err)
	}
	w, err := repo.CreateWorker(ctx, db, &domain.Worker{UserID: wu.ID, ServiceType: "electrician", BasePrice: 5000})
	if err != nil {
		t.Fatalf("seed worker: %v", err)
	}
	b, err := repo.CreateBooking(ctx, db, &domain.Booking{
		ClientID:    c.ID,
		WorkerID:    w.ID,
		ServiceType: w.ServiceType,
		BookingDate: "2026-09-01",
		BookingTime: "10:00",
	})
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	hub := realtime.NewHub()
	t.Cleanup(hub.Close)

	r := gin.New()
	r.GET("/ws", Handler(Services{
		Presence:      &services.PresenceService{DB: db, Hub: hub},
		Chat:          &services.ChatService{DB: db, Hub: hub},
		Notifications: &services.NotificationService{DB: db, Hub: hub},
	}))
	srv = httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, db, c.ID, wu.ID, b.ID
}

func dial(t *testing.T, srv *httptest.Server, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"X-User-ID": {userID}})
	if err != nil {
		t.Fatalf("dial: %v (resp %+v)", err, resp)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readUntil reads frames, skipping unrelated ones, until it sees the wanted
// type or times out.
func readUntil(t *testing.T, conn *websocket.Conn, wantType string) frame {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	_ = conn.SetReadDeadline(deadline)
	for time.Now().Before(deadline) {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read while waiting for %q: %v", wantType, err)
		}
		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			t.Fatalf("bad frame %q: %v", raw, err)
		}
		if f.Type == wantType {
			return f
		}
	}
	t.Fatalf("no %q frame before deadline", wantType)
	return frame{}
}

func send(t *testing.T, conn *websocket.Conn, f frame) {
	t.Helper()
	if err := conn.WriteJSON(f); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestHandler_RequiresUserHeader(t *testing.T) {
	srv, _, _, _, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/ws")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestHandler_RejectsPlainHTTP(t *testing.T) {
	srv, _, clientID, _, _ := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/ws", nil)
	req.Header.Set("X-User-ID", clientID)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-upgrade request: %d", resp.StatusCode)
	}
}

func TestHandler_ConnectTracksPresenceAndSendsSnapshot(t *testing.T) {
	srv, db, clientID, _, _ := newTestServer(t)

	conn := dial(t, srv, clientID)
	readUntil(t, conn, "notifications")

	p, err := repo.GetPresence(context.Background(), db, clientID)
	if err != nil || p == nil || !p.IsOnline {
		t.Fatalf("connection must write an online row: %+v, %v", p, err)
	}

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		p, _ = repo.GetPresence(context.Background(), db, clientID)
		if p != nil && !p.IsOnline {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("disconnect must write offline, got %+v", p)
}

func TestHandler_ChatRoundTrip(t *testing.T) {
	srv, _, clientID, workerUserID, bookingID := newTestServer(t)

	client := dial(t, srv, clientID)
	worker := dial(t, srv, workerUserID)
	readUntil(t, client, "notifications")
	readUntil(t, worker, "notifications")

	send(t, client, frame{Type: "open_chat", BookingID: bookingID})
	opened := readUntil(t, client, "chat_opened")
	if opened.OtherUserID != workerUserID || len(opened.Messages) != 0 {
		t.Fatalf("chat_opened: %+v", opened)
	}

	send(t, worker, frame{Type: "open_chat", BookingID: bookingID})
	readUntil(t, worker, "chat_opened")

	send(t, client, frame{Type: "send", BookingID: bookingID, Text: "Bom dia", TempID: "tmp-1"})
	ack := readUntil(t, client, "ack")
	if ack.TempID != "tmp-1" || ack.Message == nil || ack.Message.Content != "Bom dia" {
		t.Fatalf("ack: %+v", ack)
	}

	// The worker's open session receives the message live.
	ev := readUntil(t, worker, "chat_event")
	if ev.BookingID != bookingID || ev.Event == nil {
		t.Fatalf("chat_event: %+v", ev)
	}
}

func TestHandler_UnsupportedFrameType(t *testing.T) {
	srv, _, clientID, _, _ := newTestServer(t)

	conn := dial(t, srv, clientID)
	readUntil(t, conn, "notifications")

	send(t, conn, frame{Type: "bogus"})
	errFrame := readUntil(t, conn, "error")
	if errFrame.Error != "unsupported_type" {
		t.Fatalf("error = %q", errFrame.Error)
	}
}

func TestHandler_SendWithoutOpenChat(t *testing.T) {
	srv, _, clientID, _, bookingID := newTestServer(t)

	conn := dial(t, srv, clientID)
	readUntil(t, conn, "notifications")

	send(t, conn, frame{Type: "send", BookingID: bookingID, Text: "olá"})
	errFrame := readUntil(t, conn, "error")
	if errFrame.Error != "chat_not_open" || errFrame.BookingID != bookingID {
		t.Fatalf("error frame: %+v", errFrame)
	}
}
