// Package services – NotificationFeed
//
// The feed is a per-user, in-memory list of notifications rebuilt from
// unread messages on load and extended live from the change feed. Nothing
// here is persisted: deterministic ids derived from the source rows make the
// fetched and the live form of the same event collapse into one entry.
//
// The feed degrades instead of failing: an error while reacting to a live
// event is logged and the list keeps its last successful state.
package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
	"github.com/biscato-app/go-marketplace-backend/internal/realtime"
	"github.com/biscato-app/go-marketplace-backend/internal/repo"
)

// defaultFetchLimit caps how many unread messages the initial load turns
// into notifications.
const defaultFetchLimit = 50

// Preview lengths, in runes, for message notification descriptions. The
// fetched form shows slightly more than the live one.
const (
	fetchPreviewLen = 50
	livePreviewLen  = 40
)

// feedCopy is the user-facing text of the feed in one locale.
type feedCopy struct {
	newMessage      string
	unknownSender   string
	newBookingTitle string
	newBookingDesc  string
	acceptedTitle   string
	acceptedDesc    string
	rejectedTitle   string
	rejectedDesc    string
	startedTitle    string
	startedDesc     string
	completedTitle  string
	rateWorkerDesc  string
	rateClientDesc  string
	cancelledTitle  string
	cancelledDesc   string
}

var feedCopyPT = feedCopy{
	newMessage:      "Nova mensagem",
	unknownSender:   "Alguém",
	newBookingTitle: "Novo pedido!",
	newBookingDesc:  "Você recebeu um novo pedido de serviço",
	acceptedTitle:   "Pedido aceite!",
	acceptedDesc:    "O profissional aceitou o seu pedido",
	rejectedTitle:   "Pedido rejeitado",
	rejectedDesc:    "O profissional rejeitou o seu pedido",
	startedTitle:    "Serviço iniciado",
	startedDesc:     "O profissional está a caminho",
	completedTitle:  "🎉 Serviço concluído!",
	rateWorkerDesc:  "Avalie o profissional agora!",
	rateClientDesc:  "Avalie o cliente agora!",
	cancelledTitle:  "Pedido cancelado",
	cancelledDesc:   "O pedido foi cancelado",
}

var feedCopyEN = feedCopy{
	newMessage:      "New message",
	unknownSender:   "Someone",
	newBookingTitle: "New request!",
	newBookingDesc:  "You received a new service request",
	acceptedTitle:   "Request accepted!",
	acceptedDesc:    "The professional accepted your request",
	rejectedTitle:   "Request rejected",
	rejectedDesc:    "The professional rejected your request",
	startedTitle:    "Service started",
	startedDesc:     "The professional is on the way",
	completedTitle:  "🎉 Service completed!",
	rateWorkerDesc:  "Rate the professional now!",
	rateClientDesc:  "Rate the client now!",
	cancelledTitle:  "Request cancelled",
	cancelledDesc:   "The request was cancelled",
}

func copyFor(loc language.Tag) feedCopy {
	if _, idx, _ := statusLocales.Match(loc); idx == 1 {
		return feedCopyEN
	}
	return feedCopyPT
}

// preview truncates content to max runes, appending "..." when cut.
func preview(content string, max int) string {
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "..."
}

// NotificationService builds per-user notification feeds.
type NotificationService struct {
	DB  *gorm.DB
	Hub *realtime.Hub

	// FetchLimit caps the initial unread-message load. Defaults to 50.
	FetchLimit int
	// Locale selects the notification copy. Zero value renders Portuguese.
	Locale language.Tag
}

// NotificationFeed is one user's live notification list, newest first. All
// exported methods are safe for concurrent use.
type NotificationFeed struct {
	svc    *NotificationService
	userID string
	// workerID is the workers-table id owned by the user, empty for plain
	// clients. Resolved once at open.
	workerID string
	text     feedCopy

	// Additions delivers each newly added notification until Close, for
	// pushing to a connected client. Slow consumers lose entries.
	Additions <-chan domain.Notification
	additions chan domain.Notification

	mu   sync.Mutex
	list []domain.Notification

	msgSub  *realtime.Subscription
	bookSub *realtime.Subscription
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
}

// Open resolves the user's worker identity, loads the initial feed, and
// returns a running feed subscribed to message and booking changes.
func (s *NotificationService) Open(ctx context.Context, userID string) (*NotificationFeed, error) {
	worker, err := repo.GetWorkerByUserID(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}

	additions := make(chan domain.Notification, 32)
	f := &NotificationFeed{
		svc:       s,
		userID:    userID,
		text:      copyFor(s.Locale),
		Additions: additions,
		additions: additions,
		done:      make(chan struct{}),
	}
	if worker != nil {
		f.workerID = worker.ID
	}

	if err := f.Refresh(ctx); err != nil {
		return nil, err
	}

	if s.Hub != nil {
		f.msgSub = s.Hub.Subscribe(64, realtime.TableFilter(realtime.TableMessages))
		f.bookSub = s.Hub.Subscribe(32, realtime.TableFilter(realtime.TableBookings))
	}

	runCtx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	go f.run(runCtx)
	return f, nil
}

// bookingIDs returns every booking id the user touches, on both sides.
func (f *NotificationFeed) bookingIDs(ctx context.Context) ([]string, error) {
	asClient, err := repo.ListClientBookings(ctx, f.svc.DB, f.userID, nil)
	if err != nil {
		return nil, err
	}
	var asWorker []domain.Booking
	if f.workerID != "" {
		asWorker, err = repo.ListWorkerBookings(ctx, f.svc.DB, f.workerID, nil)
		if err != nil {
			return nil, err
		}
	}
	ids := make([]string, 0, len(asClient)+len(asWorker))
	for _, b := range asClient {
		ids = append(ids, b.ID)
	}
	for _, b := range asWorker {
		ids = append(ids, b.ID)
	}
	return ids, nil
}

// Refresh rebuilds the feed from the unread messages across the user's
// bookings, replacing the current list.
func (f *NotificationFeed) Refresh(ctx context.Context) error {
	ids, err := f.bookingIDs(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		f.mu.Lock()
		f.list = nil
		f.mu.Unlock()
		return nil
	}

	limit := f.svc.FetchLimit
	if limit <= 0 {
		limit = defaultFetchLimit
	}
	unread, err := repo.ListUnreadMessages(ctx, f.svc.DB, ids, f.userID, limit)
	if err != nil {
		return err
	}

	senderIDs := make([]string, 0, len(unread))
	seen := make(map[string]struct{}, len(unread))
	for _, m := range unread {
		if _, dup := seen[m.SenderID]; dup {
			continue
		}
		seen[m.SenderID] = struct{}{}
		senderIDs = append(senderIDs, m.SenderID)
	}
	profiles, err := repo.GetProfilesByIDs(ctx, f.svc.DB, senderIDs)
	if err != nil {
		return err
	}

	fresh := make([]domain.Notification, 0, len(unread))
	for _, m := range unread {
		name := f.text.unknownSender
		if p, ok := profiles[m.SenderID]; ok {
			name = p.Name
		}
		fresh = append(fresh, domain.Notification{
			ID:          domain.MessageNotificationID(m.ID),
			Type:        domain.NotificationMessage,
			Title:       f.text.newMessage,
			Description: fmt.Sprintf("%s: %s", name, preview(m.Content, fetchPreviewLen)),
			Timestamp:   m.CreatedAt,
			BookingID:   m.BookingID,
		})
	}

	f.mu.Lock()
	f.list = fresh
	f.mu.Unlock()
	return nil
}

func (f *NotificationFeed) run(ctx context.Context) {
	defer close(f.done)

	var msgC, bookC <-chan realtime.Event
	if f.msgSub != nil {
		msgC = f.msgSub.C
	}
	if f.bookSub != nil {
		bookC = f.bookSub.C
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
			f.onMessageEvent(ctx, e)
		case e, ok := <-bookC:
			if !ok {
				bookC = nil
				continue
			}
			f.onBookingEvent(e)
		}
	}
}

func (f *NotificationFeed) onMessageEvent(ctx context.Context, e realtime.Event) {
	var m domain.Message
	if err := e.DecodeNew(&m); err != nil {
		return
	}

	switch e.Action {
	case realtime.ActionUpdate:
		if m.IsRead {
			f.remove(domain.MessageNotificationID(m.ID))
		}

	case realtime.ActionInsert:
		if m.SenderID == f.userID {
			return
		}
		b, err := repo.GetBooking(ctx, f.svc.DB, m.BookingID)
		if err != nil {
			if err != repo.ErrNotFound {
				log.Warn().Err(err).Str("booking_id", m.BookingID).Msg("feed: booking lookup failed")
			}
			return
		}
		isClient := b.ClientID == f.userID
		isWorker := f.workerID != "" && b.WorkerID == f.workerID
		if !isClient && !isWorker {
			return
		}

		name := f.text.unknownSender
		if p, err := repo.GetProfile(ctx, f.svc.DB, m.SenderID); err == nil {
			name = p.Name
		}

		f.add(domain.Notification{
			ID:          domain.MessageNotificationID(m.ID),
			Type:        domain.NotificationMessage,
			Title:       f.text.newMessage,
			Description: fmt.Sprintf("%s: %s", name, preview(m.Content, livePreviewLen)),
			Timestamp:   m.CreatedAt,
			BookingID:   m.BookingID,
		})
	}
}

func (f *NotificationFeed) onBookingEvent(e realtime.Event) {
	var b domain.Booking
	if err := e.DecodeNew(&b); err != nil {
		return
	}

	switch e.Action {
	case realtime.ActionInsert:
		if f.workerID == "" || b.WorkerID != f.workerID {
			return
		}
		f.add(domain.Notification{
			ID:          domain.NewBookingNotificationID(b.ID),
			Type:        domain.NotificationBooking,
			Title:       f.text.newBookingTitle,
			Description: f.text.newBookingDesc,
			Timestamp:   b.CreatedAt,
			BookingID:   b.ID,
			Status:      b.Status,
		})

	case realtime.ActionUpdate:
		var old domain.Booking
		if err := e.DecodeOld(&old); err != nil || old.Status == b.Status {
			return
		}

		isClient := b.ClientID == f.userID
		isWorker := f.workerID != "" && b.WorkerID == f.workerID
		if !isClient && !isWorker {
			return
		}
		role := domain.RoleWorker
		if isClient {
			role = domain.RoleClient
		}

		var (
			title, desc string
			typ         = domain.NotificationStatus
		)
		switch b.Status {
		case domain.StatusAccepted:
			if !isClient {
				return
			}
			title, desc = f.text.acceptedTitle, f.text.acceptedDesc
		case domain.StatusRejected:
			if !isClient {
				return
			}
			title, desc = f.text.rejectedTitle, f.text.rejectedDesc
		case domain.StatusInProgress:
			if !isClient {
				return
			}
			title, desc = f.text.startedTitle, f.text.startedDesc
		case domain.StatusCompleted:
			typ = domain.NotificationReview
			title = f.text.completedTitle
			if isClient {
				desc = f.text.rateWorkerDesc
			} else {
				desc = f.text.rateClientDesc
			}
		case domain.StatusCancelled:
			title, desc = f.text.cancelledTitle, f.text.cancelledDesc
		default:
			return
		}

		f.add(domain.Notification{
			ID:          domain.StatusNotificationID(b.ID, b.Status, role),
			Type:        typ,
			Title:       title,
			Description: desc,
			Timestamp:   b.UpdatedAt,
			BookingID:   b.ID,
			Status:      b.Status,
		})
	}
}

// add prepends a notification unless an entry with the same id already
// exists, then pushes it on the Additions channel.
func (f *NotificationFeed) add(n domain.Notification) {
	f.mu.Lock()
	for _, have := range f.list {
		if have.ID == n.ID {
			f.mu.Unlock()
			return
		}
	}
	f.list = append([]domain.Notification{n}, f.list...)
	f.mu.Unlock()

	select {
	case f.additions <- n:
	default:
	}
}

func (f *NotificationFeed) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.list {
		if n.ID == id {
			f.list = append(f.list[:i], f.list[i+1:]...)
			return
		}
	}
}

// Notifications returns a snapshot of the feed, newest first.
func (f *NotificationFeed) Notifications() []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Notification, len(f.list))
	copy(out, f.list)
	return out
}

// UnreadCount counts entries not yet marked read.
func (f *NotificationFeed) UnreadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, notif := range f.list {
		if !notif.IsRead {
			n++
		}
	}
	return n
}

// MarkAsRead flips one entry read locally. Unknown ids are a no-op.
func (f *NotificationFeed) MarkAsRead(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.list {
		if f.list[i].ID == id {
			f.list[i].IsRead = true
			return
		}
	}
}

// MarkAllAsRead flips every entry read locally first, then marks every
// unread message across the user's bookings read in one bulk write. The
// local flip is optimistic: a remote failure leaves it in place and returns
// the error.
func (f *NotificationFeed) MarkAllAsRead(ctx context.Context) error {
	f.mu.Lock()
	for i := range f.list {
		f.list[i].IsRead = true
	}
	f.mu.Unlock()

	ids, err := f.bookingIDs(ctx)
	if err != nil {
		return err
	}
	rows, err := repo.MarkAllMessagesRead(ctx, f.svc.DB, ids, f.userID)
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		cs := &ChatService{DB: f.svc.DB, Hub: f.svc.Hub}
		cs.publishReadFlips(rows)
	}
	return nil
}

// Delete removes one entry locally.
func (f *NotificationFeed) Delete(id string) { f.remove(id) }

// Clear empties the feed locally.
func (f *NotificationFeed) Clear() {
	f.mu.Lock()
	f.list = nil
	f.mu.Unlock()
}

// Close tears down the subscriptions. Idempotent.
func (f *NotificationFeed) Close() {
	f.once.Do(func() {
		f.cancel()
		<-f.done
		if f.msgSub != nil {
			f.msgSub.Close()
		}
		if f.bookSub != nil {
			f.bookSub.Close()
		}
		close(f.additions)
	})
}
