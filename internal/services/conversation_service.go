// Package services – ConversationService
//
// This file implements the conversation list: one aggregated entry per
// counterparty the user has active bookings with, regardless of how many
// bookings connect the two. The list is derived on every call — nothing
// aggregated is persisted — and any read failure aborts the whole
// aggregation with a typed error so the caller can decide presentation.
package services

import (
	"context"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
	"github.com/biscato-app/go-marketplace-backend/internal/repo"
)

// Conversation is one aggregated chat-list entry. BookingIDs carries every
// active booking shared with the counterparty; LatestBookingID is the one a
// client opens when tapping the entry.
type Conversation struct {
	OtherUserID     string     `json:"other_user_id"`
	OtherUserName   string     `json:"other_user_name"`
	OtherUserAvatar *string    `json:"other_user_avatar,omitempty"`
	LastMessage     string     `json:"last_message,omitempty"`
	LastMessageTime *time.Time `json:"last_message_time,omitempty"`
	UnreadCount     int64      `json:"unread_count"`
	IsOnline        bool       `json:"is_online"`
	BookingIDs      []string   `json:"booking_ids"`
	LatestBookingID string     `json:"latest_booking_id"`
}

// ConversationService aggregates bookings, messages, profiles, and presence
// into per-counterparty conversations.
type ConversationService struct {
	DB *gorm.DB
}

// conversationGroup accumulates one counterparty's bookings during grouping.
type conversationGroup struct {
	otherUserID string
	bookingIDs  []string
	latest      domain.Booking
}

// List builds the user's conversation list. Bookings the user archived are
// excluded; entries are sorted by last message time, newest first, with
// message-less conversations at the end.
func (s *ConversationService) List(ctx context.Context, userID string) ([]Conversation, error) {
	ctx, span := otel.Tracer("services/conversation").Start(ctx, "List",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	archived, err := repo.ListArchivedBookingIDs(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}

	groups, err := s.groupByCounterparty(ctx, userID, archived)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return []Conversation{}, nil
	}

	otherIDs := make([]string, 0, len(groups))
	for id := range groups {
		otherIDs = append(otherIDs, id)
	}
	profiles, err := repo.GetProfilesByIDs(ctx, s.DB, otherIDs)
	if err != nil {
		return nil, err
	}
	presence, err := repo.GetPresenceBatch(ctx, s.DB, otherIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	out := make([]Conversation, 0, len(groups))
	for _, g := range groups {
		c := Conversation{
			OtherUserID:     g.otherUserID,
			OtherUserName:   "Utilizador",
			BookingIDs:      g.bookingIDs,
			LatestBookingID: g.latest.ID,
		}
		if p, ok := profiles[g.otherUserID]; ok {
			c.OtherUserName = p.Name
			c.OtherUserAvatar = p.AvatarURL
		}
		if pr, ok := presence[g.otherUserID]; ok {
			c.IsOnline = pr.ActuallyOnline(now)
		}

		last, err := repo.LatestMessage(ctx, s.DB, g.bookingIDs)
		if err != nil {
			return nil, err
		}
		if last != nil {
			c.LastMessage = last.Content
			t := last.CreatedAt
			c.LastMessageTime = &t
		}
		unread, err := repo.CountUnreadMessages(ctx, s.DB, g.bookingIDs, userID)
		if err != nil {
			return nil, err
		}
		c.UnreadCount = unread
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].LastMessageTime, out[j].LastMessageTime
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return out, nil
}

// groupByCounterparty collects the user's active bookings on both sides,
// drops archived ones, and folds them into one group per counterparty,
// remembering the most recently created booking of each group.
func (s *ConversationService) groupByCounterparty(ctx context.Context, userID string, archived map[string]struct{}) (map[string]*conversationGroup, error) {
	worker, err := repo.GetWorkerByUserID(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}

	asClient, err := repo.ListClientBookings(ctx, s.DB, userID, repo.ActiveStatuses)
	if err != nil {
		return nil, err
	}
	var asWorker []domain.Booking
	if worker != nil {
		asWorker, err = repo.ListWorkerBookings(ctx, s.DB, worker.ID, repo.ActiveStatuses)
		if err != nil {
			return nil, err
		}
	}

	seen := make(map[string]struct{})
	bookings := make([]domain.Booking, 0, len(asClient)+len(asWorker))
	workerIDs := make([]string, 0, len(asClient))
	for _, b := range append(asClient, asWorker...) {
		if _, dup := seen[b.ID]; dup {
			continue
		}
		seen[b.ID] = struct{}{}
		if _, hidden := archived[b.ID]; hidden {
			continue
		}
		bookings = append(bookings, b)
		if b.ClientID == userID {
			workerIDs = append(workerIDs, b.WorkerID)
		}
	}

	// Bookings reference workers by the workers-table id; resolve those to
	// account ids in one batch before grouping.
	workers, err := repo.GetWorkersByIDs(ctx, s.DB, workerIDs)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*conversationGroup)
	for _, b := range bookings {
		var other string
		if b.ClientID == userID {
			w, ok := workers[b.WorkerID]
			if !ok {
				continue
			}
			other = w.UserID
		} else {
			other = b.ClientID
		}

		g, ok := groups[other]
		if !ok {
			g = &conversationGroup{otherUserID: other, latest: b}
			groups[other] = g
		}
		g.bookingIDs = append(g.bookingIDs, b.ID)
		if b.CreatedAt.After(g.latest.CreatedAt) {
			g.latest = b
		}
	}
	return groups, nil
}

// Archive hides every booking the user shares with the counterparty from the
// user's own list. The counterparty's list is untouched.
func (s *ConversationService) Archive(ctx context.Context, userID, otherUserID string) error {
	ctx, span := otel.Tracer("services/conversation").Start(ctx, "Archive",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	ids, err := s.sharedBookingIDs(ctx, userID, otherUserID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := repo.ArchiveChat(ctx, s.DB, userID, id); err != nil {
			return err
		}
	}
	return nil
}

// Unarchive restores an archived conversation to the user's list.
func (s *ConversationService) Unarchive(ctx context.Context, userID, otherUserID string) error {
	ctx, span := otel.Tracer("services/conversation").Start(ctx, "Unarchive",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	ids, err := s.sharedBookingIDs(ctx, userID, otherUserID)
	if err != nil {
		return err
	}
	return repo.UnarchiveChat(ctx, s.DB, userID, ids)
}

// sharedBookingIDs resolves every booking id connecting userID and
// otherUserID, in either role pairing.
func (s *ConversationService) sharedBookingIDs(ctx context.Context, userID, otherUserID string) ([]string, error) {
	groups, err := s.groupByCounterparty(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	if g, ok := groups[otherUserID]; ok {
		return g.bookingIDs, nil
	}
	return nil, nil
}
