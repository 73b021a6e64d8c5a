// Package services – ChatService
//
// This file implements the request/response side of booking-scoped chat:
// participant checks, thread history, sends with idempotent replay, and read
// receipts. The stateful realtime side (per-connection sessions) lives in
// chat_session.go on top of these methods.
package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
	"github.com/biscato-app/go-marketplace-backend/internal/realtime"
	"github.com/biscato-app/go-marketplace-backend/internal/repo"
)

// Chat defaults, overridable through the service fields.
const (
	defaultMaxMessageLen   = 2000
	defaultRemarkInterval  = 2 * time.Second
	defaultPresenceRefresh = 30 * time.Second
	defaultIdempotencyTTL  = 24 * time.Hour
)

// ChatService owns booking-scoped messaging.
type ChatService struct {
	DB  *gorm.DB
	Hub *realtime.Hub

	// MaxMessageLen caps message content in runes. Defaults to 2000.
	MaxMessageLen int
	// RemarkInterval is how often an open foregrounded session re-marks
	// incoming messages as read. Defaults to 2s.
	RemarkInterval time.Duration
	// PresenceRefresh is how often an open session re-reads the counterparty
	// presence row. Defaults to 30s.
	PresenceRefresh time.Duration
	// IdempotencyTTL bounds how long a send replay window stays open.
	IdempotencyTTL time.Duration
	// Locale selects the status-line copy. Zero value renders Portuguese.
	Locale language.Tag
}

func (s *ChatService) maxLen() int {
	if s.MaxMessageLen > 0 {
		return s.MaxMessageLen
	}
	return defaultMaxMessageLen
}

// participants resolves a booking and the account ids on both sides.
// Returns ErrBookingNotFound / ErrNotParticipant when userID has no business
// with the thread.
func (s *ChatService) participants(ctx context.Context, bookingID, userID string) (b *domain.Booking, otherUserID string, err error) {
	b, err = repo.GetBooking(ctx, s.DB, bookingID)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, "", ErrBookingNotFound
		}
		return nil, "", err
	}
	w, err := repo.GetWorker(ctx, s.DB, b.WorkerID)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, "", ErrWorkerNotFound
		}
		return nil, "", err
	}
	switch userID {
	case b.ClientID:
		return b, w.UserID, nil
	case w.UserID:
		return b, b.ClientID, nil
	default:
		return nil, "", ErrNotParticipant
	}
}

// History returns the full ordered thread of a booking the user participates
// in.
func (s *ChatService) History(ctx context.Context, bookingID, userID string) ([]domain.Message, error) {
	ctx, span := otel.Tracer("services/chat").Start(ctx, "History",
		trace.WithAttributes(attribute.String("booking.id", bookingID)))
	defer span.End()

	if _, _, err := s.participants(ctx, bookingID, userID); err != nil {
		return nil, err
	}
	return repo.ListMessages(ctx, s.DB, bookingID)
}

// Send validates and persists one message, publishes the insert to the change
// feed, and returns the stored row. When idemKey is non-empty the send is
// replay-safe: a repeated key within the TTL returns the originally stored
// message without inserting again.
func (s *ChatService) Send(ctx context.Context, bookingID, userID, content, idemKey string) (*domain.Message, error) {
	ctx, span := otel.Tracer("services/chat").Start(ctx, "Send",
		trace.WithAttributes(attribute.String("booking.id", bookingID)))
	defer span.End()

	if _, _, err := s.participants(ctx, bookingID, userID); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(trimmed) > s.maxLen() {
		return nil, ErrMessageTooLong
	}

	if idemKey != "" {
		if rec, err := repo.GetIdempotency(ctx, s.DB, userID, bookingID, idemKey, time.Now().UTC()); err == nil {
			return repo.GetMessage(ctx, s.DB, rec.MessageID)
		} else if err != repo.ErrNotFound {
			return nil, err
		}
	}

	m, err := repo.CreateMessage(ctx, s.DB, bookingID, userID, trimmed)
	if err != nil {
		return nil, err
	}

	if idemKey != "" {
		ttl := s.IdempotencyTTL
		if ttl <= 0 {
			ttl = defaultIdempotencyTTL
		}
		if _, err := repo.CreateIdempotency(ctx, s.DB, userID, bookingID, idemKey, m.ID, 201, ttl); err != nil && err != repo.ErrDuplicate {
			log.Warn().Err(err).Str("booking_id", bookingID).Msg("chat: idempotency record failed")
		}
	}

	s.publishMessage(realtime.ActionInsert, m, nil)
	return m, nil
}

// MarkRead flips every unread message in the booking that was not sent by
// userID and publishes one update event per flipped row, so notification
// feeds on both sides converge.
func (s *ChatService) MarkRead(ctx context.Context, bookingID, userID string) error {
	if _, _, err := s.participants(ctx, bookingID, userID); err != nil {
		return err
	}
	rows, err := repo.MarkBookingMessagesRead(ctx, s.DB, bookingID, userID)
	if err != nil {
		return err
	}
	s.publishReadFlips(rows)
	return nil
}

func (s *ChatService) publishMessage(action string, m *domain.Message, old *domain.Message) {
	if s.Hub == nil {
		return
	}
	var oldAny any
	if old != nil {
		oldAny = old
	}
	ev, err := realtime.NewEvent(realtime.TableMessages, action, m, oldAny)
	if err != nil {
		log.Error().Err(err).Msg("chat: encode message event")
		return
	}
	s.Hub.Publish(ev)
}

// publishReadFlips emits an UPDATE per freshly-read row, with Old carrying
// the unread form.
func (s *ChatService) publishReadFlips(rows []domain.Message) {
	for i := range rows {
		old := rows[i]
		old.IsRead = false
		s.publishMessage(realtime.ActionUpdate, &rows[i], &old)
	}
}
