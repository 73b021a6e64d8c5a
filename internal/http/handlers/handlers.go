// Handler wiring.
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses. Business rules (participant
// checks, the booking status machine, message validation) live in the
// services package and surface here only as sentinel errors.
package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
	"github.com/biscato-app/go-marketplace-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// ConversationService defines the aggregated chat-list operations consumed
// by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ConversationService interface {
	// List builds the user's conversation list, one entry per counterparty.
	List(ctx context.Context, userID string) ([]services.Conversation, error)
	// Archive hides every booking shared with the counterparty from the
	// user's own list.
	Archive(ctx context.Context, userID, otherUserID string) error
	// Unarchive restores an archived conversation.
	Unarchive(ctx context.Context, userID, otherUserID string) error
}

// ChatService defines booking-scoped messaging operations.
type ChatService interface {
	// History returns the full ordered thread of a booking.
	History(ctx context.Context, bookingID, userID string) ([]domain.Message, error)
	// Send validates and stores one message; idemKey enables safe retries.
	Send(ctx context.Context, bookingID, userID, content, idemKey string) (*domain.Message, error)
	// MarkRead flips unread counterparty messages in the booking.
	MarkRead(ctx context.Context, bookingID, userID string) error
}

// BookingService defines booking lifecycle operations.
type BookingService interface {
	Create(ctx context.Context, clientID string, in services.CreateBookingInput) (*domain.Booking, error)
	Get(ctx context.Context, bookingID, userID string) (*domain.Booking, error)
	List(ctx context.Context, userID string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, bookingID, userID string, next domain.Status) (*domain.Booking, error)
}

// ReviewService defines post-completion rating operations.
type ReviewService interface {
	Rate(ctx context.Context, bookingID, userID string, rating int) error
}

// PresenceService defines presence reads and writes.
type PresenceService interface {
	Update(ctx context.Context, userID string, online bool) error
	Get(ctx context.Context, userID string) (*domain.Presence, error)
}

// Handlers groups the HTTP endpoints of the marketplace API. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	convSvc     ConversationService
	chatSvc     ChatService
	bookingSvc  BookingService
	reviewSvc   ReviewService
	presenceSvc PresenceService
	profileSvc  *services.ProfileService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(
	convSvc ConversationService,
	chatSvc ChatService,
	bookingSvc BookingService,
	reviewSvc ReviewService,
	presenceSvc PresenceService,
	profileSvc *services.ProfileService,
) *Handlers {
	return &Handlers{
		convSvc:     convSvc,
		chatSvc:     chatSvc,
		bookingSvc:  bookingSvc,
		reviewSvc:   reviewSvc,
		presenceSvc: presenceSvc,
		profileSvc:  profileSvc,
	}
}

// userID extracts the acting user id from Gin context (set by upstream
// middleware) or the "X-User-ID" header. Empty means unauthenticated.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		return strings.TrimSpace(c.GetHeader("X-User-ID"))
	}
	return ""
}

// requireUser resolves the acting user or aborts with 401.
func requireUser(c *gin.Context) (string, bool) {
	uid := userID(c)
	if uid == "" {
		fail(c, 401, ErrCodeUnauthorized, "X-User-ID header required")
		return "", false
	}
	return uid, true
}
