// Package services – BookingService
//
// Bookings are the unit of work between a client and a worker: they carry
// the agreed price, move through a forward-only status machine, and scope
// exactly one chat thread. Every mutation is published to the change feed so
// notification feeds and open sessions react without polling.
package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
	"github.com/biscato-app/go-marketplace-backend/internal/realtime"
	"github.com/biscato-app/go-marketplace-backend/internal/repo"
)

// BookingService owns booking lifecycle operations.
type BookingService struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

// CreateBookingInput is the client-supplied part of a new booking. Pricing
// is derived server-side from the worker's rates.
type CreateBookingInput struct {
	WorkerID        string   `json:"worker_id"`
	ServiceType     string   `json:"service_type"`
	BookingDate     string   `json:"booking_date"`
	BookingTime     string   `json:"booking_time"`
	DistanceKm      *float64 `json:"distance_km,omitempty"`
	LocationAddress *string  `json:"location_address,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
}

// Create stores a new pending booking for clientID, pricing it from the
// worker's base price and per-km rate, and publishes the insert.
func (s *BookingService) Create(ctx context.Context, clientID string, in CreateBookingInput) (*domain.Booking, error) {
	ctx, span := otel.Tracer("services/booking").Start(ctx, "Create",
		trace.WithAttributes(attribute.String("worker.id", in.WorkerID)))
	defer span.End()

	w, err := repo.GetWorker(ctx, s.DB, in.WorkerID)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, ErrWorkerNotFound
		}
		return nil, err
	}

	serviceType := in.ServiceType
	if serviceType == "" {
		serviceType = w.ServiceType
	}

	b := &domain.Booking{
		ClientID:        clientID,
		WorkerID:        w.ID,
		ServiceType:     serviceType,
		BookingDate:     in.BookingDate,
		BookingTime:     in.BookingTime,
		BasePrice:       w.BasePrice,
		DistanceKm:      in.DistanceKm,
		LocationAddress: in.LocationAddress,
		Notes:           in.Notes,
	}
	if in.DistanceKm != nil {
		b.DistancePrice = w.PricePerKm * *in.DistanceKm
	}
	b.TotalPrice = b.BasePrice + b.DistancePrice

	if _, err := repo.CreateBooking(ctx, s.DB, b); err != nil {
		return nil, err
	}
	s.publish(realtime.ActionInsert, b, nil)
	return b, nil
}

// Get returns a booking the user participates in.
func (s *BookingService) Get(ctx context.Context, bookingID, userID string) (*domain.Booking, error) {
	b, err := repo.GetBooking(ctx, s.DB, bookingID)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if _, err := s.roleOf(ctx, b, userID); err != nil {
		return nil, err
	}
	return b, nil
}

// List returns every booking the user touches, as client and as worker,
// newest first and deduplicated.
func (s *BookingService) List(ctx context.Context, userID string) ([]domain.Booking, error) {
	ctx, span := otel.Tracer("services/booking").Start(ctx, "List",
		trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	asClient, err := repo.ListClientBookings(ctx, s.DB, userID, nil)
	if err != nil {
		return nil, err
	}
	worker, err := repo.GetWorkerByUserID(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	var asWorker []domain.Booking
	if worker != nil {
		asWorker, err = repo.ListWorkerBookings(ctx, s.DB, worker.ID, nil)
		if err != nil {
			return nil, err
		}
	}

	seen := make(map[string]struct{}, len(asClient)+len(asWorker))
	out := make([]domain.Booking, 0, len(asClient)+len(asWorker))
	for _, b := range append(asClient, asWorker...) {
		if _, dup := seen[b.ID]; dup {
			continue
		}
		seen[b.ID] = struct{}{}
		out = append(out, b)
	}
	return out, nil
}

// UpdateStatus moves a booking to next on behalf of a participant. The
// forward-only machine is enforced in the repository layer; a disallowed
// move surfaces as ErrInvalidTransition. On success an update event carrying
// both the old and the new row is published, which is what drives the
// status notifications on both sides.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID, userID string, next domain.Status) (*domain.Booking, error) {
	ctx, span := otel.Tracer("services/booking").Start(ctx, "UpdateStatus",
		trace.WithAttributes(
			attribute.String("booking.id", bookingID),
			attribute.String("booking.status", string(next)),
		))
	defer span.End()

	if !next.Valid() {
		return nil, ErrInvalidTransition
	}
	b, err := repo.GetBooking(ctx, s.DB, bookingID)
	if err != nil {
		if err == repo.ErrNotFound {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if _, err := s.roleOf(ctx, b, userID); err != nil {
		return nil, err
	}

	old, updated, err := repo.UpdateBookingStatus(ctx, s.DB, bookingID, next)
	if err != nil {
		switch err {
		case repo.ErrNotFound:
			return nil, ErrBookingNotFound
		case repo.ErrInvalidTransition:
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	s.publish(realtime.ActionUpdate, updated, old)
	return updated, nil
}

// roleOf resolves which side of the booking the user is on.
func (s *BookingService) roleOf(ctx context.Context, b *domain.Booking, userID string) (domain.Role, error) {
	if b.ClientID == userID {
		return domain.RoleClient, nil
	}
	w, err := repo.GetWorker(ctx, s.DB, b.WorkerID)
	if err != nil {
		if err == repo.ErrNotFound {
			return "", ErrWorkerNotFound
		}
		return "", err
	}
	if w.UserID == userID {
		return domain.RoleWorker, nil
	}
	return "", ErrNotParticipant
}

func (s *BookingService) publish(action string, b *domain.Booking, old *domain.Booking) {
	if s.Hub == nil {
		return
	}
	var oldAny any
	if old != nil {
		oldAny = old
	}
	ev, err := realtime.NewEvent(realtime.TableBookings, action, b, oldAny)
	if err != nil {
		log.Error().Err(err).Msg("booking: encode event")
		return
	}
	s.Hub.Publish(ev)
}
