// Package services – ReviewService
//
// After a booking completes, each side rates the other once, 1 to 5. The
// client's rating feeds the worker's public aggregate (rating plus
// review_count as a running mean); the worker's rating of the client is
// stored on the booking only.
package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
	"github.com/biscato-app/go-marketplace-backend/internal/realtime"
	"github.com/biscato-app/go-marketplace-backend/internal/repo"
)

// ReviewService owns post-completion ratings.
type ReviewService struct {
	DB  *gorm.DB
	Hub *realtime.Hub
}

// Rate stores userID's rating of the counterparty on a completed booking.
// Each side rates at most once; a repeat returns ErrAlreadyRated.
func (s *ReviewService) Rate(ctx context.Context, bookingID, userID string, rating int) error {
	ctx, span := otel.Tracer("services/review").Start(ctx, "Rate",
		trace.WithAttributes(
			attribute.String("booking.id", bookingID),
			attribute.Int("rating", rating),
		))
	defer span.End()

	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}

	b, err := repo.GetBooking(ctx, s.DB, bookingID)
	if err != nil {
		if err == repo.ErrNotFound {
			return ErrBookingNotFound
		}
		return err
	}
	if b.Status != domain.StatusCompleted {
		return ErrBookingNotCompleted
	}

	w, err := repo.GetWorker(ctx, s.DB, b.WorkerID)
	if err != nil {
		if err == repo.ErrNotFound {
			return ErrWorkerNotFound
		}
		return err
	}

	switch userID {
	case b.ClientID:
		if b.ClientRating != nil {
			return ErrAlreadyRated
		}
		if err := repo.SetBookingRating(ctx, s.DB, bookingID, "client_rating", rating); err != nil {
			return err
		}
		if err := repo.UpdateWorkerRating(ctx, s.DB, w.ID, rating); err != nil {
			return err
		}
		b.ClientRating = &rating

	case w.UserID:
		if b.WorkerRating != nil {
			return ErrAlreadyRated
		}
		if err := repo.SetBookingRating(ctx, s.DB, bookingID, "worker_rating", rating); err != nil {
			return err
		}
		b.WorkerRating = &rating

	default:
		return ErrNotParticipant
	}

	if s.Hub != nil {
		old := *b
		if userID == b.ClientID {
			old.ClientRating = nil
		} else {
			old.WorkerRating = nil
		}
		if ev, err := realtime.NewEvent(realtime.TableBookings, realtime.ActionUpdate, b, &old); err == nil {
			s.Hub.Publish(ev)
		}
	}
	return nil
}
