// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Booking
// model, including the status-machine enforcement applied on update.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
)

// ErrInvalidTransition indicates a status update that the forward-only
// booking machine does not permit.
var ErrInvalidTransition = errors.New("invalid status transition")

// ActiveStatuses are the booking states that keep a conversation visible in
// the chat list.
var ActiveStatuses = []domain.Status{
	domain.StatusPending,
	domain.StatusAccepted,
	domain.StatusInProgress,
	domain.StatusCompleted,
}

// CreateBooking inserts a new pending booking.
func CreateBooking(ctx context.Context, db *gorm.DB, b *domain.Booking) (*domain.Booking, error) {
	now := time.Now().UTC()
	b.ID = uuid.NewString()
	b.Status = domain.StatusPending
	b.CreatedAt = now
	b.UpdatedAt = now
	return b, db.WithContext(ctx).Create(b).Error
}

// GetBooking fetches a booking by ID.
func GetBooking(ctx context.Context, db *gorm.DB, id string) (*domain.Booking, error) {
	var b domain.Booking
	if err := db.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListClientBookings returns the bookings where the given account is the
// client, optionally restricted to a status set.
func ListClientBookings(ctx context.Context, db *gorm.DB, clientID string, statuses []domain.Status) ([]domain.Booking, error) {
	q := db.WithContext(ctx).Where("client_id = ?", clientID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var out []domain.Booking
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

// ListWorkerBookings returns the bookings assigned to the given worker id
// (the workers-table id, not the account id).
func ListWorkerBookings(ctx context.Context, db *gorm.DB, workerID string, statuses []domain.Status) ([]domain.Booking, error) {
	q := db.WithContext(ctx).Where("worker_id = ?", workerID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var out []domain.Booking
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

// UpdateBookingStatus moves a booking to next, enforcing the forward-only
// machine inside a transaction so concurrent updaters cannot race past a
// terminal state. It returns the pre-update and post-update rows so callers
// can publish a change event carrying both.
func UpdateBookingStatus(ctx context.Context, db *gorm.DB, id string, next domain.Status) (old *domain.Booking, updated *domain.Booking, err error) {
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Booking
		if err := tx.Where("id = ?", id).First(&b).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		prev := b
		old = &prev

		if !b.Status.CanTransitionTo(next) {
			return ErrInvalidTransition
		}

		b.Status = next
		b.UpdatedAt = time.Now().UTC()
		if err := tx.Model(&domain.Booking{}).
			Where("id = ?", id).
			Updates(map[string]any{"status": next, "updated_at": b.UpdatedAt}).Error; err != nil {
			return err
		}
		updated = &b
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return old, updated, nil
}

// SetBookingRating stores the rating one side gave on a completed booking.
// column must be "client_rating" or "worker_rating"; callers guard the
// valid range and the completed status.
func SetBookingRating(ctx context.Context, db *gorm.DB, id, column string, rating int) error {
	return db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{column: rating, "updated_at": time.Now().UTC()}).Error
}
