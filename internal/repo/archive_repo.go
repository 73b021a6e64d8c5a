// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for ChatArchive,
// the per-user soft-delete marker for booking threads.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
)

// ArchiveChat records that userID archived the given booking's thread.
// Re-archiving is a no-op upsert on the (user_id, booking_id) key.
func ArchiveChat(ctx context.Context, db *gorm.DB, userID, bookingID string) error {
	a := &domain.ChatArchive{
		ID:         uuid.NewString(),
		UserID:     userID,
		BookingID:  bookingID,
		ArchivedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "booking_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"archived_at"}),
		}).
		Create(a).Error
}

// UnarchiveChat removes the archive markers userID holds for the given
// bookings, bringing the thread back into the conversation list.
func UnarchiveChat(ctx context.Context, db *gorm.DB, userID string, bookingIDs []string) error {
	if len(bookingIDs) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Where("user_id = ? AND booking_id IN ?", userID, bookingIDs).
		Delete(&domain.ChatArchive{}).Error
}

// ListArchivedBookingIDs returns the set of booking ids userID has archived.
func ListArchivedBookingIDs(ctx context.Context, db *gorm.DB, userID string) (map[string]struct{}, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.ChatArchive{}).
		Where("user_id = ?", userID).
		Pluck("booking_id", &ids).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}
