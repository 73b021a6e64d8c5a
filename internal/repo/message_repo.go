// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Message
// model: thread history, unread bookkeeping, and the aggregate reads used by
// the conversation list.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
)

// CreateMessage inserts a new message row for a booking thread.
func CreateMessage(ctx context.Context, db *gorm.DB, bookingID, senderID, content string) (*domain.Message, error) {
	m := &domain.Message{
		ID:        uuid.NewString(),
		BookingID: bookingID,
		SenderID:  senderID,
		Content:   content,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}
	return m, db.WithContext(ctx).Create(m).Error
}

// GetMessage fetches a message by ID.
func GetMessage(ctx context.Context, db *gorm.DB, id string) (*domain.Message, error) {
	var m domain.Message
	if err := db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListMessages returns a booking's full thread ordered deterministically
// (CreatedAt ASC, ID ASC).
func ListMessages(ctx context.Context, db *gorm.DB, bookingID string) ([]domain.Message, error) {
	var out []domain.Message
	err := db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// MarkMessageRead flips the read flag of one message. The flip is
// last-writer-wins and idempotent, so concurrent markers are harmless.
func MarkMessageRead(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("id = ?", id).
		Update("is_read", true).Error
}

// MarkBookingMessagesRead marks every unread message in a booking that was
// not sent by readerID, returning the rows it changed (with the flag already
// flipped) so callers can publish per-row update events.
func MarkBookingMessagesRead(ctx context.Context, db *gorm.DB, bookingID, readerID string) ([]domain.Message, error) {
	return markRead(ctx, db, []string{bookingID}, readerID)
}

// MarkAllMessagesRead is the bulk variant over a set of booking ids, used by
// mark-all-as-read in the notification feed.
func MarkAllMessagesRead(ctx context.Context, db *gorm.DB, bookingIDs []string, readerID string) ([]domain.Message, error) {
	if len(bookingIDs) == 0 {
		return nil, nil
	}
	return markRead(ctx, db, bookingIDs, readerID)
}

func markRead(ctx context.Context, db *gorm.DB, bookingIDs []string, readerID string) ([]domain.Message, error) {
	var rows []domain.Message
	err := db.WithContext(ctx).
		Where("booking_id IN ? AND sender_id <> ? AND is_read = ?", bookingIDs, readerID, false).
		Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	ids := make([]string, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	err = db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("id IN ?", ids).
		Update("is_read", true).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].IsRead = true
	}
	return rows, nil
}

// LatestMessage returns the single most recent message across a set of
// bookings, or nil when the threads are empty.
func LatestMessage(ctx context.Context, db *gorm.DB, bookingIDs []string) (*domain.Message, error) {
	if len(bookingIDs) == 0 {
		return nil, nil
	}
	var m domain.Message
	err := db.WithContext(ctx).
		Where("booking_id IN ?", bookingIDs).
		Order("created_at DESC, id DESC").
		First(&m).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CountUnreadMessages counts messages across bookingIDs that were not sent
// by readerID and are still unread.
func CountUnreadMessages(ctx context.Context, db *gorm.DB, bookingIDs []string, readerID string) (int64, error) {
	if len(bookingIDs) == 0 {
		return 0, nil
	}
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("booking_id IN ? AND sender_id <> ? AND is_read = ?", bookingIDs, readerID, false).
		Count(&total).Error
	return total, err
}

// ListUnreadMessages returns up to limit unread messages (not sent by
// readerID) across bookingIDs, newest first. Used to rebuild the
// notification feed on load.
func ListUnreadMessages(ctx context.Context, db *gorm.DB, bookingIDs []string, readerID string, limit int) ([]domain.Message, error) {
	if len(bookingIDs) == 0 {
		return nil, nil
	}
	q := db.WithContext(ctx).
		Where("booking_id IN ? AND sender_id <> ? AND is_read = ?", bookingIDs, readerID, false).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []domain.Message
	err := q.Find(&out).Error
	return out, err
}
