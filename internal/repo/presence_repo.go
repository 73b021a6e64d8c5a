// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Presence
// model: last-writer-wins upserts keyed by user_id and the batch reads used
// by the conversation list.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
)

// UpsertPresence writes the presence row for userID, creating it on first
// contact and overwriting is_online/last_seen otherwise. Returns the row as
// written so callers can publish it to the change feed.
func UpsertPresence(ctx context.Context, db *gorm.DB, userID string, isOnline bool, at time.Time) (*domain.Presence, error) {
	p := &domain.Presence{
		ID:       uuid.NewString(),
		UserID:   userID,
		IsOnline: isOnline,
		LastSeen: at,
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_online", "last_seen"}),
		}).
		Create(p).Error
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetPresence fetches one user's presence row, or nil when the user has
// never reported presence.
func GetPresence(ctx context.Context, db *gorm.DB, userID string) (*domain.Presence, error) {
	var p domain.Presence
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPresenceBatch bulk-fetches presence for a set of users, keyed by
// user id. Absent users simply have no entry.
func GetPresenceBatch(ctx context.Context, db *gorm.DB, userIDs []string) (map[string]domain.Presence, error) {
	out := make(map[string]domain.Presence, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []domain.Presence
	if err := db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.UserID] = p
	}
	return out, nil
}
