// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides read-side lookups for profiles and
// workers. Callers resolving many users must use the batch variants — the
// aggregators are specified to issue bulk reads, never one query per row.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
)

// CreateProfile inserts a new profile row.
func CreateProfile(ctx context.Context, db *gorm.DB, p *domain.Profile) (*domain.Profile, error) {
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, db.WithContext(ctx).Create(p).Error
}

// GetProfile fetches a profile by account id.
func GetProfile(ctx context.Context, db *gorm.DB, id string) (*domain.Profile, error) {
	var p domain.Profile
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetProfilesByIDs bulk-fetches profiles keyed by account id.
func GetProfilesByIDs(ctx context.Context, db *gorm.DB, ids []string) (map[string]domain.Profile, error) {
	out := make(map[string]domain.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.Profile
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// CreateWorker inserts a new worker row.
func CreateWorker(ctx context.Context, db *gorm.DB, w *domain.Worker) (*domain.Worker, error) {
	now := time.Now().UTC()
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	w.CreatedAt = now
	w.UpdatedAt = now
	return w, db.WithContext(ctx).Create(w).Error
}

// GetWorker fetches a worker by its workers-table id.
func GetWorker(ctx context.Context, db *gorm.DB, id string) (*domain.Worker, error) {
	var w domain.Worker
	if err := db.WithContext(ctx).Where("id = ?", id).First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

// GetWorkerByUserID resolves the worker record owned by an account, or nil
// when the account is not a worker. The nil result is not an error: most
// users are plain clients.
func GetWorkerByUserID(ctx context.Context, db *gorm.DB, userID string) (*domain.Worker, error) {
	var w domain.Worker
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// GetWorkersByIDs bulk-fetches workers keyed by workers-table id. Used to
// resolve worker→account mappings in one round trip.
func GetWorkersByIDs(ctx context.Context, db *gorm.DB, ids []string) (map[string]domain.Worker, error) {
	out := make(map[string]domain.Worker, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.Worker
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, w := range rows {
		out[w.ID] = w
	}
	return out, nil
}

// UpdateWorkerRating recomputes a worker's aggregate rating after one more
// review. The running mean keeps the stored aggregate consistent with
// review_count without rescanning bookings.
func UpdateWorkerRating(ctx context.Context, db *gorm.DB, workerID string, rating int) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var w domain.Worker
		if err := tx.Where("id = ?", workerID).First(&w).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		n := w.ReviewCount + 1
		avg := (w.Rating*float64(w.ReviewCount) + float64(rating)) / float64(n)
		return tx.Model(&domain.Worker{}).
			Where("id = ?", workerID).
			Updates(map[string]any{
				"rating":       avg,
				"review_count": n,
				"updated_at":   time.Now().UTC(),
			}).Error
	})
}
