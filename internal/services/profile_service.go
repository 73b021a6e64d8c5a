// Package services – ProfileService
//
// Thin lifecycle and read operations over profiles and workers. Most of the
// system consumes these tables through batch lookups inside the aggregators;
// this service is the direct API surface for creating and fetching them.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
	"github.com/biscato-app/go-marketplace-backend/internal/repo"
)

// ProfileService owns profile and worker records.
type ProfileService struct {
	DB *gorm.DB
}

// CreateProfile stores a new account profile. Name is required.
func (s *ProfileService) CreateProfile(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, ErrInvalidProfile
	}
	return repo.CreateProfile(ctx, s.DB, p)
}

// GetProfile fetches a profile by account id.
func (s *ProfileService) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	p, err := repo.GetProfile(ctx, s.DB, id)
	if err == repo.ErrNotFound {
		return nil, ErrProfileNotFound
	}
	return p, err
}

// CreateWorker attaches a worker record to an existing profile.
func (s *ProfileService) CreateWorker(ctx context.Context, w *domain.Worker) (*domain.Worker, error) {
	if _, err := repo.GetProfile(ctx, s.DB, w.UserID); err != nil {
		if err == repo.ErrNotFound {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return repo.CreateWorker(ctx, s.DB, w)
}

// GetWorker fetches a worker by its workers-table id.
func (s *ProfileService) GetWorker(ctx context.Context, id string) (*domain.Worker, error) {
	w, err := repo.GetWorker(ctx, s.DB, id)
	if err == repo.ErrNotFound {
		return nil, ErrWorkerNotFound
	}
	return w, err
}

// GetWorkerForUser resolves the worker record owned by an account, or nil
// for plain clients.
func (s *ProfileService) GetWorkerForUser(ctx context.Context, userID string) (*domain.Worker, error) {
	return repo.GetWorkerByUserID(ctx, s.DB, userID)
}
