package services

import (
	"context"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
	"github.com/biscato-app/go-marketplace-backend/internal/repo"
)

// newTestDB opens a private in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// fixture is a client, a worker account with its worker row, and one booking
// between them.
type fixture struct {
	client     domain.Profile
	workerUser domain.Profile
	worker     domain.Worker
	booking    domain.Booking
}

func seed(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	ctx := context.Background()

	c, err := repo.CreateProfile(ctx, db, &domain.Profile{Name: "Ana", Phone: "+244900000001"})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}
	wu, err := repo.CreateProfile(ctx, db, &domain.Profile{Name: "Bento", Phone: "+244900000002", UserType: "worker"})
	if err != nil {
		t.Fatalf("seed worker user: %v", err)
	}
	w, err := repo.CreateWorker(ctx, db, &domain.Worker{
		UserID:      wu.ID,
		ServiceType: "electrician",
		BasePrice:   5000,
		PricePerKm:  150,
	})
	if err != nil {
		t.Fatalf("seed worker: %v", err)
	}
	b, err := repo.CreateBooking(ctx, db, &domain.Booking{
		ClientID:    c.ID,
		WorkerID:    w.ID,
		ServiceType: w.ServiceType,
		BookingDate: "2026-09-01",
		BookingTime: "10:00",
		BasePrice:   w.BasePrice,
		TotalPrice:  w.BasePrice,
	})
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return fixture{client: *c, workerUser: *wu, worker: *w, booking: *b}
}

// waitFor polls cond until it holds or the deadline passes. Used for state
// that settles on a feed or session goroutine.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}
