package repo

import (
	"context"
	"testing"

	"github.com/google/uuid"
	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/biscato-app/go-marketplace-backend/internal/domain"
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
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedPair creates a client profile, a worker account with its worker row,
// and one pending booking between them.
func seedPair(t *testing.T, db *gorm.DB) (client domain.Profile, workerUser domain.Profile, worker domain.Worker, booking domain.Booking) {
	t.Helper()
	ctx := context.Background()

	c, err := CreateProfile(ctx, db, &domain.Profile{Name: "Ana", Phone: "+244900000001"})
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}
	wu, err := CreateProfile(ctx, db, &domain.Profile{Name: "Bento", Phone: "+244900000002", UserType: "worker"})
	if err != nil {
		t.Fatalf("seed worker user: %v", err)
	}
	w, err := CreateWorker(ctx, db, &domain.Worker{
		UserID:      wu.ID,
		ServiceType: "electrician",
		BasePrice:   5000,
		PricePerKm:  150,
	})
	if err != nil {
		t.Fatalf("seed worker: %v", err)
	}
	b, err := CreateBooking(ctx, db, &domain.Booking{
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
	return *c, *wu, *w, *b
}
