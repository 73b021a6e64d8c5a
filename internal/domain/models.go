// Package domain defines the persistence models for the marketplace data
// substrate: profiles, workers, bookings, messages, presence rows, and chat
// archives. These types are mapped with GORM and form the core data layer
// of the application.
package domain

import (
	"time"
)

// Profile represents a user account visible to other users. Every
// authenticated user has exactly one profile; workers additionally have a
// Worker row referencing it.
//
// Fields:
//   - ID: stable UUID primary key (char(36)), the account id.
//   - Name / Phone: display and contact data.
//   - AvatarURL: optional avatar location.
//   - UserType: "client" or "worker" (enforced by DB constraint).
//   - City: coarse location used for worker discovery.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Profile struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name"       gorm:"type:varchar(120);not null"`
	Phone     string    `json:"phone"      gorm:"type:varchar(32);not null"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	UserType  string    `json:"user_type"  gorm:"type:varchar(16);not null;default:'client';check:user_type IN ('client','worker')"`
	City      string    `json:"city"       gorm:"type:varchar(64);not null;default:'Luanda'"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Profile.
func (Profile) TableName() string { return "profiles" }

// Worker is the service-provider record attached to a profile. Bookings
// reference workers by this id, not by the underlying account id, so the
// worker→account mapping is resolved through UserID.
type Worker struct {
	ID                 string    `json:"id"                  gorm:"type:char(36);primaryKey"`
	UserID             string    `json:"user_id"             gorm:"type:char(36);not null;uniqueIndex"`
	ServiceType        string    `json:"service_type"        gorm:"type:varchar(40);not null"`
	Description        *string   `json:"description,omitempty" gorm:"type:text"`
	BasePrice          float64   `json:"base_price"          gorm:"not null;default:0"`
	PricePerKm         float64   `json:"price_per_km"        gorm:"not null;default:0"`
	Rating             float64   `json:"rating"              gorm:"not null;default:0"`
	ReviewCount        int       `json:"review_count"        gorm:"not null;default:0"`
	CompletedJobs      int       `json:"completed_jobs"      gorm:"not null;default:0"`
	IsAvailable        bool      `json:"is_available"        gorm:"not null;default:true"`
	VerificationStatus string    `json:"verification_status" gorm:"type:varchar(16);not null;default:'pending'"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`

	// Profile is the owning account. Workers are cascade-deleted with it.
	Profile Profile `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Worker.
func (Worker) TableName() string { return "workers" }

// Booking is the unit of work between a client and a worker. It scopes both
// the pricing of one job and exactly one chat thread.
//
// Status moves through a forward-only machine (see status.go); terminal
// states are never left. ClientRating and WorkerRating are filled by the
// review flow after completion, one per side.
type Booking struct {
	ID              string    `json:"id"           gorm:"type:char(36);primaryKey"`
	ClientID        string    `json:"client_id"    gorm:"type:char(36);not null;index:idx_client_bookings"`
	WorkerID        string    `json:"worker_id"    gorm:"type:char(36);not null;index:idx_worker_bookings"`
	ServiceType     string    `json:"service_type" gorm:"type:varchar(40);not null"`
	Status          Status    `json:"status"       gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','accepted','rejected','in_progress','completed','cancelled')"`
	BookingDate     string    `json:"booking_date" gorm:"type:varchar(10);not null"`
	BookingTime     string    `json:"booking_time" gorm:"type:varchar(8);not null"`
	BasePrice       float64   `json:"base_price"   gorm:"not null"`
	DistancePrice   float64   `json:"distance_price" gorm:"not null;default:0"`
	TotalPrice      float64   `json:"total_price"  gorm:"not null"`
	DistanceKm      *float64  `json:"distance_km,omitempty"`
	LocationAddress *string   `json:"location_address,omitempty"`
	Notes           *string   `json:"notes,omitempty" gorm:"type:text"`
	ClientRating    *int      `json:"client_rating,omitempty"`
	WorkerRating    *int      `json:"worker_rating,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Worker Worker `json:"-" gorm:"foreignKey:WorkerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Booking.
func (Booking) TableName() string { return "bookings" }

// Message is one chat utterance inside a booking-scoped thread. Display
// order is CreatedAt ascending (ID as tiebreak). The read flag is flipped
// only by the recipient; rows are never deleted by users — archival happens
// through ChatArchive markers instead.
type Message struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	BookingID string    `json:"booking_id" gorm:"type:char(36);not null;index:idx_booking_msgs,priority:1"`
	SenderID  string    `json:"sender_id"  gorm:"type:char(36);not null;index"`
	Content   string    `json:"content"    gorm:"type:text;not null"`
	IsRead    bool      `json:"is_read"    gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_booking_msgs,priority:2"`

	Booking Booking `json:"-" gorm:"foreignKey:BookingID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// Presence is the last-known online state of a user, one row per account,
// written last-writer-wins. The stored flag alone is not trustworthy: a
// client that crashes never writes its offline update, so readers must apply
// the freshness window (ActuallyOnline) instead of using IsOnline directly.
type Presence struct {
	ID       string    `json:"id"        gorm:"type:char(36);primaryKey"`
	UserID   string    `json:"user_id"   gorm:"type:char(36);not null;uniqueIndex"`
	IsOnline bool      `json:"is_online" gorm:"not null;default:false"`
	LastSeen time.Time `json:"last_seen" gorm:"not null"`
}

// TableName returns the database table name for Presence.
func (Presence) TableName() string { return "user_presence" }

// PresenceFreshness is the window inside which an is_online row is believed.
// At exactly this age the row counts as offline.
const PresenceFreshness = 2 * time.Minute

// ActuallyOnline reports whether the row should be displayed as online at
// the given instant: the stored flag must be set AND the row must be fresh.
func (p *Presence) ActuallyOnline(now time.Time) bool {
	if p == nil || !p.IsOnline {
		return false
	}
	return now.Sub(p.LastSeen) < PresenceFreshness
}

// ChatArchive is a per-user soft-delete marker for one booking's thread.
// Archiving hides the booking from the archiving user's conversation list
// only; the counterparty and the message rows are unaffected.
type ChatArchive struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	UserID     string    `json:"user_id"     gorm:"type:char(36);not null;uniqueIndex:ux_archive_user_booking,priority:1"`
	BookingID  string    `json:"booking_id"  gorm:"type:char(36);not null;uniqueIndex:ux_archive_user_booking,priority:2"`
	ArchivedAt time.Time `json:"archived_at" gorm:"not null"`
}

// TableName returns the database table name for ChatArchive.
func (ChatArchive) TableName() string { return "chat_archives" }
