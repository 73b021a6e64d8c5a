// Package domain – notifications.
//
// A Notification is a derived, transient record representing one event that
// needs the user's attention. Notifications are never persisted: the feed is
// rebuilt from unread messages on load and extended by realtime events, so
// every notification carries a deterministic id derived from the identity of
// its source event. The same underlying event — fetched on load and also
// delivered over the change feed — therefore always maps to the same id,
// which is what makes de-duplication possible.
package domain

import (
	"fmt"
	"time"
)

// NotificationType classifies a notification for icon selection and routing.
type NotificationType string

// Notification types.
const (
	NotificationMessage NotificationType = "message"
	NotificationBooking NotificationType = "booking"
	NotificationStatus  NotificationType = "status"
	NotificationReview  NotificationType = "review"
)

// Role is the side of a booking the current user occupies.
type Role string

// Booking roles.
const (
	RoleClient Role = "client"
	RoleWorker Role = "worker"
)

// Notification is one entry of the in-memory feed.
type Notification struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Timestamp   time.Time        `json:"timestamp"`
	IsRead      bool             `json:"is_read"`
	BookingID   string           `json:"booking_id,omitempty"`
	// Status carries the booking status for routing on click.
	Status Status `json:"status,omitempty"`
}

// MessageNotificationID builds the deterministic feed id for a message event.
func MessageNotificationID(messageID string) string {
	return "msg-" + messageID
}

// NewBookingNotificationID builds the feed id for a booking-created event.
func NewBookingNotificationID(bookingID string) string {
	return "new-booking-" + bookingID
}

// StatusNotificationID builds the feed id for one status transition as seen
// by one role. Completed bookings notify both sides, so the role is part of
// the natural key.
func StatusNotificationID(bookingID string, status Status, role Role) string {
	return fmt.Sprintf("booking-%s-%s-%s", bookingID, status, role)
}
