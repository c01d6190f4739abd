package models

import "time"

// Booking status values. A booking only ever leaves "pending" once:
// via confirmation, cancellation, or the expiry sweep.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusExpired   = "expired"
	BookingStatusCancelled = "cancelled"
)

// Booking represents a reservation of one charging slot at one station.
type Booking struct {
	ID        string     `firestore:"-" json:"booking_id"`            // Firestore document ID
	StationID string     `firestore:"station_id" json:"station_id"`  // Station that owns the reserved slot
	SlotID    string     `firestore:"slot_id" json:"slot_id"`        // Reserved slot within the station
	UserID    string     `firestore:"user_id" json:"user_id"`        // Driver who made the booking
	Status    string     `firestore:"status" json:"status"`          // pending | confirmed | expired | cancelled
	CreatedAt time.Time  `firestore:"created_at" json:"created_at"`  // Timestamp when booking was created
	ExpiresAt *time.Time `firestore:"expires_at" json:"expires_at"`  // Confirmation deadline; nil once terminal
	UpdatedAt time.Time  `firestore:"updated_at" json:"updated_at"`  // Timestamp of the last state change
}

// IsPending reports whether the booking is still awaiting confirmation.
func (b Booking) IsPending() bool {
	return b.Status == BookingStatusPending
}

// ExpiredBy reports whether the booking's confirmation deadline has passed
// at the given instant. Bookings without a deadline never expire by time.
func (b Booking) ExpiredBy(now time.Time) bool {
	return b.ExpiresAt != nil && !b.ExpiresAt.After(now)
}
