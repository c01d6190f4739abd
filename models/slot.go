package models

import "time"

// Slot status values.
const (
	SlotStatusAvailable = "available"
	SlotStatusBooked    = "booked"
)

// Slot represents one physical charging point at a station, stored at
// stations/{station_id}/slots/{slot_id}. A slot is held by at most one
// booking at a time; all reservation fields are nil when it is available.
type Slot struct {
	StationID string     `firestore:"-" json:"station_id"`           // Parent station document ID
	ID        string     `firestore:"-" json:"slot_id"`              // Firestore document ID
	Status    string     `firestore:"status" json:"status"`          // available | booked
	BookedBy  *string    `firestore:"booked_by" json:"booked_by"`    // Driver holding the slot
	BookingID *string    `firestore:"booking_id" json:"booking_id"`  // Back-reference to the owning booking
	BookedAt  *time.Time `firestore:"booked_at" json:"booked_at"`    // Timestamp the hold was placed
	ExpiresAt *time.Time `firestore:"expires_at" json:"expires_at"`  // Mirrors the owning booking's deadline
	UpdatedAt time.Time  `firestore:"updated_at" json:"updated_at"`  // Timestamp of the last state change
}

// IsAvailable reports whether the slot is free to be booked.
func (s Slot) IsAvailable() bool {
	return s.Status == SlotStatusAvailable
}
