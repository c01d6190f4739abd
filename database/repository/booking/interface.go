// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"chargehub/config"
	"chargehub/models"
)

// BookingRepository is the store adapter for the expiry sweep: one read path
// that snapshots expired pending bookings, and one write path that applies
// all booking/slot transitions of a pass as a single atomic group.
type BookingRepository interface {
	// FindExpiredPending returns all bookings with status "pending" whose
	// expires_at deadline is at or before now. The result is a snapshot;
	// writes after the query are not reflected.
	FindExpiredPending(ctx context.Context, now time.Time) ([]models.Booking, error)

	// ReleaseExpired transitions each booking to "expired" and its slot back
	// to "available" in one atomic grouped write: either every pair in the
	// group is applied or none is. Bookings that left "pending" between scan
	// and commit are skipped inside the group rather than failing it.
	// Returns the number of pairs released and the number skipped.
	ReleaseExpired(ctx context.Context, expired []models.Booking, now time.Time) (released, skipped int, err error)
}

type firestoreBookingRepo struct {
	client   *firestore.Client
	bookings string
	stations string
	slots    string
}

// NewFirestoreBookingRepo constructs a Firestore-backed BookingRepository.
// The client is passed in explicitly so tests can swap the whole repository
// for a fake.
func NewFirestoreBookingRepo(client *firestore.Client) BookingRepository {
	return &firestoreBookingRepo{
		client:   client,
		bookings: config.AppConfig.BookingsCollection,
		stations: config.AppConfig.StationsCollection,
		slots:    config.AppConfig.SlotsSubcollection,
	}
}

func (r *firestoreBookingRepo) bookingRef(id string) *firestore.DocumentRef {
	return r.client.Collection(r.bookings).Doc(id)
}

func (r *firestoreBookingRepo) slotRef(stationID, slotID string) *firestore.DocumentRef {
	return r.client.Collection(r.stations).Doc(stationID).Collection(r.slots).Doc(slotID)
}
