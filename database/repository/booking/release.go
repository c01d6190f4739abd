// File: database/repository/booking/release.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"chargehub/models"
)

// releasePair is one booking/slot transition staged inside the transaction.
type releasePair struct {
	booking *firestore.DocumentRef
	slot    *firestore.DocumentRef
}

func (r *firestoreBookingRepo) ReleaseExpired(ctx context.Context, expired []models.Booking, now time.Time) (int, int, error) {
	if len(expired) == 0 {
		return 0, 0, nil
	}

	var released, skipped int
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		released, skipped = 0, 0
		var pairs []releasePair

		// Firestore transactions require all reads before any write. Each
		// booking is re-read here so the update only applies if it is still
		// pending: a booking confirmed, cancelled, or deleted between scan
		// and commit drops out of the group as a no-op instead of clobbering
		// the newer state.
		for _, b := range expired {
			bookingRef := r.bookingRef(b.ID)
			snap, err := tx.Get(bookingRef)
			if status.Code(err) == codes.NotFound {
				skipped++
				continue
			}
			if err != nil {
				return err
			}

			var current models.Booking
			if err := snap.DataTo(&current); err != nil {
				return fmt.Errorf("%w: decode booking %s: %v", ErrQuery, b.ID, err)
			}
			if !current.IsPending() {
				skipped++
				continue
			}

			// The slot must exist for the pair to be releasable. A missing
			// slot document means the store is corrupt for this booking;
			// returning here aborts the entire group.
			slotRef := r.slotRef(current.StationID, current.SlotID)
			if _, err := tx.Get(slotRef); err != nil {
				if status.Code(err) == codes.NotFound {
					return fmt.Errorf("%w: slot %s/%s referenced by booking %s",
						ErrPartialState, current.StationID, current.SlotID, b.ID)
				}
				return err
			}

			pairs = append(pairs, releasePair{booking: bookingRef, slot: slotRef})
		}

		for _, p := range pairs {
			if err := tx.Update(p.booking, []firestore.Update{
				{Path: "status", Value: models.BookingStatusExpired},
				{Path: "updated_at", Value: now},
			}); err != nil {
				return err
			}
			if err := tx.Update(p.slot, []firestore.Update{
				{Path: "status", Value: models.SlotStatusAvailable},
				{Path: "booked_by", Value: nil},
				{Path: "booking_id", Value: nil},
				{Path: "booked_at", Value: nil},
				{Path: "expires_at", Value: nil},
				{Path: "updated_at", Value: now},
			}); err != nil {
				return err
			}
		}

		released = len(pairs)
		return nil
	})
	if err != nil {
		return 0, 0, classifyCommit(err)
	}
	return released, skipped, nil
}
