// File: database/repository/booking/queries.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/iterator"

	"chargehub/models"
)

func (r *firestoreBookingRepo) FindExpiredPending(ctx context.Context, now time.Time) ([]models.Booking, error) {
	// Bookings with a null expires_at never match the range filter, so
	// deadline-less bookings are excluded by the store itself.
	iter := r.client.Collection(r.bookings).
		Where("status", "==", models.BookingStatusPending).
		Where("expires_at", "<=", now).
		Documents(ctx)
	defer iter.Stop()

	var expired []models.Booking
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classifyScan(err)
		}

		var b models.Booking
		if err := doc.DataTo(&b); err != nil {
			return nil, fmt.Errorf("%w: decode booking %s: %v", ErrQuery, doc.Ref.ID, err)
		}
		b.ID = doc.Ref.ID
		expired = append(expired, b)
	}
	return expired, nil
}
