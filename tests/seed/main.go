// Seeds a Firestore project (or emulator) with stations, slots, and a mix of
// pending/confirmed bookings whose deadlines straddle the current time, for
// exercising the sweep end to end.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"chargehub/config"
	"chargehub/database"
	"chargehub/models"
)

func main() {
	config.LoadConfig()
	database.InitDB()
	client := database.FirestoreClient

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().UTC()
	stations := []string{"station-north", "station-south"}
	slotsPerStation := 4

	// Deadlines: half already lapsed, half still in the future.
	offsets := []time.Duration{-30 * time.Minute, -5 * time.Minute, 10 * time.Minute, time.Hour}

	seeded := 0
	for _, stationID := range stations {
		for i := 1; i <= slotsPerStation; i++ {
			slotID := fmt.Sprintf("slot-%02d", i)
			bookingID := uuid.New().String()
			userID := uuid.New().String()
			expiresAt := now.Add(offsets[(seeded)%len(offsets)])

			status := models.BookingStatusPending
			if i == slotsPerStation {
				// One confirmed booking per station: the sweep must never touch it.
				status = models.BookingStatusConfirmed
			}

			slot := models.Slot{
				Status:    models.SlotStatusBooked,
				BookedBy:  &userID,
				BookingID: &bookingID,
				BookedAt:  &now,
				ExpiresAt: &expiresAt,
				UpdatedAt: now,
			}
			slotRef := client.Collection(config.AppConfig.StationsCollection).
				Doc(stationID).
				Collection(config.AppConfig.SlotsSubcollection).
				Doc(slotID)
			if _, err := slotRef.Set(ctx, slot); err != nil {
				log.Fatalf("Failed to seed slot %s/%s: %v", stationID, slotID, err)
			}

			booking := models.Booking{
				StationID: stationID,
				SlotID:    slotID,
				UserID:    userID,
				Status:    status,
				CreatedAt: now.Add(-time.Hour),
				ExpiresAt: &expiresAt,
				UpdatedAt: now,
			}
			bookingRef := client.Collection(config.AppConfig.BookingsCollection).Doc(bookingID)
			if _, err := bookingRef.Set(ctx, booking); err != nil {
				log.Fatalf("Failed to seed booking %s: %v", bookingID, err)
			}

			seeded++
		}
	}

	fmt.Printf("Seeded %d booking/slot pairs across %d stations\n", seeded, len(stations))
}
