// File: database/repository/records/crud.go
package recordsRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chargehub/models"
)

func (r *mongoSweepRecordRepo) Insert(ctx context.Context, rec models.SweepRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to insert sweep record: %w", err)
	}
	return nil
}

func (r *mongoSweepRecordRepo) Latest(ctx context.Context, limit int) ([]models.SweepRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "ran_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sweep records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.SweepRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode sweep records: %w", err)
	}
	return records, nil
}
