// File: database/repository/records/interface.go
package recordsRepo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"chargehub/database"
	"chargehub/models"
)

// SweepRecordRepository persists the audit trail of reconciliation passes.
type SweepRecordRepository interface {
	Insert(ctx context.Context, rec models.SweepRecord) error
	Latest(ctx context.Context, limit int) ([]models.SweepRecord, error)
}

type mongoSweepRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoSweepRecordRepo constructs a MongoDB SweepRecordRepository.
func NewMongoSweepRecordRepo() SweepRecordRepository {
	db := database.MongoClient.Database("chargehub")
	return &mongoSweepRecordRepo{
		coll: db.Collection("sweep_records"),
	}
}
