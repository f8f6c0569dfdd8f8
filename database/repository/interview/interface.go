package interviewRepo

import (
	"context"
	"errors"

	"admitboard/database"
	"admitboard/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no interview matches the given id.
var ErrNotFound = errors.New("interview not found")

type InterviewRepository interface {
	GetByID(ctx context.Context, id string) (*models.Interview, error)
	// SetStatus transitions an interview's status. Records are never
	// deleted, status moves are the audit trail.
	SetStatus(ctx context.Context, id string, status models.InterviewStatus) error
	List(ctx context.Context, filter models.InterviewFilter) ([]models.Interview, int64, error)
	EnsureIndexes() error
}

type mongoInterviewRepo struct {
	coll *mongo.Collection
}

// NewMongoInterviewRepo constructs a new MongoDB InterviewRepository.
func NewMongoInterviewRepo(dbName string) InterviewRepository {
	db := database.MongoClient.Database(dbName)
	return &mongoInterviewRepo{
		coll: db.Collection("interviews"),
	}
}
