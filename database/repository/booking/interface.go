package bookingRepo

import (
	"context"
	"errors"

	"admitboard/database"
	"admitboard/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrSlotNotAvailable is returned when the conditional slot update matched
// nothing, meaning the slot was booked, cancelled, or removed concurrently.
var ErrSlotNotAvailable = errors.New("slot not available")

// BookingRepository owns the one write that spans both collections: the
// atomic insert of an interview record plus the Available -> Booked slot
// transition. Nothing else is allowed to set booking_id on a slot.
type BookingRepository interface {
	BookSlotTransactionally(ctx context.Context, slotID string, interview models.Interview) error
}

type mongoBookingRepo struct {
	slotColl      *mongo.Collection
	interviewColl *mongo.Collection
}

// NewMongoBookingRepo constructs a new MongoDB BookingRepository.
func NewMongoBookingRepo(dbName string) BookingRepository {
	db := database.MongoClient.Database(dbName)
	return &mongoBookingRepo{
		slotColl:      db.Collection("slots"),
		interviewColl: db.Collection("interviews"),
	}
}
