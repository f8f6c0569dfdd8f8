package slotRepo

import (
	"context"
	"errors"
	"time"

	"admitboard/database"
	"admitboard/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when no slot matches the given id.
	ErrNotFound = errors.New("slot not found")
	// ErrStateConflict is returned when a conditional write matched no
	// document because the slot is no longer in the required state.
	ErrStateConflict = errors.New("slot is not in the required state")
)

type SlotRepository interface {
	Create(ctx context.Context, slot models.Slot) (string, error)
	GetByID(ctx context.Context, id string) (*models.Slot, error)
	// UpdateWindow moves an available slot to a new window. The state check
	// happens inside the update filter, not at read time.
	UpdateWindow(ctx context.Context, id, date string, start, end int) error
	// MarkCancelled soft-deletes an unbooked slot.
	MarkCancelled(ctx context.Context, id string) error
	// HasOverlapping reports whether any live (available or booked) slot of
	// the owner on the given date intersects the half-open window [start, end).
	HasOverlapping(ctx context.Context, ownerID, date string, start, end int, excludeID string) (bool, error)
	List(ctx context.Context, filter models.SlotFilter, now time.Time) ([]models.Slot, int64, error)
	// MarkExpired persists the expired state on available slots whose window
	// has ended. Reads never depend on this; it only keeps queries cheap.
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
	EnsureIndexes() error
}

type mongoSlotRepo struct {
	coll *mongo.Collection
}

// NewMongoSlotRepo constructs a new MongoDB SlotRepository.
func NewMongoSlotRepo(dbName string) SlotRepository {
	db := database.MongoClient.Database(dbName)
	return &mongoSlotRepo{
		coll: db.Collection("slots"),
	}
}
