package slotRepo

import (
	"context"
	"time"

	"admitboard/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Create inserts a new slot and returns its ID.
func (r *mongoSlotRepo) Create(ctx context.Context, slot models.Slot) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	now := time.Now()
	slot.CreatedAt = now
	slot.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, slot); err != nil {
		return "", err
	}
	return slot.ID, nil
}

// GetByID returns a slot by its ID, or nil when it does not exist.
func (r *mongoSlotRepo) GetByID(ctx context.Context, id string) (*models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.Slot
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&slot)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

// UpdateWindow moves an available slot to a new window. The availability
// check is part of the filter so a concurrent booking cannot slip between
// a read and this write.
func (r *mongoSlotRepo) UpdateWindow(ctx context.Context, id, date string, start, end int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "state": models.SlotStateAvailable}
	update := bson.M{"$set": bson.M{
		"date":       date,
		"start":      start,
		"end":        end,
		"updated_at": time.Now(),
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStateConflict
	}
	return nil
}

// MarkCancelled soft-deletes an unbooked slot. Expired slots stay deletable
// on their own date; booked slots never match.
func (r *mongoSlotRepo) MarkCancelled(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "state": bson.M{"$in": []models.SlotState{models.SlotStateAvailable, models.SlotStateExpired}}}
	update := bson.M{"$set": bson.M{
		"state":      models.SlotStateCancelled,
		"updated_at": time.Now(),
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrStateConflict
	}
	return nil
}
