package slotRepo

import (
	"context"
	"time"

	"admitboard/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// HasOverlapping reports whether any available or booked slot of the owner
// on the given date intersects [start, end). Half-open intervals: slots
// touching at the boundary do not overlap.
func (r *mongoSlotRepo) HasOverlapping(ctx context.Context, ownerID, date string, start, end int, excludeID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"owner_id": ownerID,
		"date":     date,
		"state":    bson.M{"$in": []models.SlotState{models.SlotStateAvailable, models.SlotStateBooked}},
		"start":    bson.M{"$lt": end},
		"end":      bson.M{"$gt": start},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}

	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns a page of slots plus the total match count. A state filter of
// "available" or "expired" is translated into time-aware conditions so that
// an available slot whose window has passed never shows up as bookable,
// whether or not the expiry sweep has run.
func (r *mongoSlotRepo) List(ctx context.Context, filter models.SlotFilter, now time.Time) ([]models.Slot, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter.Normalize()
	today := now.Format(models.DateLayout)
	nowMin := now.Hour()*60 + now.Minute()

	query := bson.M{}
	if filter.Date != "" {
		query["date"] = filter.Date
	}
	if filter.SlotType != "" {
		query["slot_type"] = filter.SlotType
	}
	if filter.OwnerID != "" {
		query["owner_id"] = filter.OwnerID
	}
	if filter.Text != "" {
		regex := bson.M{"$regex": filter.Text, "$options": "i"}
		query["$or"] = []bson.M{
			{"owner_name": regex},
			{"owner_email": regex},
		}
	}

	switch filter.State {
	case models.SlotStateAvailable:
		query["state"] = models.SlotStateAvailable
		query["$and"] = []bson.M{notPastCondition(today, nowMin)}
	case models.SlotStateExpired:
		query["$and"] = []bson.M{{"$or": []bson.M{
			{"state": models.SlotStateExpired},
			{"state": models.SlotStateAvailable, "$or": pastConditions(today, nowMin)},
		}}}
	case "":
		// no state constraint
	default:
		query["state"] = filter.State
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}}).
		SetSkip(int64((filter.Page - 1) * filter.PageSize)).
		SetLimit(int64(filter.PageSize))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, 0, err
	}

	// Read-time expiry so callers never see a past slot as available.
	for i := range slots {
		slots[i].State = slots[i].EffectiveState(now)
	}
	return slots, total, nil
}

// MarkExpired persists the expired state on available slots whose window has
// ended. Returns the number of slots updated.
func (r *mongoSlotRepo) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	today := now.Format(models.DateLayout)
	nowMin := now.Hour()*60 + now.Minute()

	filter := bson.M{
		"state": models.SlotStateAvailable,
		"$or":   pastConditions(today, nowMin),
	}
	update := bson.M{"$set": bson.M{
		"state":      models.SlotStateExpired,
		"updated_at": now,
	}}

	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func pastConditions(today string, nowMin int) []bson.M {
	return []bson.M{
		{"date": bson.M{"$lt": today}},
		{"date": today, "end": bson.M{"$lte": nowMin}},
	}
}

func notPastCondition(today string, nowMin int) bson.M {
	return bson.M{"$or": []bson.M{
		{"date": bson.M{"$gt": today}},
		{"date": today, "end": bson.M{"$gt": nowMin}},
	}}
}
