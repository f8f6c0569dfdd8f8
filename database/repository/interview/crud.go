package interviewRepo

import (
	"context"
	"time"

	"admitboard/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetByID returns an interview by its ID, or nil when it does not exist.
func (r *mongoInterviewRepo) GetByID(ctx context.Context, id string) (*models.Interview, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rec models.Interview
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// SetStatus transitions an interview's status.
func (r *mongoInterviewRepo) SetStatus(ctx context.Context, id string, status models.InterviewStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns a page of interviews plus the total match count.
func (r *mongoInterviewRepo) List(ctx context.Context, filter models.InterviewFilter) ([]models.Interview, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter.Normalize()

	query := bson.M{}
	if filter.Date != "" {
		query["date"] = filter.Date
	}
	if filter.SlotType != "" {
		query["slot_type"] = filter.SlotType
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Text != "" {
		regex := bson.M{"$regex": filter.Text, "$options": "i"}
		query["$or"] = []bson.M{
			{"owner_name": regex},
			{"candidate_name": regex},
			{"candidate_contact": regex},
		}
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

	var records []models.Interview
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
