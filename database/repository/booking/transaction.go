package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"admitboard/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BookSlotTransactionally inserts the interview record and flips the slot
// from available to booked in a single transaction. The slot update filters
// on state, so a slot that was booked, cancelled, or removed since the
// caller's re-read aborts the whole transaction with ErrSlotNotAvailable.
func (repo *mongoBookingRepo) BookSlotTransactionally(ctx context.Context, slotID string, interview models.Interview) error {
	client := repo.slotColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if _, err := repo.interviewColl.InsertOne(sc, interview); err != nil {
			return fmt.Errorf("insert interview failed: %w", err)
		}

		filter := bson.M{
			"id":    slotID,
			"state": models.SlotStateAvailable,
		}
		update := bson.M{"$set": bson.M{
			"state":      models.SlotStateBooked,
			"booking_id": interview.ID,
			"updated_at": time.Now(),
		}}

		res, err := repo.slotColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("mark slot booked failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrSlotNotAvailable
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrSlotNotAvailable {
			return err
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}

	return nil
}
