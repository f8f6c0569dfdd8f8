package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "admitboard/database/repository/booking"
	interviewRepo "admitboard/database/repository/interview"
	slotRepo "admitboard/database/repository/slot"
	"admitboard/models"
	"admitboard/services/meeting"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService is the only path by which a slot becomes booked.
type BookingService interface {
	Book(ctx context.Context, slotID string, req models.BookingRequest) (*models.Interview, error)
	Cancel(ctx context.Context, interviewID string) error
	Complete(ctx context.Context, interviewID string) error
	ListInterviews(ctx context.Context, filter models.InterviewFilter) ([]models.Interview, int64, error)
}

// ReminderScheduler enqueues a pre-interview reminder. Enqueue failures are
// never allowed to fail a booking.
type ReminderScheduler interface {
	ScheduleInterviewReminder(rec models.Interview) error
}

// BookingCoordinator implements BookingService. It owns the two-phase
// booking protocol: exclusive intent, re-read, provision, persist, and the
// compensation path when persistence fails after provisioning succeeded.
type BookingCoordinator struct {
	Locks       SlotLocker
	Slots       slotRepo.SlotRepository
	Interviews  interviewRepo.InterviewRepository
	Bookings    bookingRepo.BookingRepository
	Provisioner meeting.Provisioner
	Reminders   ReminderScheduler
	Logger      *zap.Logger
	Now         func() time.Time
}

func (c *BookingCoordinator) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Book consumes an available slot for a candidate. At most one Book call
// per slot ever succeeds; losers get SlotUnavailable immediately. No retry
// of the provisioning call happens here: retrying a slow-but-successful
// Create would risk a duplicate meeting resource, so retry policy belongs
// to the caller.
func (c *BookingCoordinator) Book(ctx context.Context, slotID string, req models.BookingRequest) (*models.Interview, error) {
	if req.CandidateID == "" || req.CandidateContact == "" {
		return nil, newError(CodeInvalidInput, "candidateId and candidateContact are required")
	}

	release, ok, err := c.Locks.Acquire(ctx, slotID)
	if err != nil {
		return nil, wrapError(CodeSlotUnavailable, err, "could not acquire booking intent for slot %s", slotID)
	}
	if !ok {
		return nil, newError(CodeSlotUnavailable, "slot %s is being booked by someone else", slotID)
	}
	defer release()

	// Mandatory re-read: the availability the caller saw in a list may be
	// arbitrarily stale.
	slot, err := c.Slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, newError(CodeSlotUnavailable, "slot %s does not exist", slotID)
	}
	if state := slot.EffectiveState(c.now()); state != models.SlotStateAvailable {
		return nil, newError(CodeSlotUnavailable, "slot %s is %s", slotID, state)
	}

	var prior *models.Interview
	if req.RescheduleOf != "" {
		prior, err = c.Interviews.GetByID(ctx, req.RescheduleOf)
		if err != nil {
			return nil, err
		}
		if prior == nil {
			return nil, newError(CodeNotFound, "interview %s not found", req.RescheduleOf)
		}
	}

	details, err := c.provision(ctx, slot, req)
	if err != nil {
		// Slot untouched, nothing created; the whole Book is retryable.
		return nil, wrapError(CodeProvisioningFailed, err, "meeting provisioning failed for slot %s", slotID)
	}

	rec := c.buildInterview(slot, req, details)
	if err := c.Bookings.BookSlotTransactionally(ctx, slotID, rec); err != nil {
		return nil, c.compensate(ctx, slotID, details, err)
	}

	if prior != nil && prior.Status != models.InterviewStatusCancelled && prior.Status != models.InterviewStatusCompleted {
		if err := c.Interviews.SetStatus(ctx, prior.ID, models.InterviewStatusCancelled); err != nil {
			c.Logger.Warn("failed to cancel prior interview after reschedule",
				zap.String("interview_id", prior.ID), zap.Error(err))
		}
	}

	if c.Reminders != nil {
		if err := c.Reminders.ScheduleInterviewReminder(rec); err != nil {
			c.Logger.Warn("failed to schedule interview reminder",
				zap.String("interview_id", rec.ID), zap.Error(err))
		}
	}

	c.Logger.Info("slot booked",
		zap.String("slot_id", slotID),
		zap.String("interview_id", rec.ID),
		zap.String("candidate_id", req.CandidateID),
		zap.String("meeting_resource", details.ResourceID),
	)
	return &rec, nil
}

func (c *BookingCoordinator) provision(ctx context.Context, slot *models.Slot, req models.BookingRequest) (*meeting.Details, error) {
	attendees := []string{req.CandidateContact}
	if slot.OwnerEmail != "" {
		attendees = append(attendees, slot.OwnerEmail)
	}
	summary := fmt.Sprintf("%s: %s", slot.SlotType, req.CandidateName)
	description := fmt.Sprintf("Interview with %s on %s", slot.OwnerName, slot.Date)

	return c.Provisioner.Create(ctx, meeting.Window{
		Start: slot.WindowStart(),
		End:   slot.WindowEnd(),
	}, attendees, summary, description)
}

func (c *BookingCoordinator) buildInterview(slot *models.Slot, req models.BookingRequest, details *meeting.Details) models.Interview {
	status := models.InterviewStatusScheduled
	if req.RescheduleOf != "" {
		status = models.InterviewStatusRescheduled
	}
	now := time.Now()
	return models.Interview{
		ID:               uuid.New().String(),
		SlotID:           slot.ID,
		CandidateID:      req.CandidateID,
		CandidateName:    req.CandidateName,
		CandidateContact: req.CandidateContact,
		SlotType:         slot.SlotType,
		OwnerID:          slot.OwnerID,
		OwnerName:        slot.OwnerName,
		Date:             slot.Date,
		Start:            slot.Start,
		End:              slot.End,
		MeetingLink:      details.Link,
		MeetingResource:  details.ResourceID,
		Status:           status,
		RescheduleOf:     req.RescheduleOf,
		CreatedBy:        req.CreatedBy,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// compensate deletes the provisioned meeting after a persist failure. If
// rollback itself fails we are left with an orphaned external resource and
// must say so loudly: the error carries the resource id and is logged at
// error level for manual reconciliation.
func (c *BookingCoordinator) compensate(ctx context.Context, slotID string, details *meeting.Details, persistErr error) error {
	if delErr := c.Provisioner.Delete(ctx, details.ResourceID); delErr != nil {
		c.Logger.Error("booking inconsistent: orphaned meeting resource needs manual cleanup",
			zap.String("slot_id", slotID),
			zap.String("meeting_resource", details.ResourceID),
			zap.NamedError("persist_error", persistErr),
			zap.NamedError("rollback_error", delErr),
		)
		return &Error{
			Code:       CodeBookingInconsistent,
			Message:    fmt.Sprintf("booking persist failed for slot %s and meeting rollback failed; orphaned meeting resource %s", slotID, details.ResourceID),
			ResourceID: details.ResourceID,
			Err:        persistErr,
		}
	}

	if errors.Is(persistErr, bookingRepo.ErrSlotNotAvailable) {
		return wrapError(CodeSlotUnavailable, persistErr, "slot %s was taken before the booking could be persisted", slotID)
	}

	c.Logger.Warn("booking persist failed, meeting resource rolled back",
		zap.String("slot_id", slotID),
		zap.String("meeting_resource", details.ResourceID),
		zap.Error(persistErr),
	)
	return wrapError(CodeBookingPersistFailed, persistErr, "could not persist booking for slot %s", slotID)
}

// Cancel marks an interview cancelled. The consumed slot stays booked for
// historical accuracy; re-offering the time requires a new slot. Cancelling
// an already-cancelled interview is a no-op.
func (c *BookingCoordinator) Cancel(ctx context.Context, interviewID string) error {
	rec, err := c.Interviews.GetByID(ctx, interviewID)
	if err != nil {
		return err
	}
	if rec == nil {
		return newError(CodeNotFound, "interview %s not found", interviewID)
	}
	if rec.Status == models.InterviewStatusCancelled {
		return nil
	}

	if err := c.Interviews.SetStatus(ctx, interviewID, models.InterviewStatusCancelled); err != nil {
		return err
	}
	c.Logger.Info("interview cancelled", zap.String("interview_id", interviewID))
	return nil
}

// Complete marks a scheduled or rescheduled interview completed. Completing
// an already-completed interview is a no-op.
func (c *BookingCoordinator) Complete(ctx context.Context, interviewID string) error {
	rec, err := c.Interviews.GetByID(ctx, interviewID)
	if err != nil {
		return err
	}
	if rec == nil {
		return newError(CodeNotFound, "interview %s not found", interviewID)
	}
	switch rec.Status {
	case models.InterviewStatusCompleted:
		return nil
	case models.InterviewStatusCancelled:
		return newError(CodeInvalidState, "interview %s is cancelled and cannot be completed", interviewID)
	}

	if err := c.Interviews.SetStatus(ctx, interviewID, models.InterviewStatusCompleted); err != nil {
		return err
	}
	c.Logger.Info("interview completed", zap.String("interview_id", interviewID))
	return nil
}

// ListInterviews returns a page of interview records.
func (c *BookingCoordinator) ListInterviews(ctx context.Context, filter models.InterviewFilter) ([]models.Interview, int64, error) {
	return c.Interviews.List(ctx, filter)
}
