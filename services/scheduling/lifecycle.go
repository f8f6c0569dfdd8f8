package scheduling

import (
	"context"
	"errors"
	"time"

	slotRepo "admitboard/database/repository/slot"
	"admitboard/models"

	"go.uber.org/zap"
)

// SlotLifecycleService gates every direct slot mutation. Booking is not a
// direct mutation; it goes through the BookingCoordinator only.
type SlotLifecycleService interface {
	CreateSlot(ctx context.Context, req models.CreateSlotRequest) (*models.Slot, error)
	EditSlot(ctx context.Context, slotID string, req models.EditSlotRequest) (*models.Slot, error)
	DeleteSlot(ctx context.Context, slotID string) error
	ListSlots(ctx context.Context, filter models.SlotFilter) ([]models.Slot, int64, error)
}

// DefaultSlotLifecycleService implements SlotLifecycleService.
type DefaultSlotLifecycleService struct {
	Slots  slotRepo.SlotRepository
	Logger *zap.Logger
	Now    func() time.Time
}

func (s *DefaultSlotLifecycleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

const minutesPerDay = 24 * 60

func validateWindow(date string, start, end int) error {
	if _, err := time.ParseInLocation(models.DateLayout, date, time.Local); err != nil {
		return newError(CodeInvalidInput, "invalid date %q, expected YYYY-MM-DD", date)
	}
	if start < 0 || end > minutesPerDay {
		return newError(CodeInvalidInput, "window [%d, %d) outside the day", start, end)
	}
	if start >= end {
		return newError(CodeInvalidInput, "window start %d must be before end %d", start, end)
	}
	return nil
}

// CreateSlot validates the window, rejects overlaps with the owner's live
// slots on the same date, and opens a new available slot.
func (s *DefaultSlotLifecycleService) CreateSlot(ctx context.Context, req models.CreateSlotRequest) (*models.Slot, error) {
	if req.OwnerID == "" {
		return nil, newError(CodeInvalidInput, "ownerId is required")
	}
	if !models.ValidSlotType(req.SlotType) {
		return nil, newError(CodeInvalidInput, "unknown slot type %q", req.SlotType)
	}
	if err := validateWindow(req.Date, req.Start, req.End); err != nil {
		return nil, err
	}

	overlaps, err := s.Slots.HasOverlapping(ctx, req.OwnerID, req.Date, req.Start, req.End, "")
	if err != nil {
		return nil, wrapError(CodeInvalidInput, err, "overlap check failed")
	}
	if overlaps {
		return nil, newError(CodeInvalidInput, "window [%d, %d) on %s overlaps an existing slot for this interviewer", req.Start, req.End, req.Date)
	}

	slot := models.Slot{
		Date:       req.Date,
		Start:      req.Start,
		End:        req.End,
		SlotType:   req.SlotType,
		OwnerID:    req.OwnerID,
		OwnerName:  req.OwnerName,
		OwnerEmail: req.OwnerEmail,
		State:      models.SlotStateAvailable,
	}
	id, err := s.Slots.Create(ctx, slot)
	if err != nil {
		return nil, err
	}
	slot.ID = id

	s.Logger.Info("slot created",
		zap.String("slot_id", id),
		zap.String("owner_id", req.OwnerID),
		zap.String("date", req.Date),
		zap.Int("start", req.Start),
		zap.Int("end", req.End),
	)
	created, err := s.Slots.GetByID(ctx, id)
	if err != nil {
		return &slot, nil
	}
	return created, nil
}

// EditSlot moves an unbooked slot to a new window. Booked slots are
// immutable here; rescheduling a booked interview is cancel + book, never a
// silent slot edit.
func (s *DefaultSlotLifecycleService) EditSlot(ctx context.Context, slotID string, req models.EditSlotRequest) (*models.Slot, error) {
	if err := validateWindow(req.Date, req.Start, req.End); err != nil {
		return nil, err
	}

	slot, err := s.Slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, newError(CodeNotFound, "slot %s not found", slotID)
	}
	switch slot.EffectiveState(s.now()) {
	case models.SlotStateBooked:
		return nil, newError(CodeInvalidState, "slot %s is booked and cannot be edited", slotID)
	case models.SlotStateCancelled:
		return nil, newError(CodeInvalidState, "slot %s has been removed", slotID)
	case models.SlotStateExpired:
		return nil, newError(CodeInvalidState, "slot %s has expired", slotID)
	}

	overlaps, err := s.Slots.HasOverlapping(ctx, slot.OwnerID, req.Date, req.Start, req.End, slotID)
	if err != nil {
		return nil, wrapError(CodeInvalidInput, err, "overlap check failed")
	}
	if overlaps {
		return nil, newError(CodeInvalidInput, "window [%d, %d) on %s overlaps an existing slot for this interviewer", req.Start, req.End, req.Date)
	}

	// The repository re-checks availability inside the update filter; a
	// booking that lands between the read above and this write loses nothing.
	if err := s.Slots.UpdateWindow(ctx, slotID, req.Date, req.Start, req.End); err != nil {
		if errors.Is(err, slotRepo.ErrStateConflict) {
			return nil, newError(CodeInvalidState, "slot %s is no longer editable", slotID)
		}
		return nil, err
	}

	s.Logger.Info("slot window updated",
		zap.String("slot_id", slotID),
		zap.String("date", req.Date),
		zap.Int("start", req.Start),
		zap.Int("end", req.End),
	)
	return s.Slots.GetByID(ctx, slotID)
}

// DeleteSlot removes an unbooked slot. Slots whose day has already passed
// are kept for booking auditability and rejected with PastWindow.
func (s *DefaultSlotLifecycleService) DeleteSlot(ctx context.Context, slotID string) error {
	slot, err := s.Slots.GetByID(ctx, slotID)
	if err != nil {
		return err
	}
	if slot == nil {
		return newError(CodeNotFound, "slot %s not found", slotID)
	}
	if slot.State == models.SlotStateBooked {
		return newError(CodeInvalidState, "slot %s is booked and cannot be deleted", slotID)
	}

	today := s.now().Format(models.DateLayout)
	if slot.Date < today {
		return newError(CodePastWindow, "slot %s belongs to %s and can no longer be deleted", slotID, slot.Date)
	}

	if err := s.Slots.MarkCancelled(ctx, slotID); err != nil {
		if errors.Is(err, slotRepo.ErrStateConflict) {
			return newError(CodeInvalidState, "slot %s is no longer deletable", slotID)
		}
		return err
	}

	s.Logger.Info("slot removed", zap.String("slot_id", slotID))
	return nil
}

// ListSlots returns a page of slots with read-time expiry applied.
func (s *DefaultSlotLifecycleService) ListSlots(ctx context.Context, filter models.SlotFilter) ([]models.Slot, int64, error) {
	return s.Slots.List(ctx, filter, s.now())
}
