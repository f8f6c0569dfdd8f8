package models

import "time"

type SlotState string

const (
	SlotStateAvailable SlotState = "available"
	SlotStateBooked    SlotState = "booked"
	SlotStateCancelled SlotState = "cancelled"
	SlotStateExpired   SlotState = "expired"
)

type SlotType string

const (
	SlotTypeLearningRound  SlotType = "Learning Round"
	SlotTypeCultureFit     SlotType = "Culture Fit Round"
	SlotTypeTechnicalRound SlotType = "Technical Round"
	SlotTypeHRRound        SlotType = "HR Round"
)

// ValidSlotType reports whether t is one of the closed set of interview categories.
func ValidSlotType(t SlotType) bool {
	switch t {
	case SlotTypeLearningRound, SlotTypeCultureFit, SlotTypeTechnicalRound, SlotTypeHRRound:
		return true
	}
	return false
}

// Slot is an interviewer's bookable time window.
// Start and End are minutes from midnight on Date ("YYYY-MM-DD").
type Slot struct {
	ID         string    `bson:"id" json:"id"`
	Date       string    `bson:"date" json:"date"`
	Start      int       `bson:"start" json:"start"`
	End        int       `bson:"end" json:"end"`
	SlotType   SlotType  `bson:"slot_type" json:"slotType"`
	OwnerID    string    `bson:"owner_id" json:"ownerId"`
	OwnerName  string    `bson:"owner_name" json:"ownerName"`
	OwnerEmail string    `bson:"owner_email" json:"ownerEmail"`
	State      SlotState `bson:"state" json:"state"`
	BookingID  string    `bson:"booking_id,omitempty" json:"bookingId,omitempty"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updatedAt"`
}

const DateLayout = "2006-01-02"

// WindowStart returns the absolute start time of the slot.
func (s *Slot) WindowStart() time.Time {
	day, _ := time.ParseInLocation(DateLayout, s.Date, time.Local)
	return day.Add(time.Duration(s.Start) * time.Minute)
}

// WindowEnd returns the absolute end time of the slot.
func (s *Slot) WindowEnd() time.Time {
	day, _ := time.ParseInLocation(DateLayout, s.Date, time.Local)
	return day.Add(time.Duration(s.End) * time.Minute)
}

// EffectiveState reports the slot state as of now. An available slot whose
// window has already ended reads as expired whether or not the expiry sweep
// has persisted it yet; expiry is never allowed to depend on the sweep.
func (s *Slot) EffectiveState(now time.Time) SlotState {
	if s.State == SlotStateAvailable && !s.WindowEnd().After(now) {
		return SlotStateExpired
	}
	return s.State
}

// Overlaps reports whether the half-open windows [s.Start, s.End) and
// [start, end) intersect on the same date.
func (s *Slot) Overlaps(date string, start, end int) bool {
	return s.Date == date && s.Start < end && start < s.End
}
