package models

// CreateSlotRequest is the payload for opening a new availability window.
type CreateSlotRequest struct {
	Date       string   `json:"date" binding:"required"`
	Start      int      `json:"start"`
	End        int      `json:"end"`
	SlotType   SlotType `json:"slotType" binding:"required"`
	OwnerID    string   `json:"ownerId" binding:"required"`
	OwnerName  string   `json:"ownerName"`
	OwnerEmail string   `json:"ownerEmail"`
}

// EditSlotRequest moves an unbooked slot to a new window.
type EditSlotRequest struct {
	Date  string `json:"date" binding:"required"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// BookingRequest is the payload for consuming an available slot.
type BookingRequest struct {
	CandidateID      string `json:"candidateId" binding:"required"`
	CandidateName    string `json:"candidateName"`
	CandidateContact string `json:"candidateContact" binding:"required"`
	CreatedBy        string `json:"createdBy"`
	RescheduleOf     string `json:"rescheduleOf,omitempty"`
}

// SlotFilter narrows slot list queries. Text matches owner name or email.
type SlotFilter struct {
	Date     string
	SlotType SlotType
	State    SlotState
	OwnerID  string
	Text     string
	Page     int
	PageSize int
}

// InterviewFilter narrows interview list queries. Text matches owner or
// candidate name/email.
type InterviewFilter struct {
	Date     string
	SlotType SlotType
	Status   InterviewStatus
	Text     string
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps pagination to sane bounds.
func (f *SlotFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}

// Normalize clamps pagination to sane bounds.
func (f *InterviewFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
}
