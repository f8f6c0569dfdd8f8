package models

import "time"

type InterviewStatus string

const (
	InterviewStatusScheduled   InterviewStatus = "scheduled"
	InterviewStatusRescheduled InterviewStatus = "rescheduled"
	InterviewStatusCompleted   InterviewStatus = "completed"
	InterviewStatusCancelled   InterviewStatus = "cancelled"
)

// Interview is the durable record of a scheduled interview. It consumes
// exactly one slot and is never deleted; administrative actions only move
// its status, so the collection doubles as the audit trail.
type Interview struct {
	ID               string          `bson:"id" json:"id"`
	SlotID           string          `bson:"slot_id" json:"slotId"`
	CandidateID      string          `bson:"candidate_id" json:"candidateId"`
	CandidateName    string          `bson:"candidate_name" json:"candidateName"`
	CandidateContact string          `bson:"candidate_contact" json:"candidateContact"`
	SlotType         SlotType        `bson:"slot_type" json:"slotType"`
	OwnerID          string          `bson:"owner_id" json:"ownerId"`
	OwnerName        string          `bson:"owner_name" json:"ownerName"`
	Date             string          `bson:"date" json:"date"`
	Start            int             `bson:"start" json:"start"`
	End              int             `bson:"end" json:"end"`
	MeetingLink      string          `bson:"meeting_link,omitempty" json:"meetingLink,omitempty"`
	MeetingResource  string          `bson:"meeting_resource,omitempty" json:"meetingResourceId,omitempty"`
	Status           InterviewStatus `bson:"status" json:"status"`
	RescheduleOf     string          `bson:"reschedule_of,omitempty" json:"rescheduleOf,omitempty"`
	CreatedBy        string          `bson:"created_by" json:"createdBy"`
	CreatedAt        time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time       `bson:"updated_at" json:"updatedAt"`
}
