package cron

// Task type names for the background worker.
const (
	TypeSlotExpire      = "slots:expire"
	TypeInterviewRemind = "interview:remind"
)

// ReminderPayload is the payload of an interview reminder task.
type ReminderPayload struct {
	InterviewID   string `json:"interviewId"`
	CandidateName string `json:"candidateName"`
	OwnerName     string `json:"ownerName"`
	Date          string `json:"date"`
	Start         int    `json:"start"`
	MeetingLink   string `json:"meetingLink"`
}
