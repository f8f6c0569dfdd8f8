package cron

import (
	"encoding/json"
	"fmt"
	"time"

	"admitboard/config"
	"admitboard/models"

	"github.com/hibiken/asynq"
)

// ReminderScheduler enqueues pre-interview reminder tasks.
type ReminderScheduler struct {
	client *asynq.Client
	lead   time.Duration
}

// NewReminderScheduler returns a scheduler that fires reminders the
// configured lead time before the interview starts.
func NewReminderScheduler() *ReminderScheduler {
	lead := time.Duration(config.AppConfig.ReminderLeadMinutes) * time.Minute
	if lead <= 0 {
		lead = time.Hour
	}
	return &ReminderScheduler{
		client: asynq.NewClient(redisOpts()),
		lead:   lead,
	}
}

// ScheduleInterviewReminder enqueues a reminder for the interview. Windows
// starting inside the lead time get no reminder.
func (s *ReminderScheduler) ScheduleInterviewReminder(rec models.Interview) error {
	day, err := time.ParseInLocation(models.DateLayout, rec.Date, time.Local)
	if err != nil {
		return fmt.Errorf("invalid interview date %q: %w", rec.Date, err)
	}
	fireAt := day.Add(time.Duration(rec.Start)*time.Minute - s.lead)
	if !fireAt.After(time.Now()) {
		return nil
	}

	payload, err := json.Marshal(ReminderPayload{
		InterviewID:   rec.ID,
		CandidateName: rec.CandidateName,
		OwnerName:     rec.OwnerName,
		Date:          rec.Date,
		Start:         rec.Start,
		MeetingLink:   rec.MeetingLink,
	})
	if err != nil {
		return fmt.Errorf("marshal reminder payload: %w", err)
	}

	_, err = s.client.Enqueue(asynq.NewTask(TypeInterviewRemind, payload), asynq.ProcessAt(fireAt))
	if err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}
	return nil
}

// Close releases the underlying queue client.
func (s *ReminderScheduler) Close() error {
	return s.client.Close()
}
