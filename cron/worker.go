package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"admitboard/config"
	slotRepo "admitboard/database/repository/slot"
	"admitboard/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}
}

// InitWorker runs the background worker and the periodic expiry sweep
// schedule. Correctness never depends on the sweep; read paths compute
// effective expiry themselves, the sweep only persists it.
func InitWorker(slots slotRepo.SlotRepository) {
	logger := utils.GetLogger()

	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSlotExpire, handleSlotExpireTask(slots))
	mux.HandleFunc(TypeInterviewRemind, handleReminderTask())

	go func() {
		if err := srv.Run(mux); err != nil {
			logger.Error("background worker stopped", zap.Error(err))
		}
	}()

	interval := config.AppConfig.ExpirySweepIntervalMin
	if interval <= 0 {
		interval = 5
	}
	scheduler := asynq.NewScheduler(redisOpts(), nil)
	if _, err := scheduler.Register(
		fmt.Sprintf("@every %dm", interval),
		asynq.NewTask(TypeSlotExpire, nil),
	); err != nil {
		logger.Error("failed to register expiry sweep schedule", zap.Error(err))
		return
	}
	go func() {
		if err := scheduler.Run(); err != nil {
			logger.Error("expiry sweep scheduler stopped", zap.Error(err))
		}
	}()
}

func handleSlotExpireTask(slots slotRepo.SlotRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		n, err := slots.MarkExpired(ctx, time.Now())
		if err != nil {
			logger.Error("expiry sweep failed", zap.Error(err))
			return err
		}
		if n > 0 {
			logger.Info("expiry sweep persisted expired slots", zap.Int64("count", n))
		}
		return nil
	}
}

func handleReminderTask() asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return err
		}

		// Dispatch point for the notification channel (email/chat). The
		// reminder itself is informational; failures are retried by asynq.
		logger.Info("interview reminder due",
			zap.String("interview_id", p.InterviewID),
			zap.String("candidate", p.CandidateName),
			zap.String("interviewer", p.OwnerName),
			zap.String("date", p.Date),
			zap.Int("start", p.Start),
			zap.String("meeting_link", p.MeetingLink),
		)
		return nil
	}
}
