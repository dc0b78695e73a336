package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"barbook/config"
	appointmentRepo "barbook/database/repository/appointment"
	"barbook/models"
	"barbook/services/tasks"
)

// InitStatusSweepWorker runs the async worker that settles appointment
// statuses after their scheduled end: overdue PENDING appointments become
// NO_SHOW, CONFIRMED ones become COMPLETED.
func InitStatusSweepWorker(repo appointmentRepo.AppointmentRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeStatusSweep, handleStatusSweepTask(repo))

	go func() {
		log.Println("[StatusSweep] starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[StatusSweep] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[StatusSweep] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleStatusSweepTask(repo appointmentRepo.AppointmentRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.SweepPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[StatusSweep] invalid payload: %v", err)
			return err
		}

		appt, err := repo.GetByID(ctx, p.AppointmentID)
		if err != nil {
			log.Printf("[StatusSweep] appointment %s not found: %v", p.AppointmentID, err)
			return nil
		}

		// A reschedule may have pushed the appointment past this task's
		// fire time; leave it for the task enqueued with the new time.
		if appt.EndTime(time.Local).After(time.Now()) {
			return nil
		}

		switch appt.Status {
		case models.StatusPending:
			err = repo.UpdateStatus(ctx, appt.ID, models.StatusNoShow)
		case models.StatusConfirmed:
			err = repo.UpdateStatus(ctx, appt.ID, models.StatusCompleted)
		default:
			return nil
		}
		if err != nil {
			log.Printf("[StatusSweep] failed to settle appointment %s: %v", appt.ID, err)
		}
		return err
	}
}
