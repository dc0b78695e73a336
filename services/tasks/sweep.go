package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeStatusSweep = "appointment:sweep"

// SweepPayload identifies the appointment whose status is due for review.
type SweepPayload struct {
	AppointmentID string `json:"appointmentId"`
}

// NewStatusSweepTask builds the deferred task that settles an appointment's
// status once its scheduled end has passed.
func NewStatusSweepTask(appointmentID string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(SweepPayload{AppointmentID: appointmentID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeStatusSweep, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
