// Package scheduler fires the daily reminder fan-out from asynq cron
// entries and runs the worker that handles them.
package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/config"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/logger"
)

const (
	TaskReminderFanOut = "reminders:fanout"
	queueName          = "reminders"

	// A second firing for the same period within this window is dropped.
	uniqueWindow = time.Hour
)

type reminderPayload struct {
	Period models.Period `json:"period"`
}

// FanOuter is satisfied by services.ReminderService.
type FanOuter interface {
	FanOut(ctx context.Context, period models.Period, now time.Time) (int, error)
}

func NewReminderTask(period models.Period) (*asynq.Task, error) {
	payload, err := json.Marshal(reminderPayload{Period: period})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReminderFanOut, payload), nil
}

// HandleReminderTask decodes the period and runs the fan-out. Bad payloads
// are not retried.
func HandleReminderTask(reminders FanOuter, now func() time.Time) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p reminderPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("decode %s payload: %v: %w", TaskReminderFanOut, err, asynq.SkipRetry)
		}
		if _, ok := models.ParsePeriod(string(p.Period)); !ok {
			return fmt.Errorf("unknown period %q: %w", p.Period, asynq.SkipRetry)
		}

		created, err := reminders.FanOut(ctx, p.Period, now())
		if err != nil {
			return err
		}
		logger.Debug().Str("period", string(p.Period)).Int("created", created).Msg("Reminder task done")
		return nil
	}
}

// CronSpecs maps each period to its cron expression.
func CronSpecs(cfg *config.Config) map[models.Period]string {
	return map[models.Period]string{
		models.PeriodMorning:   cfg.ReminderMorningCron,
		models.PeriodAfternoon: cfg.ReminderAfternoonCron,
		models.PeriodNight:     cfg.ReminderNightCron,
	}
}

// Runner owns the asynq scheduler and the in-process worker.
type Runner struct {
	scheduler *asynq.Scheduler
	server    *asynq.Server
	mux       *asynq.ServeMux
}

func New(cfg *config.Config, reminders FanOuter) (*Runner, error) {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	log := zerologAdapter{}

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: cfg.ReminderLocation(),
		Logger:   log,
	})
	for _, period := range models.Periods {
		spec := CronSpecs(cfg)[period]
		task, err := NewReminderTask(period)
		if err != nil {
			return nil, err
		}
		entryID, err := scheduler.Register(spec, task, asynq.Queue(queueName), asynq.Unique(uniqueWindow), asynq.MaxRetry(3))
		if err != nil {
			return nil, fmt.Errorf("register %s reminder (%s): %w", period, spec, err)
		}
		logger.Info().Str("period", string(period)).Str("cron", spec).Str("entry_id", entryID).Msg("Reminder scheduled")
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		Queues:      map[string]int{queueName: 1},
		Logger:      log,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error().Err(err).Str("task", task.Type()).Msg("Scheduled task failed")
		}),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskReminderFanOut, HandleReminderTask(reminders, time.Now))

	return &Runner{scheduler: scheduler, server: server, mux: mux}, nil
}

func (r *Runner) Start() error {
	if err := r.server.Start(r.mux); err != nil {
		return fmt.Errorf("start reminder worker: %w", err)
	}
	if err := r.scheduler.Start(); err != nil {
		r.server.Shutdown()
		return fmt.Errorf("start reminder scheduler: %w", err)
	}
	return nil
}

func (r *Runner) Shutdown() {
	r.scheduler.Shutdown()
	r.server.Shutdown()
}

// Enqueue pushes a one-off fan-out for period onto the reminder queue, to be
// picked up by a running worker.
func Enqueue(ctx context.Context, cfg *config.Config, period models.Period) (string, error) {
	task, err := NewReminderTask(period)
	if err != nil {
		return "", err
	}
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	defer client.Close()

	info, err := client.EnqueueContext(ctx, task, asynq.Queue(queueName), asynq.MaxRetry(3))
	if err != nil {
		return "", fmt.Errorf("enqueue %s reminder: %w", period, err)
	}
	return info.ID, nil
}
