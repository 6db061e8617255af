package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/config"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFanOut struct {
	periods []models.Period
	at      []time.Time
	err     error
}

func (f *fakeFanOut) FanOut(_ context.Context, period models.Period, now time.Time) (int, error) {
	f.periods = append(f.periods, period)
	f.at = append(f.at, now)
	return 1, f.err
}

func TestHandleReminderTask_RunsFanOut(t *testing.T) {
	fake := &fakeFanOut{}
	fixed := time.Date(2025, 1, 2, 13, 0, 0, 0, time.UTC)

	task, err := NewReminderTask(models.PeriodAfternoon)
	require.NoError(t, err)
	assert.Equal(t, TaskReminderFanOut, task.Type())

	err = HandleReminderTask(fake, func() time.Time { return fixed })(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, []models.Period{models.PeriodAfternoon}, fake.periods)
	assert.Equal(t, fixed, fake.at[0])
}

func TestHandleReminderTask_BadPayloadSkipsRetry(t *testing.T) {
	fake := &fakeFanOut{}
	handler := HandleReminderTask(fake, time.Now)

	err := handler(context.Background(), asynq.NewTask(TaskReminderFanOut, []byte("not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = handler(context.Background(), asynq.NewTask(TaskReminderFanOut, []byte(`{"period":"midnight"}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, fake.periods)
}

func TestHandleReminderTask_PropagatesFanOutError(t *testing.T) {
	fake := &fakeFanOut{err: errors.New("db down")}
	task, _ := NewReminderTask(models.PeriodMorning)

	err := HandleReminderTask(fake, time.Now)(context.Background(), task)
	assert.EqualError(t, err, "db down")
}

func TestCronSpecs_CoverEveryPeriod(t *testing.T) {
	cfg := &config.Config{
		ReminderMorningCron:   "0 7 * * *",
		ReminderAfternoonCron: "0 13 * * *",
		ReminderNightCron:     "0 20 * * *",
	}
	specs := CronSpecs(cfg)
	for _, p := range models.Periods {
		assert.NotEmpty(t, specs[p], p)
	}
	assert.Equal(t, "0 13 * * *", specs[models.PeriodAfternoon])
}
