package scheduler

import (
	"fmt"

	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/logger"
)

// zerologAdapter routes asynq's internal logging into the process logger.
type zerologAdapter struct{}

func (zerologAdapter) Debug(args ...interface{}) {
	logger.Debug().Str("component", "asynq").Msg(fmt.Sprint(args...))
}

func (zerologAdapter) Info(args ...interface{}) {
	logger.Info().Str("component", "asynq").Msg(fmt.Sprint(args...))
}

func (zerologAdapter) Warn(args ...interface{}) {
	logger.Warn().Str("component", "asynq").Msg(fmt.Sprint(args...))
}

func (zerologAdapter) Error(args ...interface{}) {
	logger.Error().Str("component", "asynq").Msg(fmt.Sprint(args...))
}

func (zerologAdapter) Fatal(args ...interface{}) {
	logger.Fatal().Str("component", "asynq").Msg(fmt.Sprint(args...))
}
