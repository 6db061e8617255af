package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var Log = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the process logger. Development gets a colored console
// writer with caller info, every other environment gets JSON lines.
func Init(env string) {
	InitWithWriter(env, os.Stdout)
}

func InitWithWriter(env string, out io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339

	switch env {
	case "test":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "development":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if env == "development" {
		Log = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}).
			With().
			Timestamp().
			Caller().
			Logger()
		return
	}

	Log = zerolog.New(out).
		With().
		Timestamp().
		Str("service", "lifestyle-coach").
		Logger()
}

// WithRequest returns a child logger tagged with the request correlation id.
func WithRequest(requestID string) zerolog.Logger {
	return Log.With().Str("request_id", requestID).Logger()
}

func Info() *zerolog.Event {
	return Log.Info()
}

func Error() *zerolog.Event {
	return Log.Error()
}

func Warn() *zerolog.Event {
	return Log.Warn()
}

func Debug() *zerolog.Event {
	return Log.Debug()
}

func Fatal() *zerolog.Event {
	return Log.Fatal()
}
