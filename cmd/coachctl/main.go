// Command coachctl runs one-off operational tasks against the database.
package main

import (
	"os"

	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Error().Err(err).Msg("coachctl failed")
		os.Exit(1)
	}
}
