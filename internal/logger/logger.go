package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init builds the zap logger for the given environment and installs it as the
// process-wide logger (zap.L()).
func Init(environment string) error {
	var (
		l   *zap.Logger
		err error
	)

	if environment == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("zap.New -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}
