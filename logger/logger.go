package logger

import (
	"go.uber.org/zap"
)

// Log is a no-op until Init runs, so library code can log
// unconditionally.
var Log = zap.NewNop().Sugar()

// Init builds the process-wide sugared logger. development=true switches
// to the human-readable console encoder for local play testing.
func Init(development bool) {
	var (
		logger *zap.Logger
		err    error
	)
	if development {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	Log = logger.Sugar()
}
