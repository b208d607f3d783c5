package env

import (
	zap "go.uber.org/zap"
)

// MakeLogger builds the process logger. Logs go to stderr so they never
// interleave with the operator's protocol output on stdout.
func MakeLogger() (*zap.Logger, error) {
	logConfig := zap.NewProductionConfig()
	logConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	logConfig.Encoding = "json"
	logConfig.OutputPaths = []string{"stderr"}
	logConfig.ErrorOutputPaths = []string{"stderr"}

	return logConfig.Build()
}
