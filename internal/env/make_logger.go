package env

import (
	zap "go.uber.org/zap"
)

// MakeLogger builds the CLI's logger. Output goes to stderr so it never
// interleaves with command responses on stdout; only warnings and worse are
// emitted unless debug is set.
func MakeLogger(debug bool) (*zap.Logger, error) {
	logConfig := zap.NewProductionConfig()
	logConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if debug {
		logConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logConfig.Encoding = "json"
	logConfig.OutputPaths = []string{"stderr"}
	logConfig.ErrorOutputPaths = []string{"stderr"}

	return logConfig.Build()
}
