package scheduler

import "github.com/riskibarqy/matchday-catalog/internal/platform/logging"

// cronLogger routes robfig/cron output into the service logger. Routine cron
// chatter goes to debug.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	args := make([]any, 0, len(keysAndValues)+2)
	args = append(args, "error", err)
	args = append(args, keysAndValues...)
	l.logger.Error("cron: "+msg, args...)
}
