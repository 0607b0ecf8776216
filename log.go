package redis

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	defaultLogger     *logrus.Logger
	defaultLoggerOnce sync.Once
)

// DefaultLogger returns the package-wide fallback logger used by any
// Engine/Pool constructed without an explicit Config.Logger. It logs at
// warn level to stderr until a caller reconfigures it.
func DefaultLogger() *logrus.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLogger = logrus.New()
		defaultLogger.SetOutput(os.Stderr)
		defaultLogger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
		defaultLogger.SetLevel(logrus.WarnLevel)
	})
	return defaultLogger
}

// loggerOrDefault returns l, or DefaultLogger() when l is nil.
func loggerOrDefault(l *logrus.Logger) *logrus.Logger {
	if l != nil {
		return l
	}
	return DefaultLogger()
}
