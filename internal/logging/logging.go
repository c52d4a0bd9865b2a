package logging

import (
	"fmt"
	"strings"
	"sync"

	"github.com/pion/logging"
)

var (
	loggerFactory = logging.NewDefaultLoggerFactory()

	mu      sync.Mutex
	loggers []logging.LeveledLogger
)

func NewLogger(scope string) logging.LeveledLogger {
	l := loggerFactory.NewLogger(scope)

	mu.Lock()
	loggers = append(loggers, l)
	mu.Unlock()
	return l
}

// ParseLevel converts a level name such as "debug" to a logging.LogLevel.
func ParseLevel(name string) (logging.LogLevel, error) {
	switch strings.ToLower(name) {
	case "disable", "disabled", "off":
		return logging.LogLevelDisabled, nil
	case "error":
		return logging.LogLevelError, nil
	case "warn", "warning":
		return logging.LogLevelWarn, nil
	case "info":
		return logging.LogLevelInfo, nil
	case "debug":
		return logging.LogLevelDebug, nil
	case "trace":
		return logging.LogLevelTrace, nil
	}
	return logging.LogLevelDisabled, fmt.Errorf("logging: unknown level %q", name)
}

// SetLevel changes the level of every logger created so far and of the
// loggers created afterwards.
func SetLevel(level logging.LogLevel) {
	mu.Lock()
	defer mu.Unlock()

	loggerFactory.DefaultLogLevel = level
	for _, l := range loggers {
		if s, ok := l.(interface{ SetLevel(logging.LogLevel) }); ok {
			s.SetLevel(level)
		}
	}
}
