package config

import (
	"fmt"
	"strings"
)

// LogLevel : verbosity accepted in LOG_LEVEL
type LogLevel string

const (
	LevelDebug    LogLevel = "DEBUG"
	LevelInfo     LogLevel = "INFO"
	LevelWarning  LogLevel = "WARNING"
	LevelError    LogLevel = "ERROR"
	LevelCritical LogLevel = "CRITICAL"
)

// LogLevels : every accepted level, most verbose first
var LogLevels = []LogLevel{LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical}

// ParseLogLevel : case insensitive, empty means INFO
func ParseLogLevel(s string) (LogLevel, error) {
	if s == "" {
		return LevelInfo, nil
	}
	want := LogLevel(strings.ToUpper(s))
	for _, l := range LogLevels {
		if l == want {
			return l, nil
		}
	}
	return "", fmt.Errorf("invalid log level: %s. Must be one of %v", s, LogLevels)
}
