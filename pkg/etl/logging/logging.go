// package logging
//
// builds the zerolog handle handed to every pipeline component. There is
// no package level logger, callers own the handle for the process lifetime
package logging

import (
	"io"
	"time"

	"github.com/baderkha/trip-etl/pkg/etl/config"
	"github.com/rs/zerolog"
)

// Level : maps a config level onto zerolog. CRITICAL only filters, nothing
// in the pipeline logs at fatal
func Level(l config.LogLevel) zerolog.Level {
	switch l {
	case config.LevelDebug:
		return zerolog.DebugLevel
	case config.LevelWarning:
		return zerolog.WarnLevel
	case config.LevelError:
		return zerolog.ErrorLevel
	case config.LevelCritical:
		return zerolog.FatalLevel
	}
	return zerolog.InfoLevel
}

// New : human readable timestamped logger
func New(w io.Writer, l config.LogLevel) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime, NoColor: true}).
		Level(Level(l)).
		With().
		Timestamp().
		Str("logger", "etl_pipeline").
		Logger()
}

// NewJSON : same as New but one json object per line
func NewJSON(w io.Writer, l config.LogLevel) zerolog.Logger {
	return zerolog.New(w).
		Level(Level(l)).
		With().
		Timestamp().
		Str("logger", "etl_pipeline").
		Logger()
}

// Component : child logger tagged with the component name
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
