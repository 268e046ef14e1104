package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const logFileName = "datadict.log"

// eventLogger writes navigation events as NDJSON lines tagged with the
// session id. A nil *eventLogger discards everything.
type eventLogger struct {
	log       zerolog.Logger
	sessionID string
	closer    io.Closer
}

func newEventLogger(w io.Writer, level zerolog.Level) *eventLogger {
	sessionID := uuid.NewString()
	logger := zerolog.New(w).Level(level).With().
		Timestamp().
		Str("session_id", sessionID).
		Logger()
	return &eventLogger{log: logger, sessionID: sessionID}
}

// openEventLogger appends to datadict.log in the config directory. When the
// file cannot be opened the logger falls back to discarding output.
func openEventLogger(dir string, level zerolog.Level) *eventLogger {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newEventLogger(io.Discard, level)
	}
	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return newEventLogger(io.Discard, level)
	}
	l := newEventLogger(f, level)
	l.closer = f
	return l
}

func nopEventLogger() *eventLogger {
	return &eventLogger{log: zerolog.Nop()}
}

// Emit records one event. Fields are attached as strings.
func (l *eventLogger) Emit(event string, fields map[string]string) {
	if l == nil || strings.TrimSpace(event) == "" {
		return
	}
	e := l.log.Info().Str("event", event)
	for k, v := range fields {
		e = e.Str(k, v)
	}
	e.Send()
}

func (l *eventLogger) Warn(msg string, fields map[string]string) {
	if l == nil {
		return
	}
	e := l.log.Warn()
	for k, v := range fields {
		e = e.Str(k, v)
	}
	e.Msg(msg)
}

func (l *eventLogger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// newConsoleLogger is the stderr logger used by the non-interactive
// subcommands.
func newConsoleLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func parseLogLevel(value string) zerolog.Level {
	value = strings.TrimSpace(value)
	if value == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(value))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
