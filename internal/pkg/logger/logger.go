package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger defines the interface for logging messages.
type Logger interface {
	Error(msg string, err error)
	Warn(msg string)
	Info(msg string)
	Debug(msg string)
}

type zeroLogger struct {
	zl zerolog.Logger
}

// New creates a console logger writing to stdout at the given level
// (trace, debug, info, warn, error). Unknown levels fall back to info.
func New(level string) Logger {
	return NewWithWriter(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}, level)
}

// NewWithWriter creates a logger writing to w. Used by tests and for JSON output.
func NewWithWriter(w io.Writer, level string) Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zl := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return &zeroLogger{zl: zl}
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &zeroLogger{zl: zerolog.Nop()}
}

// Error logs an error message together with the cause, if any.
func (l *zeroLogger) Error(msg string, err error) {
	ev := l.zl.Error()
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg(msg)
}

func (l *zeroLogger) Warn(msg string) {
	l.zl.Warn().Msg(msg)
}

func (l *zeroLogger) Info(msg string) {
	l.zl.Info().Msg(msg)
}

func (l *zeroLogger) Debug(msg string) {
	l.zl.Debug().Msg(msg)
}
