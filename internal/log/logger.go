package log

import (
	"context"
	"io"
	"log/slog"
)

// Logger is a structured logger on top of slog.Logger that writes JSON
// records.
type Logger struct {
	slogger *slog.Logger
	level   *slog.LevelVar
}

// NewLogger creates a Logger that writes to writer at info level. The writer
// is typically os.Stderr so that it does not mix with query output.
func NewLogger(writer io.Writer) Logger {
	level := &slog.LevelVar{}
	slogger := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{Level: level}))
	return Logger{
		slogger: slogger,
		level:   level,
	}
}

// SetDebug toggles debug records on or off.
func (l *Logger) SetDebug(on bool) {
	if on {
		l.level.Set(slog.LevelDebug)
		return
	}
	l.level.Set(slog.LevelInfo)
}

func (l *Logger) log(level slog.Level, msg string, args []any) {
	l.slogger.Log(context.Background(), level, msg, args...)
}

// Info logs a structured info message with the first KV, if any.
func (l *Logger) Info(msg string, keyVals ...KV) {
	l.log(slog.LevelInfo, msg, kvToArgs(keyVals...))
}

// InfoNs logs a structured info message. The namespace is written as the
// first key-value pair so records of different parts can be told apart.
func (l *Logger) InfoNs(namespace string, msg string, keyVals ...KV) {
	l.log(slog.LevelInfo, msg, kvToArgsNs(namespace, keyVals...))
}

// Debug logs a structured debug message.
func (l *Logger) Debug(msg string, keyVals ...KV) {
	l.log(slog.LevelDebug, msg, kvToArgs(keyVals...))
}

// DebugNs logs a structured debug message with a namespace.
func (l *Logger) DebugNs(namespace string, msg string, keyVals ...KV) {
	l.log(slog.LevelDebug, msg, kvToArgsNs(namespace, keyVals...))
}

// Warn logs a structured warning message.
func (l *Logger) Warn(msg string, keyVals ...KV) {
	l.log(slog.LevelWarn, msg, kvToArgs(keyVals...))
}

// WarnNs logs a structured warning message with a namespace.
func (l *Logger) WarnNs(namespace string, msg string, keyVals ...KV) {
	l.log(slog.LevelWarn, msg, kvToArgsNs(namespace, keyVals...))
}

// Error logs a structured error message.
func (l *Logger) Error(msg string, keyVals ...KV) {
	l.log(slog.LevelError, msg, kvToArgs(keyVals...))
}

// ErrorNs logs a structured error message with a namespace.
func (l *Logger) ErrorNs(namespace string, msg string, keyVals ...KV) {
	l.log(slog.LevelError, msg, kvToArgsNs(namespace, keyVals...))
}
