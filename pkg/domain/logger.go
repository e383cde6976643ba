package domain

import "log"

// Logger is the minimal leveled logging surface injected into engine
// components. Implementations must be safe for concurrent use.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NopLogger discards all log output.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Warn(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}

// StdLogger writes leveled lines through the standard library logger.
type StdLogger struct{}

func (StdLogger) Debug(msg string, args ...any) { logf("DEBUG", msg, args) }
func (StdLogger) Info(msg string, args ...any)  { logf("INFO", msg, args) }
func (StdLogger) Warn(msg string, args ...any)  { logf("WARN", msg, args) }
func (StdLogger) Error(msg string, args ...any) { logf("ERROR", msg, args) }

func logf(level, msg string, args []any) {
	if len(args) == 0 {
		log.Printf("%s %s", level, msg)
		return
	}
	log.Printf("%s %s %v", level, msg, args)
}
