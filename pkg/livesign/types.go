package livesign

import (
	"time"
)

// Result is the outcome of a single signing call.
type Result struct {
	Signature string `json:"signature"` // Lowercase hex, empty on fault
	Timestamp int64  `json:"timestamp"` // Unix seconds
	Random    string `json:"random"`    // 15 character base-36 nonce
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Logger is an optional interface for logging.
type Logger interface {
	// Debugf logs a debug message with format and arguments.
	Debugf(format string, args ...interface{})
	// Errorf logs an error message with format and arguments.
	Errorf(format string, args ...interface{})
}

// Config holds generator configuration. Every field is optional.
type Config struct {
	Clock   Clock       // Defaults to the wall clock
	Random  TokenSource // Defaults to a crypto/rand backed source
	Logger  Logger      // Optional: diagnostic logging
	OnFault func(error) // Optional: called once per recovered fault
}
