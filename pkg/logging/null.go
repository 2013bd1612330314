package logging

import "context"

// NullLogger drops every record. It is the logger used when logging is off
// and the fallback for components constructed without one.
type NullLogger struct{}

// NewNullLogger creates a new null logger
func NewNullLogger() NullLogger {
	return NullLogger{}
}

// OrNull returns l, or a NullLogger when l is nil
func OrNull(l Logger) Logger {
	if l == nil {
		return NullLogger{}
	}
	return l
}

func (NullLogger) Debug(context.Context, string, Fields) {}

func (NullLogger) Info(context.Context, string, Fields) {}

func (NullLogger) Warn(context.Context, string, Fields) {}

func (NullLogger) Error(context.Context, string, error, Fields) {}

func (l NullLogger) WithFields(Fields) Logger { return l }

func (NullLogger) Close() error { return nil }
