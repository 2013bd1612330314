package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// sink is the shared, lock-protected destination of a logger family
type sink struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// StreamLogger writes one line per record to an io.Writer
type StreamLogger struct {
	sink   *sink
	format Format
	level  Level
	fields Fields
	now    func() time.Time
}

// NewStreamLogger creates a logger writing to w.
// If w is an io.Closer it is closed by Close.
func NewStreamLogger(w io.Writer, format Format, level Level) *StreamLogger {
	s := &sink{w: w}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return &StreamLogger{
		sink:   s,
		format: format,
		level:  level,
		now:    time.Now,
	}
}

func (l *StreamLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.log(DebugLevel, msg, nil, fields)
}

func (l *StreamLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.log(InfoLevel, msg, nil, fields)
}

func (l *StreamLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.log(WarnLevel, msg, nil, fields)
}

func (l *StreamLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.log(ErrorLevel, msg, err, fields)
}

// WithFields returns a logger sharing the same destination with extra fields
func (l *StreamLogger) WithFields(fields Fields) Logger {
	return &StreamLogger{
		sink:   l.sink,
		format: l.format,
		level:  l.level,
		fields: mergeFields(l.fields, fields),
		now:    l.now,
	}
}

// Close closes the underlying writer when it is closable
func (l *StreamLogger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.closer != nil {
		err := l.sink.closer.Close()
		l.sink.closer = nil
		return err
	}
	return nil
}

func (l *StreamLogger) log(level Level, msg string, err error, fields Fields) {
	if level < l.level {
		return
	}

	all := mergeFields(l.fields, fields)

	var line []byte
	if l.format == FormatJSON {
		var encErr error
		line, encErr = l.formatJSON(level, msg, err, all)
		if encErr != nil {
			return
		}
	} else {
		line = l.formatText(level, msg, err, all)
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.w.Write(line)
}

func (l *StreamLogger) formatJSON(level Level, msg string, err error, fields Fields) ([]byte, error) {
	record := make(map[string]interface{}, len(fields)+4)
	for k, v := range fields {
		record[k] = v
	}
	record["timestamp"] = l.now().UTC().Format(time.RFC3339)
	record["level"] = level.String()
	record["message"] = msg
	if err != nil {
		record["error"] = err.Error()
	}

	data, jsonErr := json.Marshal(record)
	if jsonErr != nil {
		return nil, jsonErr
	}
	return append(data, '\n'), nil
}

func (l *StreamLogger) formatText(level Level, msg string, err error, fields Fields) []byte {
	var b strings.Builder
	b.WriteString(l.now().UTC().Format("2006-01-02T15:04:05.000Z"))
	fmt.Fprintf(&b, " [%s] %s", level, msg)

	if err != nil {
		fmt.Fprintf(&b, " error=%q", err.Error())
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}

	b.WriteByte('\n')
	return []byte(b.String())
}
