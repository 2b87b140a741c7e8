package observe

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Logger is the structured logger used by the middleware and by fetchers
// that accept one. Implementations must be safe for concurrent use and
// must never panic.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)

	// WithFetcher returns a logger that adds the fetcher.* fields of meta
	// to every entry.
	WithFetcher(meta FetcherMeta) Logger
}

// Field is a key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

// RedactedFields lists field keys whose values are replaced by
// "[REDACTED]". Keys match case-insensitively.
var RedactedFields = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"apikey",
	"authorization",
	"credential",
}

// IsRedactedField reports whether values under key must not be logged.
func IsRedactedField(key string) bool {
	for _, r := range RedactedFields {
		if strings.EqualFold(r, key) {
			return true
		}
	}
	return false
}

// LogLevel orders log entries by severity.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"debug", "info", "warn", "error"}

// ParseLogLevel parses a level name. Unknown names mean info.
func ParseLogLevel(s string) LogLevel {
	for i, name := range levelNames {
		if name == s {
			return LogLevel(i)
		}
	}
	return LevelInfo
}

func (l LogLevel) String() string {
	if l < LevelDebug || l > LevelError {
		return "info"
	}
	return levelNames[l]
}

// jsonLogger writes one JSON object per line. Loggers derived with
// WithFetcher share the sink of their parent.
type jsonLogger struct {
	level LogLevel
	sink  *sink
	base  []Field
}

type sink struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *sink) write(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.w.Write(p)
}

// NewLogger returns a JSON logger writing to stderr.
func NewLogger(level string) Logger {
	return NewLoggerWithWriter(level, os.Stderr)
}

// NewLoggerWithWriter returns a JSON logger writing to w.
func NewLoggerWithWriter(level string, w io.Writer) Logger {
	return &jsonLogger{level: ParseLogLevel(level), sink: &sink{w: w}}
}

func (l *jsonLogger) WithFetcher(meta FetcherMeta) Logger {
	base := make([]Field, 0, len(l.base)+3)
	base = append(base, l.base...)
	base = append(base, Field{Key: "fetcher.name", Value: meta.Name})
	if meta.Version != "" {
		base = append(base, Field{Key: "fetcher.version", Value: meta.Version})
	}
	if meta.Source != "" {
		base = append(base, Field{Key: "fetcher.source", Value: meta.Source})
	}
	return &jsonLogger{level: l.level, sink: l.sink, base: base}
}

func (l *jsonLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.write(ctx, LevelDebug, msg, fields)
}

func (l *jsonLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.write(ctx, LevelInfo, msg, fields)
}

func (l *jsonLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.write(ctx, LevelWarn, msg, fields)
}

func (l *jsonLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.write(ctx, LevelError, msg, fields)
}

func (l *jsonLogger) write(ctx context.Context, level LogLevel, msg string, fields []Field) {
	if level < l.level {
		return
	}

	entry := make(map[string]any, len(l.base)+len(fields)+5)
	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg

	// Entries written inside a recorded span carry its ids.
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		entry["trace_id"] = sc.TraceID().String()
		entry["span_id"] = sc.SpanID().String()
	}

	for _, f := range l.base {
		entry[f.Key] = f.Value
	}
	for _, f := range fields {
		if IsRedactedField(f.Key) {
			entry[f.Key] = "[REDACTED]"
			continue
		}
		entry[f.Key] = f.Value
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	l.sink.write(append(data, '\n'))
}

// NopLogger returns a logger that discards everything.
func NopLogger() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Info(context.Context, string, ...Field)  {}
func (nopLogger) Warn(context.Context, string, ...Field)  {}
func (nopLogger) Error(context.Context, string, ...Field) {}
func (nopLogger) Debug(context.Context, string, ...Field) {}
func (l nopLogger) WithFetcher(FetcherMeta) Logger        { return l }

var (
	_ Logger = (*jsonLogger)(nil)
	_ Logger = nopLogger{}
)
