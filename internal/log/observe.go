package log

import (
	"context"

	"github.com/apex/log"

	"github.com/jonwraymond/breedfetch/observe"
)

// Logger adapts an apex/log logger to observe.Logger so library and CLI
// output share one stream.
type Logger struct {
	entry log.Interface
}

// NewLogger wraps l. Nil means the apex/log package logger.
func NewLogger(l log.Interface) *Logger {
	if l == nil {
		l = log.Log
	}
	return &Logger{entry: l}
}

func (l *Logger) Info(_ context.Context, msg string, fields ...observe.Field) {
	l.with(fields).Info(msg)
}

func (l *Logger) Warn(_ context.Context, msg string, fields ...observe.Field) {
	l.with(fields).Warn(msg)
}

func (l *Logger) Error(_ context.Context, msg string, fields ...observe.Field) {
	l.with(fields).Error(msg)
}

func (l *Logger) Debug(_ context.Context, msg string, fields ...observe.Field) {
	l.with(fields).Debug(msg)
}

// WithFetcher returns a logger carrying the fetcher fields on every entry.
func (l *Logger) WithFetcher(meta observe.FetcherMeta) observe.Logger {
	fields := log.Fields{"fetcher.name": meta.Name}
	if meta.Version != "" {
		fields["fetcher.version"] = meta.Version
	}
	if meta.Source != "" {
		fields["fetcher.source"] = meta.Source
	}
	return &Logger{entry: l.entry.WithFields(fields)}
}

func (l *Logger) with(fields []observe.Field) log.Interface {
	if len(fields) == 0 {
		return l.entry
	}
	f := make(log.Fields, len(fields))
	for _, field := range fields {
		if observe.IsRedactedField(field.Key) {
			f[field.Key] = "[REDACTED]"
			continue
		}
		f[field.Key] = field.Value
	}
	return l.entry.WithFields(f)
}

var _ observe.Logger = (*Logger)(nil)
