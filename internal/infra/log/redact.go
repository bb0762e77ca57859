package logs

import (
	"context"
	"log/slog"
	"regexp"

	"warden/config"
)

// Redactor replaces the values of configured PII fields before they reach log
// output. There is no process-wide default; components that need redaction
// receive a Redactor built from config.
//
// It covers both shapes a field can take in a log record: a structured attr
// (key/value) and a "field=value" pair inside a separator-joined message.
type Redactor struct {
	fields      map[string]struct{}
	replacement string
	patterns    []*regexp.Regexp
}

// NewRedactor builds a Redactor from the redaction config.
func NewRedactor(cfg *config.RedactionConfig) *Redactor {
	fields := make(map[string]struct{}, len(cfg.Fields))
	patterns := make([]*regexp.Regexp, 0, len(cfg.Fields))
	for _, field := range cfg.Fields {
		fields[field] = struct{}{}
		patterns = append(patterns, regexp.MustCompile(
			regexp.QuoteMeta(field)+`=[^`+regexp.QuoteMeta(cfg.Separator)+`]*`,
		))
	}

	return &Redactor{
		fields:      fields,
		replacement: cfg.Replacement,
		patterns:    patterns,
	}
}

// RedactMessage obfuscates "field=value" pairs in a separator-joined message,
// replacing each configured field's value with the replacement string.
func (r *Redactor) RedactMessage(message string) string {
	for _, pattern := range r.patterns {
		message = pattern.ReplaceAllStringFunc(message, func(match string) string {
			for j := range match {
				if match[j] == '=' {
					return match[:j+1] + r.replacement
				}
			}

			return match
		})
	}

	return message
}

// redactAttr replaces the value of an attr whose key is a configured field.
// Group attrs are walked recursively.
func (r *Redactor) redactAttr(attr slog.Attr) slog.Attr {
	if attr.Value.Kind() == slog.KindGroup {
		group := attr.Value.Group()
		redacted := make([]slog.Attr, len(group))
		for i, nested := range group {
			redacted[i] = r.redactAttr(nested)
		}

		return slog.Attr{Key: attr.Key, Value: slog.GroupValue(redacted...)}
	}

	if _, ok := r.fields[attr.Key]; ok {
		return slog.String(attr.Key, r.replacement)
	}

	return attr
}

// Handler wraps a slog.Handler so every record passing through it is redacted.
func (r *Redactor) Handler(next slog.Handler) slog.Handler {
	return &redactingHandler{redactor: r, next: next}
}

// redactingHandler is the slog.Handler middleware produced by Redactor.Handler.
type redactingHandler struct {
	redactor *Redactor
	next     slog.Handler
}

func (h *redactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactingHandler) Handle(ctx context.Context, record slog.Record) error {
	clean := slog.NewRecord(record.Time, record.Level, h.redactor.RedactMessage(record.Message), record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		clean.AddAttrs(h.redactor.redactAttr(attr))

		return true
	})

	return h.next.Handle(ctx, clean)
}

func (h *redactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		redacted[i] = h.redactor.redactAttr(attr)
	}

	return &redactingHandler{redactor: h.redactor, next: h.next.WithAttrs(redacted)}
}

func (h *redactingHandler) WithGroup(name string) slog.Handler {
	return &redactingHandler{redactor: h.redactor, next: h.next.WithGroup(name)}
}
