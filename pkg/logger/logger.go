package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// SimpleHandler implements slog.Handler for common log format:
//
//	2006-01-02 15:04:05 [LEVEL] message key=value ...
type SimpleHandler struct {
	Output io.Writer
	Level  slog.Level

	mu     *sync.Mutex
	attrs  []slog.Attr
	prefix string
}

// New creates a handler whose derived handlers share one write lock.
func New(w io.Writer, level slog.Level) *SimpleHandler {
	return &SimpleHandler{Output: w, Level: level, mu: &sync.Mutex{}}
}

func (h *SimpleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.Level
}

func (h *SimpleHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Time.Format("2006-01-02 15:04:05"))
	sb.WriteString(" [")
	sb.WriteString(levelName(r.Level))
	sb.WriteString("] ")
	sb.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&sb, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, h.prefix, a)
		return true
	})
	sb.WriteByte('\n')

	if h.mu != nil {
		h.mu.Lock()
		defer h.mu.Unlock()
	}
	_, err := io.WriteString(h.Output, sb.String())
	return err
}

// WithAttrs returns a handler that prepends attrs to every record.
func (h *SimpleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	nh := h.clone()
	for _, a := range attrs {
		if h.prefix != "" {
			a.Key = h.prefix + a.Key
		}
		nh.attrs = append(nh.attrs, a)
	}
	return nh
}

// WithGroup qualifies subsequent attribute keys with name.
func (h *SimpleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := h.clone()
	nh.prefix = h.prefix + name + "."
	return nh
}

func (h *SimpleHandler) clone() *SimpleHandler {
	mu := h.mu
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &SimpleHandler{
		Output: h.Output,
		Level:  h.Level,
		mu:     mu,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		prefix: h.prefix,
	}
}

func writeAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(sb, prefix+a.Key+".", ga)
		}
		return
	}
	fmt.Fprintf(sb, " %s%s=%v", prefix, a.Key, a.Value)
}

func levelName(l slog.Level) string {
	if l == LevelNotice {
		return "NOTICE"
	}
	return l.String()
}
