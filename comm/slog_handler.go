package comm

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// slogHandler funnels log/slog records through comm, so structured
// logs follow the same quiet/verbose/JSON settings as everything else.
type slogHandler struct {
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

var _ slog.Handler = (*slogHandler)(nil)

// NewSlogHandler returns a slog.Handler that emits logs through comm.
func NewSlogHandler(level slog.Leveler) slog.Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &slogHandler{level: level}
}

func (h *slogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *slogHandler) Handle(_ context.Context, r slog.Record) error {
	fields := JsonMessage{}
	for _, attr := range h.attrs {
		flattenAttr(fields, h.groups, attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		flattenAttr(fields, h.groups, attr)
		return true
	})

	level := commLevel(r.Level)

	if JsonEnabled() {
		obj := JsonMessage{
			"type":    "log",
			"time":    time.Now().UTC().Unix(),
			"level":   level,
			"message": r.Message,
		}
		for k, v := range fields {
			obj[k] = v
		}
		// Bypass comm's debug filtering: if a logger is enabled at
		// debug level, its records should come through in JSON mode.
		sendJSON(obj)
		return nil
	}

	msg := r.Message
	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%v", k, fields[k])
		}
		msg = fmt.Sprintf("%s (%s)", msg, strings.Join(parts, " "))
	}
	Logl(level, msg)
	return nil
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := h.clone()
	nh.attrs = append(nh.attrs, attrs...)
	return nh
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := h.clone()
	nh.groups = append(nh.groups, name)
	return nh
}

func (h *slogHandler) clone() *slogHandler {
	return &slogHandler{
		level:  h.level,
		attrs:  append([]slog.Attr{}, h.attrs...),
		groups: append([]string{}, h.groups...),
	}
}

func flattenAttr(fields JsonMessage, groups []string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	if attr.Value.Kind() == slog.KindGroup {
		next := groups
		if attr.Key != "" {
			next = append(append([]string{}, groups...), attr.Key)
		}
		for _, ga := range attr.Value.Group() {
			flattenAttr(fields, next, ga)
		}
		return
	}

	if attr.Key == "" {
		return
	}
	key := strings.Join(append(append([]string{}, groups...), attr.Key), ".")
	fields[key] = attr.Value.Any()
}

func commLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warning"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}
