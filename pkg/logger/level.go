package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// LevelNotice sits between info and warn.
const LevelNotice = slog.Level(2)

// ParseLevel maps a config string to a slog level. Unknown values return
// LevelInfo together with an error.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "notice":
		return LevelNotice, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
}
