package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// newLogger returns a slog logger writing to w. level is one of debug, info,
// warn or error and format is text or json.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, err
		}
	default:
		return nil, &ExitError{Code: 2, Message: fmt.Sprintf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", level)}
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, &ExitError{Code: 2, Message: fmt.Sprintf("invalid log-format %q: must be 'text' or 'json'", format)}
}
