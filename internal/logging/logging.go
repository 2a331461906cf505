package logging

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

const (
	JSON = "json"
	Text = "text"
	Tint = "tint"
)

// Formats lists the accepted log formats.
var Formats = []string{Tint, Text, JSON}

// New builds a logger writing to w in the given format and level.
func New(w io.Writer, format string, levelName string) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return nil, fmt.Errorf("could not parse log level: %w", err)
	}

	opts := slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch format {
	case JSON:
		handler = slog.NewJSONHandler(w, &opts)
	case Text:
		handler = slog.NewTextHandler(w, &opts)
	case Tint:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      opts.Level,
			TimeFormat: "15:04:05",
		})
	default:
		return nil, fmt.Errorf("unknown logging type: %s", format)
	}
	return slog.New(handler), nil
}

// Initialize installs a logger built by New as the slog default.
func Initialize(w io.Writer, format string, levelName string) error {
	logger, err := New(w, format, levelName)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	slog.Debug("logging initialized", "format", format, "level", levelName)
	return nil
}
