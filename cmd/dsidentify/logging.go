// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/invowk/dsidentify/internal/config"

	"github.com/charmbracelet/log"
)

// newLogger returns an slog.Logger backed by a charm logger writing to w.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		Prefix:    config.AppName,
		Level:     level,
		Formatter: formatterFor(cfg.LogFormat),
	})
	return slog.New(logger)
}

func formatterFor(f config.LogFormat) log.Formatter {
	switch f {
	case config.LogFormatJSON:
		return log.JSONFormatter
	case config.LogFormatLogfmt:
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
