// SPDX-License-Identifier: MPL-2.0

package app

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/bfw-systems/bfw/internal/config"
)

type (
	// Reporter renders a failure to the user. It never exits the process.
	Reporter interface {
		Report(err error)
	}

	// ReporterFunc adapts a function to Reporter.
	ReporterFunc func(err error)

	// LogReporter writes failures to a logger at error level.
	LogReporter struct {
		Logger *log.Logger
	}
)

// Report calls f(err).
func (f ReporterFunc) Report(err error) { f(err) }

// Report logs err.
func (r LogReporter) Report(err error) {
	r.Logger.Error("application failed", "err", err)
}

// NewLogger builds the framework logger for the log configuration. Unknown
// levels keep the info level.
func NewLogger(w io.Writer, lc config.LogConfig) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := log.NewWithOptions(w, log.Options{Prefix: config.AppName})

	if level, err := log.ParseLevel(lc.Level.String()); err == nil {
		logger.SetLevel(level)
	}
	switch lc.Format {
	case config.LogFormatJSON:
		logger.SetFormatter(log.JSONFormatter)
	case config.LogFormatLogfmt:
		logger.SetFormatter(log.LogfmtFormatter)
	default:
		logger.SetFormatter(log.TextFormatter)
	}
	return logger
}
