// Package cli implements the shadowboard command-line interface.
//
// The commands share one pipeline runner per invocation, built from the
// TOML config (see --config) and the configured artifact cache.
//
// # Commands
//
//   - generate: render a template and write PNG, HTML or PDF files
//   - print: render a print document and open it in the browser
//   - tile: show how a template splits across Letter pages
//   - form: interactive terminal form with a live preview summary
//   - serve: run the HTTP form and template endpoints
//   - cache: clear the artifact cache or print its location
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels on context.Context; at debug level the observability hooks log
// pipeline, cache and HTTP events as well.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered 5x3 template (41ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
