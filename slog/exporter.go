// Package slog provides logging decorators for the dumpchat interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/dumpchat"
)

// Ensure LoggingExporter implements dumpchat.Exporter.
var _ dumpchat.Exporter = (*LoggingExporter)(nil)

// LoggingExporter wraps an Exporter with one log line per run.
type LoggingExporter struct {
	next   dumpchat.Exporter
	logger *slog.Logger
}

// NewLoggingExporter creates a new LoggingExporter.
func NewLoggingExporter(next dumpchat.Exporter, logger *slog.Logger) *LoggingExporter {
	return &LoggingExporter{next: next, logger: logger}
}

// Export delegates to the wrapped exporter and logs what it produced.
func (e *LoggingExporter) Export(ctx context.Context, page dumpchat.Page, site dumpchat.Site) (data *dumpchat.ExportData, err error) {
	defer func(begin time.Time) {
		attrs := []any{"site", site}
		if data != nil {
			attrs = append(attrs,
				"users", len(data.Users),
				"assistants", len(data.Assistants),
				"captures", data.Provenance.ClipboardCaptures,
				"fallbacks", data.Provenance.UsedFallbackCount,
			)
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		e.logger.Info("export", attrs...)
	}(time.Now())
	return e.next.Export(ctx, page, site)
}

// Diagnose delegates to the wrapped exporter and logs the verdict.
func (e *LoggingExporter) Diagnose(ctx context.Context, page dumpchat.Page, site dumpchat.Site) (report *dumpchat.DiagnosticReport, err error) {
	defer func(begin time.Time) {
		attrs := []any{"site", site}
		if report != nil {
			attrs = append(attrs,
				"health", report.Health.Level,
				"issues", len(report.Issues),
			)
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		e.logger.Info("diagnose", attrs...)
	}(time.Now())
	return e.next.Diagnose(ctx, page, site)
}
