package mock

import (
	"context"

	"github.com/fwojciec/dumpchat"
)

var _ dumpchat.Exporter = (*Exporter)(nil)

// Exporter is a mock implementation of dumpchat.Exporter.
type Exporter struct {
	ExportFn   func(ctx context.Context, page dumpchat.Page, site dumpchat.Site) (*dumpchat.ExportData, error)
	DiagnoseFn func(ctx context.Context, page dumpchat.Page, site dumpchat.Site) (*dumpchat.DiagnosticReport, error)
}

func (e *Exporter) Export(ctx context.Context, page dumpchat.Page, site dumpchat.Site) (*dumpchat.ExportData, error) {
	return e.ExportFn(ctx, page, site)
}

func (e *Exporter) Diagnose(ctx context.Context, page dumpchat.Page, site dumpchat.Site) (*dumpchat.DiagnosticReport, error) {
	return e.DiagnoseFn(ctx, page, site)
}
