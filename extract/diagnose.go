package extract

import (
	"context"
	"fmt"

	"github.com/fwojciec/dumpchat"
)

// Diagnose runs a full extraction on page and reports how each selector and
// extraction path performed. Unlike Export, an empty extraction is not an
// error: it is reported with ERROR health.
func (e *Extractor) Diagnose(ctx context.Context, page dumpchat.Page, site dumpchat.Site) (*dumpchat.DiagnosticReport, error) {
	if !e.busy.TryAcquire(1) {
		return nil, errBusy()
	}
	defer e.busy.Release(1)

	data, err := e.collect(ctx, page, site)
	if err != nil {
		return nil, err
	}
	cfg, err := e.siteConfig(site)
	if err != nil {
		return nil, err
	}
	counts, err := e.countNodes(ctx, page, site, cfg)
	if err != nil {
		return nil, err
	}
	path, err := pagePath(ctx, page)
	if err != nil {
		return nil, err
	}
	return dumpchat.NewDiagnosticReport(data, cfg, path, counts, e.now()), nil
}

// countNodes counts the message nodes and copy controls the active engine
// sees on page.
func (e *Extractor) countNodes(ctx context.Context, page dumpchat.Page, site dumpchat.Site, cfg *dumpchat.SiteConfig) (dumpchat.ReportCounts, error) {
	var counts dumpchat.ReportCounts

	users, err := visibleUserNodes(ctx, page, cfg)
	if err != nil {
		return counts, fmt.Errorf("counting user messages: %w", err)
	}
	counts.UserNodes = len(users)

	assistants, err := page.QueryAll(ctx, cfg.AssistantMessageSelector)
	if err != nil {
		return counts, fmt.Errorf("counting assistant messages: %w", err)
	}
	counts.AssistantNodes = len(assistants)

	var controls []dumpchat.Element
	if s := e.strategy(site, cfg); s != nil {
		controls, err = s.CopyControls(ctx, page)
	} else {
		controls, err = page.QueryAll(ctx, cfg.CopyButtonSelector)
	}
	if err != nil {
		return counts, fmt.Errorf("counting copy controls: %w", err)
	}
	controls = unique(controls)
	counts.CopyButtonsTotal = len(controls)

	shown, err := visibleOnly(ctx, controls)
	if err != nil {
		return counts, err
	}
	counts.CopyButtonsVisible = len(shown)
	return counts, nil
}
