// Package extract reconciles clipboard captures, DOM reads and role hints
// into an ordered conversation export.
package extract

import (
	"context"
	"time"

	"github.com/fwojciec/dumpchat"
	"golang.org/x/sync/semaphore"
)

// Ensure Extractor implements dumpchat.Exporter at compile time.
var _ dumpchat.Exporter = (*Extractor)(nil)

// Mode selects the extraction engine.
type Mode string

// Extraction engines.
const (
	// ModeTurns discovers turns first and triggers each turn's own copy
	// control. Sites without a built-in strategy use ModeBatch.
	ModeTurns Mode = "turns"
	// ModeBatch triggers every visible copy control on the page and
	// reconciles captures against user messages afterwards.
	ModeBatch Mode = "batch"
)

// Timing bounds the waits of an extraction.
type Timing struct {
	// CaptureTimeout bounds the wait for one turn's capture.
	CaptureTimeout time.Duration
	// PollInterval is the capture poll cadence of the turn engine.
	PollInterval time.Duration
	// BatchClickDelay separates consecutive clicks of the batch engine.
	BatchClickDelay time.Duration
	// BatchTimeout bounds the shared wait for all batch captures.
	BatchTimeout time.Duration
	// BatchPollInterval is the capture poll cadence of the batch engine.
	BatchPollInterval time.Duration
	// EditOpen is the wait for an editor to appear after clicking edit.
	EditOpen time.Duration
	// EditClose is the wait after dismissing an editor.
	EditClose time.Duration
}

// DefaultTiming returns the waits tuned against the live sites.
func DefaultTiming() Timing {
	return Timing{
		CaptureTimeout:    900 * time.Millisecond,
		PollInterval:      60 * time.Millisecond,
		BatchClickDelay:   220 * time.Millisecond,
		BatchTimeout:      3000 * time.Millisecond,
		BatchPollInterval: 100 * time.Millisecond,
		EditOpen:          120 * time.Millisecond,
		EditClose:         80 * time.Millisecond,
	}
}

// Extractor runs extractions. At most one extraction runs at a time; a
// concurrent request fails with ECONFLICT rather than queueing.
//
// Extractor is safe for concurrent use.
type Extractor struct {
	sites  map[dumpchat.Site]dumpchat.SiteConfig
	mode   Mode
	timing Timing
	now    func() time.Time
	busy   *semaphore.Weighted
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSites replaces the built-in site configurations.
func WithSites(sites map[dumpchat.Site]dumpchat.SiteConfig) Option {
	return func(e *Extractor) {
		e.sites = sites
	}
}

// WithMode selects the extraction engine. Defaults to ModeTurns.
func WithMode(m Mode) Option {
	return func(e *Extractor) {
		e.mode = m
	}
}

// WithTiming overrides the default waits.
func WithTiming(t Timing) Option {
	return func(e *Extractor) {
		e.timing = t
	}
}

// WithClock sets the time source used for export timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		sites:  dumpchat.DefaultSiteConfigs(),
		mode:   ModeTurns,
		timing: DefaultTiming(),
		now:    time.Now,
		busy:   semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export extracts the conversation on page.
// Returns ENOTFOUND when neither user nor assistant messages were found.
func (e *Extractor) Export(ctx context.Context, page dumpchat.Page, site dumpchat.Site) (*dumpchat.ExportData, error) {
	if !e.busy.TryAcquire(1) {
		return nil, errBusy()
	}
	defer e.busy.Release(1)

	data, err := e.collect(ctx, page, site)
	if err != nil {
		return nil, err
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return data, nil
}

func errBusy() error {
	return dumpchat.Errorf(dumpchat.ECONFLICT, "extraction already in progress")
}

// result is what an engine produces.
type result struct {
	users      []string
	assistants []string
	provenance dumpchat.Provenance
}

// collect runs the engine for site. An export without messages is not an
// error here; contradictory provenance counters are.
func (e *Extractor) collect(ctx context.Context, page dumpchat.Page, site dumpchat.Site) (*dumpchat.ExportData, error) {
	cfg, err := e.siteConfig(site)
	if err != nil {
		return nil, err
	}

	pageURL, err := page.URL(ctx)
	if err != nil {
		return nil, err
	}

	var (
		res   *result
		title string
	)
	if s := e.strategy(site, cfg); s != nil {
		if res, err = e.collectTurns(ctx, page, cfg, s); err != nil {
			return nil, err
		}
		title, err = s.ResolveTitle(ctx, page)
	} else {
		if res, err = e.collectBatch(ctx, page, cfg); err != nil {
			return nil, err
		}
		title, err = ResolveTitle(ctx, page, cfg)
	}
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = dumpchat.DefaultTitle(site)
	}
	if err := res.provenance.Validate(); err != nil {
		return nil, err
	}

	return &dumpchat.ExportData{
		Site:       site,
		URL:        pageURL,
		Title:      title,
		ExportedAt: e.now(),
		Users:      res.users,
		Assistants: res.assistants,
		Provenance: res.provenance,
	}, nil
}

func (e *Extractor) siteConfig(site dumpchat.Site) (*dumpchat.SiteConfig, error) {
	cfg, ok := e.sites[site]
	if !ok {
		return nil, dumpchat.Errorf(dumpchat.ENOTFOUND, "unsupported site: %s", site)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// strategy returns the turn strategy for site, or nil when the batch engine
// must run.
func (e *Extractor) strategy(site dumpchat.Site, cfg *dumpchat.SiteConfig) Strategy {
	if e.mode == ModeBatch || cfg.TurnSelector == "" {
		return nil
	}
	return NewStrategy(site, *cfg)
}
