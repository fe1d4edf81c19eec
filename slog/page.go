package slog

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fwojciec/dumpchat"
)

// Ensure LoggingPage implements dumpchat.Page.
var _ dumpchat.Page = (*LoggingPage)(nil)

// LoggingPage wraps a Page with debug logging of clipboard interception.
// Every other method is the wrapped page's.
type LoggingPage struct {
	dumpchat.Page
	logger *slog.Logger
}

// NewLoggingPage creates a new LoggingPage.
func NewLoggingPage(next dumpchat.Page, logger *slog.Logger) *LoggingPage {
	return &LoggingPage{Page: next, logger: logger}
}

// Intercept logs the start of interception, each capture's length and the
// restore with the number of captures seen.
func (p *LoggingPage) Intercept(ctx context.Context, onCapture dumpchat.CaptureFunc) (func() error, error) {
	begin := time.Now()
	var captures atomic.Int64

	stop, err := p.Page.Intercept(ctx, func(text string) {
		captures.Add(1)
		p.logger.Debug("clipboard capture", "length", len(text))
		onCapture(text)
	})
	p.logger.Debug("clipboard intercept", "err", err)
	if err != nil {
		return nil, err
	}

	return func() (err error) {
		defer func() {
			p.logger.Debug("clipboard restore",
				"captures", captures.Load(),
				"duration", time.Since(begin),
				"err", err,
			)
		}()
		return stop()
	}, nil
}
