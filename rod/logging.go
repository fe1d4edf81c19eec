package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/dumpchat"
)

// Ensure LoggingBrowser implements dumpchat.Browser.
var _ dumpchat.Browser = (*LoggingBrowser)(nil)

// LoggingBrowser wraps a Browser with logging of page loads.
type LoggingBrowser struct {
	next   dumpchat.Browser
	logger *slog.Logger
}

// NewLoggingBrowser creates a new LoggingBrowser.
func NewLoggingBrowser(next dumpchat.Browser, logger *slog.Logger) *LoggingBrowser {
	return &LoggingBrowser{next: next, logger: logger}
}

// OpenPage logs the URL being opened and delegates to the wrapped browser.
func (b *LoggingBrowser) OpenPage(ctx context.Context, url string) (page dumpchat.Page, err error) {
	defer func(begin time.Time) {
		b.logger.Info("open page",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.OpenPage(ctx, url)
}

// Close delegates to the wrapped browser.
func (b *LoggingBrowser) Close() error {
	return b.next.Close()
}
