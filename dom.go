package dumpchat

import "context"

// Element is a node of a rendered page. Implementations may be backed by a
// live browser, so every method takes a context and may fail.
//
// Query and Closest return a nil Element and a nil error when nothing
// matches. Selector strings use CSS syntax and may be comma groups.
type Element interface {
	// Key identifies the underlying node. Two Elements with equal keys
	// refer to the same node.
	Key() string

	Query(ctx context.Context, selector string) (Element, error)
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	// Closest returns the element itself or its nearest ancestor matching
	// selector.
	Closest(ctx context.Context, selector string) (Element, error)
	Matches(ctx context.Context, selector string) (bool, error)

	// Attr returns the attribute value, or "" when absent.
	Attr(ctx context.Context, name string) (string, error)
	// Text returns the rendered text (innerText), falling back to the raw
	// text content when the rendered text is empty.
	Text(ctx context.Context) (string, error)
	// Value returns the current value of a form control.
	Value(ctx context.Context) (string, error)
	// Visible reports whether the element has a layout box.
	Visible(ctx context.Context) (bool, error)

	// Hover dispatches pointer-enter and pointer-move events so
	// hover-revealed controls render.
	Hover(ctx context.Context) error
	// Click activates the element.
	Click(ctx context.Context) error
	// PressEscape dispatches an Escape keydown on the element.
	PressEscape(ctx context.Context) error
}

// Page is a rendered conversation page.
type Page interface {
	ClipboardInterceptor

	// URL returns the current location of the page.
	URL(ctx context.Context) (string, error)
	// DocumentTitle returns the page's document title.
	DocumentTitle(ctx context.Context) (string, error)

	Query(ctx context.Context, selector string) (Element, error)
	QueryAll(ctx context.Context, selector string) ([]Element, error)

	// PressEscape dispatches an Escape keydown on the document body.
	PressEscape(ctx context.Context) error

	// Close releases resources held by the page.
	Close() error
}

// Browser opens live pages.
type Browser interface {
	// OpenPage navigates a new page to url and waits for it to load.
	OpenPage(ctx context.Context, url string) (Page, error)

	// Close releases browser resources.
	Close() error
}

// CaptureFunc receives text the page wrote to the clipboard.
type CaptureFunc func(text string)

// ClipboardInterceptor observes clipboard writes made by the page.
type ClipboardInterceptor interface {
	// Intercept installs capture hooks on every clipboard write channel of
	// the page and delivers non-empty captured text to onCapture. The
	// page's own clipboard behavior keeps working; failures of the
	// underlying write are swallowed. The returned stop function restores
	// the original channels and must be called exactly once.
	Intercept(ctx context.Context, onCapture CaptureFunc) (stop func() error, err error)
}

// MIMETextPlain is the clipboard item type carrying plain text.
const MIMETextPlain = "text/plain"

// ClipboardItem is one rich clipboard item with one or more representations.
type ClipboardItem interface {
	Types() []string
	GetType(ctx context.Context, mimeType string) (string, error)
}

// TextWriter is the plain-text clipboard write channel.
type TextWriter interface {
	WriteText(ctx context.Context, text string) error
}

// ItemWriter is the rich clipboard write channel.
type ItemWriter interface {
	Write(ctx context.Context, items []ClipboardItem) error
}
