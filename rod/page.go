package rod

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/fwojciec/dumpchat"
	"github.com/go-rod/rod"
)

// Ensure Page implements dumpchat.Page at compile time.
var _ dumpchat.Page = (*Page)(nil)

// escapeJS dispatches an Escape keydown at the focused element, as a user
// pressing the key would.
const escapeJS = `() => {
	const target = document.activeElement || document.body;
	for (const type of ["keydown", "keyup"]) {
		target.dispatchEvent(new KeyboardEvent(type, {key: "Escape", code: "Escape", keyCode: 27, bubbles: true, cancelable: true}));
	}
}`

// Page is a live Chrome tab.
type Page struct {
	page  *rod.Page
	owned bool
}

// NewPage wraps a rod page. Close closes the tab only when owned is true.
func NewPage(page *rod.Page, owned bool) *Page {
	return &Page{page: page, owned: owned}
}

// Rod returns the underlying rod page.
func (p *Page) Rod() *rod.Page {
	return p.page
}

func (p *Page) URL(ctx context.Context) (string, error) {
	info, err := p.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("reading page info: %w", err)
	}
	return info.URL, nil
}

func (p *Page) DocumentTitle(ctx context.Context) (string, error) {
	res, err := p.page.Context(ctx).Eval(`() => document.title`)
	if err != nil {
		return "", fmt.Errorf("reading document title: %w", err)
	}
	return res.Value.Str(), nil
}

func (p *Page) Query(ctx context.Context, selector string) (dumpchat.Element, error) {
	ok, el, err := p.page.Context(ctx).Has(selector)
	if err != nil {
		return nil, queryError(selector, err)
	}
	if !ok {
		return nil, nil
	}
	return newElement(ctx, el)
}

func (p *Page) QueryAll(ctx context.Context, selector string) ([]dumpchat.Element, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, queryError(selector, err)
	}
	return newElements(ctx, els)
}

func (p *Page) PressEscape(ctx context.Context) error {
	_, err := p.page.Context(ctx).Eval(escapeJS)
	return err
}

// Close closes the tab if this Page opened it.
func (p *Page) Close() error {
	if !p.owned {
		return nil
	}
	return p.page.Close()
}

// queryError keeps cancellation recognizable and labels everything else
// with the selector that failed.
func queryError(selector string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("querying %s: %w", strconv.Quote(selector), err)
}
