package mock

import (
	"context"

	"github.com/fwojciec/dumpchat"
)

// Compile-time interface verification.
var (
	_ dumpchat.Page    = (*Page)(nil)
	_ dumpchat.Element = (*Element)(nil)
	_ dumpchat.Browser = (*Browser)(nil)
)

// Page is a mock implementation of dumpchat.Page.
type Page struct {
	URLFn           func(ctx context.Context) (string, error)
	DocumentTitleFn func(ctx context.Context) (string, error)
	QueryFn         func(ctx context.Context, selector string) (dumpchat.Element, error)
	QueryAllFn      func(ctx context.Context, selector string) ([]dumpchat.Element, error)
	PressEscapeFn   func(ctx context.Context) error
	InterceptFn     func(ctx context.Context, onCapture dumpchat.CaptureFunc) (func() error, error)
	CloseFn         func() error
}

func (p *Page) URL(ctx context.Context) (string, error) {
	return p.URLFn(ctx)
}

func (p *Page) DocumentTitle(ctx context.Context) (string, error) {
	return p.DocumentTitleFn(ctx)
}

func (p *Page) Query(ctx context.Context, selector string) (dumpchat.Element, error) {
	return p.QueryFn(ctx, selector)
}

func (p *Page) QueryAll(ctx context.Context, selector string) ([]dumpchat.Element, error) {
	return p.QueryAllFn(ctx, selector)
}

func (p *Page) PressEscape(ctx context.Context) error {
	return p.PressEscapeFn(ctx)
}

func (p *Page) Intercept(ctx context.Context, onCapture dumpchat.CaptureFunc) (func() error, error) {
	return p.InterceptFn(ctx, onCapture)
}

func (p *Page) Close() error {
	return p.CloseFn()
}

// Element is a mock implementation of dumpchat.Element.
type Element struct {
	KeyFn         func() string
	QueryFn       func(ctx context.Context, selector string) (dumpchat.Element, error)
	QueryAllFn    func(ctx context.Context, selector string) ([]dumpchat.Element, error)
	ClosestFn     func(ctx context.Context, selector string) (dumpchat.Element, error)
	MatchesFn     func(ctx context.Context, selector string) (bool, error)
	AttrFn        func(ctx context.Context, name string) (string, error)
	TextFn        func(ctx context.Context) (string, error)
	ValueFn       func(ctx context.Context) (string, error)
	VisibleFn     func(ctx context.Context) (bool, error)
	HoverFn       func(ctx context.Context) error
	ClickFn       func(ctx context.Context) error
	PressEscapeFn func(ctx context.Context) error
}

func (e *Element) Key() string {
	return e.KeyFn()
}

func (e *Element) Query(ctx context.Context, selector string) (dumpchat.Element, error) {
	return e.QueryFn(ctx, selector)
}

func (e *Element) QueryAll(ctx context.Context, selector string) ([]dumpchat.Element, error) {
	return e.QueryAllFn(ctx, selector)
}

func (e *Element) Closest(ctx context.Context, selector string) (dumpchat.Element, error) {
	return e.ClosestFn(ctx, selector)
}

func (e *Element) Matches(ctx context.Context, selector string) (bool, error) {
	return e.MatchesFn(ctx, selector)
}

func (e *Element) Attr(ctx context.Context, name string) (string, error) {
	return e.AttrFn(ctx, name)
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.TextFn(ctx)
}

func (e *Element) Value(ctx context.Context) (string, error) {
	return e.ValueFn(ctx)
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	return e.VisibleFn(ctx)
}

func (e *Element) Hover(ctx context.Context) error {
	return e.HoverFn(ctx)
}

func (e *Element) Click(ctx context.Context) error {
	return e.ClickFn(ctx)
}

func (e *Element) PressEscape(ctx context.Context) error {
	return e.PressEscapeFn(ctx)
}

// Browser is a mock implementation of dumpchat.Browser.
type Browser struct {
	OpenPageFn func(ctx context.Context, url string) (dumpchat.Page, error)
	CloseFn    func() error
}

func (b *Browser) OpenPage(ctx context.Context, url string) (dumpchat.Page, error) {
	return b.OpenPageFn(ctx, url)
}

func (b *Browser) Close() error {
	return b.CloseFn()
}
