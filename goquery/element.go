package goquery

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/dumpchat"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Element implements dumpchat.Element at compile time.
var _ dumpchat.Element = (*Element)(nil)

// Element is a single node of a Document.
type Element struct {
	doc *Document
	sel *goquery.Selection
}

func (e *Element) node() *html.Node {
	return e.sel.Get(0)
}

// Selection returns the element as a goquery selection, for listeners that
// mutate the tree.
func (e *Element) Selection() *goquery.Selection {
	return e.sel
}

func (e *Element) Key() string {
	return fmt.Sprintf("%p", e.node())
}

func (e *Element) Query(_ context.Context, selector string) (dumpchat.Element, error) {
	m, err := e.doc.matcher(selector)
	if err != nil {
		return nil, err
	}
	return asElement(e.doc.element(e.sel.FindMatcher(m))), nil
}

func (e *Element) QueryAll(_ context.Context, selector string) ([]dumpchat.Element, error) {
	m, err := e.doc.matcher(selector)
	if err != nil {
		return nil, err
	}
	return e.doc.elements(e.sel.FindMatcher(m)), nil
}

func (e *Element) Closest(_ context.Context, selector string) (dumpchat.Element, error) {
	m, err := e.doc.matcher(selector)
	if err != nil {
		return nil, err
	}
	return asElement(e.doc.element(e.sel.ClosestMatcher(m))), nil
}

func (e *Element) Matches(_ context.Context, selector string) (bool, error) {
	m, err := e.doc.matcher(selector)
	if err != nil {
		return false, err
	}
	return e.sel.IsMatcher(m), nil
}

func (e *Element) Attr(_ context.Context, name string) (string, error) {
	return e.sel.AttrOr(name, ""), nil
}

func (e *Element) Text(_ context.Context) (string, error) {
	if s := innerText(e.node()); s != "" {
		return s, nil
	}
	return textContent(e.node()), nil
}

// Value returns a textarea's text or an input's value attribute.
func (e *Element) Value(_ context.Context) (string, error) {
	n := e.node()
	switch n.DataAtom {
	case atom.Textarea:
		return strings.TrimPrefix(textContent(n), "\n"), nil
	case atom.Input:
		return e.sel.AttrOr("value", ""), nil
	}
	return "", nil
}

// SetValue replaces a textarea's text or an input's value attribute.
func (e *Element) SetValue(v string) {
	n := e.node()
	switch n.DataAtom {
	case atom.Textarea:
		e.sel.SetText(v)
	case atom.Input:
		e.sel.SetAttr("value", v)
	}
}

func (e *Element) Visible(_ context.Context) (bool, error) {
	return visible(e.node()), nil
}

func (e *Element) Hover(ctx context.Context) error {
	e.doc.dispatch(ctx, e, &Event{Type: EventMouseEnter})
	e.doc.dispatch(ctx, e, &Event{Type: EventMouseMove})
	return nil
}

func (e *Element) Click(ctx context.Context) error {
	e.doc.dispatch(ctx, e, &Event{Type: EventClick})
	return nil
}

func (e *Element) PressEscape(ctx context.Context) error {
	e.doc.dispatch(ctx, e, &Event{Type: EventKeyDown, Key: "Escape"})
	return nil
}
