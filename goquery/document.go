// Package goquery implements the page interfaces over a static HTML
// snapshot. Events are synthetic: listeners registered with On run when an
// element is clicked, hovered or sent a key, and may mutate the tree or
// write to the document's clipboard.
package goquery

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/fwojciec/dumpchat"
	"github.com/fwojciec/dumpchat/clipboard"
	"golang.org/x/net/html"
)

// Ensure Document implements dumpchat.Page at compile time.
var _ dumpchat.Page = (*Document)(nil)

// Event types dispatched by Element interactions.
const (
	EventClick      = "click"
	EventMouseEnter = "mouseenter"
	EventMouseMove  = "mousemove"
	EventKeyDown    = "keydown"
)

// Event is a synthetic DOM event.
type Event struct {
	Type string
	// Key is set for keyboard events.
	Key string
	// Target is the element the event was dispatched on.
	Target *Element
	// CurrentTarget is the element whose listener is running.
	CurrentTarget *Element
}

// Listener handles an event.
type Listener func(ctx context.Context, e *Event)

// Document is a parsed HTML page.
//
// Document is safe for concurrent use, but listeners run on the goroutine
// that dispatched the event.
type Document struct {
	doc       *goquery.Document
	url       string
	clipboard *clipboard.Host

	mu        sync.Mutex
	matchers  map[string]cascadia.Selector
	listeners map[*html.Node]map[string][]Listener
}

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithClipboard makes the document write through host instead of a private
// in-memory clipboard.
func WithClipboard(host *clipboard.Host) DocumentOption {
	return func(d *Document) {
		d.clipboard = host
	}
}

// NewDocument parses an HTML snapshot of the page at pageURL.
func NewDocument(r io.Reader, pageURL string, opts ...DocumentOption) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, dumpchat.Errorf(dumpchat.EINVALID, "failed to parse HTML: %v", err)
	}

	mem := &clipboard.Memory{}
	d := &Document{
		doc:       doc,
		url:       pageURL,
		clipboard: clipboard.NewHost(mem, mem),
		matchers:  make(map[string]cascadia.Selector),
		listeners: make(map[*html.Node]map[string][]Listener),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// NewDocumentFromString parses an HTML string.
func NewDocumentFromString(s string, pageURL string, opts ...DocumentOption) (*Document, error) {
	return NewDocument(strings.NewReader(s), pageURL, opts...)
}

// Clipboard returns the clipboard surface scripts of this document write to.
func (d *Document) Clipboard() *clipboard.Host {
	return d.clipboard
}

// Selection returns the underlying goquery document.
func (d *Document) Selection() *goquery.Selection {
	return d.doc.Selection
}

// Body returns the body element.
func (d *Document) Body() *Element {
	return d.element(d.doc.Find("body").First())
}

// On registers fn for events of type eventType on every element currently
// matching selector.
func (d *Document) On(selector, eventType string, fn Listener) error {
	m, err := d.matcher(selector)
	if err != nil {
		return err
	}
	nodes := d.doc.Selection.FindMatcher(m).Nodes

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range nodes {
		byType := d.listeners[n]
		if byType == nil {
			byType = make(map[string][]Listener)
			d.listeners[n] = byType
		}
		byType[eventType] = append(byType[eventType], fn)
	}
	return nil
}

// OnClickCopy registers a click listener on elements matching selector that
// writes text through the clipboard's plain-text binding, the way a site's
// copy button does.
func (d *Document) OnClickCopy(selector, text string) error {
	return d.On(selector, EventClick, func(ctx context.Context, _ *Event) {
		_ = d.clipboard.WriteText(ctx, text)
	})
}

// dispatch runs the listeners of the target and then of each ancestor.
func (d *Document) dispatch(ctx context.Context, target *Element, e *Event) {
	e.Target = target
	for n := target.node(); n != nil && n.Type != html.DocumentNode; n = n.Parent {
		d.mu.Lock()
		fns := append([]Listener(nil), d.listeners[n][e.Type]...)
		d.mu.Unlock()

		for _, fn := range fns {
			e.CurrentTarget = d.element(d.nodeSelection(n))
			fn(ctx, e)
		}
	}
}

// matcher compiles selector once per document.
func (d *Document) matcher(selector string) (cascadia.Selector, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if m, ok := d.matchers[selector]; ok {
		return m, nil
	}
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil, dumpchat.Errorf(dumpchat.EINVALID, "invalid selector %q: %v", selector, err)
	}
	d.matchers[selector] = m
	return m, nil
}

func (d *Document) element(s *goquery.Selection) *Element {
	if s == nil || s.Length() == 0 {
		return nil
	}
	return &Element{doc: d, sel: s.First()}
}

func (d *Document) elements(s *goquery.Selection) []dumpchat.Element {
	out := make([]dumpchat.Element, 0, s.Length())
	s.Each(func(_ int, item *goquery.Selection) {
		out = append(out, &Element{doc: d, sel: item})
	})
	return out
}

// URL returns the URL the snapshot was taken from.
func (d *Document) URL(_ context.Context) (string, error) {
	return d.url, nil
}

// DocumentTitle returns the text of the title element with whitespace
// collapsed.
func (d *Document) DocumentTitle(_ context.Context) (string, error) {
	title := d.doc.Find("title").First().Text()
	return strings.Join(strings.Fields(title), " "), nil
}

func (d *Document) Query(_ context.Context, selector string) (dumpchat.Element, error) {
	m, err := d.matcher(selector)
	if err != nil {
		return nil, err
	}
	return asElement(d.element(d.doc.Selection.FindMatcher(m))), nil
}

func (d *Document) QueryAll(_ context.Context, selector string) ([]dumpchat.Element, error) {
	m, err := d.matcher(selector)
	if err != nil {
		return nil, err
	}
	return d.elements(d.doc.Selection.FindMatcher(m)), nil
}

// PressEscape dispatches an Escape keydown on the body.
func (d *Document) PressEscape(ctx context.Context) error {
	body := d.Body()
	if body == nil {
		return nil
	}
	return body.PressEscape(ctx)
}

// Intercept hooks the document's clipboard.
func (d *Document) Intercept(_ context.Context, onCapture dumpchat.CaptureFunc) (func() error, error) {
	stop := clipboard.Intercept(d.clipboard, onCapture)
	return func() error {
		stop()
		return nil
	}, nil
}

// Close is a no-op; snapshots hold no external resources.
func (d *Document) Close() error {
	return nil
}

// HTML renders the current tree, including mutations made by listeners.
func (d *Document) HTML() (string, error) {
	s, err := d.doc.Html()
	if err != nil {
		return "", fmt.Errorf("rendering document: %w", err)
	}
	return s, nil
}

// asElement converts a possibly nil *Element into an interface value that
// is nil when nothing matched.
func asElement(e *Element) dumpchat.Element {
	if e == nil {
		return nil
	}
	return e
}

func (d *Document) nodeSelection(n *html.Node) *goquery.Selection {
	return d.doc.Selection.Slice(0, 0).AddNodes(n)
}
