package rod

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/fwojciec/dumpchat"
	"github.com/go-rod/rod"
)

// Ensure Element implements dumpchat.Element at compile time.
var _ dumpchat.Element = (*Element)(nil)

// Interactions are dispatched as DOM events rather than input-device
// emulation: copy and edit controls are often hover-revealed or scrolled
// out of view, and the sites only listen for the events.
const (
	hoverJS = `() => {
	for (const type of ["pointerover", "mouseover", "mouseenter", "pointermove", "mousemove"]) {
		this.dispatchEvent(new MouseEvent(type, {bubbles: type !== "mouseenter", cancelable: true, view: window}));
	}
}`
	clickJS       = `() => this.click()`
	elementEscJS  = `() => this.dispatchEvent(new KeyboardEvent("keydown", {key: "Escape", code: "Escape", keyCode: 27, bubbles: true, cancelable: true}))`
	innerTextJS   = `() => this.innerText || this.textContent || ""`
	closestJS     = `(selector) => this.closest(selector)`
	visibleJS     = `() => !!(this.offsetParent || this.getClientRects().length)`
	stringValueJS = `() => this.value == null ? "" : String(this.value)`
)

// Element is a node in a live tab.
type Element struct {
	el  *rod.Element
	key string
}

// newElement wraps el, identifying it by its backend node id, which stays
// the same for every handle to the same node.
func newElement(ctx context.Context, el *rod.Element) (*Element, error) {
	node, err := el.Context(ctx).Describe(0, false)
	if err != nil {
		return nil, fmt.Errorf("describing element: %w", err)
	}
	return &Element{el: el, key: strconv.Itoa(int(node.BackendNodeID))}, nil
}

func newElements(ctx context.Context, els rod.Elements) ([]dumpchat.Element, error) {
	out := make([]dumpchat.Element, 0, len(els))
	for _, el := range els {
		e, err := newElement(ctx, el)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func (e *Element) Key() string {
	return e.key
}

func (e *Element) Query(ctx context.Context, selector string) (dumpchat.Element, error) {
	ok, el, err := e.el.Context(ctx).Has(selector)
	if err != nil {
		return nil, queryError(selector, err)
	}
	if !ok {
		return nil, nil
	}
	return newElement(ctx, el)
}

func (e *Element) QueryAll(ctx context.Context, selector string) ([]dumpchat.Element, error) {
	els, err := e.el.Context(ctx).Elements(selector)
	if err != nil {
		return nil, queryError(selector, err)
	}
	return newElements(ctx, els)
}

func (e *Element) Closest(ctx context.Context, selector string) (dumpchat.Element, error) {
	el, err := e.el.Context(ctx).ElementByJS(rod.Eval(closestJS, selector))
	if errors.As(err, new(*rod.ElementNotFoundError)) {
		return nil, nil
	}
	if err != nil {
		return nil, queryError(selector, err)
	}
	return newElement(ctx, el)
}

func (e *Element) Matches(ctx context.Context, selector string) (bool, error) {
	ok, err := e.el.Context(ctx).Matches(selector)
	if err != nil {
		return false, queryError(selector, err)
	}
	return ok, nil
}

func (e *Element) Attr(ctx context.Context, name string) (string, error) {
	v, err := e.el.Context(ctx).Attribute(name)
	if err != nil {
		return "", fmt.Errorf("reading attribute %s: %w", name, err)
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.evalString(ctx, innerTextJS)
}

func (e *Element) Value(ctx context.Context) (string, error) {
	return e.evalString(ctx, stringValueJS)
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	res, err := e.el.Context(ctx).Eval(visibleJS)
	if err != nil {
		return false, err
	}
	return res.Value.Bool(), nil
}

func (e *Element) Hover(ctx context.Context) error {
	_, err := e.el.Context(ctx).Eval(hoverJS)
	return err
}

func (e *Element) Click(ctx context.Context) error {
	_, err := e.el.Context(ctx).Eval(clickJS)
	return err
}

func (e *Element) PressEscape(ctx context.Context) error {
	_, err := e.el.Context(ctx).Eval(elementEscJS)
	return err
}

func (e *Element) evalString(ctx context.Context, js string) (string, error) {
	res, err := e.el.Context(ctx).Eval(js)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}
