package extract

import (
	"context"
	"strings"

	"github.com/fwojciec/dumpchat"
)

// querier is the query surface shared by pages and elements.
type querier interface {
	Query(ctx context.Context, selector string) (dumpchat.Element, error)
	QueryAll(ctx context.Context, selector string) ([]dumpchat.Element, error)
}

// readText returns the normalized rendered text of el, or "" for nil.
func readText(ctx context.Context, el dumpchat.Element) (string, error) {
	if el == nil {
		return "", nil
	}
	s, err := el.Text(ctx)
	if err != nil {
		return "", err
	}
	return dumpchat.NormalizeText(s), nil
}

// readAttr returns the normalized value of attribute name.
func readAttr(ctx context.Context, el dumpchat.Element, name string) (string, error) {
	s, err := el.Attr(ctx, name)
	if err != nil {
		return "", err
	}
	return dumpchat.NormalizeText(s), nil
}

// queryText returns the normalized text of the first match of selector
// under q.
func queryText(ctx context.Context, q querier, selector string) (string, error) {
	el, err := q.Query(ctx, selector)
	if err != nil {
		return "", err
	}
	return readText(ctx, el)
}

// unique drops repeated nodes, keeping first occurrences.
func unique(els []dumpchat.Element) []dumpchat.Element {
	seen := make(map[string]bool, len(els))
	out := els[:0:0]
	for _, el := range els {
		if el == nil || seen[el.Key()] {
			continue
		}
		seen[el.Key()] = true
		out = append(out, el)
	}
	return out
}

// visibleOnly keeps the elements that have a layout box.
func visibleOnly(ctx context.Context, els []dumpchat.Element) ([]dumpchat.Element, error) {
	out := make([]dumpchat.Element, 0, len(els))
	for _, el := range els {
		ok, err := el.Visible(ctx)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, el)
		}
	}
	return out, nil
}

// has reports whether q contains a match for selector.
func has(ctx context.Context, q querier, selector string) (bool, error) {
	el, err := q.Query(ctx, selector)
	if err != nil {
		return false, err
	}
	return el != nil, nil
}

// escapeAttributeValue escapes s for use inside a double-quoted attribute
// selector.
func escapeAttributeValue(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func countEmpty(values []string) int {
	var n int
	for _, v := range values {
		if v == "" {
			n++
		}
	}
	return n
}
