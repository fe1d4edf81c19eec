package goquery

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blockElements start and end on their own line in rendered text.
var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Details: true, atom.Dialog: true, atom.Dd: true, atom.Div: true,
	atom.Dl: true, atom.Dt: true, atom.Fieldset: true, atom.Figcaption: true,
	atom.Figure: true, atom.Footer: true, atom.Form: true, atom.H1: true,
	atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hgroup: true, atom.Hr: true, atom.Li: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true, atom.Pre: true,
	atom.Section: true, atom.Summary: true, atom.Table: true, atom.Tr: true,
	atom.Ul: true,
}

// innerText approximates HTMLElement.innerText for a static tree: hidden
// subtrees are skipped, whitespace collapses outside pre, block elements
// break lines and paragraphs are separated by a blank line.
func innerText(n *html.Node) string {
	w := &textWriter{}
	w.walk(n, false)
	return w.b.String()
}

// textContent concatenates every descendant text node.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

type textWriter struct {
	b       strings.Builder
	started bool
	// breaks is the number of required line breaks before the next text.
	breaks int
	space  bool
}

func (w *textWriter) requireBreaks(n int) {
	w.breaks = max(w.breaks, n)
}

func (w *textWriter) flush() {
	if w.breaks > 0 {
		if w.started {
			w.b.WriteString(strings.Repeat("\n", w.breaks))
		}
		w.breaks = 0
		w.space = false
		return
	}
	if w.space {
		w.b.WriteByte(' ')
		w.space = false
	}
}

func (w *textWriter) text(s string, pre bool) {
	if pre {
		if s == "" {
			return
		}
		w.flush()
		w.b.WriteString(s)
		w.started = true
		return
	}
	for _, r := range s {
		if collapsible(r) {
			if w.started && w.breaks == 0 {
				w.space = true
			}
			continue
		}
		w.flush()
		w.b.WriteRune(r)
		w.started = true
	}
}

func (w *textWriter) walk(n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data, pre)
		return
	case html.ElementNode:
		if hiddenNode(n) {
			return
		}
	}

	switch n.DataAtom {
	case atom.Br:
		w.breaks = 0
		w.space = false
		w.b.WriteByte('\n')
		w.started = true
		return
	case atom.Pre, atom.Textarea:
		pre = true
	}

	lines := 0
	if n.Type == html.ElementNode {
		if n.DataAtom == atom.P {
			lines = 2
		} else if blockElements[n.DataAtom] {
			lines = 1
		}
	}
	w.requireBreaks(lines)

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c, pre)
	}

	if n.DataAtom == atom.Td || n.DataAtom == atom.Th {
		if nextElementSibling(n) != nil {
			w.space = false
			w.flush()
			w.b.WriteByte('\t')
		}
	}
	w.requireBreaks(lines)
}

// collapsible reports whether r is HTML whitespace. Non-breaking spaces
// are kept.
func collapsible(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func nextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}
