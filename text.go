package dumpchat

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeText converts CRLF line endings to LF and trims surrounding
// whitespace.
func NormalizeText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
}

// space matches what browsers treat as whitespace in text: ASCII
// whitespace, Unicode separators such as the no-break space, and the BOM.
const space = `[\s\x0B\p{Z}\x{FEFF}]`

var (
	quotePrefix   = regexp.MustCompile(`^` + space + `*>` + space + `?`)
	speakerPrefix = regexp.MustCompile(`(?i)^(user|human)` + space + `*:` + space + `*`)
	whitespaceRun = regexp.MustCompile(space + `+`)
	chromeLabel   = regexp.MustCompile(`(?i)^(Copy|Edit|Retry|Regenerate|Share|Like|Dislike|Thumbs up|Thumbs down)$`)
)

var quotePairs = [][2]string{
	{`"`, `"`},
	{`'`, `'`},
	{"“", "”"},
}

// Canonicalize reduces text to a form in which a user's message and a
// quotation of it compare equal: quote markers, empty lines and a leading
// speaker label are dropped, whitespace collapses to single spaces, case is
// folded and one pair of wrapping quotes is removed.
func Canonicalize(s string) string {
	lines := strings.Split(NormalizeText(s), "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimFunc(quotePrefix.ReplaceAllString(line, ""), isSpace)
		if line != "" {
			kept = append(kept, line)
		}
	}

	out := strings.Join(kept, "\n")
	out = speakerPrefix.ReplaceAllString(out, "")
	out = whitespaceRun.ReplaceAllString(out, " ")
	out = strings.TrimSpace(strings.ToLower(out))

	for _, q := range quotePairs {
		if strings.HasPrefix(out, q[0]) && strings.HasSuffix(out, q[1]) {
			if len(out) < len(q[0])+len(q[1]) {
				return ""
			}
			return strings.TrimSpace(out[len(q[0]) : len(out)-len(q[1])])
		}
	}
	return out
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// StripChromeLabels removes lines that consist solely of a UI action label
// (Copy, Edit, Retry and the like) left behind by scraping a message
// container.
func StripChromeLabels(s string) string {
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if chromeLabel.MatchString(strings.TrimSpace(line)) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// Truncate returns the first n code points of s.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
