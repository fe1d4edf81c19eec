package dumpchat

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// navigationLabels are sidebar and header labels that look like headings
// but never name a conversation.
var navigationLabels = map[string]bool{
	"chatgpt":       true,
	"new chat":      true,
	"search chats":  true,
	"library":       true,
	"apps":          true,
	"deep research": true,
	"gpts":          true,
	"projects":      true,
	"codex":         true,
}

// IsLikelyTitle reports whether a candidate heading plausibly names the
// conversation rather than a navigation element.
func IsLikelyTitle(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	if utf8.RuneCountInString(lower) < 3 {
		return false
	}
	return !navigationLabels[lower]
}

// StripTitleBrand removes a "<title> - <brand>" or "<brand> | <title>"
// decoration from a document title. It returns "" when nothing but the
// brand remains.
func StripTitleBrand(title, brand string) string {
	title = strings.TrimSpace(title)
	if brand == "" {
		return title
	}
	quoted := regexp.QuoteMeta(brand)
	suffix := regexp.MustCompile(`(?i)\s*[-|]\s*` + quoted + `$`)
	prefix := regexp.MustCompile(`(?i)^` + quoted + `\s*[-|]\s*`)

	title = suffix.ReplaceAllString(title, "")
	title = strings.TrimSpace(prefix.ReplaceAllString(title, ""))
	if title == "" || strings.EqualFold(title, brand) {
		return ""
	}
	return title
}

// DefaultTitle is the title used when no heuristic yields one.
func DefaultTitle(site Site) string {
	return fmt.Sprintf("%s conversation", site)
}
