package dumpchat

import (
	"fmt"
	"regexp"
	"strings"
)

// MarkdownOptions controls FormatMarkdown.
type MarkdownOptions struct {
	// Fenced wraps each turn body in a markdown code fence longer than any
	// backtick run inside it.
	Fenced bool
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"<", "&lt;",
	">", "&gt;",
)

var backtickRun = regexp.MustCompile("`+")

// FormatMarkdown renders an export as a Markdown document with XML-style
// turn markers. User and assistant messages are interleaved pairwise; the
// i-th pair shares turn number i+1. Returns ENOTFOUND if data holds no
// messages.
func FormatMarkdown(data *ExportData, opts MarkdownOptions) (string, error) {
	if err := data.Validate(); err != nil {
		return "", err
	}

	turns := max(len(data.Users), len(data.Assistants))
	chunks := make([]string, 0, 2*turns)
	for i := range turns {
		if i < len(data.Users) && data.Users[i] != "" {
			chunks = append(chunks, formatTurn(i+1, RoleUser, data.Users[i], data.URL, opts))
		}
		if i < len(data.Assistants) && data.Assistants[i] != "" {
			chunks = append(chunks, formatTurn(i+1, RoleAssistant, data.Assistants[i], data.URL, opts))
		}
	}

	format := "XML-style turn markers with raw markdown bodies"
	if opts.Fenced {
		format = "XML-style turn markers with fenced markdown bodies"
	}

	lines := []string{
		"# " + data.Title,
		"",
		"- Source: " + string(data.Site),
		"- URL: " + data.URL,
		"- Exported: " + FormatTimestamp(data.ExportedAt),
		"- Format: " + format,
		"",
		strings.Join(chunks, "\n\n"),
	}
	return strings.Join(lines, "\n"), nil
}

func formatTurn(n int, role Role, content, sourceURL string, opts MarkdownOptions) string {
	opening := fmt.Sprintf(`<turn index="%03d" role="%s" url="%s">`, n, role, attrEscaper.Replace(sourceURL))
	body := NormalizeText(content)
	if opts.Fenced {
		fence := Fence(body)
		body = fence + "markdown\n" + body + "\n" + fence
	}
	return strings.Join([]string{opening, body, "</turn>"}, "\n\n")
}

// Fence returns a backtick fence that cannot be closed by content.
func Fence(content string) string {
	longest := 2
	for _, run := range backtickRun.FindAllString(content, -1) {
		longest = max(longest, len(run))
	}
	return strings.Repeat("`", max(3, longest+1))
}
