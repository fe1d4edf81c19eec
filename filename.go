package dumpchat

import (
	"regexp"
	"strings"
	"time"
)

// TimestampLayout is the ISO 8601 UTC form used in exports and reports.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp formats t as a UTC ISO 8601 timestamp with milliseconds.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FilenameTimestamp formats t for use inside a filename: milliseconds are
// dropped and colons become dashes.
func FilenameTimestamp(t time.Time) string {
	return strings.ReplaceAll(t.UTC().Format("2006-01-02T15:04:05Z"), ":", "-")
}

var (
	filenameUnsafe = regexp.MustCompile(`[^a-z0-9\s_-]`)
	filenameSpace  = regexp.MustCompile(`\s+`)
	filenameDashes = regexp.MustCompile(`-+`)
	filenameEdges  = regexp.MustCompile(`^[-_]+|[-_]+$`)
)

// SanitizeFilename reduces a title to a lowercase, dash-separated filename
// stem. Returns "conversation-export" when nothing usable remains.
func SanitizeFilename(title string) string {
	s := filenameUnsafe.ReplaceAllString(strings.ToLower(title), "")
	s = filenameSpace.ReplaceAllString(s, "-")
	s = filenameDashes.ReplaceAllString(s, "-")
	s = filenameEdges.ReplaceAllString(s, "")
	if s == "" {
		return "conversation-export"
	}
	return s
}

// ExportFilename names the Markdown file of an export.
func ExportFilename(data *ExportData) string {
	return SanitizeFilename(data.Title) + "-" + FilenameTimestamp(data.ExportedAt) + ".md"
}

// DiagnosticsFilename names the JSON file of a diagnostic report.
func DiagnosticsFilename(site Site, generatedAt time.Time) string {
	return DiagnosticsSchemaName + "-" + string(site) + "-" + FilenameTimestamp(generatedAt) + ".json"
}
