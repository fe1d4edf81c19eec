package dumpchat

import (
	"context"
	"time"
)

// Provenance records which extraction path produced the assistant messages
// of an export. Field names are part of the diagnostic report format.
type Provenance struct {
	CopyButtonsTotal           int `json:"copyButtonsTotal"`
	CopyButtonsVisible         int `json:"copyButtonsVisible"`
	CopyButtonsAfterUserFilter int `json:"copyButtonsAfterUserFilter"`
	ClipboardCaptures          int `json:"clipboardCaptures"`
	FilteredByRoleHintCount    int `json:"filteredByRoleHintCount"`
	FallbackCount              int `json:"fallbackCount"`
	UsedFallbackCount          int `json:"usedFallbackCount"`
	FromButtonFallbackCount    int `json:"fromButtonFallbackCount"`
	FilteredAsUserMatchCount   int `json:"filteredAsUserMatchCount"`
	UserCopyReplacementsCount  int `json:"userCopyReplacementsCount"`
	EmptyCount                 int `json:"emptyCount"`
}

// Validate returns an error if the counters contradict each other.
func (p *Provenance) Validate() error {
	if p.CopyButtonsAfterUserFilter > p.CopyButtonsVisible || p.CopyButtonsVisible > p.CopyButtonsTotal {
		return Errorf(EINTERNAL, "copy control counts out of order: total=%d visible=%d afterUserFilter=%d",
			p.CopyButtonsTotal, p.CopyButtonsVisible, p.CopyButtonsAfterUserFilter)
	}
	if p.FromButtonFallbackCount > p.UsedFallbackCount {
		return Errorf(EINTERNAL, "button fallbacks (%d) exceed fallbacks (%d)",
			p.FromButtonFallbackCount, p.UsedFallbackCount)
	}
	return nil
}

// ExportData is the result of extracting one conversation.
type ExportData struct {
	Site       Site       `json:"site"`
	URL        string     `json:"url"`
	Title      string     `json:"title"`
	ExportedAt time.Time  `json:"exportedAt"`
	Users      []string   `json:"users"`
	Assistants []string   `json:"assistants"`
	Provenance Provenance `json:"assistantDebug"`
}

// Validate returns ENOTFOUND if the export holds no messages.
func (d *ExportData) Validate() error {
	if len(d.Users) == 0 && len(d.Assistants) == 0 {
		return Errorf(ENOTFOUND, "No messages found on this page")
	}
	return nil
}

// NonEmptyAssistants returns the number of assistant messages with text.
func (d *ExportData) NonEmptyAssistants() int {
	var n int
	for _, a := range d.Assistants {
		if a != "" {
			n++
		}
	}
	return n
}

// Exporter extracts conversations from pages.
type Exporter interface {
	// Export extracts the conversation on page.
	// Returns ENOTFOUND when the page holds no messages and ECONFLICT when
	// another extraction is in flight.
	Export(ctx context.Context, page Page, site Site) (*ExportData, error)

	// Diagnose extracts the conversation on page and evaluates how well
	// the site's selectors and extraction paths worked.
	Diagnose(ctx context.Context, page Page, site Site) (*DiagnosticReport, error)
}
