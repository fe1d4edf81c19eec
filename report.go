package dumpchat

import (
	"time"
	"unicode/utf8"
)

// Diagnostic report schema identity.
const (
	DiagnosticsSchemaName    = "chat-export-diagnostics"
	DiagnosticsSchemaVersion = "1.0.0"
)

// Sample sizes of the diagnostic report.
const (
	SampleCount         = 4
	SamplePreviewLength = 240
)

// DiagnosticReport is the machine-readable verdict of one verification run.
// Its JSON encoding is a stable, versioned format.
type DiagnosticReport struct {
	Schema      ReportSchema     `json:"schema"`
	GeneratedAt string           `json:"generatedAt"`
	Site        Site             `json:"site"`
	URL         string           `json:"url"`
	Path        string           `json:"path"`
	Selectors   ReportSelectors  `json:"selectors"`
	Counts      ReportCounts     `json:"counts"`
	Extraction  ReportExtraction `json:"extraction"`
	Health      Health           `json:"health"`
	Samples     ReportSamples    `json:"samples"`
	Issues      []string         `json:"issues"`
}

// ReportSchema names the report format.
type ReportSchema struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ReportSelectors echoes the selectors the run used.
type ReportSelectors struct {
	UserMessageSelector      string `json:"userMessageSelector"`
	AssistantMessageSelector string `json:"assistantMessageSelector"`
	CopyButtonSelector       string `json:"copyButtonSelector"`
	EditButtonSelector       string `json:"editButtonSelector"`
	MessageGroupSelector     string `json:"messageGroupSelector"`
}

// NewReportSelectors picks the reported selectors out of cfg.
func NewReportSelectors(cfg *SiteConfig) ReportSelectors {
	return ReportSelectors{
		UserMessageSelector:      cfg.UserMessageSelector,
		AssistantMessageSelector: cfg.AssistantMessageSelector,
		CopyButtonSelector:       cfg.CopyButtonSelector,
		EditButtonSelector:       cfg.EditButtonSelector,
		MessageGroupSelector:     cfg.MessageGroupSelector,
	}
}

// ReportCounts are raw element counts found on the page.
type ReportCounts struct {
	UserNodes          int `json:"userNodes"`
	AssistantNodes     int `json:"assistantNodes"`
	CopyButtonsTotal   int `json:"copyButtonsTotal"`
	CopyButtonsVisible int `json:"copyButtonsVisible"`
}

// ReportExtraction summarizes what the extraction produced.
type ReportExtraction struct {
	Title               string     `json:"title"`
	UsersExtracted      int        `json:"usersExtracted"`
	AssistantsExtracted int        `json:"assistantsExtracted"`
	AssistantsNonEmpty  int        `json:"assistantsNonEmpty"`
	AssistantDebug      Provenance `json:"assistantDebug"`
}

// ReportSamples holds previews of the first messages of each role.
type ReportSamples struct {
	Users      []Sample `json:"users"`
	Assistants []Sample `json:"assistants"`
}

// Sample previews one extracted message.
type Sample struct {
	Index   int    `json:"index"`
	Length  int    `json:"length"`
	Preview string `json:"preview"`
}

// NewSamples previews the first SampleCount values. The result is never nil.
func NewSamples(values []string) []Sample {
	n := min(len(values), SampleCount)
	samples := make([]Sample, 0, n)
	for i, v := range values[:n] {
		samples = append(samples, Sample{
			Index:   i,
			Length:  utf8.RuneCountInString(v),
			Preview: Truncate(v, SamplePreviewLength),
		})
	}
	return samples
}

// NewDiagnosticReport assembles a report from an export and the element
// counts observed on the page, deriving issues and health.
func NewDiagnosticReport(data *ExportData, cfg *SiteConfig, path string, counts ReportCounts, generatedAt time.Time) *DiagnosticReport {
	nonEmpty := 0
	for _, a := range data.Assistants {
		if NormalizeText(a) != "" {
			nonEmpty++
		}
	}
	issues := DetectIssues(counts, nonEmpty, data.Provenance)

	return &DiagnosticReport{
		Schema:      ReportSchema{Name: DiagnosticsSchemaName, Version: DiagnosticsSchemaVersion},
		GeneratedAt: FormatTimestamp(generatedAt),
		Site:        data.Site,
		URL:         data.URL,
		Path:        path,
		Selectors:   NewReportSelectors(cfg),
		Counts:      counts,
		Extraction: ReportExtraction{
			Title:               data.Title,
			UsersExtracted:      len(data.Users),
			AssistantsExtracted: len(data.Assistants),
			AssistantsNonEmpty:  nonEmpty,
			AssistantDebug:      data.Provenance,
		},
		Health: DeriveHealth(HealthInput{
			Issues:              issues,
			AssistantNodes:      counts.AssistantNodes,
			UsersExtracted:      len(data.Users),
			AssistantsExtracted: len(data.Assistants),
			Provenance:          data.Provenance,
		}),
		Samples: ReportSamples{
			Users:      NewSamples(data.Users),
			Assistants: NewSamples(data.Assistants),
		},
		Issues: issues,
	}
}
