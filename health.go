package dumpchat

// HealthLevel grades how reliably an extraction worked.
type HealthLevel string

// Health levels. Gray means no verdict has been computed yet.
const (
	HealthGray   HealthLevel = "gray"
	HealthGreen  HealthLevel = "green"
	HealthYellow HealthLevel = "yellow"
	HealthRed    HealthLevel = "red"
)

// Label returns the badge text shown for the level.
func (l HealthLevel) Label() string {
	switch l {
	case HealthGreen:
		return "HEALTHY"
	case HealthYellow:
		return "WARNING"
	case HealthRed:
		return "ERROR"
	default:
		return "PENDING"
	}
}

// Health is a level with a one-line summary.
type Health struct {
	Level   HealthLevel `json:"level"`
	Summary string      `json:"summary"`
}

// Structural issues reported by DetectIssues.
const (
	IssueEmptyAssistants   = "Assistant nodes exist, but extracted assistant messages were empty."
	IssueNoVisibleCopy     = "Assistant nodes exist, but no visible copy buttons matched current selector."
	IssueNoContentFromCopy = "Copy buttons were found, but clipboard interception and fallback extraction both returned no content."
)

// DetectIssues checks the page counts against what the extraction produced.
// The result is never nil.
func DetectIssues(counts ReportCounts, assistantsNonEmpty int, p Provenance) []string {
	issues := []string{}
	if counts.AssistantNodes > 0 && assistantsNonEmpty == 0 {
		issues = append(issues, IssueEmptyAssistants)
	}
	if counts.AssistantNodes > 0 && counts.CopyButtonsVisible == 0 {
		issues = append(issues, IssueNoVisibleCopy)
	}
	if counts.CopyButtonsVisible > 0 && p.ClipboardCaptures == 0 && p.FallbackCount == 0 {
		issues = append(issues, IssueNoContentFromCopy)
	}
	return issues
}

// HealthInput is everything DeriveHealth looks at.
type HealthInput struct {
	Issues              []string
	AssistantNodes      int
	UsersExtracted      int
	AssistantsExtracted int
	Provenance          Provenance
}

// DeriveHealth grades an extraction. The first matching rule wins:
// missing content is red, any fallback use is yellow, and a page without
// assistant nodes is green only if captures covered every assistant
// message.
func DeriveHealth(in HealthInput) Health {
	if len(in.Issues) > 0 || in.UsersExtracted == 0 || in.AssistantsExtracted == 0 {
		return Health{Level: HealthRed, Summary: "missing required content"}
	}

	if in.Provenance.FromButtonFallbackCount > 0 || in.Provenance.UsedFallbackCount > 0 {
		return Health{Level: HealthYellow, Summary: "working with fallback paths"}
	}

	if in.AssistantNodes == 0 {
		if in.Provenance.ClipboardCaptures >= in.AssistantsExtracted {
			return Health{Level: HealthGreen, Summary: "copy-path checks passed"}
		}
		return Health{Level: HealthYellow, Summary: "assistant selectors unavailable"}
	}

	return Health{Level: HealthGreen, Summary: "all primary checks passed"}
}
