package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwojciec/dumpchat"
)

// Run executes the verify command. It prints the health badge of the
// extraction and saves the diagnostic report next to exports.
func (c *VerifyCmd) Run(deps *Dependencies) error {
	path, report, err := c.verify(deps)
	if err != nil {
		fmt.Fprintf(deps.Stdout, "Export %s: verification failed\n", dumpchat.HealthRed.Label())
		fmt.Fprintf(deps.Stderr, "error: %s\n", dumpchat.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Export %s: %s\n", report.Health.Level.Label(), report.Health.Summary)
	for _, issue := range report.Issues {
		fmt.Fprintf(deps.Stdout, "  - %s\n", issue)
	}
	fmt.Fprintf(deps.Stdout, "Saved %s\n", path)
	return nil
}

func (c *VerifyCmd) verify(deps *Dependencies) (string, *dumpchat.DiagnosticReport, error) {
	page, site, err := c.open(deps)
	if err != nil {
		return "", nil, err
	}
	defer page.Close()

	report, err := deps.Exporter.Diagnose(deps.Ctx, page, site)
	if err != nil {
		return "", nil, err
	}

	content, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("encoding report: %w", err)
	}

	generatedAt, err := time.Parse(dumpchat.TimestampLayout, report.GeneratedAt)
	if err != nil {
		return "", nil, dumpchat.Errorf(dumpchat.EINTERNAL, "invalid report timestamp: %q", report.GeneratedAt)
	}

	path, err := deps.Writer.WriteArtifact(deps.Ctx, &dumpchat.Artifact{
		Name:    dumpchat.DiagnosticsFilename(report.Site, generatedAt),
		Content: content,
	})
	if err != nil {
		return "", nil, err
	}
	return path, report, nil
}
