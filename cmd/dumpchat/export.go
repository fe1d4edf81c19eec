package main

import (
	"fmt"

	"github.com/fwojciec/dumpchat"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	path, data, err := c.export(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", dumpchat.ErrorMessage(err))
		return err
	}

	p := data.Provenance
	fmt.Fprintf(deps.Stdout, "%s: %d user, %d assistant messages (%d captured, %d fallback)\n",
		data.Title, len(data.Users), data.NonEmptyAssistants(), p.ClipboardCaptures, p.UsedFallbackCount)
	fmt.Fprintf(deps.Stdout, "Saved %s\n", path)
	return nil
}

func (c *ExportCmd) export(deps *Dependencies) (string, *dumpchat.ExportData, error) {
	page, site, err := c.open(deps)
	if err != nil {
		return "", nil, err
	}
	defer page.Close()

	data, err := deps.Exporter.Export(deps.Ctx, page, site)
	if err != nil {
		return "", nil, err
	}

	markdown, err := dumpchat.FormatMarkdown(data, dumpchat.MarkdownOptions{Fenced: c.Fenced})
	if err != nil {
		return "", nil, err
	}

	path, err := deps.Writer.WriteArtifact(deps.Ctx, &dumpchat.Artifact{
		Name:    dumpchat.ExportFilename(data),
		Content: []byte(markdown),
	})
	if err != nil {
		return "", nil, err
	}
	return path, data, nil
}
