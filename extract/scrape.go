package extract

import (
	"context"

	"github.com/fwojciec/dumpchat"
)

// messageContainers are the ancestors of a copy control that may hold the
// message it copies, nearest kinds first.
var messageContainers = []string{
	`[data-testid="assistant-message"]`,
	`[data-testid="message-assistant"]`,
	`[data-testid="chat-message"]`,
	`.group`,
	`article`,
}

const messageBodySelector = `[data-testid="message-content"], .prose, [class*="prose"]`

// scrapeFromControl recovers message text from the containers around a copy
// control, stripping action labels the scrape picks up.
func scrapeFromControl(ctx context.Context, control dumpchat.Element) (string, error) {
	var roots []dumpchat.Element
	for _, sel := range messageContainers {
		root, err := control.Closest(ctx, sel)
		if err != nil {
			return "", err
		}
		if root != nil {
			roots = append(roots, root)
		}
	}

	for _, root := range unique(roots) {
		text, err := queryText(ctx, root, messageBodySelector)
		if err != nil {
			return "", err
		}
		if text == "" {
			if text, err = readText(ctx, root); err != nil {
				return "", err
			}
		}
		if cleaned := dumpchat.StripChromeLabels(text); cleaned != "" {
			return cleaned, nil
		}
	}
	return "", nil
}

// readContent reads a message node, preferring its rendered body.
func readContent(ctx context.Context, node dumpchat.Element, bodySelector string) (string, error) {
	if node == nil {
		return "", nil
	}
	if bodySelector != "" {
		text, err := queryText(ctx, node, bodySelector)
		if err != nil || text != "" {
			return text, err
		}
	}
	return readText(ctx, node)
}
