package extract

import (
	"context"

	"github.com/fwojciec/dumpchat"
)

// readViaEdit opens the edit affordance of a user message and reads the raw
// text from the editor it reveals, then dismisses the editor. It returns ""
// when the message has no edit control or no editor appears. Failed
// interactions are not errors; the caller falls back to rendered text.
func (e *Extractor) readViaEdit(ctx context.Context, page dumpchat.Page, cfg *dumpchat.SiteConfig, root dumpchat.Element) (string, error) {
	if cfg.EditButtonSelector == "" || cfg.EditTextareaSelector == "" {
		return "", nil
	}

	_ = root.Hover(ctx)
	node, err := root.Query(ctx, cfg.UserMessageSelector)
	if err != nil {
		return "", err
	}
	if node != nil {
		_ = node.Hover(ctx)
	}

	button, err := root.Query(ctx, cfg.EditButtonSelector)
	if err != nil || button == nil {
		return "", err
	}
	if err := button.Click(ctx); err != nil {
		return "", ctx.Err()
	}
	if err := sleep(ctx, e.timing.EditOpen); err != nil {
		return "", err
	}

	editor, err := page.Query(ctx, cfg.EditTextareaSelector)
	if err != nil {
		return "", err
	}
	if editor == nil {
		_ = page.PressEscape(ctx)
		return "", nil
	}

	value, err := editor.Value(ctx)
	if err != nil {
		value = ""
	}
	_ = editor.PressEscape(ctx)
	_ = page.PressEscape(ctx)
	if err := sleep(ctx, e.timing.EditClose); err != nil {
		return "", err
	}
	return dumpchat.NormalizeText(value), nil
}

// readUserNode reads a user message: the edit affordance first, then the
// rendered text of node.
func (e *Extractor) readUserNode(ctx context.Context, page dumpchat.Page, cfg *dumpchat.SiteConfig, node dumpchat.Element) (string, error) {
	root := node
	if cfg.MessageGroupSelector != "" {
		group, err := node.Closest(ctx, cfg.MessageGroupSelector)
		if err != nil {
			return "", err
		}
		if group != nil {
			root = group
		}
	}

	text, err := e.readViaEdit(ctx, page, cfg, root)
	if err != nil || text != "" {
		return text, err
	}
	return readText(ctx, node)
}
