package extract

import (
	"context"

	"github.com/fwojciec/dumpchat"
)

// Strategy is the site-specific half of a turn-indexed extraction.
type Strategy interface {
	dumpchat.TurnDiscoverer

	// CopyControls returns every copy control on the page the site would
	// consider a turn-level control, visible or not.
	CopyControls(ctx context.Context, page dumpchat.Page) ([]dumpchat.Element, error)

	// ReadAssistant reads the rendered content of an assistant turn.
	ReadAssistant(ctx context.Context, turn *dumpchat.Turn) (string, error)

	// ReadUser reads the rendered text of a user turn.
	ReadUser(ctx context.Context, turn *dumpchat.Turn) (string, error)

	// ResolveTitle names the conversation, or returns "".
	ResolveTitle(ctx context.Context, page dumpchat.Page) (string, error)
}

// NewStrategy returns the built-in strategy for site, or nil if the site
// has none and must be extracted by the batch engine.
func NewStrategy(site dumpchat.Site, cfg dumpchat.SiteConfig) Strategy {
	switch site {
	case dumpchat.SiteChatGPT:
		return NewChatGPTStrategy(cfg)
	case dumpchat.SiteClaude:
		return NewClaudeStrategy(cfg)
	}
	return nil
}
