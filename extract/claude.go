package extract

import (
	"context"

	"github.com/fwojciec/dumpchat"
)

// Ensure ClaudeStrategy implements Strategy at compile time.
var _ Strategy = (*ClaudeStrategy)(nil)

// ClaudeStrategy extracts conversations whose turn containers carry no role
// attribute; a turn's role follows from which message markers it contains.
// Both user and assistant turns have copy controls.
type ClaudeStrategy struct {
	cfg dumpchat.SiteConfig
}

// NewClaudeStrategy returns a strategy for the given site configuration.
func NewClaudeStrategy(cfg dumpchat.SiteConfig) *ClaudeStrategy {
	return &ClaudeStrategy{cfg: cfg}
}

// DiscoverTurns returns visible turn containers holding exactly one kind of
// message marker.
func (s *ClaudeStrategy) DiscoverTurns(ctx context.Context, page dumpchat.Page) ([]*dumpchat.Turn, error) {
	roots, err := page.QueryAll(ctx, s.cfg.TurnSelector)
	if err != nil {
		return nil, err
	}
	roots, err = visibleOnly(ctx, unique(roots))
	if err != nil {
		return nil, err
	}

	var turns []*dumpchat.Turn
	for _, root := range roots {
		role, err := s.turnRole(ctx, root)
		if err != nil {
			return nil, err
		}
		if role == dumpchat.RoleUnknown {
			continue
		}
		control, err := root.Query(ctx, s.cfg.CopyButtonSelector)
		if err != nil {
			return nil, err
		}
		turns = append(turns, &dumpchat.Turn{
			Index:       len(turns),
			Role:        role,
			Root:        root,
			CopyControl: control,
		})
	}
	return turns, nil
}

func (s *ClaudeStrategy) turnRole(ctx context.Context, root dumpchat.Element) (dumpchat.Role, error) {
	hasUser, err := has(ctx, root, s.cfg.UserMessageSelector)
	if err != nil {
		return "", err
	}
	hasAssistant, err := has(ctx, root, s.cfg.AssistantMessageSelector)
	if err != nil {
		return "", err
	}
	switch {
	case hasUser && !hasAssistant:
		return dumpchat.RoleUser, nil
	case hasAssistant && !hasUser:
		return dumpchat.RoleAssistant, nil
	}
	return dumpchat.RoleUnknown, nil
}

// CopyControls returns every match of the copy selector.
func (s *ClaudeStrategy) CopyControls(ctx context.Context, page dumpchat.Page) ([]dumpchat.Element, error) {
	all, err := page.QueryAll(ctx, s.cfg.CopyButtonSelector)
	if err != nil {
		return nil, err
	}
	return unique(all), nil
}

// ReadAssistant prefers the markdown body in the message's second grid row,
// then the longest markdown body of the response, then the response text.
func (s *ClaudeStrategy) ReadAssistant(ctx context.Context, turn *dumpchat.Turn) (string, error) {
	body := s.cfg.AssistantContentSelector
	if body == "" {
		body = ".standard-markdown"
	}

	text, err := queryText(ctx, turn.Root, ".row-start-2 "+body)
	if err != nil || text != "" {
		return text, err
	}

	candidates, err := turn.Root.QueryAll(ctx, ".font-claude-response "+body)
	if err != nil {
		return "", err
	}
	var longest string
	for _, c := range candidates {
		t, err := readText(ctx, c)
		if err != nil {
			return "", err
		}
		if len(t) > len(longest) {
			longest = t
		}
	}
	if longest != "" {
		return longest, nil
	}

	return queryText(ctx, turn.Root, ".font-claude-response")
}

// ReadUser reads the user message marker.
func (s *ClaudeStrategy) ReadUser(ctx context.Context, turn *dumpchat.Turn) (string, error) {
	return queryText(ctx, turn.Root, s.cfg.UserMessageSelector)
}

// ResolveTitle reads the chat title control, falling back to the document
// title.
func (s *ClaudeStrategy) ResolveTitle(ctx context.Context, page dumpchat.Page) (string, error) {
	return ResolveTitle(ctx, page, &s.cfg)
}
