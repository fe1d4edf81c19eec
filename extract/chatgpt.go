package extract

import (
	"context"
	"strings"

	"github.com/fwojciec/dumpchat"
)

// Ensure ChatGPTStrategy implements Strategy at compile time.
var _ Strategy = (*ChatGPTStrategy)(nil)

const (
	turnCopyTestID = "copy-turn-action-button"
	codeCopyTestID = "copy-code"
)

// ChatGPTStrategy extracts conversations whose turn containers carry their
// role in an attribute and whose turn-level copy controls sit outside the
// message body, next to per-code-block copy controls that must be ignored.
type ChatGPTStrategy struct {
	cfg dumpchat.SiteConfig
}

// NewChatGPTStrategy returns a strategy for the given site configuration.
func NewChatGPTStrategy(cfg dumpchat.SiteConfig) *ChatGPTStrategy {
	return &ChatGPTStrategy{cfg: cfg}
}

// DiscoverTurns returns the visible turn containers that declare a role.
func (s *ChatGPTStrategy) DiscoverTurns(ctx context.Context, page dumpchat.Page) ([]*dumpchat.Turn, error) {
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
		role, err := root.Attr(ctx, s.cfg.TurnRoleAttribute)
		if err != nil {
			return nil, err
		}
		turn := &dumpchat.Turn{Index: len(turns), Root: root}
		switch dumpchat.Role(role) {
		case dumpchat.RoleUser:
			turn.Role = dumpchat.RoleUser
		case dumpchat.RoleAssistant:
			turn.Role = dumpchat.RoleAssistant
			if turn.CopyControl, err = s.turnCopyControl(ctx, root); err != nil {
				return nil, err
			}
		default:
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// turnCopyControl picks the turn-level copy control of an assistant turn,
// preferring the one carrying the dedicated test id.
func (s *ChatGPTStrategy) turnCopyControl(ctx context.Context, root dumpchat.Element) (dumpchat.Element, error) {
	candidates, err := s.eligible(ctx, root)
	if err != nil {
		return nil, err
	}
	candidates, err = visibleOnly(ctx, candidates)
	if err != nil || len(candidates) == 0 {
		return nil, err
	}
	for _, c := range candidates {
		id, err := readAttr(ctx, c, "data-testid")
		if err != nil {
			return nil, err
		}
		if id == turnCopyTestID {
			return c, nil
		}
	}
	return candidates[0], nil
}

// CopyControls returns every turn-level copy control on the page.
func (s *ChatGPTStrategy) CopyControls(ctx context.Context, page dumpchat.Page) ([]dumpchat.Element, error) {
	return s.eligible(ctx, page)
}

func (s *ChatGPTStrategy) eligible(ctx context.Context, q querier) ([]dumpchat.Element, error) {
	all, err := q.QueryAll(ctx, s.cfg.CopyButtonSelector)
	if err != nil {
		return nil, err
	}
	var out []dumpchat.Element
	for _, c := range unique(all) {
		ok, err := s.isTurnCopyControl(ctx, c)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// isTurnCopyControl rejects controls nested in a message body or a code
// block, accepts the dedicated test id, and otherwise requires a "Copy…"
// label that is not a code-copy label.
func (s *ChatGPTStrategy) isTurnCopyControl(ctx context.Context, c dumpchat.Element) (bool, error) {
	for _, sel := range []string{s.cfg.AssistantMessageSelector, "pre, code"} {
		inside, err := c.Closest(ctx, sel)
		if err != nil {
			return false, err
		}
		if inside != nil {
			return false, nil
		}
	}

	id, err := readAttr(ctx, c, "data-testid")
	if err != nil {
		return false, err
	}
	id = strings.ToLower(id)
	if id == turnCopyTestID {
		return true, nil
	}
	if strings.Contains(id, codeCopyTestID) {
		return false, nil
	}

	label, err := readAttr(ctx, c, "aria-label")
	if err != nil {
		return false, err
	}
	label = strings.ToLower(label)
	if label == "" || strings.Contains(label, "copy code") {
		return false, nil
	}
	return strings.HasPrefix(label, "copy"), nil
}

// ReadAssistant reads the markdown body of the turn's assistant message.
func (s *ChatGPTStrategy) ReadAssistant(ctx context.Context, turn *dumpchat.Turn) (string, error) {
	node, err := turn.Root.Query(ctx, s.cfg.AssistantMessageSelector)
	if err != nil {
		return "", err
	}
	return readContent(ctx, node, s.cfg.AssistantContentSelector)
}

// ReadUser reads an open editor in the turn, then the pre-wrapped message
// text, then the whole user message.
func (s *ChatGPTStrategy) ReadUser(ctx context.Context, turn *dumpchat.Turn) (string, error) {
	editor, err := turn.Root.Query(ctx, "textarea")
	if err != nil {
		return "", err
	}
	if editor != nil {
		value, err := editor.Value(ctx)
		if err != nil {
			return "", err
		}
		if value = dumpchat.NormalizeText(value); value != "" {
			return value, nil
		}
	}

	node, err := turn.Root.Query(ctx, s.cfg.UserMessageSelector)
	if err != nil || node == nil {
		return "", err
	}
	text, err := queryText(ctx, node, ".whitespace-pre-wrap")
	if err != nil || text != "" {
		return text, err
	}
	return readText(ctx, node)
}

// ResolveTitle filters navigation labels and falls back to the sidebar and
// the document title.
func (s *ChatGPTStrategy) ResolveTitle(ctx context.Context, page dumpchat.Page) (string, error) {
	return ResolveTitle(ctx, page, &s.cfg)
}
