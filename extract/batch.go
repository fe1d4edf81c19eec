package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/dumpchat"
)

// collectBatch runs the batch engine. It needs nothing but the site's
// selectors: user messages are read first, then every visible copy control
// on the page is triggered in one pass and each capture is classified by
// the control's role hint and by whether it reproduces a user message.
func (e *Extractor) collectBatch(ctx context.Context, page dumpchat.Page, cfg *dumpchat.SiteConfig) (*result, error) {
	res := &result{}
	p := &res.provenance

	nodes, err := visibleUserNodes(ctx, page, cfg)
	if err != nil {
		return nil, fmt.Errorf("finding user messages: %w", err)
	}
	for _, node := range nodes {
		text, err := e.readUserNode(ctx, page, cfg, node)
		if err != nil {
			return nil, err
		}
		if text != "" {
			res.users = append(res.users, text)
		}
	}

	all, err := page.QueryAll(ctx, cfg.CopyButtonSelector)
	if err != nil {
		return nil, fmt.Errorf("finding copy controls: %w", err)
	}
	all = unique(all)
	controls, err := visibleOnly(ctx, all)
	if err != nil {
		return nil, err
	}
	hints := make([]dumpchat.Role, len(controls))
	for i, c := range controls {
		if hints[i], err = roleHint(ctx, cfg, c); err != nil {
			return nil, err
		}
		if hints[i] != dumpchat.RoleUser {
			p.CopyButtonsAfterUserFilter++
		}
	}

	assistantNodes, err := page.QueryAll(ctx, cfg.AssistantMessageSelector)
	if err != nil {
		return nil, fmt.Errorf("finding assistant messages: %w", err)
	}
	p.CopyButtonsTotal = len(all)
	p.CopyButtonsVisible = len(controls)
	p.FallbackCount = len(assistantNodes)

	if len(controls) == 0 {
		// Nothing to trigger: every assistant message comes from the DOM,
		// empty reads included.
		for _, node := range assistantNodes {
			text, err := readContent(ctx, node, cfg.AssistantContentSelector)
			if err != nil {
				return nil, err
			}
			res.assistants = append(res.assistants, text)
		}
		p.UsedFallbackCount = len(res.assistants)
		p.EmptyCount = countEmpty(res.assistants)
		return res, nil
	}

	copied, captures, err := e.captureControls(ctx, page, controls)
	if err != nil {
		return nil, err
	}
	p.ClipboardCaptures = captures

	raw := make([]string, len(controls))
	for i, c := range controls {
		if raw[i] = copied[i]; raw[i] != "" {
			continue
		}
		node, err := assistantNodeFor(ctx, cfg, c)
		if err != nil {
			return nil, err
		}
		if raw[i], err = readContent(ctx, node, cfg.AssistantContentSelector); err != nil {
			return nil, err
		}
		if raw[i] != "" {
			p.UsedFallbackCount++
			continue
		}
		if raw[i], err = scrapeFromControl(ctx, c); err != nil {
			return nil, err
		}
		if raw[i] != "" {
			p.UsedFallbackCount++
			p.FromButtonFallbackCount++
		}
	}

	res.assistants, res.users = reconcile(raw, hints, res.users, p)
	p.EmptyCount = countEmpty(res.assistants)
	return res, nil
}

// reconcile sorts captured values into assistant messages and copies of
// user messages. A value hinted as user is never an assistant message; a
// value whose canonical form equals that of a not yet matched user message
// replaces that message's text.
func reconcile(raw []string, hints []dumpchat.Role, users []string, p *dumpchat.Provenance) (assistants, outUsers []string) {
	canonical := make([]string, len(users))
	for i, u := range users {
		canonical[i] = dumpchat.Canonicalize(u)
	}
	matched := make([]string, len(users))

	for i, value := range raw {
		if value == "" {
			continue
		}
		match := -1
		if c := dumpchat.Canonicalize(value); c != "" {
			for j := range canonical {
				if canonical[j] == c && matched[j] == "" {
					match = j
					break
				}
			}
		}

		if hints[i] == dumpchat.RoleUser {
			p.FilteredByRoleHintCount++
			if match >= 0 {
				matched[match] = value
				p.FilteredAsUserMatchCount++
			}
			continue
		}
		if match >= 0 {
			matched[match] = value
			p.FilteredAsUserMatchCount++
			continue
		}
		assistants = append(assistants, value)
	}

	outUsers = make([]string, len(users))
	for j, u := range users {
		outUsers[j] = u
		if matched[j] != "" {
			outUsers[j] = matched[j]
			p.UserCopyReplacementsCount++
		}
	}
	return assistants, outUsers
}

// captureControls clicks every control in order, then waits once for the
// captures to catch up. Captures are attributed by the capture count
// recorded before each click, so a control that copies nothing leaves its
// slot empty instead of shifting the rest.
func (e *Extractor) captureControls(ctx context.Context, page dumpchat.Page, controls []dumpchat.Element) (copied []string, captures int, err error) {
	captured := &captureLog{}
	stop, err := page.Intercept(ctx, captured.add)
	if err != nil {
		return nil, 0, fmt.Errorf("intercepting clipboard: %w", err)
	}
	defer func() {
		if stopErr := stop(); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("restoring clipboard: %w", stopErr))
		}
	}()

	marks := make([]int, len(controls))
	for i, c := range controls {
		marks[i] = captured.len()
		if err := trigger(ctx, c); err != nil {
			return nil, 0, err
		}
		if err := sleep(ctx, e.timing.BatchClickDelay); err != nil {
			return nil, 0, err
		}
	}
	err = waitFor(ctx, func() bool { return captured.len() >= len(controls) }, e.timing.BatchTimeout, e.timing.BatchPollInterval)
	if err != nil {
		return nil, 0, err
	}

	total := captured.len()
	copied = make([]string, len(controls))
	for i := range controls {
		end := total
		if i+1 < len(controls) {
			end = marks[i+1]
		}
		if marks[i] < end {
			copied[i] = captured.at(marks[i])
		}
	}
	return copied, total, nil
}

// roleHint infers who authored the message a copy control copies: from the
// nearest message marker first, then from what its message group holds.
func roleHint(ctx context.Context, cfg *dumpchat.SiteConfig, control dumpchat.Element) (dumpchat.Role, error) {
	user, err := control.Closest(ctx, cfg.UserMessageSelector)
	if err != nil {
		return "", err
	}
	assistant, err := control.Closest(ctx, cfg.AssistantMessageSelector)
	if err != nil {
		return "", err
	}
	switch {
	case user != nil && assistant == nil:
		return dumpchat.RoleUser, nil
	case assistant != nil && user == nil:
		return dumpchat.RoleAssistant, nil
	}

	if cfg.MessageGroupSelector == "" {
		return dumpchat.RoleUnknown, nil
	}
	group, err := control.Closest(ctx, cfg.MessageGroupSelector)
	if err != nil || group == nil {
		return dumpchat.RoleUnknown, err
	}
	userish, err := holds(ctx, group, cfg.UserMessageSelector)
	if err != nil {
		return "", err
	}
	assistantish, err := holds(ctx, group, cfg.AssistantMessageSelector)
	if err != nil {
		return "", err
	}
	switch {
	case userish && !assistantish:
		return dumpchat.RoleUser, nil
	case assistantish && !userish:
		return dumpchat.RoleAssistant, nil
	}
	return dumpchat.RoleUnknown, nil
}

// holds reports whether el matches selector or contains a match.
func holds(ctx context.Context, el dumpchat.Element, selector string) (bool, error) {
	ok, err := el.Matches(ctx, selector)
	if err != nil || ok {
		return ok, err
	}
	return has(ctx, el, selector)
}

// assistantNodeFor finds the assistant message a copy control belongs to:
// an enclosing message, or the one inside the control's message group.
func assistantNodeFor(ctx context.Context, cfg *dumpchat.SiteConfig, control dumpchat.Element) (dumpchat.Element, error) {
	node, err := control.Closest(ctx, cfg.AssistantMessageSelector)
	if err != nil || node != nil {
		return node, err
	}
	if cfg.MessageGroupSelector == "" {
		return nil, nil
	}
	group, err := control.Closest(ctx, cfg.MessageGroupSelector)
	if err != nil || group == nil {
		return nil, err
	}
	return group.Query(ctx, cfg.AssistantMessageSelector)
}

// visibleUserNodes returns the visible user messages, each lifted to its
// message group when the group itself is a visible user message.
func visibleUserNodes(ctx context.Context, page dumpchat.Page, cfg *dumpchat.SiteConfig) ([]dumpchat.Element, error) {
	candidates, err := page.QueryAll(ctx, cfg.UserMessageSelector)
	if err != nil {
		return nil, err
	}
	candidates, err = visibleOnly(ctx, candidates)
	if err != nil {
		return nil, err
	}

	out := make([]dumpchat.Element, 0, len(candidates))
	for _, node := range candidates {
		target := node
		if cfg.MessageGroupSelector != "" {
			group, err := node.Closest(ctx, cfg.MessageGroupSelector)
			if err != nil {
				return nil, err
			}
			if group != nil {
				isUser, err := group.Matches(ctx, cfg.UserMessageSelector)
				if err != nil {
					return nil, err
				}
				shown, err := group.Visible(ctx)
				if err != nil {
					return nil, err
				}
				if isUser && shown {
					target = group
				}
			}
		}
		out = append(out, target)
	}
	return unique(out), nil
}
