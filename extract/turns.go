package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/dumpchat"
)

// collectTurns runs the turn-indexed engine: discover turns, capture each
// turn's copy control, then resolve every turn by index through the
// capture, a structured read and a scrape around the copy control.
func (e *Extractor) collectTurns(ctx context.Context, page dumpchat.Page, cfg *dumpchat.SiteConfig, s Strategy) (*result, error) {
	turns, err := s.DiscoverTurns(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("discovering turns: %w", err)
	}
	controls, err := s.CopyControls(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("finding copy controls: %w", err)
	}

	res := &result{}
	p := &res.provenance
	if p.CopyButtonsTotal, p.CopyButtonsVisible, err = countControls(ctx, controls, turns); err != nil {
		return nil, err
	}

	copied, captures, err := e.captureTurns(ctx, page, turns)
	if err != nil {
		return nil, err
	}
	p.ClipboardCaptures = captures

	for _, turn := range turns {
		if turn.Role != dumpchat.RoleAssistant {
			continue
		}
		p.FallbackCount++
		if turn.CopyControl != nil {
			p.CopyButtonsAfterUserFilter++
		}

		if text := copied[turn.Index]; text != "" {
			res.assistants = append(res.assistants, text)
			continue
		}

		text, err := s.ReadAssistant(ctx, turn)
		if err != nil {
			return nil, err
		}
		if text != "" {
			p.UsedFallbackCount++
			res.assistants = append(res.assistants, text)
			continue
		}

		if turn.CopyControl == nil {
			continue
		}
		text, err = scrapeFromControl(ctx, turn.CopyControl)
		if err != nil {
			return nil, err
		}
		if text != "" {
			p.UsedFallbackCount++
			p.FromButtonFallbackCount++
			res.assistants = append(res.assistants, text)
		}
	}
	p.FilteredByRoleHintCount = max(0, p.CopyButtonsVisible-p.CopyButtonsAfterUserFilter)
	p.EmptyCount = countEmpty(res.assistants)

	// Users last: opening an editor may re-render the conversation.
	for _, turn := range turns {
		if turn.Role != dumpchat.RoleUser {
			continue
		}
		if text := copied[turn.Index]; text != "" {
			p.UserCopyReplacementsCount++
			res.users = append(res.users, text)
			continue
		}

		text, err := e.readViaEdit(ctx, page, cfg, turn.Root)
		if err != nil {
			return nil, err
		}
		if text == "" {
			if text, err = s.ReadUser(ctx, turn); err != nil {
				return nil, err
			}
		}
		if text != "" {
			res.users = append(res.users, text)
		}
	}
	return res, nil
}

// captureTurns triggers the copy control of every turn that has one and
// attributes the first capture after each trigger to that turn's index.
// Interception is skipped entirely when no turn has a copy control.
func (e *Extractor) captureTurns(ctx context.Context, page dumpchat.Page, turns []*dumpchat.Turn) (copied map[int]string, captures int, err error) {
	copied = make(map[int]string)
	var triggers []*dumpchat.Turn
	for _, turn := range turns {
		if turn.CopyControl != nil {
			triggers = append(triggers, turn)
		}
	}
	if len(triggers) == 0 {
		return copied, 0, nil
	}

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

	for _, turn := range triggers {
		mark := captured.len()
		if err := trigger(ctx, turn.CopyControl); err != nil {
			return nil, 0, err
		}
		if err := waitFor(ctx, func() bool { return captured.len() > mark }, e.timing.CaptureTimeout, e.timing.PollInterval); err != nil {
			return nil, 0, err
		}
		if text := captured.at(mark); text != "" {
			copied[turn.Index] = text
		}
	}
	return copied, captured.len(), nil
}

// trigger hovers and clicks a copy control. A control that cannot be
// operated simply yields no capture; only cancellation is an error.
func trigger(ctx context.Context, control dumpchat.Element) error {
	_ = control.Hover(ctx)
	_ = control.Click(ctx)
	return ctx.Err()
}

// countControls counts the page's copy controls and the visible ones.
// Controls bound to a turn count as visible: their turn is.
func countControls(ctx context.Context, controls []dumpchat.Element, turns []*dumpchat.Turn) (total, visible int, err error) {
	all := make(map[string]bool)
	shown := make(map[string]bool)
	for _, c := range controls {
		all[c.Key()] = true
		ok, err := c.Visible(ctx)
		if err != nil {
			return 0, 0, err
		}
		if ok {
			shown[c.Key()] = true
		}
	}
	for _, turn := range turns {
		if turn.CopyControl != nil {
			all[turn.CopyControl.Key()] = true
			shown[turn.CopyControl.Key()] = true
		}
	}
	return len(all), len(shown), nil
}
