package extract

import (
	"context"
	"net/url"
	"strings"

	"github.com/fwojciec/dumpchat"
)

// sidebarTitleSelector lists the descendants of an active sidebar item that
// may carry the conversation name.
const sidebarTitleSelector = `[dir="auto"], .truncate[title], .truncate, [title], span, div`

// ResolveTitle names the conversation on page: the first configured title
// selector whose text is accepted, then the active sidebar item, then the
// document title with the site's branding removed. Returns "" when every
// heuristic fails.
func ResolveTitle(ctx context.Context, page dumpchat.Page, cfg *dumpchat.SiteConfig) (string, error) {
	accept := func(s string) bool { return s != "" }
	if cfg.FilterTitles {
		accept = dumpchat.IsLikelyTitle
	}

	for _, sel := range cfg.TitleSelectors {
		text, err := queryText(ctx, page, sel)
		if err != nil {
			return "", err
		}
		if accept(text) {
			return text, nil
		}
	}

	if len(cfg.SidebarSelectors) > 0 {
		title, err := sidebarTitle(ctx, page, cfg)
		if err != nil || title != "" {
			return title, err
		}
	}

	if cfg.TitleBrand != "" {
		raw, err := page.DocumentTitle(ctx)
		if err != nil {
			return "", err
		}
		return dumpchat.StripTitleBrand(dumpchat.NormalizeText(raw), cfg.TitleBrand), nil
	}
	return "", nil
}

// sidebarTitle reads the conversation name from the navigation item marked
// active, or from the item linking to the current path.
func sidebarTitle(ctx context.Context, page dumpchat.Page, cfg *dumpchat.SiteConfig) (string, error) {
	path, err := pagePath(ctx, page)
	if err != nil {
		return "", err
	}
	escaped := escapeAttributeValue(path)

	var roots []dumpchat.Element
	for _, sel := range cfg.SidebarSelectors {
		active, err := page.Query(ctx, strings.ReplaceAll(sel, dumpchat.PathPlaceholder, escaped))
		if err != nil {
			return "", err
		}
		if active != nil {
			roots = append(roots, active)
			break
		}
	}
	if cfg.IsConversationPath(path) {
		byPath, err := page.Query(ctx, `a[href="`+escaped+`"]`)
		if err != nil {
			return "", err
		}
		if byPath != nil {
			roots = append(roots, byPath)
		}
	}

	for _, root := range unique(roots) {
		if title, err := readAttr(ctx, root, "title"); err != nil || dumpchat.IsLikelyTitle(title) {
			return title, err
		}

		candidates, err := root.QueryAll(ctx, sidebarTitleSelector)
		if err != nil {
			return "", err
		}
		for _, node := range candidates {
			if title, err := readAttr(ctx, node, "title"); err != nil || dumpchat.IsLikelyTitle(title) {
				return title, err
			}
			if text, err := readText(ctx, node); err != nil || dumpchat.IsLikelyTitle(text) {
				return text, err
			}
		}
	}
	return "", nil
}

// pagePath returns the path component of the page's URL.
func pagePath(ctx context.Context, page dumpchat.Page) (string, error) {
	raw, err := page.URL(ctx)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", dumpchat.Errorf(dumpchat.EINVALID, "invalid page URL: %q", raw)
	}
	if u.Path == "" {
		return "/", nil
	}
	return u.Path, nil
}
