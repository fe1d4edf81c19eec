package dumpchat

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Site identifies a supported chat assistant.
type Site string

// Built-in sites.
const (
	SiteChatGPT Site = "chatgpt"
	SiteClaude  Site = "claude"
)

// PathPlaceholder is replaced with the current page path (attribute-escaped)
// inside SidebarSelectors.
const PathPlaceholder = "{path}"

// SiteConfig is the table of selectors and heuristics that locate a
// conversation on one site.
type SiteConfig struct {
	// Hosts are the hostnames served by the site, matched exactly or as a
	// parent domain.
	Hosts []string

	// TitleSelectors are tried in order; the first accepted candidate wins.
	TitleSelectors []string
	// FilterTitles rejects navigation labels with IsLikelyTitle.
	FilterTitles bool
	// SidebarSelectors locate the "active" conversation item in the
	// navigation sidebar. May contain PathPlaceholder.
	SidebarSelectors []string
	// TitleBrand is the site name appended to the document title.
	TitleBrand string

	// ConversationPath matches paths of conversation pages.
	ConversationPath *regexp.Regexp

	// TurnSelector matches turn containers.
	TurnSelector string
	// TurnRoleAttribute, when set, is the turn container attribute naming
	// the turn's role.
	TurnRoleAttribute string

	UserMessageSelector      string
	AssistantMessageSelector string
	// AssistantContentSelector matches the rendered body inside an
	// assistant message.
	AssistantContentSelector string
	CopyButtonSelector       string
	EditButtonSelector       string
	EditTextareaSelector     string
	MessageGroupSelector     string
}

// Validate returns an error if a selector the extraction depends on is missing.
func (c *SiteConfig) Validate() error {
	switch {
	case c.UserMessageSelector == "":
		return Errorf(EINVALID, "user message selector required")
	case c.AssistantMessageSelector == "":
		return Errorf(EINVALID, "assistant message selector required")
	case c.CopyButtonSelector == "":
		return Errorf(EINVALID, "copy button selector required")
	case c.ConversationPath == nil:
		return Errorf(EINVALID, "conversation path pattern required")
	}
	return nil
}

// IsConversationPath reports whether path belongs to a conversation page.
func (c *SiteConfig) IsConversationPath(path string) bool {
	return c.ConversationPath != nil && c.ConversationPath.MatchString(path)
}

// Selectors returns every selector string in the config, keyed by field
// name, for validation and display.
func (c *SiteConfig) Selectors() map[string]string {
	m := map[string]string{
		"turnSelector":             c.TurnSelector,
		"userMessageSelector":      c.UserMessageSelector,
		"assistantMessageSelector": c.AssistantMessageSelector,
		"assistantContentSelector": c.AssistantContentSelector,
		"copyButtonSelector":       c.CopyButtonSelector,
		"editButtonSelector":       c.EditButtonSelector,
		"editTextareaSelector":     c.EditTextareaSelector,
		"messageGroupSelector":     c.MessageGroupSelector,
	}
	for i, sel := range c.TitleSelectors {
		m["titleSelectors["+strconv.Itoa(i)+"]"] = sel
	}
	for i, sel := range c.SidebarSelectors {
		m["sidebarSelectors["+strconv.Itoa(i)+"]"] = sel
	}
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	return m
}

var (
	chatGPTConversationPath = regexp.MustCompile(`^/c/`)
	claudeConversationPath  = regexp.MustCompile(`^/chat/`)
)

// DefaultSiteConfigs returns the built-in configuration of every supported
// site. The returned map is a fresh copy owned by the caller.
func DefaultSiteConfigs() map[Site]SiteConfig {
	return map[Site]SiteConfig{
		SiteChatGPT: {
			Hosts: []string{"chatgpt.com", "chat.openai.com"},
			TitleSelectors: []string{
				`main h1`,
				`[data-testid="conversation-title"]`,
				`header h1`,
				`#history a[data-active] [dir="auto"]`,
				`#history a[data-active] .truncate`,
				`a[data-active] [dir="auto"]`,
				`a[data-active] .truncate`,
				`nav a[aria-current="page"] [dir="auto"]`,
				`nav a[aria-current="page"] .truncate`,
				`aside a[aria-current="page"]`,
				`h1`,
			},
			FilterTitles: true,
			SidebarSelectors: []string{
				`#history a[data-active]`,
				`a[data-active]`,
				`a[href="` + PathPlaceholder + `"]`,
				`nav a[aria-current="page"]`,
				`aside a[aria-current="page"]`,
			},
			TitleBrand:               "ChatGPT",
			ConversationPath:         chatGPTConversationPath,
			TurnSelector:             `article[data-testid^="conversation-turn-"], div[data-testid^="conversation-turn-"]`,
			TurnRoleAttribute:        "data-turn",
			UserMessageSelector:      `[data-message-author-role="user"]`,
			AssistantMessageSelector: `[data-message-author-role="assistant"]`,
			AssistantContentSelector: `.markdown, .prose, [class*="markdown"], [class*="prose"]`,
			CopyButtonSelector:       `button[data-testid="copy-turn-action-button"], button[aria-label*="Copy"]`,
			EditButtonSelector:       `button[data-testid="edit-turn-action-button"], button[aria-label*="Edit"]`,
			EditTextareaSelector:     `textarea[data-testid="prompt-textarea"], textarea[name="prompt-textarea"], textarea`,
			MessageGroupSelector:     `article[data-testid^="conversation-turn-"], div[data-testid^="conversation-turn-"]`,
		},
		SiteClaude: {
			Hosts: []string{"claude.ai"},
			TitleSelectors: []string{
				`[data-testid="chat-title-button"] .truncate`,
				`[data-testid="chat-title-button"]`,
				`main h1`,
			},
			TitleBrand:               "Claude",
			ConversationPath:         claudeConversationPath,
			TurnSelector:             `div[data-test-render-count]`,
			UserMessageSelector:      `[data-testid="user-message"], [data-testid="message-user"]`,
			AssistantMessageSelector: `.font-claude-response, [data-testid="assistant-message"], [data-testid="message-assistant"]`,
			AssistantContentSelector: `.standard-markdown`,
			CopyButtonSelector:       `button[data-testid="action-bar-copy"]`,
			EditButtonSelector:       `button[aria-label="Edit"], button[aria-label*="Edit"]`,
			EditTextareaSelector:     `textarea`,
			MessageGroupSelector:     `.group, [data-testid="chat-message"]`,
		},
	}
}

// DetectSite returns the site whose hosts serve rawURL.
// Returns ENOTFOUND if no configured site matches.
func DetectSite(rawURL string, sites map[Site]SiteConfig) (Site, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "", Errorf(EINVALID, "invalid page URL: %q", rawURL)
	}
	host := strings.ToLower(u.Hostname())

	for _, site := range SortedSites(sites) {
		cfg := sites[site]
		for _, h := range cfg.Hosts {
			h = strings.ToLower(h)
			if host == h || strings.HasSuffix(host, "."+h) {
				return site, nil
			}
		}
	}
	return "", Errorf(ENOTFOUND, "unsupported site: %s", host)
}

// SortedSites returns the keys of sites in lexical order.
func SortedSites(sites map[Site]SiteConfig) []Site {
	out := make([]Site, 0, len(sites))
	for site := range sites {
		out = append(out, site)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

