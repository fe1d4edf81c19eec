package main

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/dumpchat"
	chatslog "github.com/fwojciec/dumpchat/slog"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Sites    map[dumpchat.Site]dumpchat.SiteConfig
	Browser  dumpchat.Browser
	Exporter dumpchat.Exporter
	Writer   dumpchat.ArtifactWriter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config         string        `type:"path" env:"DUMPCHAT_CONFIG" help:"YAML file overriding or adding site configurations"`
	ControlURL     string        `name:"control-url" env:"DUMPCHAT_CONTROL_URL" help:"Attach to a running Chrome (DevTools URL) instead of launching one"`
	Headless       bool          `default:"true" negatable:"" help:"Run a launched browser without a window"`
	Stealth        bool          `help:"Hide automation fingerprints from the page"`
	Verbose        bool          `short:"v" help:"Log extraction details to stderr"`
	CaptureTimeout time.Duration `default:"900ms" help:"How long to wait for one copy control's clipboard write"`

	Export ExportCmd `cmd:"" help:"Export a conversation as Markdown"`
	Verify VerifyCmd `cmd:"" help:"Check extraction health and save a diagnostic report"`
	Sites  SitesCmd  `cmd:"" help:"List configured sites"`
}

// Target selects the page a command reads from.
type Target struct {
	URL  string `arg:"" help:"Conversation URL"`
	HTML string `name:"html" type:"existingfile" help:"Read the page from a saved HTML snapshot instead of a browser"`
	Site string `default:"auto" help:"Site configuration to use (auto detects it from the URL host)"`
	Out  string `short:"o" type:"path" default:"." help:"Output directory"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	Target `embed:""`

	Mode   string `enum:"turns,batch" default:"turns" help:"Extraction engine (turns, batch)"`
	Fenced bool   `help:"Wrap each message in a code fence"`
}

// VerifyCmd is the "verify" subcommand.
type VerifyCmd struct {
	Target `embed:""`
}

// SitesCmd is the "sites" subcommand.
type SitesCmd struct {
	YAML bool `name:"yaml" help:"Print the effective configuration as YAML"`
}

// resolve returns the site serving the target URL.
// Returns EINVALID if the URL is not a conversation page of that site.
func (t *Target) resolve(sites map[dumpchat.Site]dumpchat.SiteConfig) (dumpchat.Site, error) {
	var site dumpchat.Site
	if name := strings.ToLower(strings.TrimSpace(t.Site)); name == "" || name == "auto" {
		detected, err := dumpchat.DetectSite(t.URL, sites)
		if err != nil {
			return "", err
		}
		site = detected
	} else {
		site = dumpchat.Site(name)
		if _, ok := sites[site]; !ok {
			return "", dumpchat.Errorf(dumpchat.EINVALID, "unknown site: %s", name)
		}
	}

	u, err := url.Parse(t.URL)
	if err != nil {
		return "", dumpchat.Errorf(dumpchat.EINVALID, "invalid page URL: %q", t.URL)
	}
	cfg := sites[site]
	if !cfg.IsConversationPath(u.Path) {
		return "", dumpchat.Errorf(dumpchat.EINVALID, "not a %s conversation page: %s", site, t.URL)
	}
	return site, nil
}

// open resolves the target and opens its page.
func (t *Target) open(deps *Dependencies) (dumpchat.Page, dumpchat.Site, error) {
	site, err := t.resolve(deps.Sites)
	if err != nil {
		return nil, "", err
	}
	page, err := deps.Browser.OpenPage(deps.Ctx, t.URL)
	if err != nil {
		return nil, "", err
	}
	if deps.Logger != nil {
		page = chatslog.NewLoggingPage(page, deps.Logger)
	}
	return page, site, nil
}
