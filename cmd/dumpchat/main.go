package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/dumpchat"
	"github.com/fwojciec/dumpchat/extract"
	"github.com/fwojciec/dumpchat/fs"
	"github.com/fwojciec/dumpchat/goquery"
	"github.com/fwojciec/dumpchat/rod"
	chatslog "github.com/fwojciec/dumpchat/slog"
	"github.com/fwojciec/dumpchat/yaml"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Sites are the built-in site configurations a --config file is
	// merged onto.
	Sites map[dumpchat.Site]dumpchat.SiteConfig

	// Clock stamped onto exports and reports.
	Now func() time.Time

	// Browser serves every page when set. Used for end-to-end testing.
	Browser dumpchat.Browser
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Sites: dumpchat.DefaultSiteConfigs(),
		Now:   time.Now,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("dumpchat"),
		kong.Description("Export chat assistant conversations to Markdown."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'dumpchat --help' to see available commands")
	}

	if arg := args[0]; arg == "help" || arg == "--help" || arg == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.Verbose)

	deps.Sites = m.Sites
	if cli.Config != "" {
		sites, err := yaml.LoadFile(cli.Config, m.Sites)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: see 'dumpchat sites --yaml' for the configuration format")
			return fmt.Errorf("failed to load site config %q: %w", cli.Config, err)
		}
		deps.Sites = sites
	}
	for _, site := range dumpchat.SortedSites(deps.Sites) {
		cfg := deps.Sites[site]
		if err := goquery.CheckSelectors(&cfg); err != nil {
			return fmt.Errorf("site %s: %w", site, err)
		}
	}

	// Wire command-specific dependencies based on command
	var (
		target *Target
		mode   = extract.ModeTurns
	)
	switch strings.Fields(kongCtx.Command())[0] {
	case "export":
		target = &cli.Export.Target
		mode = extract.Mode(cli.Export.Mode)
	case "verify":
		target = &cli.Verify.Target
	}

	if target != nil {
		browser, err := m.openBrowser(cli, target)
		if err != nil {
			return err
		}
		defer browser.Close()
		deps.Browser = rod.NewLoggingBrowser(browser, deps.Logger)

		timing := extract.DefaultTiming()
		timing.CaptureTimeout = cli.CaptureTimeout
		extractor := extract.NewExtractor(
			extract.WithSites(deps.Sites),
			extract.WithMode(mode),
			extract.WithTiming(timing),
			extract.WithClock(m.Now),
		)
		deps.Exporter = chatslog.NewLoggingExporter(extractor, deps.Logger)
		deps.Writer = fs.NewWriter(target.Out)
	}

	return kongCtx.Run(deps)
}

// openBrowser returns the browser serving target: the injected one, a
// snapshot reader for --html, or Chrome.
func (m *Main) openBrowser(cli *CLI, target *Target) (dumpchat.Browser, error) {
	if m.Browser != nil {
		return m.Browser, nil
	}
	if target.HTML != "" {
		return goquery.NewSnapshotBrowser(target.HTML), nil
	}

	bm, err := rod.NewBrowserManager(
		rod.WithControlURL(cli.ControlURL),
		rod.WithHeadless(cli.Headless),
		rod.WithStealth(cli.Stealth),
	)
	if err != nil {
		if cli.ControlURL == "" {
			return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
		}
		return nil, fmt.Errorf("failed to attach to browser at %s: %w", cli.ControlURL, err)
	}
	return bm, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
