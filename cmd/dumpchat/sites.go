package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/dumpchat"
	"github.com/fwojciec/dumpchat/yaml"
)

// Run executes the sites command.
func (c *SitesCmd) Run(deps *Dependencies) error {
	if c.YAML {
		if err := yaml.Encode(deps.Stdout, deps.Sites); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", dumpchat.ErrorMessage(err))
			return err
		}
		return nil
	}

	for _, site := range dumpchat.SortedSites(deps.Sites) {
		cfg := deps.Sites[site]
		engine := "turns"
		if cfg.TurnSelector == "" {
			engine = "batch"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  (%s)\n", site, strings.Join(cfg.Hosts, ", "), engine)
		if cfg.ConversationPath != nil {
			fmt.Fprintf(deps.Stdout, "  path:       %s\n", cfg.ConversationPath)
		}
		fmt.Fprintf(deps.Stdout, "  user:       %s\n", cfg.UserMessageSelector)
		fmt.Fprintf(deps.Stdout, "  assistant:  %s\n", cfg.AssistantMessageSelector)
		fmt.Fprintf(deps.Stdout, "  copy:       %s\n", cfg.CopyButtonSelector)
	}
	return nil
}
