// Package yaml loads site configurations from YAML files.
//
// A file holds a "sites" mapping. An entry named after a built-in site
// overrides only the fields it sets; any other entry declares a new site
// from scratch:
//
//	sites:
//	  chatgpt:
//	    copyButtonSelector: 'button[data-testid="copy-turn-action-button"]'
//	  gemini:
//	    hosts: [gemini.google.com]
//	    conversationPath: ^/app/
//	    userMessageSelector: user-query
//	    assistantMessageSelector: model-response
//	    copyButtonSelector: 'button[aria-label="Copy"]'
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"regexp"
	"slices"
	"strings"

	"github.com/fwojciec/dumpchat"
	"gopkg.in/yaml.v3"
)

// siteFile is the YAML form of dumpchat.SiteConfig.
type siteFile struct {
	Hosts                    []string `yaml:"hosts,omitempty"`
	TitleSelectors           []string `yaml:"titleSelectors,omitempty"`
	FilterTitles             bool     `yaml:"filterTitles,omitempty"`
	SidebarSelectors         []string `yaml:"sidebarSelectors,omitempty"`
	TitleBrand               string   `yaml:"titleBrand,omitempty"`
	ConversationPath         string   `yaml:"conversationPath"`
	TurnSelector             string   `yaml:"turnSelector,omitempty"`
	TurnRoleAttribute        string   `yaml:"turnRoleAttribute,omitempty"`
	UserMessageSelector      string   `yaml:"userMessageSelector"`
	AssistantMessageSelector string   `yaml:"assistantMessageSelector"`
	AssistantContentSelector string   `yaml:"assistantContentSelector,omitempty"`
	CopyButtonSelector       string   `yaml:"copyButtonSelector"`
	EditButtonSelector       string   `yaml:"editButtonSelector,omitempty"`
	EditTextareaSelector     string   `yaml:"editTextareaSelector,omitempty"`
	MessageGroupSelector     string   `yaml:"messageGroupSelector,omitempty"`
}

type file struct {
	Sites map[string]yaml.Node `yaml:"sites"`
}

func toFile(cfg dumpchat.SiteConfig) siteFile {
	sf := siteFile{
		Hosts:                    cfg.Hosts,
		TitleSelectors:           cfg.TitleSelectors,
		FilterTitles:             cfg.FilterTitles,
		SidebarSelectors:         cfg.SidebarSelectors,
		TitleBrand:               cfg.TitleBrand,
		TurnSelector:             cfg.TurnSelector,
		TurnRoleAttribute:        cfg.TurnRoleAttribute,
		UserMessageSelector:      cfg.UserMessageSelector,
		AssistantMessageSelector: cfg.AssistantMessageSelector,
		AssistantContentSelector: cfg.AssistantContentSelector,
		CopyButtonSelector:       cfg.CopyButtonSelector,
		EditButtonSelector:       cfg.EditButtonSelector,
		EditTextareaSelector:     cfg.EditTextareaSelector,
		MessageGroupSelector:     cfg.MessageGroupSelector,
	}
	if cfg.ConversationPath != nil {
		sf.ConversationPath = cfg.ConversationPath.String()
	}
	return sf
}

func (sf *siteFile) config() (dumpchat.SiteConfig, error) {
	cfg := dumpchat.SiteConfig{
		Hosts:                    sf.Hosts,
		TitleSelectors:           sf.TitleSelectors,
		FilterTitles:             sf.FilterTitles,
		SidebarSelectors:         sf.SidebarSelectors,
		TitleBrand:               sf.TitleBrand,
		TurnSelector:             sf.TurnSelector,
		TurnRoleAttribute:        sf.TurnRoleAttribute,
		UserMessageSelector:      sf.UserMessageSelector,
		AssistantMessageSelector: sf.AssistantMessageSelector,
		AssistantContentSelector: sf.AssistantContentSelector,
		CopyButtonSelector:       sf.CopyButtonSelector,
		EditButtonSelector:       sf.EditButtonSelector,
		EditTextareaSelector:     sf.EditTextareaSelector,
		MessageGroupSelector:     sf.MessageGroupSelector,
	}
	if sf.ConversationPath != "" {
		re, err := regexp.Compile(sf.ConversationPath)
		if err != nil {
			return cfg, dumpchat.Errorf(dumpchat.EINVALID, "invalid conversation path pattern %q: %v", sf.ConversationPath, err)
		}
		cfg.ConversationPath = re
	}
	return cfg, nil
}

// Load reads site configurations from r and applies them on top of base.
// base is not modified. Returns EINVALID for malformed YAML, unknown fields,
// bad patterns and sites missing required selectors.
func Load(r io.Reader, base map[dumpchat.Site]dumpchat.SiteConfig) (map[dumpchat.Site]dumpchat.SiteConfig, error) {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, dumpchat.Errorf(dumpchat.EINVALID, "invalid site config: %v", err)
	}

	sites := maps.Clone(base)
	if sites == nil {
		sites = make(map[dumpchat.Site]dumpchat.SiteConfig)
	}

	for _, name := range slices.Sorted(maps.Keys(f.Sites)) {
		site := dumpchat.Site(strings.ToLower(strings.TrimSpace(name)))
		if site == "" {
			return nil, dumpchat.Errorf(dumpchat.EINVALID, "site name required")
		}

		node := f.Sites[name]
		sf := siteFile{}
		if cfg, ok := sites[site]; ok {
			sf = toFile(cfg)
		}
		if node.Tag == "!!null" {
			node = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		}
		if err := decodeStrict(&node, &sf); err != nil {
			return nil, dumpchat.Errorf(dumpchat.EINVALID, "site %s: %v", site, err)
		}

		cfg, err := sf.config()
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, dumpchat.Errorf(dumpchat.EINVALID, "site %s: %s", site, dumpchat.ErrorMessage(err))
		}
		sites[site] = cfg
	}
	return sites, nil
}

// decodeStrict decodes node into v, which may be pre-populated, rejecting
// keys v does not declare.
func decodeStrict(node *yaml.Node, v any) error {
	raw, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// LoadFile reads site configurations from the file at path.
func LoadFile(path string, base map[dumpchat.Site]dumpchat.SiteConfig) (map[dumpchat.Site]dumpchat.SiteConfig, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, dumpchat.Errorf(dumpchat.ENOTFOUND, "config file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	return Load(f, base)
}

// Encode writes sites to w in the format Load reads.
func Encode(w io.Writer, sites map[dumpchat.Site]dumpchat.SiteConfig) error {
	out := struct {
		Sites map[string]siteFile `yaml:"sites"`
	}{Sites: make(map[string]siteFile, len(sites))}
	for site, cfg := range sites {
		out.Sites[string(site)] = toFile(cfg)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding site config: %w", err)
	}
	return enc.Close()
}
