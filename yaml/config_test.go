package yaml_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/dumpchat"
	"github.com/fwojciec/dumpchat/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("overrides only the fields set", func(t *testing.T) {
		t.Parallel()

		base := dumpchat.DefaultSiteConfigs()

		sites, err := yaml.Load(strings.NewReader(`
sites:
  chatgpt:
    copyButtonSelector: 'button[data-testid="copy-turn-action-button"]'
    titleSelectors: ['main h1']
`), base)

		require.NoError(t, err)
		got := sites[dumpchat.SiteChatGPT]
		assert.Equal(t, `button[data-testid="copy-turn-action-button"]`, got.CopyButtonSelector)
		assert.Equal(t, []string{"main h1"}, got.TitleSelectors)
		assert.Equal(t, base[dumpchat.SiteChatGPT].UserMessageSelector, got.UserMessageSelector)
		assert.True(t, got.FilterTitles)
		assert.True(t, got.IsConversationPath("/c/abc"))
		assert.Len(t, base[dumpchat.SiteChatGPT].TitleSelectors, 11, "base must not change")
		assert.Equal(t, base[dumpchat.SiteClaude], sites[dumpchat.SiteClaude])
	})

	t.Run("declares new sites", func(t *testing.T) {
		t.Parallel()

		sites, err := yaml.Load(strings.NewReader(`
sites:
  Gemini:
    hosts: [gemini.google.com]
    conversationPath: ^/app/
    userMessageSelector: user-query
    assistantMessageSelector: model-response
    copyButtonSelector: 'button[aria-label="Copy"]'
`), dumpchat.DefaultSiteConfigs())

		require.NoError(t, err)
		require.Contains(t, sites, dumpchat.Site("gemini"))
		got := sites["gemini"]
		assert.Equal(t, []string{"gemini.google.com"}, got.Hosts)
		assert.True(t, got.IsConversationPath("/app/123"))
		assert.Empty(t, got.TurnSelector)
		assert.Len(t, sites, 3)
	})

	t.Run("accepts an empty file", func(t *testing.T) {
		t.Parallel()

		sites, err := yaml.Load(strings.NewReader(""), dumpchat.DefaultSiteConfigs())

		require.NoError(t, err)
		assert.Len(t, sites, 2)
	})

	t.Run("keeps a built-in site listed without fields", func(t *testing.T) {
		t.Parallel()

		sites, err := yaml.Load(strings.NewReader("sites:\n  claude:\n"), dumpchat.DefaultSiteConfigs())

		require.NoError(t, err)
		assert.Equal(t, "claude.ai", sites[dumpchat.SiteClaude].Hosts[0])
	})

	tests := []struct {
		name string
		yaml string
	}{
		{name: "malformed yaml", yaml: "sites: [unclosed"},
		{name: "unknown field", yaml: "sites:\n  chatgpt:\n    copyButton: button\n"},
		{name: "bad pattern", yaml: "sites:\n  chatgpt:\n    conversationPath: '^/c/('\n"},
		{name: "new site missing selectors", yaml: "sites:\n  gemini:\n    hosts: [gemini.google.com]\n    conversationPath: ^/app/\n"},
		{name: "override clearing a required selector", yaml: "sites:\n  claude:\n    copyButtonSelector: ''\n"},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := yaml.Load(strings.NewReader(tt.yaml), dumpchat.DefaultSiteConfigs())

			assert.Equal(t, dumpchat.EINVALID, dumpchat.ErrorCode(err))
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("reads the file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "sites.yaml")
		require.NoError(t, os.WriteFile(path, []byte("sites:\n  claude:\n    titleBrand: Anthropic\n"), 0644))

		sites, err := yaml.LoadFile(path, dumpchat.DefaultSiteConfigs())

		require.NoError(t, err)
		assert.Equal(t, "Anthropic", sites[dumpchat.SiteClaude].TitleBrand)
	})

	t.Run("reports a missing file", func(t *testing.T) {
		t.Parallel()

		_, err := yaml.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), nil)

		assert.Equal(t, dumpchat.ENOTFOUND, dumpchat.ErrorCode(err))
	})
}

func TestEncode(t *testing.T) {
	t.Parallel()

	base := dumpchat.DefaultSiteConfigs()
	var buf bytes.Buffer

	require.NoError(t, yaml.Encode(&buf, base))

	assert.Contains(t, buf.String(), "conversationPath:")
	sites, err := yaml.Load(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, base[dumpchat.SiteClaude].CopyButtonSelector, sites[dumpchat.SiteClaude].CopyButtonSelector)
	assert.Equal(t, base[dumpchat.SiteChatGPT].SidebarSelectors, sites[dumpchat.SiteChatGPT].SidebarSelectors)
}
