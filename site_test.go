package dumpchat_test

import (
	"testing"

	"github.com/fwojciec/dumpchat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectSite(t *testing.T) {
	t.Parallel()

	sites := dumpchat.DefaultSiteConfigs()

	t.Run("detects built-in hosts", func(t *testing.T) {
		t.Parallel()

		site, err := dumpchat.DetectSite("https://chatgpt.com/c/abc", sites)
		require.NoError(t, err)
		assert.Equal(t, dumpchat.SiteChatGPT, site)

		site, err = dumpchat.DetectSite("https://claude.ai/chat/xyz", sites)
		require.NoError(t, err)
		assert.Equal(t, dumpchat.SiteClaude, site)
	})

	t.Run("matches subdomains", func(t *testing.T) {
		t.Parallel()

		site, err := dumpchat.DetectSite("https://www.chatgpt.com/c/abc", sites)
		require.NoError(t, err)
		assert.Equal(t, dumpchat.SiteChatGPT, site)
	})

	t.Run("unsupported host", func(t *testing.T) {
		t.Parallel()

		_, err := dumpchat.DetectSite("https://example.com/c/abc", sites)

		assert.Equal(t, dumpchat.ENOTFOUND, dumpchat.ErrorCode(err))
	})

	t.Run("invalid URL", func(t *testing.T) {
		t.Parallel()

		_, err := dumpchat.DetectSite("not a url", sites)

		assert.Equal(t, dumpchat.EINVALID, dumpchat.ErrorCode(err))
	})
}

func TestSiteConfig(t *testing.T) {
	t.Parallel()

	t.Run("conversation paths", func(t *testing.T) {
		t.Parallel()

		sites := dumpchat.DefaultSiteConfigs()
		chatgpt := sites[dumpchat.SiteChatGPT]
		claude := sites[dumpchat.SiteClaude]

		assert.True(t, chatgpt.IsConversationPath("/c/123"))
		assert.False(t, chatgpt.IsConversationPath("/gpts"))
		assert.True(t, claude.IsConversationPath("/chat/123"))
		assert.False(t, claude.IsConversationPath("/new"))
	})

	t.Run("built-in configs are valid", func(t *testing.T) {
		t.Parallel()

		for site, cfg := range dumpchat.DefaultSiteConfigs() {
			assert.NoError(t, cfg.Validate(), site)
		}
	})

	t.Run("missing copy selector is invalid", func(t *testing.T) {
		t.Parallel()

		cfg := dumpchat.DefaultSiteConfigs()[dumpchat.SiteClaude]
		cfg.CopyButtonSelector = ""

		assert.Equal(t, dumpchat.EINVALID, dumpchat.ErrorCode(cfg.Validate()))
	})

	t.Run("defaults are independent copies", func(t *testing.T) {
		t.Parallel()

		a := dumpchat.DefaultSiteConfigs()
		a[dumpchat.SiteChatGPT] = dumpchat.SiteConfig{}

		b := dumpchat.DefaultSiteConfigs()
		cfg := b[dumpchat.SiteChatGPT]
		assert.NotEmpty(t, cfg.UserMessageSelector)
	})

	t.Run("sorted sites", func(t *testing.T) {
		t.Parallel()

		got := dumpchat.SortedSites(dumpchat.DefaultSiteConfigs())

		assert.Equal(t, []dumpchat.Site{dumpchat.SiteChatGPT, dumpchat.SiteClaude}, got)
	})
}
