package extract_test

import (
	"context"
	"testing"

	"github.com/fwojciec/dumpchat"
	"github.com/fwojciec/dumpchat/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTitle(t *testing.T) {
	t.Parallel()

	sites := dumpchat.DefaultSiteConfigs()
	chatgpt := sites[dumpchat.SiteChatGPT]
	claude := sites[dumpchat.SiteClaude]

	tests := []struct {
		name string
		url  string
		cfg  *dumpchat.SiteConfig
		html string
		want string
	}{
		{
			name: "reads the active sidebar item",
			url:  chatGPTURL,
			cfg:  &chatgpt,
			html: `<html><body><nav id="history"><a href="/c/abc" data-active=""><div dir="auto">Active Topic</div></a></nav><main></main></body></html>`,
			want: "Active Topic",
		},
		{
			name: "finds the sidebar item linking to the current path",
			url:  chatGPTURL,
			cfg:  &chatgpt,
			html: `<html><body><nav><a href="/c/other"><span>Other Topic</span></a><a href="/c/abc"><span>Linked Topic</span></a></nav></body></html>`,
			want: "Linked Topic",
		},
		{
			name: "skips navigation labels and strips the brand",
			url:  chatGPTURL,
			cfg:  &chatgpt,
			html: `<html><head><title>Branch · Feedback Harness for AI - ChatGPT</title></head><body><main><h1>New chat</h1></main></body></html>`,
			want: "Branch · Feedback Harness for AI",
		},
		{
			name: "prefers the page heading",
			url:  chatGPTURL,
			cfg:  &chatgpt,
			html: `<html><body><main><h1>Release Planning</h1></main><nav><a href="/c/abc"><span>Linked Topic</span></a></nav></body></html>`,
			want: "Release Planning",
		},
		{
			name: "reads the chat title control",
			url:  claudeURL,
			cfg:  &claude,
			html: `<html><head><title>Ignored - Claude</title></head><body><button data-testid="chat-title-button"><div class="truncate">Trip Ideas</div></button></body></html>`,
			want: "Trip Ideas",
		},
		{
			name: "returns empty when only the brand remains",
			url:  claudeURL,
			cfg:  &claude,
			html: `<html><head><title>Claude</title></head><body></body></html>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := mustDocument(t, tt.url, tt.html)

			got, err := extract.ResolveTitle(context.Background(), doc, tt.cfg)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
