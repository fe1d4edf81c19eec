package extract_test

import (
	"context"
	"testing"

	"github.com/fwojciec/dumpchat"
	"github.com/fwojciec/dumpchat/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const batchConversation = `<html><body><main>
<article data-testid="conversation-turn-1">
  <div data-message-author-role="user">What is Go?</div>
  <button id="cu" aria-label="Copy message">Copy</button>
</article>
<article data-testid="conversation-turn-2">
  <div data-message-author-role="assistant"><div class="markdown"><p>fallback-a1</p></div></div>
  <button id="c1" data-testid="copy-turn-action-button">Copy</button>
</article>
<article data-testid="conversation-turn-3">
  <div data-message-author-role="assistant"><div class="markdown"><p>fallback-a2</p></div></div>
  <button id="c2" data-testid="copy-turn-action-button">Copy</button>
</article>
<article data-testid="conversation-turn-4">
  <div data-message-author-role="assistant"><div class="markdown"><p>fallback-a3</p></div></div>
  <button id="c3" data-testid="copy-turn-action-button">Copy</button>
</article>
<button style="display: none" aria-label="Copy link">Copy</button>
</main></body></html>`

func TestExtractor_Export_Batch(t *testing.T) {
	t.Parallel()

	t.Run("separates user copies from assistant captures", func(t *testing.T) {
		t.Parallel()

		doc := mustDocument(t, chatGPTURL, batchConversation)
		mustCopy(t, doc, "#cu", "What is Go?")
		mustCopy(t, doc, "#c1", "copied-a1")
		mustCopy(t, doc, "#c3", "copied-a3")

		data, err := newExtractor(extract.WithMode(extract.ModeBatch)).Export(context.Background(), doc, dumpchat.SiteChatGPT)

		require.NoError(t, err)
		assert.Equal(t, []string{"What is Go?"}, data.Users)
		assert.Equal(t, []string{"copied-a1", "fallback-a2", "copied-a3"}, data.Assistants)
		assert.Equal(t, dumpchat.Provenance{
			CopyButtonsTotal:           5,
			CopyButtonsVisible:         4,
			CopyButtonsAfterUserFilter: 3,
			ClipboardCaptures:          3,
			FilteredByRoleHintCount:    1,
			FallbackCount:              3,
			UsedFallbackCount:          1,
			FilteredAsUserMatchCount:   1,
			UserCopyReplacementsCount:  1,
		}, data.Provenance)
	})

	t.Run("drops assistant captures that echo a user message", func(t *testing.T) {
		t.Parallel()

		doc := mustDocument(t, chatGPTURL, `<html><body><main>
<article data-testid="conversation-turn-1">
  <div data-message-author-role="user">What is Go?</div>
</article>
<article data-testid="conversation-turn-2">
  <div data-message-author-role="assistant"><p>quoted</p></div>
  <button id="c1" data-testid="copy-turn-action-button">Copy</button>
</article>
<article data-testid="conversation-turn-3">
  <div data-message-author-role="assistant"><p>a2</p></div>
  <button id="c2" data-testid="copy-turn-action-button">Copy</button>
</article>
<article data-testid="conversation-turn-4">
  <div data-message-author-role="assistant"><p>a3</p></div>
  <button id="c3" data-testid="copy-turn-action-button">Copy</button>
</article>
</main></body></html>`)
		mustCopy(t, doc, "#c1", "> what is   Go?")
		mustCopy(t, doc, "#c2", "copied-a2")
		mustCopy(t, doc, "#c3", "copied-a3")

		data, err := newExtractor(extract.WithMode(extract.ModeBatch)).Export(context.Background(), doc, dumpchat.SiteChatGPT)

		require.NoError(t, err)
		assert.Equal(t, []string{"copied-a2", "copied-a3"}, data.Assistants)
		assert.Equal(t, 1, data.Provenance.FilteredAsUserMatchCount)
		assert.Equal(t, 0, data.Provenance.FilteredByRoleHintCount)
		assert.Equal(t, 1, data.Provenance.UserCopyReplacementsCount)
	})

	t.Run("repeated user messages each take one copy in order", func(t *testing.T) {
		t.Parallel()

		doc := mustDocument(t, chatGPTURL, `<html><body><main>
<article data-testid="conversation-turn-1">
  <div data-message-author-role="user">again</div>
  <button id="cu1" aria-label="Copy message">Copy</button>
</article>
<article data-testid="conversation-turn-2">
  <div data-message-author-role="user">again</div>
</article>
<article data-testid="conversation-turn-3">
  <div data-message-author-role="assistant"><p>echo</p></div>
  <button id="ca1" data-testid="copy-turn-action-button">Copy</button>
</article>
<article data-testid="conversation-turn-4">
  <div data-message-author-role="assistant"><p>answer</p></div>
  <button id="ca2" data-testid="copy-turn-action-button">Copy</button>
</article>
</main></body></html>`)
		mustCopy(t, doc, "#cu1", "Again")
		mustCopy(t, doc, "#ca1", "again")
		mustCopy(t, doc, "#ca2", "real answer")

		data, err := newExtractor(extract.WithMode(extract.ModeBatch)).Export(context.Background(), doc, dumpchat.SiteChatGPT)

		require.NoError(t, err)
		assert.Equal(t, []string{"Again", "again"}, data.Users)
		assert.Equal(t, []string{"real answer"}, data.Assistants)
		assert.Equal(t, 1, data.Provenance.FilteredByRoleHintCount)
		assert.Equal(t, 2, data.Provenance.FilteredAsUserMatchCount)
		assert.Equal(t, 2, data.Provenance.UserCopyReplacementsCount)
		assert.NoError(t, data.Provenance.Validate())
	})

	t.Run("reads every assistant message when no control is visible", func(t *testing.T) {
		t.Parallel()

		doc := mustDocument(t, chatGPTURL, `<html><body><main>
<article data-testid="conversation-turn-1">
  <div data-message-author-role="user">Hello</div>
</article>
<article data-testid="conversation-turn-2">
  <div data-message-author-role="assistant"><div class="markdown"><p>fallback-a1</p></div></div>
</article>
<article data-testid="conversation-turn-3">
  <div data-message-author-role="assistant"></div>
</article>
</main></body></html>`)

		data, err := newExtractor(extract.WithMode(extract.ModeBatch)).Export(context.Background(), doc, dumpchat.SiteChatGPT)

		require.NoError(t, err)
		assert.Equal(t, []string{"fallback-a1", ""}, data.Assistants)
		assert.Equal(t, 2, data.Provenance.FallbackCount)
		assert.Equal(t, 2, data.Provenance.UsedFallbackCount)
		assert.Equal(t, 1, data.Provenance.EmptyCount)
		assert.Equal(t, 0, data.Provenance.CopyButtonsAfterUserFilter)
	})

	t.Run("runs for sites without a turn selector", func(t *testing.T) {
		t.Parallel()

		cfg := dumpchat.DefaultSiteConfigs()[dumpchat.SiteChatGPT]
		cfg.TurnSelector = ""
		site := dumpchat.Site("custom")
		doc := mustDocument(t, chatGPTURL, batchConversation)
		mustCopy(t, doc, "#c1", "copied-a1")

		data, err := newExtractor(extract.WithSites(map[dumpchat.Site]dumpchat.SiteConfig{site: cfg})).Export(context.Background(), doc, site)

		require.NoError(t, err)
		assert.Equal(t, []string{"copied-a1", "fallback-a2", "fallback-a3"}, data.Assistants)
		assert.Equal(t, "custom conversation", data.Title)
	})
}
