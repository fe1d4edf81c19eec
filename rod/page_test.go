//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/dumpchat"
	"github.com/fwojciec/dumpchat/extract"
	"github.com/fwojciec/dumpchat/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// conversationHTML mimics a chat page whose copy buttons write through the
// async clipboard API.
const conversationHTML = `<!DOCTYPE html><html><head><title>Integration Topic - ChatGPT</title></head><body><main>
<article data-testid="conversation-turn-1" data-turn="user">
  <div data-message-author-role="user"><div class="whitespace-pre-wrap">Ping?</div></div>
</article>
<article data-testid="conversation-turn-2" data-turn="assistant">
  <div data-message-author-role="assistant"><div class="markdown"><p>rendered pong</p></div></div>
  <button data-testid="copy-turn-action-button" aria-label="Copy" onclick="navigator.clipboard.writeText('**pong**')">Copy</button>
</article>
<article data-testid="conversation-turn-3" data-turn="assistant" hidden>
  <div data-message-author-role="assistant"><div class="markdown"><p>hidden</p></div></div>
</article>
</main>
<p id="ghost" style="visibility: hidden">ghost text</p>
<button id="quiet-copy">Share</button>
<script>
	window.originalWriteText = navigator.clipboard.writeText;
	const quiet = document.getElementById("quiet-copy");
	quiet.addEventListener("copy", (e) => e.stopPropagation());
	quiet.addEventListener("click", () => {
		const data = new DataTransfer();
		data.setData("text/plain", "quiet copy");
		quiet.dispatchEvent(new ClipboardEvent("copy", {clipboardData: data, bubbles: true}));
	});
</script>
</body></html>`

func openConversation(t *testing.T) dumpchat.Page {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(conversationHTML))
	}))
	t.Cleanup(srv.Close)

	manager, err := rod.NewBrowserManager()
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })

	page, err := manager.OpenPage(context.Background(), srv.URL+"/c/abc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = page.Close() })
	return page
}

func TestPage_Query(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	page := openConversation(t)

	turns, err := page.QueryAll(ctx, `article[data-testid^="conversation-turn-"]`)
	require.NoError(t, err)
	require.Len(t, turns, 3)

	visible, err := turns[2].Visible(ctx)
	require.NoError(t, err)
	assert.False(t, visible)

	button, err := turns[1].Query(ctx, "button")
	require.NoError(t, err)
	require.NotNil(t, button)

	root, err := button.Closest(ctx, "article")
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.Equal(t, turns[1].Key(), root.Key())

	missing, err := button.Closest(ctx, "section")
	require.NoError(t, err)
	assert.Nil(t, missing)

	text, err := turns[1].Text(ctx)
	require.NoError(t, err)
	assert.Contains(t, text, "rendered pong")

	// innerText is empty for invisible text, so the raw content is used.
	ghost, err := page.Query(ctx, "#ghost")
	require.NoError(t, err)
	require.NotNil(t, ghost)
	text, err = ghost.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ghost text", text)
}

func TestPage_Intercept(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	page := openConversation(t)

	var (
		mu       sync.Mutex
		captures []string
	)
	snapshot := func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), captures...)
	}
	stop, err := page.Intercept(ctx, func(text string) {
		mu.Lock()
		defer mu.Unlock()
		captures = append(captures, text)
	})
	require.NoError(t, err)

	copyButton, err := page.Query(ctx, `button[data-testid="copy-turn-action-button"]`)
	require.NoError(t, err)
	quietButton, err := page.Query(ctx, "#quiet-copy")
	require.NoError(t, err)

	// Write through the async clipboard API.
	require.NoError(t, copyButton.Click(ctx))
	assert.Eventually(t, func() bool { return len(snapshot()) == 1 }, 5*time.Second, 50*time.Millisecond)

	// A copy event whose handler stops propagation is still seen.
	require.NoError(t, quietButton.Click(ctx))
	assert.Eventually(t, func() bool { return len(snapshot()) == 2 }, 5*time.Second, 50*time.Millisecond)

	require.NoError(t, stop())

	restored, err := page.(*rod.Page).Rod().Eval(`() => navigator.clipboard.writeText === window.originalWriteText`)
	require.NoError(t, err)
	assert.True(t, restored.Value.Bool())

	// Nothing is captured once stopped.
	require.NoError(t, copyButton.Click(ctx))
	require.NoError(t, quietButton.Click(ctx))
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, []string{"**pong**", "quiet copy"}, snapshot())
}

func TestExtractor_Export_LivePage(t *testing.T) {
	t.Parallel()

	page := openConversation(t)

	data, err := extract.NewExtractor(extract.WithTiming(extract.Timing{
		CaptureTimeout: 2 * time.Second,
		PollInterval:   20 * time.Millisecond,
	})).Export(context.Background(), page, dumpchat.SiteChatGPT)

	require.NoError(t, err)
	assert.Equal(t, []string{"Ping?"}, data.Users)
	assert.Equal(t, []string{"**pong**"}, data.Assistants)
	assert.Equal(t, "Integration Topic", data.Title)
	assert.Equal(t, 1, data.Provenance.ClipboardCaptures)
}
