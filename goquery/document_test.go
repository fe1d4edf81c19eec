package goquery_test

import (
	"context"
	"testing"

	"github.com/fwojciec/dumpchat"
	"github.com/fwojciec/dumpchat/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDocument(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromString(html, "https://chatgpt.com/c/abc")
	require.NoError(t, err)
	return doc
}

func mustQuery(t *testing.T, doc *goquery.Document, selector string) dumpchat.Element {
	t.Helper()
	el, err := doc.Query(context.Background(), selector)
	require.NoError(t, err)
	require.NotNil(t, el, selector)
	return el
}

func TestDocument_Query(t *testing.T) {
	t.Parallel()

	html := `<html><head><title>  Topic
	- ChatGPT </title></head><body>
<article data-testid="conversation-turn-1" data-turn="user"><div id="u" data-message-author-role="user">hi</div></article>
<article data-testid="conversation-turn-2" data-turn="assistant"><div id="a" data-message-author-role="assistant"><p>hello</p></div></article>
</body></html>`

	t.Run("returns nil when nothing matches", func(t *testing.T) {
		t.Parallel()

		doc := mustDocument(t, html)

		el, err := doc.Query(context.Background(), "section")

		require.NoError(t, err)
		assert.Nil(t, el)
	})

	t.Run("queries in document order", func(t *testing.T) {
		t.Parallel()

		doc := mustDocument(t, html)

		els, err := doc.QueryAll(context.Background(), `article[data-testid^="conversation-turn-"]`)
		require.NoError(t, err)
		require.Len(t, els, 2)

		role, err := els[1].Attr(context.Background(), "data-turn")
		require.NoError(t, err)
		assert.Equal(t, "assistant", role)
	})

	t.Run("closest includes the element itself", func(t *testing.T) {
		t.Parallel()

		doc := mustDocument(t, html)
		a := mustQuery(t, doc, "#a")

		self, err := a.Closest(context.Background(), `[data-message-author-role]`)
		require.NoError(t, err)
		assert.Equal(t, a.Key(), self.Key())

		turn, err := a.Closest(context.Background(), "article")
		require.NoError(t, err)
		ok, err := turn.Matches(context.Background(), `[data-turn="assistant"]`)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("same node has the same key", func(t *testing.T) {
		t.Parallel()

		doc := mustDocument(t, html)

		first := mustQuery(t, doc, "#u")
		second := mustQuery(t, doc, `[data-message-author-role="user"]`)

		assert.Equal(t, first.Key(), second.Key())
		assert.NotEqual(t, first.Key(), mustQuery(t, doc, "#a").Key())
	})

	t.Run("invalid selector", func(t *testing.T) {
		t.Parallel()

		doc := mustDocument(t, html)

		_, err := doc.QueryAll(context.Background(), "div[")

		assert.Equal(t, dumpchat.EINVALID, dumpchat.ErrorCode(err))
	})

	t.Run("document title collapses whitespace", func(t *testing.T) {
		t.Parallel()

		doc := mustDocument(t, html)

		title, err := doc.DocumentTitle(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "Topic - ChatGPT", title)
	})
}

func TestDocument_Events(t *testing.T) {
	t.Parallel()

	html := `<html><body><div class="group"><button id="copy">Copy</button><button id="edit">Edit</button></div></body></html>`

	t.Run("click listeners write to the clipboard", func(t *testing.T) {
		t.Parallel()

		doc := mustDocument(t, html)
		require.NoError(t, doc.OnClickCopy("#copy", "copied text"))

		var got []string
		stop, err := doc.Intercept(context.Background(), func(s string) { got = append(got, s) })
		require.NoError(t, err)

		require.NoError(t, mustQuery(t, doc, "#copy").Click(context.Background()))
		require.NoError(t, stop())

		assert.Equal(t, []string{"copied text"}, got)
	})

	t.Run("events bubble to ancestors", func(t *testing.T) {
		t.Parallel()

		doc := mustDocument(t, html)
		var hovered []string
		require.NoError(t, doc.On(".group", goquery.EventMouseEnter, func(_ context.Context, e *goquery.Event) {
			id, _ := e.Target.Attr(context.Background(), "id")
			hovered = append(hovered, id)
		}))

		require.NoError(t, mustQuery(t, doc, "#edit").Hover(context.Background()))

		assert.Equal(t, []string{"edit"}, hovered)
	})

	t.Run("listeners may mutate the tree", func(t *testing.T) {
		t.Parallel()

		doc := mustDocument(t, html)
		require.NoError(t, doc.On("#edit", goquery.EventClick, func(_ context.Context, e *goquery.Event) {
			e.Target.Selection().Parent().AppendHtml(`<textarea>draft</textarea>`)
		}))

		require.NoError(t, mustQuery(t, doc, "#edit").Click(context.Background()))

		value, err := mustQuery(t, doc, "textarea").Value(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "draft", value)
	})

	t.Run("escape reaches body listeners", func(t *testing.T) {
		t.Parallel()

		doc := mustDocument(t, html)
		var keys []string
		require.NoError(t, doc.On("body", goquery.EventKeyDown, func(_ context.Context, e *goquery.Event) {
			keys = append(keys, e.Key)
		}))

		require.NoError(t, doc.PressEscape(context.Background()))

		assert.Equal(t, []string{"Escape"}, keys)
	})
}

func TestCheckSelectors(t *testing.T) {
	t.Parallel()

	t.Run("built-in configs compile", func(t *testing.T) {
		t.Parallel()

		for site, cfg := range dumpchat.DefaultSiteConfigs() {
			assert.NoError(t, goquery.CheckSelectors(&cfg), site)
		}
	})

	t.Run("reports the broken selector", func(t *testing.T) {
		t.Parallel()

		cfg := dumpchat.DefaultSiteConfigs()[dumpchat.SiteClaude]
		cfg.CopyButtonSelector = "button[data-testid="

		err := goquery.CheckSelectors(&cfg)

		assert.Equal(t, dumpchat.EINVALID, dumpchat.ErrorCode(err))
		assert.Contains(t, dumpchat.ErrorMessage(err), "copyButtonSelector")
	})
}
