package dumpchat_test

import (
	"testing"
	"time"

	"github.com/fwojciec/dumpchat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMarkdown(t *testing.T) {
	t.Parallel()

	exportedAt := time.Date(2025, 3, 4, 5, 6, 7, 890_000_000, time.UTC)

	t.Run("interleaves turns with markers", func(t *testing.T) {
		t.Parallel()

		data := &dumpchat.ExportData{
			Site:       dumpchat.SiteChatGPT,
			URL:        `https://chatgpt.com/c/1?a=1&b="2"`,
			Title:      "Topic",
			ExportedAt: exportedAt,
			Users:      []string{"Question one", "Question two"},
			Assistants: []string{"Answer one\r\n"},
		}

		got, err := dumpchat.FormatMarkdown(data, dumpchat.MarkdownOptions{})
		require.NoError(t, err)

		url := `https://chatgpt.com/c/1?a=1&amp;b=&quot;2&quot;`
		expected := "# Topic\n" +
			"\n" +
			"- Source: chatgpt\n" +
			"- URL: https://chatgpt.com/c/1?a=1&b=\"2\"\n" +
			"- Exported: 2025-03-04T05:06:07.890Z\n" +
			"- Format: XML-style turn markers with raw markdown bodies\n" +
			"\n" +
			`<turn index="001" role="user" url="` + url + "\">\n\nQuestion one\n\n</turn>\n\n" +
			`<turn index="001" role="assistant" url="` + url + "\">\n\nAnswer one\n\n</turn>\n\n" +
			`<turn index="002" role="user" url="` + url + "\">\n\nQuestion two\n\n</turn>"
		assert.Equal(t, expected, got)
	})

	t.Run("fenced bodies outgrow inner backtick runs", func(t *testing.T) {
		t.Parallel()

		data := &dumpchat.ExportData{
			Title:      "T",
			ExportedAt: exportedAt,
			Assistants: []string{"```go\nx\n```"},
		}

		got, err := dumpchat.FormatMarkdown(data, dumpchat.MarkdownOptions{Fenced: true})
		require.NoError(t, err)

		assert.Contains(t, got, "````markdown\n```go\nx\n```\n````")
		assert.Contains(t, got, "fenced markdown bodies")
	})

	t.Run("no messages", func(t *testing.T) {
		t.Parallel()

		_, err := dumpchat.FormatMarkdown(&dumpchat.ExportData{}, dumpchat.MarkdownOptions{})

		assert.Equal(t, dumpchat.ENOTFOUND, dumpchat.ErrorCode(err))
		assert.Equal(t, "No messages found on this page", dumpchat.ErrorMessage(err))
	})
}

func TestFence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "```", dumpchat.Fence("no backticks"))
	assert.Equal(t, "```", dumpchat.Fence("`inline`"))
	assert.Equal(t, "`````", dumpchat.Fence("````"))
}
