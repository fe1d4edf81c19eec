package dumpchat_test

import (
	"testing"

	"github.com/fwojciec/dumpchat"
	"github.com/stretchr/testify/assert"
)

func TestIsLikelyTitle(t *testing.T) {
	t.Parallel()

	t.Run("rejects navigation labels", func(t *testing.T) {
		t.Parallel()

		for _, label := range []string{"ChatGPT", "New chat", "Search chats", "Library", "Apps", "Deep research", "GPTs", "Projects", "Codex"} {
			assert.False(t, dumpchat.IsLikelyTitle(label), label)
		}
	})

	t.Run("rejects short and empty values", func(t *testing.T) {
		t.Parallel()

		assert.False(t, dumpchat.IsLikelyTitle(""))
		assert.False(t, dumpchat.IsLikelyTitle("ab"))
	})

	t.Run("accepts conversation names", func(t *testing.T) {
		t.Parallel()

		assert.True(t, dumpchat.IsLikelyTitle("Active Topic"))
		assert.True(t, dumpchat.IsLikelyTitle("Go"+"!"))
	})
}

func TestStripTitleBrand(t *testing.T) {
	t.Parallel()

	t.Run("removes brand suffix", func(t *testing.T) {
		t.Parallel()

		got := dumpchat.StripTitleBrand("Branch · Feedback Harness for AI - ChatGPT", "ChatGPT")

		assert.Equal(t, "Branch · Feedback Harness for AI", got)
	})

	t.Run("removes brand prefix", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Topic", dumpchat.StripTitleBrand("chatgpt | Topic", "ChatGPT"))
	})

	t.Run("bare brand yields empty", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, dumpchat.StripTitleBrand("ChatGPT", "ChatGPT"))
		assert.Empty(t, dumpchat.StripTitleBrand("   ", "ChatGPT"))
	})

	t.Run("keeps titles without brand", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Plain - Title", dumpchat.StripTitleBrand("Plain - Title", "Claude"))
	})
}

func TestDefaultTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "claude conversation", dumpchat.DefaultTitle(dumpchat.SiteClaude))
}
