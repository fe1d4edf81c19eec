package dumpchat_test

import (
	"testing"
	"time"

	"github.com/fwojciec/dumpchat"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	t.Run("lowercases and dashes", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "branch-feedback-harness-for-ai", dumpchat.SanitizeFilename("Branch · Feedback Harness for AI"))
	})

	t.Run("trims edge separators", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "hello_world", dumpchat.SanitizeFilename("  _-Hello_World-_ "))
	})

	t.Run("falls back when nothing is left", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "conversation-export", dumpchat.SanitizeFilename("???"))
	})
}

func TestFilenames(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 1, 2, 3, 4, 5, 678_000_000, time.FixedZone("CET", 3600))

	t.Run("timestamp drops milliseconds and colons", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "2025-01-02T02-04-05Z", dumpchat.FilenameTimestamp(at))
		assert.Equal(t, "2025-01-02T02:04:05.678Z", dumpchat.FormatTimestamp(at))
	})

	t.Run("export filename", func(t *testing.T) {
		t.Parallel()

		data := &dumpchat.ExportData{Title: "My Chat", ExportedAt: at}

		assert.Equal(t, "my-chat-2025-01-02T02-04-05Z.md", dumpchat.ExportFilename(data))
	})

	t.Run("diagnostics filename", func(t *testing.T) {
		t.Parallel()

		got := dumpchat.DiagnosticsFilename(dumpchat.SiteClaude, at)

		assert.Equal(t, "chat-export-diagnostics-claude-2025-01-02T02-04-05Z.json", got)
	})
}
