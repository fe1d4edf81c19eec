package extract

import (
	"sync"

	"github.com/fwojciec/dumpchat"
)

// captureLog records clipboard captures in arrival order. Captures may
// arrive from another goroutine.
type captureLog struct {
	mu    sync.Mutex
	texts []string
}

// add records text normalized; empty text is ignored.
func (l *captureLog) add(text string) {
	text = dumpchat.NormalizeText(text)
	if text == "" {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.texts = append(l.texts, text)
}

func (l *captureLog) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.texts)
}

// at returns the capture at position i, or "" when there is none.
func (l *captureLog) at(i int) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= len(l.texts) {
		return ""
	}
	return l.texts[i]
}
