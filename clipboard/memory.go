package clipboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/dumpchat"
)

var (
	_ dumpchat.TextWriter    = (*Memory)(nil)
	_ dumpchat.ItemWriter    = (*Memory)(nil)
	_ dumpchat.ClipboardItem = (*Item)(nil)
)

// Memory is a system clipboard held in memory. It keeps the text of the
// last write.
type Memory struct {
	mu   sync.Mutex
	text string
	// Err, when set, fails every write after recording it.
	Err error
}

// Text returns the text of the last write.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

func (m *Memory) WriteText(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return m.Err
}

func (m *Memory) Write(ctx context.Context, items []dumpchat.ClipboardItem) error {
	for _, item := range items {
		if !HasType(item, dumpchat.MIMETextPlain) {
			continue
		}
		text, err := item.GetType(ctx, dumpchat.MIMETextPlain)
		if err != nil {
			return err
		}
		m.mu.Lock()
		m.text = text
		m.mu.Unlock()
	}
	return m.Err
}

// Item is a clipboard item built from MIME type to text pairs.
type Item struct {
	Data map[string]string
}

// NewTextItem returns an item with a single text/plain representation.
func NewTextItem(text string) *Item {
	return &Item{Data: map[string]string{dumpchat.MIMETextPlain: text}}
}

func (i *Item) Types() []string {
	types := make([]string, 0, len(i.Data))
	for t := range i.Data {
		types = append(types, t)
	}
	return types
}

func (i *Item) GetType(_ context.Context, mimeType string) (string, error) {
	v, ok := i.Data[mimeType]
	if !ok {
		return "", fmt.Errorf("clipboard item has no %s representation", mimeType)
	}
	return v, nil
}

// HasType reports whether item offers mimeType.
func HasType(item dumpchat.ClipboardItem, mimeType string) bool {
	for _, t := range item.Types() {
		if t == mimeType {
			return true
		}
	}
	return false
}
