// Package clipboard provides an in-process clipboard surface and the
// interception bridge that observes writes made through it.
package clipboard

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/fwojciec/dumpchat"
)

type copyListener struct {
	id int
	fn func(*CopyEvent)
}

// ErrUnavailable is returned by a write on a channel with no binding.
var ErrUnavailable = errors.New("clipboard unavailable")

// CopyEvent is a document copy event. Data maps MIME types to the text the
// copy placed on its clipboardData.
type CopyEvent struct {
	Data map[string]string
}

// GetData returns the representation stored under mimeType.
func (e *CopyEvent) GetData(mimeType string) string {
	return e.Data[mimeType]
}

// Host is the clipboard surface a page writes through: a replaceable
// plain-text binding, a replaceable rich-item binding, and capture-phase
// listeners for document copy events. Bindings are swapped in place the way
// a page script reassigns navigator.clipboard methods.
//
// Host is safe for concurrent use.
type Host struct {
	mu        sync.Mutex
	text      dumpchat.TextWriter
	items     dumpchat.ItemWriter
	listeners []copyListener
	nextID    int
}

// NewHost returns a Host bound to the given channels. Either may be nil.
func NewHost(text dumpchat.TextWriter, items dumpchat.ItemWriter) *Host {
	return &Host{text: text, items: items}
}

// TextWriter returns the current plain-text binding.
func (h *Host) TextWriter() dumpchat.TextWriter {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.text
}

// SetTextWriter replaces the plain-text binding.
func (h *Host) SetTextWriter(w dumpchat.TextWriter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.text = w
}

// ItemWriter returns the current rich-item binding.
func (h *Host) ItemWriter() dumpchat.ItemWriter {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.items
}

// SetItemWriter replaces the rich-item binding.
func (h *Host) SetItemWriter(w dumpchat.ItemWriter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = w
}

// WriteText writes through the current plain-text binding.
func (h *Host) WriteText(ctx context.Context, text string) error {
	w := h.TextWriter()
	if w == nil {
		return ErrUnavailable
	}
	return w.WriteText(ctx, text)
}

// Write writes through the current rich-item binding.
func (h *Host) Write(ctx context.Context, items []dumpchat.ClipboardItem) error {
	w := h.ItemWriter()
	if w == nil {
		return ErrUnavailable
	}
	return w.Write(ctx, items)
}

// AddCopyListener registers fn for copy events and returns a function that
// removes it.
func (h *Host) AddCopyListener(fn func(*CopyEvent)) (remove func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners = append(h.listeners, copyListener{id: id, fn: fn})
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.listeners = slices.DeleteFunc(h.listeners, func(l copyListener) bool { return l.id == id })
	}
}

// CopyListeners returns the number of registered copy listeners.
func (h *Host) CopyListeners() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}

// DispatchCopy delivers a copy event to every listener in registration
// order.
func (h *Host) DispatchCopy(e *CopyEvent) {
	h.mu.Lock()
	listeners := slices.Clone(h.listeners)
	h.mu.Unlock()

	for _, l := range listeners {
		l.fn(e)
	}
}
