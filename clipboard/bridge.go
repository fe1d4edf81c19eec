package clipboard

import (
	"context"
	"sync"

	"github.com/fwojciec/dumpchat"
)

// Intercept hooks every write channel of h and reports captured text to
// onCapture:
//
//   - copy events are observed by a listener and their text/plain data is
//     delivered normalized;
//   - plain-text writes deliver their argument, then reach the original
//     binding;
//   - rich writes deliver the text/plain representation of each item that
//     offers one, skipping items that fail to resolve, then reach the
//     original binding.
//
// Empty text is never delivered. Failures of the original bindings are
// swallowed so the page keeps behaving normally. The returned stop function
// restores the exact original bindings and removes the listener; it is
// idempotent.
func Intercept(h *Host, onCapture dumpchat.CaptureFunc) (stop func()) {
	deliver := func(text string) {
		if text != "" {
			onCapture(text)
		}
	}

	removeListener := h.AddCopyListener(func(e *CopyEvent) {
		deliver(dumpchat.NormalizeText(e.GetData(dumpchat.MIMETextPlain)))
	})

	origText := h.TextWriter()
	origItems := h.ItemWriter()
	if origText != nil {
		h.SetTextWriter(&textHook{next: origText, deliver: deliver})
	}
	if origItems != nil {
		h.SetItemWriter(&itemHook{next: origItems, deliver: deliver})
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			removeListener()
			if origText != nil {
				h.SetTextWriter(origText)
			}
			if origItems != nil {
				h.SetItemWriter(origItems)
			}
		})
	}
}

type textHook struct {
	next    dumpchat.TextWriter
	deliver func(string)
}

func (w *textHook) WriteText(ctx context.Context, text string) error {
	w.deliver(text)
	_ = w.next.WriteText(ctx, text)
	return nil
}

type itemHook struct {
	next    dumpchat.ItemWriter
	deliver func(string)
}

func (w *itemHook) Write(ctx context.Context, items []dumpchat.ClipboardItem) error {
	for _, item := range items {
		if !HasType(item, dumpchat.MIMETextPlain) {
			continue
		}
		text, err := item.GetType(ctx, dumpchat.MIMETextPlain)
		if err != nil {
			continue
		}
		w.deliver(text)
	}
	_ = w.next.Write(ctx, items)
	return nil
}
