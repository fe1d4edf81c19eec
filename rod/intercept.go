package rod

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/dumpchat"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
)

//go:embed intercept.js
var interceptJS string

// restoreJS undoes intercept.js for the binding name it was installed with.
const restoreJS = `(name) => {
	const restore = window[name + "_restore"];
	if (restore) {
		restore();
	}
}`

// Intercept patches the page's clipboard API and copy events so every text
// the page copies is reported to onCapture through a CDP binding. Writes
// still reach the system clipboard when the browser allows them.
//
// onCapture runs on the page's event goroutine.
func (p *Page) Intercept(ctx context.Context, onCapture dumpchat.CaptureFunc) (func() error, error) {
	name := "__dumpchat_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	if err := (proto.RuntimeAddBinding{Name: name}).Call(p.page.Context(ctx)); err != nil {
		return nil, fmt.Errorf("adding binding: %w", err)
	}

	listenCtx, cancel := context.WithCancel(context.Background())
	wait := p.page.Context(listenCtx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name == name {
			onCapture(e.Payload)
		}
	})
	done := make(chan struct{})
	go func() {
		defer close(done)
		wait()
	}()

	if _, err := p.page.Context(ctx).Eval(interceptJS, name); err != nil {
		cancel()
		<-done
		_ = proto.RuntimeRemoveBinding{Name: name}.Call(p.page)
		return nil, fmt.Errorf("installing clipboard hooks: %w", err)
	}

	stop := func() error {
		_, restoreErr := p.page.Eval(restoreJS, name)
		cancel()
		<-done
		removeErr := proto.RuntimeRemoveBinding{Name: name}.Call(p.page)
		if restoreErr != nil {
			restoreErr = fmt.Errorf("restoring clipboard hooks: %w", restoreErr)
		}
		if removeErr != nil {
			removeErr = fmt.Errorf("removing binding: %w", removeErr)
		}
		return errors.Join(restoreErr, removeErr)
	}
	return stop, nil
}
