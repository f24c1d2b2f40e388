package clicker

import (
	"context"
	"sync"

	"sheetclick/internal/application/port/output"
)

// dialogWatch forwards the first native dialog of src and flags that one
// opened. A native dialog blocks the click that triggered it until someone
// handles the dialog, so the click must not be awaited once this fires.
type dialogWatch struct {
	src    output.NativeDialogSubscription
	ch     chan output.NativeDialog
	opened chan struct{}
	done   chan struct{}
	once   sync.Once
}

func watchDialogs(src output.NativeDialogSubscription) *dialogWatch {
	w := &dialogWatch{
		src:    src,
		ch:     make(chan output.NativeDialog, 1),
		opened: make(chan struct{}),
		done:   make(chan struct{}),
	}
	go w.forward()
	return w
}

func (w *dialogWatch) forward() {
	select {
	case d, ok := <-w.src.Dialogs():
		if !ok {
			return
		}
		w.ch <- d
		close(w.opened)
	case <-w.done:
	}
}

func (w *dialogWatch) Dialogs() <-chan output.NativeDialog { return w.ch }

// Opened is closed once a dialog has been seen. A nil watch never fires.
func (w *dialogWatch) Opened() <-chan struct{} {
	if w == nil {
		return nil
	}
	return w.opened
}

func (w *dialogWatch) Close() {
	w.once.Do(func() {
		close(w.done)
		w.src.Close()
	})
}

// clickUntilDialog runs click and returns its error, or nil as soon as a
// native dialog opens. In the latter case the click keeps running in the
// background and finishes when the dialog is handled.
func clickUntilDialog(ctx context.Context, watch *dialogWatch, click func(context.Context) error) (bool, error) {
	res := make(chan error, 1)
	go func() { res <- click(ctx) }()

	select {
	case err := <-res:
		return false, err
	case <-watch.Opened():
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
