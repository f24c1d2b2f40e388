// Package popup resolves whatever confirmation dialog follows a click on
// the target overlay: a native browser dialog or a DOM-rendered one.
package popup

import (
	"context"
	"time"
)

type Options struct {
	OverlaySelector string
	SurfaceSelector string
	RippleSelector  string

	ScopePollInterval   time.Duration
	SurfacePollInterval time.Duration
	// SurfaceTimeout bounds the DOM path's surface wait. Zero means the
	// shared deadline.
	SurfaceTimeout time.Duration
	CancelLookup   time.Duration
	ClickTimeout   time.Duration
	DetachGrace    time.Duration
	SettleDelay    time.Duration
}

func DefaultOptions() Options {
	return Options{
		OverlaySelector:     "div.waffle-borderless-embedded-object-overlay",
		SurfaceSelector:     ".javascriptMaterialdesignGm3WizDialog-dialog__surface",
		RippleSelector:      "span.javascriptMaterialdesignGm3WizRipple-ripple",
		ScopePollInterval:   500 * time.Millisecond,
		SurfacePollInterval: 100 * time.Millisecond,
		CancelLookup:        5 * time.Second,
		ClickTimeout:        2 * time.Second,
		DetachGrace:         3 * time.Second,
		SettleDelay:         300 * time.Millisecond,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
