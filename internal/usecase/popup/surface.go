package popup

import (
	"context"
	"fmt"
	"time"

	"sheetclick/internal/application/port/output"
	"sheetclick/internal/domain/entity"
)

type SurfaceWaiter struct {
	selector string
	interval time.Duration
}

func NewSurfaceWaiter(selector string, interval time.Duration) *SurfaceWaiter {
	return &SurfaceWaiter{selector: selector, interval: interval}
}

// Wait blocks until the last-attached surface in scope is visible.
// It returns entity.ErrTimeout when timeout elapses first and the parent
// context error when ctx ends.
func (w *SurfaceWaiter) Wait(ctx context.Context, scope output.Scope, timeout time.Duration) (output.Element, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		if surface := w.top(waitCtx, scope); surface != nil {
			return surface, nil
		}

		if err := sleep(waitCtx, w.interval); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("dialog surface after %s: %w", timeout, entity.ErrTimeout)
		}
	}
}

func (w *SurfaceWaiter) top(ctx context.Context, scope output.Scope) output.Element {
	surfaces, err := scope.Query(ctx, w.selector)
	if err != nil || len(surfaces) == 0 {
		return nil
	}

	last := surfaces[len(surfaces)-1]
	visible, err := last.Visible(ctx)
	if err != nil || !visible {
		return nil
	}
	return last
}
