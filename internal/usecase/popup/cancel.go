package popup

import (
	"context"
	"fmt"
	"time"

	"sheetclick/internal/application/port/output"
	"sheetclick/internal/domain/entity"
)

const (
	tagBeforeCancel  = "before_cancel"
	tagBeforeConfirm = "before_confirm"
)

type CancelHandler struct {
	surfaces *SurfaceWaiter
	finder   *ButtonFinder
	shots    output.ScreenshotPort
	logger   output.LoggerPort
	opts     Options
}

func NewCancelHandler(surfaces *SurfaceWaiter, finder *ButtonFinder, shots output.ScreenshotPort, logger output.LoggerPort, opts Options) *CancelHandler {
	return &CancelHandler{
		surfaces: surfaces,
		finder:   finder,
		shots:    shots,
		logger:   logger,
		opts:     opts,
	}
}

// TryCancel clicks the cancel control of the dialog surface in scope.
// It reports false without error when no surface shows up within timeout
// or the surface has no cancel control. A found control that cannot be
// clicked is an error wrapping entity.ErrClickFailed.
func (h *CancelHandler) TryCancel(ctx context.Context, scope output.Scope, page output.Page, timeout time.Duration) (bool, error) {
	surface, err := h.surfaces.Wait(ctx, scope, timeout)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		h.logger.Info("Cancel skipped: no dialog surface")
		return false, nil
	}

	btn := h.finder.Find(ctx, surface, entity.IntentCancel)
	if btn == nil {
		h.logger.Info("Cancel skipped: no cancel button inside the dialog")
		return false, nil
	}

	captureBefore(ctx, h.shots, page, tagBeforeCancel, h.logger)

	if err := clickControl(ctx, btn.Element, h.opts.ClickTimeout, h.logger); err != nil {
		return false, fmt.Errorf("cancel button (%s): %w", btn.Strategy, err)
	}

	detachCtx, cancel := context.WithTimeout(ctx, h.opts.DetachGrace)
	if err := surface.WaitDetached(detachCtx); err != nil {
		h.logger.Debug("Dialog surface still attached after cancel", "error", err)
	}
	cancel()

	_ = sleep(ctx, h.opts.SettleDelay)

	h.logger.Info("Cancel button clicked inside the dialog", "strategy", btn.Strategy)
	return true, nil
}

func captureBefore(ctx context.Context, shots output.ScreenshotPort, page output.Page, tag string, logger output.LoggerPort) {
	path, err := shots.Capture(ctx, page, tag)
	if err != nil {
		logger.Warn("Screenshot failed", "tag", tag, "error", err)
		return
	}
	logger.Info("Screenshot saved (full page)", "tag", tag, "path", path)
}

// clickControl scrolls el into view (best effort) and clicks it within
// timeout.
func clickControl(ctx context.Context, el output.Element, timeout time.Duration, logger output.LoggerPort) error {
	if err := el.ScrollIntoView(ctx); err != nil {
		logger.Debug("Scroll into view failed", "error", err)
	}

	clickCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := el.Click(clickCtx); err != nil {
		return fmt.Errorf("%w: %w", entity.ErrClickFailed, err)
	}
	return nil
}
