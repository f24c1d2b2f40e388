package popup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sheetclick/internal/application/port/input"
	"sheetclick/internal/application/port/output"
	"sheetclick/internal/domain/entity"
)

var _ input.PopupResolver = (*ConfirmRace)(nil)

type Request struct {
	Scope output.Scope
	Page  output.Page
	// Dialogs should be subscribed before the triggering click. When nil,
	// the race subscribes on its own and may miss an early dialog.
	Dialogs output.NativeDialogSubscription
	Timeout time.Duration
}

type ConfirmRace struct {
	surfaces *SurfaceWaiter
	finder   *ButtonFinder
	cancel   *CancelHandler
	shots    output.ScreenshotPort
	logger   output.LoggerPort
	opts     Options
}

func New(opts Options, shots output.ScreenshotPort, logger output.LoggerPort) *ConfirmRace {
	surfaces := NewSurfaceWaiter(opts.SurfaceSelector, opts.SurfacePollInterval)
	finder := NewButtonFinder(opts.RippleSelector, logger)

	return &ConfirmRace{
		surfaces: surfaces,
		finder:   finder,
		cancel:   NewCancelHandler(surfaces, finder, shots, logger, opts),
		shots:    shots,
		logger:   logger,
		opts:     opts,
	}
}

func (r *ConfirmRace) RunPopupResolution(ctx context.Context, scope output.Scope, page output.Page, timeout time.Duration) entity.DialogOutcome {
	return r.Resolve(ctx, Request{Scope: scope, Page: page, Timeout: timeout})
}

// Resolve runs the native path and the DOM path against one shared
// deadline. The deadline ends the waiting phase; paths already acting
// (clicking, capturing) are drained and their results still count.
func (r *ConfirmRace) Resolve(ctx context.Context, req Request) entity.DialogOutcome {
	deadline := time.Now().Add(req.Timeout)

	dialogs := req.Dialogs
	if dialogs == nil {
		sub, err := req.Page.SubscribeNativeDialog(ctx)
		if err != nil {
			r.logger.Warn("Native dialog subscription failed", "error", err)
		} else {
			dialogs = sub
			defer sub.Close()
		}
	}

	nativeCh := make(chan NativeResult, 1)
	domCh := make(chan DOMResult, 1)

	go func() { nativeCh <- r.nativePath(ctx, dialogs, deadline) }()
	go func() { domCh <- r.domPath(ctx, req, deadline) }()

	timer := time.NewTimer(req.Timeout)
	defer timer.Stop()

	native, dom := NativeNone, DOMNone
	pending := 2
	expired := false

	for pending > 0 && !expired {
		select {
		case native = <-nativeCh:
			nativeCh = nil
			pending--
		case dom = <-domCh:
			domCh = nil
			pending--
		case <-timer.C:
			expired = true
		case <-ctx.Done():
			r.logger.Warn("Popup resolution interrupted", "error", ctx.Err())
			return Classify(native, dom)
		}
	}

	if pending > 0 {
		r.logger.Debug("Shared deadline reached, collecting in-flight results", "pending", pending)
	}
	for pending > 0 {
		select {
		case native = <-nativeCh:
			nativeCh = nil
			pending--
		case dom = <-domCh:
			domCh = nil
			pending--
		case <-ctx.Done():
			return Classify(native, dom)
		}
	}

	outcome := Classify(native, dom)
	r.logger.Info("Popup resolved", "outcome", outcome, "native", native, "dom", dom)
	return outcome
}

func (r *ConfirmRace) nativePath(ctx context.Context, sub output.NativeDialogSubscription, deadline time.Time) NativeResult {
	if sub == nil {
		return NativeNone
	}

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case d, ok := <-sub.Dialogs():
		if !ok {
			return NativeNone
		}
		info := d.Info()
		if err := d.Accept(ctx); err != nil {
			r.logger.Warn("Native dialog accept failed", "type", info.Type, "error", err)
			return NativeFailed
		}
		r.logger.Info("Native dialog accepted", "type", info.Type, "message", info.Message)
		return NativeAccepted
	case <-timer.C:
		return NativeNone
	case <-ctx.Done():
		return NativeNone
	}
}

func (r *ConfirmRace) domPath(ctx context.Context, req Request, deadline time.Time) (res DOMResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("DOM dialog handling panicked", "panic", fmt.Sprint(rec))
			res = DOMErrored
		}
	}()

	res, err := r.resolveDOM(ctx, req, deadline)
	if err != nil {
		r.logger.Warn("DOM dialog handling failed", "error", err)
		return DOMErrored
	}
	return res
}

func (r *ConfirmRace) resolveDOM(ctx context.Context, req Request, deadline time.Time) (DOMResult, error) {
	wait := time.Until(deadline)
	ownDeadline := r.opts.SurfaceTimeout > 0 && r.opts.SurfaceTimeout < wait
	if ownDeadline {
		wait = r.opts.SurfaceTimeout
	}

	surface, err := r.surfaces.Wait(ctx, req.Scope, wait)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return DOMNone, nil
		case errors.Is(err, entity.ErrTimeout) && ownDeadline:
			r.logger.Info("No dialog surface appeared", "waited", wait)
			return DOMNoSurface, nil
		case errors.Is(err, entity.ErrTimeout):
			return DOMNone, nil
		default:
			return DOMErrored, err
		}
	}

	canceled, err := r.cancel.TryCancel(ctx, req.Scope, req.Page, min(r.opts.CancelLookup, req.Timeout))
	if err != nil {
		return DOMErrored, err
	}
	if canceled {
		r.logger.Info("Cancel clicked, confirm step skipped")
		return DOMCanceled, nil
	}

	btn := r.finder.Find(ctx, surface, entity.IntentConfirm)
	if btn == nil {
		r.logger.Info("No confirm button inside the dialog surface")
		return DOMNoSurface, nil
	}

	captureBefore(ctx, r.shots, req.Page, tagBeforeConfirm, r.logger)

	if err := clickControl(ctx, btn.Element, r.opts.ClickTimeout, r.logger); err != nil {
		return DOMErrored, fmt.Errorf("confirm button (%s): %w", btn.Strategy, err)
	}

	r.logger.Info("Confirm button clicked inside the dialog", "strategy", btn.Strategy)
	return DOMConfirmed, nil
}
