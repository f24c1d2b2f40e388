// Package clicker runs one click-and-confirm pass against the sheet:
// navigate, find the overlay, click it and resolve the popup that follows.
package clicker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sheetclick/internal/application/port/input"
	"sheetclick/internal/application/port/output"
	"sheetclick/internal/domain/entity"
	"sheetclick/internal/usecase/popup"

	"github.com/google/uuid"
)

var _ input.ObjectClicker = (*UseCase)(nil)

const (
	tagBeforeAny       = "before_any"
	tagOverlayNotFound = "overlay_not_found"
	tagDOMError        = "dom_error"
)

// PopupRace resolves the popup after the click.
type PopupRace interface {
	Resolve(ctx context.Context, req popup.Request) entity.DialogOutcome
}

type Settings struct {
	RunID             string
	SheetURL          string
	Label             string
	OverlaySelector   string
	ContainerSelector string

	ScopeWait         time.Duration
	PostNavigateDelay time.Duration
	OverlayVisible    time.Duration
	ClickTimeout      time.Duration
	ConfirmTimeout    time.Duration
	SettleDelay       time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		OverlaySelector:   "div.waffle-borderless-embedded-object-overlay",
		ContainerSelector: "div.waffle-borderless-embedded-object-container",
		ScopeWait:         20 * time.Second,
		PostNavigateDelay: 3 * time.Second,
		OverlayVisible:    10 * time.Second,
		ClickTimeout:      20 * time.Second,
		ConfirmTimeout:    15 * time.Second,
		SettleDelay:       800 * time.Millisecond,
	}
}

type UseCase struct {
	resolver  *popup.ScopeResolver
	race      PopupRace
	shots     output.ScreenshotPort
	snapshots output.SnapshotPort
	logger    output.LoggerPort
	settings  Settings
	now       func() time.Time
}

func New(
	resolver *popup.ScopeResolver,
	race PopupRace,
	shots output.ScreenshotPort,
	snapshots output.SnapshotPort,
	logger output.LoggerPort,
	settings Settings,
) *UseCase {
	if settings.RunID == "" {
		settings.RunID = uuid.NewString()
	}
	return &UseCase{
		resolver:  resolver,
		race:      race,
		shots:     shots,
		snapshots: snapshots,
		logger:    logger,
		settings:  settings,
		now:       time.Now,
	}
}

func (uc *UseCase) Execute(ctx context.Context, page output.Page) (*entity.RunReport, error) {
	s := uc.settings
	report := &entity.RunReport{
		RunID:     s.RunID,
		Label:     s.Label,
		StartedAt: uc.now(),
	}

	if s.SheetURL != "" {
		uc.logger.Info("Opening sheet", "url", s.SheetURL)
		if err := page.Navigate(ctx, s.SheetURL); err != nil {
			return nil, fmt.Errorf("open sheet: %w", err)
		}
		if err := wait(ctx, s.PostNavigateDelay); err != nil {
			return nil, err
		}
	}

	scope, err := uc.resolver.Resolve(ctx, page.Root(), s.Label, s.ScopeWait)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			uc.logger.Error("Overlay not found", "label", s.Label, "waited", s.ScopeWait)
			uc.saveSnapshot(ctx, page, tagOverlayNotFound)
		}
		return nil, err
	}
	report.ScopeKind = scope.Kind()
	report.ScopeName = scope.Name()

	target, err := uc.clickTarget(ctx, scope)
	if err != nil {
		return nil, err
	}

	// Subscribe before clicking so an immediate native dialog is not lost.
	var watch *dialogWatch
	req := popup.Request{Scope: scope, Page: page, Timeout: s.ConfirmTimeout}
	if sub, err := page.SubscribeNativeDialog(ctx); err != nil {
		uc.logger.Warn("Native dialog subscription failed", "error", err)
	} else {
		watch = watchDialogs(sub)
		defer watch.Close()
		req.Dialogs = watch
	}

	dialogOpen, err := uc.click(ctx, page, target, watch)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("Overlay clicked", "label", s.Label, "scope", scope.Name())

	if dialogOpen {
		// Capturing would block behind the open native dialog.
		uc.logger.Info("Native dialog already open, skipping screenshot", "tag", tagBeforeAny)
	} else if path, err := uc.shots.Capture(ctx, page, tagBeforeAny); err != nil {
		uc.logger.Warn("Screenshot failed", "tag", tagBeforeAny, "error", err)
	} else {
		report.Screenshot = path
		uc.logger.Info("Screenshot saved (full page)", "tag", tagBeforeAny, "path", path)
	}

	outcome := uc.race.Resolve(ctx, req)
	report.Outcome = outcome
	if err := ctx.Err(); err != nil {
		report.Duration = uc.now().Sub(report.StartedAt)
		uc.logger.Warn("Popup resolution interrupted", "outcome", outcome, "error", err)
		return report, fmt.Errorf("popup resolution interrupted: %w", err)
	}

	_ = wait(ctx, s.SettleDelay)

	if outcome == entity.OutcomeDOMError {
		uc.saveSnapshot(ctx, page, tagDOMError)
	}

	report.Duration = uc.now().Sub(report.StartedAt)
	uc.logger.Info(StatusLine(outcome), "outcome", outcome, "duration", report.Duration)
	return report, nil
}

// clickTarget picks the first overlay in scope, waits for it to show and
// prefers its container child when there is one.
func (uc *UseCase) clickTarget(ctx context.Context, scope output.Scope) (output.Element, error) {
	s := uc.settings

	overlays, err := scope.FindByLabel(ctx, s.OverlaySelector, s.Label)
	if err != nil {
		return nil, fmt.Errorf("find overlay: %w", err)
	}
	if len(overlays) == 0 {
		return nil, fmt.Errorf("overlay with aria-label %q vanished: %w", s.Label, entity.ErrNotFound)
	}
	overlay := overlays[0]

	visibleCtx, cancel := context.WithTimeout(ctx, s.OverlayVisible)
	defer cancel()
	if err := overlay.WaitVisible(visibleCtx); err != nil {
		return nil, fmt.Errorf("overlay not visible after %s: %w", s.OverlayVisible, errors.Join(entity.ErrTimeout, err))
	}

	target := overlay
	if s.ContainerSelector != "" {
		children, err := overlay.Query(ctx, ":scope > "+s.ContainerSelector)
		if err != nil {
			uc.logger.Debug("Container lookup failed", "error", err)
		} else if len(children) > 0 {
			target = children[0]
			uc.logger.Debug("Clicking overlay container")
		}
	}

	if err := target.ScrollIntoView(ctx); err != nil {
		uc.logger.Debug("Scroll into view failed", "error", err)
	}
	return target, nil
}

// click tries an element click first and falls back to a mouse click at
// the centre of the element box. It reports whether a native dialog opened
// while clicking.
func (uc *UseCase) click(ctx context.Context, page output.Page, target output.Element, watch *dialogWatch) (bool, error) {
	clickCtx, cancel := context.WithTimeout(ctx, uc.settings.ClickTimeout)
	dialogOpen, err := clickUntilDialog(clickCtx, watch, target.Click)
	cancel()
	if err == nil {
		return dialogOpen, nil
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	uc.logger.Warn("Element click failed, trying mouse click", "error", err)

	box, boxErr := target.Box(ctx)
	if boxErr != nil || box.Empty() {
		return false, fmt.Errorf("%w: overlay has no clickable box: %w", entity.ErrClickFailed, errors.Join(err, boxErr))
	}

	x, y := box.Center()
	dialogOpen, err = clickUntilDialog(ctx, watch, func(ctx context.Context) error {
		return page.MouseClick(ctx, x, y)
	})
	if err != nil {
		return false, fmt.Errorf("%w: mouse click at (%.0f, %.0f): %w", entity.ErrClickFailed, x, y, err)
	}
	return dialogOpen, nil
}

func (uc *UseCase) saveSnapshot(ctx context.Context, page output.Page, tag string) {
	path, err := uc.snapshots.Save(ctx, page, tag)
	if err != nil {
		uc.logger.Warn("DOM snapshot failed", "tag", tag, "error", err)
		return
	}
	uc.logger.Info("DOM snapshot saved", "tag", tag, "path", path)
}

// StatusLine is the human-readable summary printed for each outcome.
func StatusLine(o entity.DialogOutcome) string {
	switch o {
	case entity.OutcomeNativeAccepted:
		return "Native dialog accepted"
	case entity.OutcomeDOMConfirmed:
		return "DOM dialog confirmed"
	case entity.OutcomeDOMCanceled:
		return "DOM dialog canceled"
	case entity.OutcomeDOMNoSurface:
		return "No DOM dialog controls found"
	case entity.OutcomeDOMError:
		return "DOM dialog handling failed"
	case entity.OutcomeTimedOut:
		return "No popup before the deadline"
	default:
		return "Unknown popup outcome"
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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
