package popup

import (
	"context"
	"errors"
	"testing"
	"time"

	"sheetclick/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func newTestRace(shots *fakeShots, mutate ...func(*Options)) *ConfirmRace {
	opts := testOptions()
	for _, m := range mutate {
		m(&opts)
	}
	return New(opts, shots, nopLogger())
}

func TestConfirmRace_CancelOnly(t *testing.T) {
	btn := cancelButton("취소")
	scope := newScope("document", entity.ScopeDocument).withSurface(surfaceWith(btn, nil))
	shots := &fakeShots{}

	outcome := newTestRace(shots).RunPopupResolution(context.Background(), scope, newPage(scope), 300*time.Millisecond)

	assert.Equal(t, entity.OutcomeDOMCanceled, outcome)
	assert.Equal(t, 1, btn.clickCount())
	assert.Equal(t, 1, shots.count(tagBeforeCancel))
	assert.Equal(t, 0, shots.count(tagBeforeConfirm))
}

func TestConfirmRace_ConfirmOnly(t *testing.T) {
	btn := confirmButton("OK")
	scope := newScope("document", entity.ScopeDocument).withSurface(surfaceWith(nil, btn))
	shots := &fakeShots{}

	outcome := newTestRace(shots).RunPopupResolution(context.Background(), scope, newPage(scope), 300*time.Millisecond)

	assert.Equal(t, entity.OutcomeDOMConfirmed, outcome)
	assert.Equal(t, 1, btn.clickCount())
	assert.Equal(t, 1, shots.count(tagBeforeConfirm))
	assert.Equal(t, 0, shots.count(tagBeforeCancel))
}

func TestConfirmRace_CancelBeforeConfirm(t *testing.T) {
	cancelBtn := cancelButton("Cancel")
	okBtn := confirmButton("확인")
	scope := newScope("document", entity.ScopeDocument).withSurface(surfaceWith(cancelBtn, okBtn))

	outcome := newTestRace(&fakeShots{}).RunPopupResolution(context.Background(), scope, newPage(scope), 300*time.Millisecond)

	assert.Equal(t, entity.OutcomeDOMCanceled, outcome)
	assert.Equal(t, 1, cancelBtn.clickCount())
	assert.Equal(t, 0, okBtn.clickCount())
}

func TestConfirmRace_NativeDialog(t *testing.T) {
	scope := newScope("document", entity.ScopeDocument)
	page := newPage(scope)
	dlg := &fakeDialog{info: entity.NativeDialogInfo{Type: "confirm", Message: "Run script?"}}
	page.sub.fireAfter(200*time.Millisecond, dlg)

	outcome := newTestRace(&fakeShots{}).Resolve(context.Background(), Request{
		Scope:   scope,
		Page:    page,
		Dialogs: page.sub,
		Timeout: 500 * time.Millisecond,
	})

	assert.Equal(t, entity.OutcomeNativeAccepted, outcome)
	assert.True(t, dlg.wasAccepted())
}

func TestConfirmRace_NativeWinsOverDOM(t *testing.T) {
	for name, surface := range map[string]func() *fakeElement{
		"confirm": func() *fakeElement { return surfaceWith(nil, confirmButton("OK")) },
		"cancel":  func() *fakeElement { return surfaceWith(cancelButton("취소"), nil) },
	} {
		t.Run(name, func(t *testing.T) {
			scope := newScope("document", entity.ScopeDocument).withSurface(surface())
			page := newPage(scope)
			dlg := &fakeDialog{info: entity.NativeDialogInfo{Type: "alert"}}
			page.sub.fireAfter(0, dlg)

			outcome := newTestRace(&fakeShots{}).Resolve(context.Background(), Request{
				Scope:   scope,
				Page:    page,
				Dialogs: page.sub,
				Timeout: 300 * time.Millisecond,
			})

			assert.Equal(t, entity.OutcomeNativeAccepted, outcome)
		})
	}
}

func TestConfirmRace_NativeAcceptFailureFallsBackToDOM(t *testing.T) {
	scope := newScope("document", entity.ScopeDocument).withSurface(surfaceWith(nil, confirmButton("OK")))
	page := newPage(scope)
	page.sub.fireAfter(0, &fakeDialog{acceptErr: errors.New("no dialog is showing")})

	outcome := newTestRace(&fakeShots{}).Resolve(context.Background(), Request{
		Scope: scope, Page: page, Dialogs: page.sub, Timeout: 300 * time.Millisecond,
	})

	assert.Equal(t, entity.OutcomeDOMConfirmed, outcome)
}

func TestConfirmRace_SurfaceWithoutControls(t *testing.T) {
	scope := newScope("document", entity.ScopeDocument).withSurface(newElement("surface", "Saving..."))

	outcome := newTestRace(&fakeShots{}).RunPopupResolution(context.Background(), scope, newPage(scope), 300*time.Millisecond)
	assert.Equal(t, entity.OutcomeDOMNoSurface, outcome)
}

func TestConfirmRace_ZeroSignalsTimesOut(t *testing.T) {
	scope := newScope("document", entity.ScopeDocument)

	start := time.Now()
	outcome := newTestRace(&fakeShots{}).RunPopupResolution(context.Background(), scope, newPage(scope), 100*time.Millisecond)

	assert.Equal(t, entity.OutcomeTimedOut, outcome)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestConfirmRace_SurfaceSubDeadlineReportsNoSurface(t *testing.T) {
	scope := newScope("document", entity.ScopeDocument)
	race := newTestRace(&fakeShots{}, func(o *Options) { o.SurfaceTimeout = 30 * time.Millisecond })

	outcome := race.RunPopupResolution(context.Background(), scope, newPage(scope), 200*time.Millisecond)
	assert.Equal(t, entity.OutcomeDOMNoSurface, outcome)
}

func TestConfirmRace_LateSurfaceIgnored(t *testing.T) {
	btn := confirmButton("OK")
	surface := surfaceWith(nil, btn)
	surface.visibleAt = time.Now().Add(1500 * time.Millisecond)
	scope := newScope("document", entity.ScopeDocument).withSurface(surface)

	start := time.Now()
	outcome := newTestRace(&fakeShots{}).RunPopupResolution(context.Background(), scope, newPage(scope), time.Second)

	assert.Equal(t, entity.OutcomeTimedOut, outcome)
	assert.Equal(t, 0, btn.clickCount())
	assert.Less(t, time.Since(start), 1400*time.Millisecond)
}

func TestConfirmRace_InFlightClickCollectedAfterDeadline(t *testing.T) {
	btn := cancelButton("취소")
	btn.clickDelay = 150 * time.Millisecond
	surface := surfaceWith(btn, nil)
	surface.visibleAt = time.Now().Add(40 * time.Millisecond)
	scope := newScope("document", entity.ScopeDocument).withSurface(surface)

	start := time.Now()
	outcome := newTestRace(&fakeShots{}).RunPopupResolution(context.Background(), scope, newPage(scope), 100*time.Millisecond)

	assert.Equal(t, entity.OutcomeDOMCanceled, outcome)
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestConfirmRace_CancelClickFailureIsDOMError(t *testing.T) {
	cancelBtn := cancelButton("Cancel")
	cancelBtn.clickErr = errors.New("element is not clickable")
	okBtn := confirmButton("OK")
	scope := newScope("document", entity.ScopeDocument).withSurface(surfaceWith(cancelBtn, okBtn))

	outcome := newTestRace(&fakeShots{}).RunPopupResolution(context.Background(), scope, newPage(scope), 300*time.Millisecond)

	assert.Equal(t, entity.OutcomeDOMError, outcome)
	assert.Equal(t, 0, okBtn.clickCount())
}

func TestConfirmRace_PanicIsDOMError(t *testing.T) {
	btn := confirmButton("OK")
	btn.clickPanic = true
	scope := newScope("document", entity.ScopeDocument).withSurface(surfaceWith(nil, btn))

	outcome := newTestRace(&fakeShots{}).RunPopupResolution(context.Background(), scope, newPage(scope), 300*time.Millisecond)
	assert.Equal(t, entity.OutcomeDOMError, outcome)
}

func TestConfirmRace_SubscribesWhenNoSubscriptionGiven(t *testing.T) {
	scope := newScope("document", entity.ScopeDocument)
	page := newPage(scope)

	newTestRace(&fakeShots{}).RunPopupResolution(context.Background(), scope, page, 20*time.Millisecond)
	assert.Equal(t, 1, page.subscribed)
}

func TestConfirmRace_ParentCanceled(t *testing.T) {
	scope := newScope("document", entity.ScopeDocument)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	outcome := newTestRace(&fakeShots{}).RunPopupResolution(ctx, scope, newPage(scope), 5*time.Second)

	assert.Equal(t, entity.OutcomeTimedOut, outcome)
	assert.Less(t, time.Since(start), time.Second)
}

func TestConfirmRace_AlwaysOneOutcome(t *testing.T) {
	surfaces := map[string]func() *fakeElement{
		"cancel":    func() *fakeElement { return surfaceWith(cancelButton("취소"), nil) },
		"confirm":   func() *fakeElement { return surfaceWith(nil, confirmButton("OK")) },
		"bare":      func() *fakeElement { return newElement("s", "") },
		"two-kinds": func() *fakeElement { return surfaceWith(cancelButton("Cancel"), confirmButton("OK")) },
	}
	scopes := map[string]func() *fakeScope{
		"empty": func() *fakeScope { return newScope("d", entity.ScopeDocument) },
	}
	for name, build := range surfaces {
		scopes[name] = func() *fakeScope { return newScope("d", entity.ScopeDocument).withSurface(build()) }
	}

	for name, build := range scopes {
		t.Run(name, func(t *testing.T) {
			scope := build()
			outcome := newTestRace(&fakeShots{}).RunPopupResolution(context.Background(), scope, newPage(scope), 50*time.Millisecond)
			assert.True(t, outcome.Valid())
		})
	}
}
