package popup

import (
	"context"
	"strings"
	"sync"
	"time"

	"sheetclick/internal/application/port/output"
	"sheetclick/internal/domain/entity"
	"sheetclick/internal/infrastructure/logger"
)

type fakeElement struct {
	mu sync.Mutex

	name      string
	text      string
	accName   string
	visibleAt time.Time
	hidden    bool
	children  map[string][]*fakeElement

	clickDelay time.Duration
	clickErr   error
	clickPanic bool
	clicks     int
	onClick    func()
}

func newElement(name, text string) *fakeElement {
	return &fakeElement{name: name, text: text, children: map[string][]*fakeElement{}}
}

func (e *fakeElement) with(selector string, children ...*fakeElement) *fakeElement {
	e.children[selector] = append(e.children[selector], children...)
	return e
}

func (e *fakeElement) withRipple() *fakeElement {
	return e.with(DefaultOptions().RippleSelector, newElement("ripple", ""))
}

func (e *fakeElement) Query(ctx context.Context, selector string) ([]output.Element, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return toElements(e.children[selector]), nil
}

func (e *fakeElement) Text(ctx context.Context) (string, error) {
	return e.text, nil
}

func (e *fakeElement) AccessibleName(ctx context.Context) (string, error) {
	if e.accName != "" {
		return e.accName, nil
	}
	return e.text, nil
}

func (e *fakeElement) Visible(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.hidden && !time.Now().Before(e.visibleAt), nil
}

func (e *fakeElement) WaitVisible(ctx context.Context) error {
	for {
		if ok, _ := e.Visible(ctx); ok {
			return nil
		}
		if err := sleep(ctx, time.Millisecond); err != nil {
			return err
		}
	}
}

func (e *fakeElement) WaitDetached(ctx context.Context) error {
	return nil
}

func (e *fakeElement) ScrollIntoView(ctx context.Context) error {
	return nil
}

func (e *fakeElement) Click(ctx context.Context) error {
	if e.clickPanic {
		panic("element vanished mid-click")
	}
	if err := sleep(ctx, e.clickDelay); err != nil {
		return err
	}

	e.mu.Lock()
	e.clicks++
	onClick := e.onClick
	e.mu.Unlock()

	if e.clickErr != nil {
		return e.clickErr
	}
	if onClick != nil {
		onClick()
	}
	return nil
}

func (e *fakeElement) Box(ctx context.Context) (entity.Box, error) {
	return entity.Box{X: 10, Y: 20, Width: 100, Height: 40}, nil
}

func (e *fakeElement) clickCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

func toElements(els []*fakeElement) []output.Element {
	out := make([]output.Element, 0, len(els))
	for _, el := range els {
		out = append(out, el)
	}
	return out
}

type fakeScope struct {
	mu sync.Mutex

	name         string
	kind         entity.ScopeKind
	overlayLabel string
	overlayAt    time.Time
	labelErr     error
	elements     map[string][]*fakeElement
	subs         func(pass int) []output.Scope

	enumerations int
}

func newScope(name string, kind entity.ScopeKind) *fakeScope {
	return &fakeScope{name: name, kind: kind, elements: map[string][]*fakeElement{}}
}

func (s *fakeScope) withOverlay(label string) *fakeScope {
	s.overlayLabel = label
	return s
}

func (s *fakeScope) withSurface(surfaces ...*fakeElement) *fakeScope {
	sel := DefaultOptions().SurfaceSelector
	s.elements[sel] = append(s.elements[sel], surfaces...)
	return s
}

func (s *fakeScope) withFrames(frames ...output.Scope) *fakeScope {
	s.subs = func(int) []output.Scope { return frames }
	return s
}

func (s *fakeScope) Kind() entity.ScopeKind { return s.kind }
func (s *fakeScope) Name() string           { return s.name }

func (s *fakeScope) FindByLabel(ctx context.Context, selector, label string) ([]output.Element, error) {
	if s.labelErr != nil {
		return nil, s.labelErr
	}
	if s.overlayLabel == "" || time.Now().Before(s.overlayAt) {
		return nil, nil
	}
	if s.overlayLabel == label || strings.Contains(s.overlayLabel, label) {
		return []output.Element{newElement("overlay", s.overlayLabel)}, nil
	}
	return nil, nil
}

func (s *fakeScope) Query(ctx context.Context, selector string) ([]output.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toElements(s.elements[selector]), nil
}

func (s *fakeScope) SubScopes(ctx context.Context) ([]output.Scope, error) {
	s.mu.Lock()
	s.enumerations++
	pass := s.enumerations
	s.mu.Unlock()

	if s.subs == nil {
		return nil, nil
	}
	return s.subs(pass), nil
}

type fakeDialog struct {
	mu        sync.Mutex
	info      entity.NativeDialogInfo
	acceptErr error
	accepted  bool
}

func (d *fakeDialog) Info() entity.NativeDialogInfo { return d.info }

func (d *fakeDialog) Accept(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.acceptErr != nil {
		return d.acceptErr
	}
	d.accepted = true
	return nil
}

func (d *fakeDialog) wasAccepted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.accepted
}

type fakeSubscription struct {
	ch     chan output.NativeDialog
	closed chan struct{}
	once   sync.Once
}

func newSubscription() *fakeSubscription {
	return &fakeSubscription{ch: make(chan output.NativeDialog, 1), closed: make(chan struct{})}
}

func (s *fakeSubscription) fireAfter(d time.Duration, dlg output.NativeDialog) {
	go func() {
		time.Sleep(d)
		select {
		case s.ch <- dlg:
		case <-s.closed:
		}
	}()
}

func (s *fakeSubscription) Dialogs() <-chan output.NativeDialog { return s.ch }

func (s *fakeSubscription) Close() {
	s.once.Do(func() { close(s.closed) })
}

type fakePage struct {
	root output.Scope
	sub  *fakeSubscription

	mu         sync.Mutex
	subscribed int
}

func newPage(root output.Scope) *fakePage {
	return &fakePage{root: root, sub: newSubscription()}
}

func (p *fakePage) Root() output.Scope                             { return p.root }
func (p *fakePage) Navigate(ctx context.Context, url string) error { return nil }
func (p *fakePage) HTML(ctx context.Context) (string, error)       { return "<html></html>", nil }
func (p *fakePage) CurrentURL() string                             { return "https://example.com/sheet" }

func (p *fakePage) SubscribeNativeDialog(ctx context.Context) (output.NativeDialogSubscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribed++
	return p.sub, nil
}

func (p *fakePage) Screenshot(ctx context.Context, fullPage bool) (*entity.Screenshot, error) {
	return &entity.Screenshot{Data: []byte("png"), Format: "png"}, nil
}

func (p *fakePage) MouseClick(ctx context.Context, x, y float64) error { return nil }

type fakeShots struct {
	mu   sync.Mutex
	tags []string
	err  error
}

func (s *fakeShots) Capture(ctx context.Context, page output.Page, tag string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tags = append(s.tags, tag)
	if s.err != nil {
		return "", s.err
	}
	return "/tmp/screenshots/20250101_120000_" + tag + ".png", nil
}

func (s *fakeShots) count(tag string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tags {
		if t == tag {
			n++
		}
	}
	return n
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.ScopePollInterval = 20 * time.Millisecond
	opts.SurfacePollInterval = 5 * time.Millisecond
	opts.ClickTimeout = 500 * time.Millisecond
	opts.DetachGrace = 10 * time.Millisecond
	opts.SettleDelay = time.Millisecond
	return opts
}

func nopLogger() output.LoggerPort {
	return logger.NewNop()
}

func cancelButton(label string) *fakeElement {
	return newElement("cancel", label).withRipple()
}

func confirmButton(label string) *fakeElement {
	return newElement("confirm", label)
}

// surfaceWith builds a visible surface exposing the given buttons through
// the selectors the finder queries.
func surfaceWith(cancel, confirm *fakeElement) *fakeElement {
	s := newElement("surface", "")
	if cancel != nil {
		s.with(selRoleButton, cancel)
	}
	if confirm != nil {
		s.with(selButtonLike, confirm)
		s.with(selButtonOrButton, confirm)
	}
	return s
}
