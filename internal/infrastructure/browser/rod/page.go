package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"sheetclick/internal/application/port/output"
	"sheetclick/internal/domain/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var _ output.Page = (*Page)(nil)

type Page struct {
	page *rod.Page
	cfg  SessionConfig
}

func newPage(p *rod.Page, cfg SessionConfig) *Page {
	return &Page{page: p, cfg: cfg}
}

func (p *Page) Root() output.Scope {
	return &Scope{page: p.page, kind: entity.ScopeDocument, name: "document", depth: 0, timeout: p.cfg.ActionTimeout}
}

// Navigate returns once the main frame fires DOMContentLoaded. Subresources
// such as images may still be loading.
func (p *Page) Navigate(ctx context.Context, url string) error {
	nav := p.page.Context(ctx).Timeout(p.cfg.NavigationTimeout)
	defer nav.CancelTimeout()

	wait := p.waitDOMContentLoaded(nav)
	if err := nav.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	wait()
	if err := nav.GetContext().Err(); err != nil {
		return fmt.Errorf("page load failed: %w", err)
	}
	return nil
}

func (p *Page) waitDOMContentLoaded(nav *rod.Page) func() {
	_ = proto.PageSetLifecycleEventsEnabled{Enabled: true}.Call(nav)
	wait := nav.EachEvent(func(e *proto.PageLifecycleEvent) bool {
		return e.FrameID == p.page.FrameID && e.Name == proto.PageLifecycleEventNameDOMContentLoaded
	})
	return func() {
		wait()
		_ = proto.PageSetLifecycleEventsEnabled{Enabled: false}.Call(p.page)
	}
}

// SubscribeNativeDialog starts listening right away. Register it before
// the action that may open a dialog.
func (p *Page) SubscribeNativeDialog(ctx context.Context) (output.NativeDialogSubscription, error) {
	subCtx, cancel := context.WithCancel(ctx)
	sub := &dialogSubscription{
		ch:     make(chan output.NativeDialog, 1),
		cancel: cancel,
	}

	wait := p.page.Context(subCtx).EachEvent(func(e *proto.PageJavascriptDialogOpening) bool {
		d := &nativeDialog{
			page: p.page,
			info: entity.NativeDialogInfo{Type: string(e.Type), Message: e.Message, URL: e.URL},
		}
		select {
		case sub.ch <- d:
		default:
		}
		return true
	})
	go wait()

	return sub, nil
}

// Screenshot captures PNG, or JPEG when the session has a JPEG quality set.
func (p *Page) Screenshot(ctx context.Context, fullPage bool) (*entity.Screenshot, error) {
	req := &proto.PageCaptureScreenshot{Format: proto.PageCaptureScreenshotFormatPng}
	format := "png"
	if q := p.cfg.JPEGQuality; q > 0 {
		req = &proto.PageCaptureScreenshot{
			Format:  proto.PageCaptureScreenshotFormatJpeg,
			Quality: gson.Int(q),
		}
		format = "jpeg"
	}

	data, err := p.page.Context(ctx).Screenshot(fullPage, req)
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	shot := &entity.Screenshot{Data: data, Format: format}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		shot.Width, shot.Height = cfg.Width, cfg.Height
	}
	return shot, nil
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	html, err := p.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}
	return html, nil
}

func (p *Page) MouseClick(ctx context.Context, x, y float64) error {
	pg := p.page.Context(ctx)
	if err := pg.Mouse.MoveTo(proto.Point{X: x, Y: y}); err != nil {
		return fmt.Errorf("mouse move failed: %w", err)
	}
	if err := pg.Mouse.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("mouse click failed: %w", err)
	}
	return nil
}

func (p *Page) CurrentURL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

type dialogSubscription struct {
	ch     chan output.NativeDialog
	cancel context.CancelFunc
	once   sync.Once
}

func (s *dialogSubscription) Dialogs() <-chan output.NativeDialog { return s.ch }

func (s *dialogSubscription) Close() {
	s.once.Do(s.cancel)
}

type nativeDialog struct {
	page *rod.Page
	info entity.NativeDialogInfo
}

func (d *nativeDialog) Info() entity.NativeDialogInfo { return d.info }

func (d *nativeDialog) Accept(ctx context.Context) error {
	err := proto.PageHandleJavaScriptDialog{Accept: true}.Call(d.page.Context(ctx))
	if err != nil {
		return fmt.Errorf("failed to accept %s dialog: %w", d.info.Type, err)
	}
	return nil
}
