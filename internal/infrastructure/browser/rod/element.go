package rod

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sheetclick/internal/application/port/output"
	"sheetclick/internal/domain/entity"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

var _ output.Element = (*Element)(nil)

const detachPollInterval = 100 * time.Millisecond

const jsAccessibleName = `() => {
	const byIds = (this.getAttribute('aria-labelledby') || '')
		.split(/\s+/)
		.map(id => id && document.getElementById(id))
		.filter(Boolean)
		.map(n => n.textContent)
		.join(' ');
	return this.getAttribute('aria-label') || byIds || this.innerText || this.value || this.textContent || '';
}`

const jsIsConnected = `() => this.isConnected`

type Element struct {
	el      *rod.Element
	timeout time.Duration
}

func wrapElements(els rod.Elements, timeout time.Duration) []output.Element {
	out := make([]output.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &Element{el: el, timeout: timeout})
	}
	return out
}

func (e *Element) Query(ctx context.Context, selector string) ([]output.Element, error) {
	els, err := e.el.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	return wrapElements(els, e.timeout), nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return e.el.Context(ctx).Text()
}

func (e *Element) AccessibleName(ctx context.Context) (string, error) {
	res, err := e.el.Context(ctx).Eval(jsAccessibleName)
	if err != nil {
		return "", fmt.Errorf("accessible name: %w", err)
	}
	return strings.TrimSpace(res.Value.Str()), nil
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	return e.el.Context(ctx).Visible()
}

func (e *Element) WaitVisible(ctx context.Context) error {
	return e.bounded(ctx).WaitVisible()
}

// WaitDetached returns once the node leaves the DOM or becomes hidden.
func (e *Element) WaitDetached(ctx context.Context) error {
	ticker := time.NewTicker(detachPollInterval)
	defer ticker.Stop()

	for {
		res, err := e.el.Context(ctx).Eval(jsIsConnected)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// The remote object is gone with its node.
			return nil
		}
		if !res.Value.Bool() {
			return nil
		}
		if visible, err := e.el.Context(ctx).Visible(); err == nil && !visible {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (e *Element) ScrollIntoView(ctx context.Context) error {
	return e.bounded(ctx).ScrollIntoView()
}

func (e *Element) Click(ctx context.Context) error {
	return e.bounded(ctx).Click(proto.InputMouseButtonLeft, 1)
}

func (e *Element) Box(ctx context.Context) (entity.Box, error) {
	shape, err := e.el.Context(ctx).Shape()
	if err != nil {
		return entity.Box{}, fmt.Errorf("element shape: %w", err)
	}
	rect := shape.Box()
	if rect == nil {
		return entity.Box{}, errors.New("element has no layout box")
	}
	return entity.Box{X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height}, nil
}

// bounded applies the action timeout unless ctx already carries a deadline.
func (e *Element) bounded(ctx context.Context) *rod.Element {
	el := e.el.Context(ctx)
	if _, ok := ctx.Deadline(); !ok && e.timeout > 0 {
		el = el.Timeout(e.timeout)
	}
	return el
}
