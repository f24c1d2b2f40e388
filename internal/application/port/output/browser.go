package output

import (
	"context"

	"sheetclick/internal/domain/entity"
)

// Scope is a searchable rendering context: the top-level document or one
// of its embedded frames. Scopes are borrowed views into the live page.
type Scope interface {
	Kind() entity.ScopeKind
	Name() string

	// FindByLabel returns elements matching selector whose aria-label equals
	// or contains label, in document order.
	FindByLabel(ctx context.Context, selector, label string) ([]Element, error)
	Query(ctx context.Context, selector string) ([]Element, error)
	// SubScopes enumerates the frames embedded directly in this scope.
	// The result is never cached.
	SubScopes(ctx context.Context) ([]Scope, error)
}

type Element interface {
	Query(ctx context.Context, selector string) ([]Element, error)
	Text(ctx context.Context) (string, error)
	AccessibleName(ctx context.Context) (string, error)

	Visible(ctx context.Context) (bool, error)
	WaitVisible(ctx context.Context) error
	WaitDetached(ctx context.Context) error
	ScrollIntoView(ctx context.Context) error
	Click(ctx context.Context) error
	Box(ctx context.Context) (entity.Box, error)
}

type Page interface {
	Root() Scope
	Navigate(ctx context.Context, url string) error
	SubscribeNativeDialog(ctx context.Context) (NativeDialogSubscription, error)
	Screenshot(ctx context.Context, fullPage bool) (*entity.Screenshot, error)
	HTML(ctx context.Context) (string, error)
	MouseClick(ctx context.Context, x, y float64) error
	CurrentURL() string
}

// NativeDialogSubscription delivers at most one native dialog.
type NativeDialogSubscription interface {
	Dialogs() <-chan NativeDialog
	Close()
}

type NativeDialog interface {
	Info() entity.NativeDialogInfo
	Accept(ctx context.Context) error
}

type BrowserSession interface {
	NewPage(ctx context.Context) (Page, error)
	// Wait blocks until the operator closes the browser or ctx is done.
	Wait(ctx context.Context) error
	Close()
}
