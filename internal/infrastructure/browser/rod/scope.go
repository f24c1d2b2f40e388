package rod

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sheetclick/internal/application/port/output"
	"sheetclick/internal/domain/entity"

	"github.com/go-rod/rod"
)

var _ output.Scope = (*Scope)(nil)

// Scope is the document of the page or of one iframe inside it.
type Scope struct {
	page    *rod.Page
	kind    entity.ScopeKind
	name    string
	depth   int
	timeout time.Duration
}

func (s *Scope) Kind() entity.ScopeKind { return s.kind }
func (s *Scope) Name() string           { return s.name }

func (s *Scope) FindByLabel(ctx context.Context, selector, label string) ([]output.Element, error) {
	return s.Query(ctx, labelSelector(selector, label))
}

// Query never waits: an absent match is an empty result.
func (s *Scope) Query(ctx context.Context, selector string) ([]output.Element, error) {
	els, err := s.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q in %s: %w", selector, s.name, err)
	}
	return wrapElements(els, s.timeout), nil
}

func (s *Scope) SubScopes(ctx context.Context) ([]output.Scope, error) {
	iframes, err := s.page.Context(ctx).Elements("iframe")
	if err != nil {
		return nil, fmt.Errorf("list frames of %s: %w", s.name, err)
	}

	scopes := make([]output.Scope, 0, len(iframes))
	for i, el := range iframes {
		frame, err := el.Context(ctx).Frame()
		if err != nil {
			continue
		}
		scopes = append(scopes, &Scope{
			page:    frame,
			kind:    entity.ScopeFrame,
			name:    frameName(el, s.depth+1, i),
			depth:   s.depth + 1,
			timeout: s.timeout,
		})
	}
	return scopes, nil
}

// labelSelector matches selector elements whose aria-label contains label.
// An exact value is a special case of containment.
func labelSelector(selector, label string) string {
	return fmt.Sprintf(`%s[aria-label*="%s"]`, selector, cssString(label))
}

func cssString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\a `)
	return r.Replace(s)
}

func frameName(el *rod.Element, depth, index int) string {
	for _, attr := range []string{"name", "id", "src"} {
		v, err := el.Attribute(attr)
		if err == nil && v != nil && *v != "" {
			val := *v
			if len(val) > 80 {
				val = val[:80]
			}
			return fmt.Sprintf("frame[%d.%d] %s=%s", depth, index, attr, val)
		}
	}
	return fmt.Sprintf("frame[%d.%d]", depth, index)
}
