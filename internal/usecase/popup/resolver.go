package popup

import (
	"context"
	"fmt"
	"time"

	"sheetclick/internal/application/port/output"
	"sheetclick/internal/domain/entity"
)

const maxFrameDepth = 8

type ScopeResolver struct {
	selector string
	interval time.Duration
	logger   output.LoggerPort
}

func NewScopeResolver(selector string, interval time.Duration, logger output.LoggerPort) *ScopeResolver {
	return &ScopeResolver{
		selector: selector,
		interval: interval,
		logger:   logger,
	}
}

// Resolve returns the first scope, in enumeration order, holding an overlay
// whose label equals or contains label. Exact matches are not preferred
// over substring matches. Frames are re-enumerated on every pass.
func (r *ScopeResolver) Resolve(ctx context.Context, root output.Scope, label string, maxWait time.Duration) (output.Scope, error) {
	deadline := time.Now().Add(maxWait)

	for pass := 1; ; pass++ {
		if scope := r.search(ctx, root, label, 0); scope != nil {
			r.logger.Info("Overlay scope resolved",
				"label", label, "scope", scope.Name(), "kind", scope.Kind(), "pass", pass)
			return scope, nil
		}

		if !time.Now().Before(deadline) {
			break
		}
		if err := sleep(ctx, r.interval); err != nil {
			return nil, fmt.Errorf("resolve overlay %q: %w", label, err)
		}
	}

	return nil, fmt.Errorf("overlay with aria-label %q: %w", label, entity.ErrNotFound)
}

func (r *ScopeResolver) search(ctx context.Context, scope output.Scope, label string, depth int) output.Scope {
	if r.hasOverlay(ctx, scope, label) {
		return scope
	}
	if depth >= maxFrameDepth {
		return nil
	}

	subs, err := scope.SubScopes(ctx)
	if err != nil {
		r.logger.Debug("Frame enumeration failed", "scope", scope.Name(), "error", err)
		return nil
	}

	for _, sub := range subs {
		if found := r.search(ctx, sub, label, depth+1); found != nil {
			return found
		}
	}
	return nil
}

func (r *ScopeResolver) hasOverlay(ctx context.Context, scope output.Scope, label string) bool {
	els, err := scope.FindByLabel(ctx, r.selector, label)
	if err != nil {
		return false
	}
	return len(els) > 0
}
