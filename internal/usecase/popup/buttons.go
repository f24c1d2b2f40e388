package popup

import (
	"context"
	"regexp"
	"strings"

	"sheetclick/internal/application/port/output"
	"sheetclick/internal/domain/entity"
)

var (
	cancelText  = regexp.MustCompile(`(?i)(^|\s)(취소|Cancel)(\s|$)`)
	confirmText = regexp.MustCompile(`(?i)(^|\s)(확인|OK)(\s|$)`)
)

const (
	selRoleButton     = `[role="button"]`
	selButton         = `button`
	selCancelAria     = `[role="button"][aria-label*="취소" i],[role="button"][aria-label*="cancel" i],button[aria-label*="취소" i],button[aria-label*="cancel" i]`
	selButtonLike     = `button,[role="button"],input[type="button"],input[type="submit"]`
	selButtonOrButton = `button,[role="button"]`
)

type textSource int

const (
	innerText textSource = iota
	accessibleName
)

type strategy struct {
	name     string
	selector string
	ripple   bool
	source   textSource
	pattern  *regexp.Regexp
}

type ButtonCandidate struct {
	Element  output.Element
	Intent   entity.ButtonIntent
	Strategy string
}

type ButtonFinder struct {
	ripple     string
	strategies map[entity.ButtonIntent][]strategy
	logger     output.LoggerPort
}

func NewButtonFinder(rippleSelector string, logger output.LoggerPort) *ButtonFinder {
	return &ButtonFinder{
		ripple: rippleSelector,
		strategies: map[entity.ButtonIntent][]strategy{
			entity.IntentCancel: {
				{name: "role-button-ripple-text", selector: selRoleButton, ripple: true, source: innerText, pattern: cancelText},
				{name: "button-ripple-text", selector: selButton, ripple: true, source: innerText, pattern: cancelText},
				{name: "aria-label-ripple", selector: selCancelAria, ripple: true},
			},
			entity.IntentConfirm: {
				{name: "role-button-name", selector: selButtonLike, source: accessibleName, pattern: confirmText},
				{name: "button-text", selector: selButtonOrButton, source: innerText, pattern: confirmText},
			},
		},
		logger: logger,
	}
}

// Find tries the strategies for intent in priority order and returns the
// first element of the first non-empty match set. A nil result means the
// surface has no such control.
func (f *ButtonFinder) Find(ctx context.Context, surface output.Element, intent entity.ButtonIntent) *ButtonCandidate {
	for _, s := range f.strategies[intent] {
		matches := f.match(ctx, surface, s)
		if len(matches) == 0 {
			continue
		}
		f.logger.Debug("Button matched", "intent", intent, "strategy", s.name, "matches", len(matches))
		return &ButtonCandidate{Element: matches[0], Intent: intent, Strategy: s.name}
	}
	return nil
}

func (f *ButtonFinder) match(ctx context.Context, surface output.Element, s strategy) []output.Element {
	els, err := surface.Query(ctx, s.selector)
	if err != nil {
		f.logger.Debug("Button query failed", "strategy", s.name, "error", err)
		return nil
	}

	var out []output.Element
	for _, el := range els {
		if s.ripple && !f.hasRipple(ctx, el) {
			continue
		}
		if s.pattern != nil && !s.pattern.MatchString(f.text(ctx, el, s.source)) {
			continue
		}
		out = append(out, el)
	}
	return out
}

func (f *ButtonFinder) hasRipple(ctx context.Context, el output.Element) bool {
	ripples, err := el.Query(ctx, f.ripple)
	return err == nil && len(ripples) > 0
}

func (f *ButtonFinder) text(ctx context.Context, el output.Element, source textSource) string {
	var (
		s   string
		err error
	)
	if source == accessibleName {
		s, err = el.AccessibleName(ctx)
	} else {
		s, err = el.Text(ctx)
	}
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}
