package artifacts

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"sheetclick/internal/application/port/output"

	"golang.org/x/net/html"
)

var _ output.SnapshotPort = (*SnapshotStore)(nil)

type CleanConfig struct {
	TagsToRemove  []string
	AttrsToRemove []string
	MaxOutputSize int
}

// DefaultCleanConfig keeps ids, classes, roles and aria attributes, which
// is what selector debugging needs.
var DefaultCleanConfig = CleanConfig{
	TagsToRemove: []string{
		"script", "style", "noscript", "svg", "link", "meta",
	},
	AttrsToRemove: []string{
		"style", "srcset", "sizes", "loading", "decoding", "fetchpriority", "nonce",
	},
	MaxOutputSize: 2_000_000,
}

type SnapshotStore struct {
	dir   string
	clean CleanConfig
	now   func() time.Time
}

func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{dir: dir, clean: DefaultCleanConfig, now: time.Now}
}

// Save writes the cleaned page DOM as <dir>/<YYYYMMDD_HHMMSS>_<tag>.html.
func (s *SnapshotStore) Save(ctx context.Context, page output.Page, tag string) (string, error) {
	raw, err := page.HTML(ctx)
	if err != nil {
		return "", err
	}
	return writeFile(s.dir, fileName(s.now(), tag, "html"), []byte(CleanHTML(raw, &s.clean)))
}

// CleanHTML strips scripts, styles, comments and noisy attributes. Input
// that fails to parse is returned unchanged.
func CleanHTML(rawHTML string, cfg *CleanConfig) string {
	if cfg == nil {
		cfg = &DefaultCleanConfig
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML
	}

	cleanNode(doc, cfg)

	var sb strings.Builder
	if err := html.Render(&sb, doc); err != nil {
		return rawHTML
	}
	return truncateHTML(sb.String(), cfg.MaxOutputSize)
}

func cleanNode(n *html.Node, cfg *CleanConfig) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.CommentNode:
			n.RemoveChild(c)
		case c.Type == html.ElementNode && isOneOf(c.Data, cfg.TagsToRemove...):
			n.RemoveChild(c)
		default:
			if c.Type == html.ElementNode {
				c.Attr = filterAttributes(c.Attr, cfg)
			}
			cleanNode(c, cfg)
		}
		c = next
	}
}

func filterAttributes(attrs []html.Attribute, cfg *CleanConfig) []html.Attribute {
	kept := attrs[:0]
	for _, attr := range attrs {
		if shouldRemoveAttr(attr.Key, cfg) {
			continue
		}
		kept = append(kept, attr)
	}
	return kept
}

func shouldRemoveAttr(key string, cfg *CleanConfig) bool {
	if isOneOf(key, cfg.AttrsToRemove...) {
		return true
	}
	return strings.HasPrefix(key, "data-") || strings.HasPrefix(key, "on") || strings.HasPrefix(key, "jsaction")
}

func truncateHTML(s string, maxSize int) string {
	if maxSize > 0 && len(s) > maxSize {
		// Cut on a rune boundary.
		for maxSize > 0 && !utf8.RuneStart(s[maxSize]) {
			maxSize--
		}
		return s[:maxSize] + "\n<!-- truncated -->"
	}
	return s
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
