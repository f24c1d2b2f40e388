// Package artifacts writes the files a run leaves behind for diagnosis:
// screenshots and cleaned DOM snapshots.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const stampLayout = "20060102_150405"

var unsafeTag = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// fileName builds "<YYYYMMDD_HHMMSS>_<tag>.<ext>".
func fileName(now time.Time, tag, ext string) string {
	tag = strings.Trim(unsafeTag.ReplaceAllString(tag, "_"), "_")
	if tag == "" {
		tag = "artifact"
	}
	return fmt.Sprintf("%s_%s.%s", now.Format(stampLayout), tag, ext)
}

// writeFile creates dir on demand and writes data under name, returning the
// absolute path.
func writeFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, nil
}
