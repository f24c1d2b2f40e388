package artifacts

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"sheetclick/internal/application/port/output"

	"github.com/disintegration/imaging"
)

var _ output.ScreenshotPort = (*ScreenshotStore)(nil)

type ScreenshotConfig struct {
	Dir string
	// MaxWidth downscales wider captures; zero keeps the original size.
	MaxWidth int
	// Format is "png" or "jpeg".
	Format  string
	Quality int
}

type ScreenshotStore struct {
	cfg ScreenshotConfig
	now func() time.Time
}

func NewScreenshotStore(cfg ScreenshotConfig) *ScreenshotStore {
	if cfg.Format == "" {
		cfg.Format = "png"
	}
	if cfg.Quality <= 0 {
		cfg.Quality = 80
	}
	return &ScreenshotStore{cfg: cfg, now: time.Now}
}

// Capture takes a full-page screenshot and stores it as
// <dir>/<YYYYMMDD_HHMMSS>_<tag>.<ext>.
func (s *ScreenshotStore) Capture(ctx context.Context, page output.Page, tag string) (string, error) {
	shot, err := page.Screenshot(ctx, true)
	if err != nil {
		return "", err
	}

	data, err := s.encode(shot.Data, shot.Format)
	if err != nil {
		return "", err
	}

	return writeFile(s.cfg.Dir, fileName(s.now(), tag, s.ext()), data)
}

func (s *ScreenshotStore) encode(raw []byte, format string) ([]byte, error) {
	if s.cfg.MaxWidth <= 0 && sameFormat(format, s.cfg.Format) {
		return raw, nil
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if s.cfg.MaxWidth > 0 && img.Bounds().Dx() > s.cfg.MaxWidth {
		img = imaging.Resize(img, s.cfg.MaxWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	switch s.cfg.Format {
	case "jpeg", "jpg":
		err = imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(s.cfg.Quality))
	default:
		err = imaging.Encode(buf, img, imaging.PNG)
	}
	if err != nil {
		return nil, fmt.Errorf("%s encode failed: %w", s.cfg.Format, err)
	}
	return buf.Bytes(), nil
}

func (s *ScreenshotStore) ext() string {
	if s.cfg.Format == "jpeg" || s.cfg.Format == "jpg" {
		return "jpg"
	}
	return "png"
}

func sameFormat(a, b string) bool {
	norm := func(f string) string {
		if f == "jpg" {
			return "jpeg"
		}
		return f
	}
	return norm(a) == norm(b)
}
