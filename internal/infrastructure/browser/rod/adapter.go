package rod

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"sheetclick/internal/application/port/output"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

var _ output.BrowserSession = (*Session)(nil)

const (
	defaultActionTimeout     = 20 * time.Second
	defaultNavigationTimeout = 180 * time.Second
	closePollInterval        = time.Second
)

type SessionConfig struct {
	// UserDataDir is the persistent browser profile. It is never removed.
	UserDataDir string
	Headless    bool
	// Bin overrides the browser executable; empty lets the launcher pick.
	Bin string

	ViewportWidth     int
	ViewportHeight    int
	NavigationTimeout time.Duration
	ActionTimeout     time.Duration
	// JPEGQuality switches captures to JPEG; zero keeps PNG.
	JPEGQuality int
	Trace       bool
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		ViewportWidth:     1400,
		ViewportHeight:    900,
		NavigationTimeout: defaultNavigationTimeout,
		ActionTimeout:     defaultActionTimeout,
	}
}

type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	cfg      SessionConfig

	closeOnce sync.Once
}

// NewSession launches a browser bound to cfg.UserDataDir so that a signed-in
// profile survives between runs.
func NewSession(ctx context.Context, cfg SessionConfig) (*Session, error) {
	if cfg.UserDataDir == "" {
		return nil, errors.New("user data dir is required")
	}
	if err := os.MkdirAll(cfg.UserDataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create user data dir: %w", err)
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = defaultNavigationTimeout
	}
	if cfg.ActionTimeout <= 0 {
		cfg.ActionTimeout = defaultActionTimeout
	}

	l := launcher.New().
		Context(ctx).
		UserDataDir(cfg.UserDataDir).
		Headless(cfg.Headless).
		Delete("use-mock-keychain").
		Set("disable-blink-features", "AutomationControlled")
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(url).Trace(cfg.Trace)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Session{browser: browser, launcher: l, cfg: cfg}, nil
}

func (s *Session) NewPage(ctx context.Context) (output.Page, error) {
	p, err := s.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	if s.cfg.ViewportWidth > 0 && s.cfg.ViewportHeight > 0 {
		err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             s.cfg.ViewportWidth,
			Height:            s.cfg.ViewportHeight,
			DeviceScaleFactor: 1,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to set viewport: %w", err)
		}
	}

	return newPage(p.Context(context.Background()), s.cfg), nil
}

// Wait blocks until the browser goes away, which is how a manual login
// session ends.
func (s *Session) Wait(ctx context.Context) error {
	ticker := time.NewTicker(closePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.browser.Version(); err != nil {
				return nil
			}
		}
	}
}

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.browser != nil {
			_ = s.browser.Close()
		}
		if s.launcher != nil {
			// Kill only: Cleanup would delete the profile directory.
			s.launcher.Kill()
		}
	})
}
