package di

import (
	"context"
	"fmt"
	"os"

	"sheetclick/internal/application/port/input"
	"sheetclick/internal/application/port/output"
	"sheetclick/internal/config"
	"sheetclick/internal/infrastructure/artifacts"
	"sheetclick/internal/infrastructure/browser/rod"
	"sheetclick/internal/infrastructure/logger"
	"sheetclick/internal/usecase/clicker"
	"sheetclick/internal/usecase/popup"

	"github.com/google/uuid"
)

type Container struct {
	RunID     string
	Logger    output.LoggerPort
	Session   output.BrowserSession
	Shots     output.ScreenshotPort
	Snapshots output.SnapshotPort
	Popup     *popup.ConfirmRace
	Clicker   input.ObjectClicker
}

// NewContainer wires a full click-and-confirm run and launches the browser.
func NewContainer(ctx context.Context, cfg config.Config) (*Container, error) {
	runID := uuid.NewString()

	log, err := newLogger(cfg, cfg.ObjectAlt)
	if err != nil {
		return nil, err
	}
	runLog := log.WithField("run_id", runID)

	session, err := rod.NewSession(ctx, sessionConfig(cfg))
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}

	shots := artifacts.NewScreenshotStore(artifacts.ScreenshotConfig{
		Dir:      cfg.ScreenshotDir,
		MaxWidth: cfg.Screenshot.MaxWidth,
		Format:   cfg.Screenshot.Format,
		Quality:  cfg.Screenshot.Quality,
	})
	snapshots := artifacts.NewSnapshotStore(cfg.ScreenshotDir)

	opts := popupOptions(cfg)
	race := popup.New(opts, shots, runLog)
	resolver := popup.NewScopeResolver(opts.OverlaySelector, opts.ScopePollInterval, runLog)

	uc := clicker.New(resolver, race, shots, snapshots, runLog, clickerSettings(cfg, runID))

	return &Container{
		RunID:     runID,
		Logger:    &rootLogger{LoggerPort: runLog, root: log},
		Session:   session,
		Shots:     shots,
		Snapshots: snapshots,
		Popup:     race,
		Clicker:   uc,
	}, nil
}

// NewLoginContainer wires only what the manual login bootstrap needs. The
// profile directory is created when missing.
func NewLoginContainer(ctx context.Context, cfg config.Config) (*Container, error) {
	if err := os.MkdirAll(cfg.UserDataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create profile dir: %w", err)
	}

	log, err := newLogger(cfg, "login")
	if err != nil {
		return nil, err
	}

	sc := sessionConfig(cfg)
	sc.Headless = false
	session, err := rod.NewSession(ctx, sc)
	if err != nil {
		log.Close()
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}

	return &Container{Logger: log, Session: session}, nil
}

func (c *Container) Close() {
	if c.Session != nil {
		c.Session.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}

func newLogger(cfg config.Config, name string) (*logger.LoggerAdapter, error) {
	log, err := logger.NewLoggerAdapter(logger.Config{
		Dir:   cfg.LogDir,
		Name:  name,
		Debug: cfg.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

func sessionConfig(cfg config.Config) rod.SessionConfig {
	sc := rod.DefaultSessionConfig()
	sc.UserDataDir = cfg.UserDataDir
	sc.Headless = cfg.Headless
	sc.Bin = cfg.BrowserBin
	sc.Trace = cfg.Debug
	if cfg.Screenshot.Format == "jpeg" {
		sc.JPEGQuality = cfg.Screenshot.Quality
	}
	if cfg.Viewport.Width > 0 && cfg.Viewport.Height > 0 {
		sc.ViewportWidth = cfg.Viewport.Width
		sc.ViewportHeight = cfg.Viewport.Height
	}
	if cfg.NavigationTimeout > 0 {
		sc.NavigationTimeout = cfg.NavigationTimeout
	}
	if cfg.ActionTimeout > 0 {
		sc.ActionTimeout = cfg.ActionTimeout
	}
	return sc
}

func popupOptions(cfg config.Config) popup.Options {
	opts := popup.DefaultOptions()
	if cfg.Selectors.Overlay != "" {
		opts.OverlaySelector = cfg.Selectors.Overlay
	}
	if cfg.Selectors.Surface != "" {
		opts.SurfaceSelector = cfg.Selectors.Surface
	}
	if cfg.Selectors.Ripple != "" {
		opts.RippleSelector = cfg.Selectors.Ripple
	}
	if cfg.PollInterval > 0 {
		opts.ScopePollInterval = cfg.PollInterval
	}
	opts.SurfaceTimeout = cfg.SurfaceTimeout
	return opts
}

func clickerSettings(cfg config.Config, runID string) clicker.Settings {
	s := clicker.DefaultSettings()
	s.RunID = runID
	s.SheetURL = cfg.SheetURL
	s.Label = cfg.ObjectAlt
	if cfg.Selectors.Overlay != "" {
		s.OverlaySelector = cfg.Selectors.Overlay
	}
	s.ContainerSelector = cfg.Selectors.Container
	s.ScopeWait = cfg.ScopeWait
	s.PostNavigateDelay = cfg.PostNavigateDelay
	s.ConfirmTimeout = cfg.ConfirmTimeout
	if cfg.ActionTimeout > 0 {
		s.ClickTimeout = cfg.ActionTimeout
	}
	return s
}

// rootLogger logs with the run fields but closes the file-owning root.
type rootLogger struct {
	output.LoggerPort
	root output.LoggerPort
}

func (l *rootLogger) Close() error {
	return l.root.Close()
}
