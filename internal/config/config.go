// Package config holds the run configuration. A Config is built once per
// run and treated as read-only afterwards.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sheetclick/internal/application/port/output"

	"gopkg.in/yaml.v3"
)

type Selectors struct {
	Overlay   string `yaml:"overlay"`
	Container string `yaml:"container"`
	Surface   string `yaml:"surface"`
	Ripple    string `yaml:"ripple"`
}

type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Screenshot struct {
	MaxWidth int    `yaml:"max_width"`
	Format   string `yaml:"format"`
	Quality  int    `yaml:"quality"`
}

type Config struct {
	SheetURL    string `yaml:"sheet_url"`
	UserDataDir string `yaml:"user_data_dir"`
	ObjectAlt   string `yaml:"object_alt"`

	ConfirmTimeout    time.Duration `yaml:"confirm_timeout"`
	// SurfaceTimeout caps the wait for a DOM dialog surface. Zero waits
	// until ConfirmTimeout.
	SurfaceTimeout    time.Duration `yaml:"surface_timeout"`
	ScopeWait         time.Duration `yaml:"scope_wait"`
	PollInterval      time.Duration `yaml:"poll_interval"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	PostNavigateDelay time.Duration `yaml:"post_navigate_delay"`
	ActionTimeout     time.Duration `yaml:"action_timeout"`

	ScreenshotDir string `yaml:"screenshot_dir"`
	LogDir        string `yaml:"log_dir"`
	Debug         bool   `yaml:"debug"`

	PromptSeconds int  `yaml:"prompt_seconds"`
	SkipPrompt    bool `yaml:"skip_prompt"`
	SkipWeekends  bool `yaml:"skip_weekends"`

	Headless   bool     `yaml:"headless"`
	BrowserBin string   `yaml:"browser_bin"`
	Viewport   Viewport `yaml:"viewport"`

	Selectors  Selectors  `yaml:"selectors"`
	Screenshot Screenshot `yaml:"screenshot"`
}

func Default() Config {
	return Config{
		ConfirmTimeout:    15 * time.Second,
		ScopeWait:         20 * time.Second,
		PollInterval:      500 * time.Millisecond,
		NavigationTimeout: 180 * time.Second,
		PostNavigateDelay: 3 * time.Second,
		ActionTimeout:     20 * time.Second,
		ScreenshotDir:     "screenshots",
		LogDir:            "log",
		PromptSeconds:     10,
		Viewport:          Viewport{Width: 1400, Height: 900},
		Selectors: Selectors{
			Overlay:   "div.waffle-borderless-embedded-object-overlay",
			Container: "div.waffle-borderless-embedded-object-container",
			Surface:   ".javascriptMaterialdesignGm3WizDialog-dialog__surface",
			Ripple:    "span.javascriptMaterialdesignGm3WizRipple-ripple",
		},
		Screenshot: Screenshot{
			Format:  "png",
			Quality: 80,
		},
	}
}

// Load starts from Default, applies the YAML file at path (if any) and then
// the environment.
func Load(path string, env output.ConfigPort) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv(env)

	if abs, err := filepath.Abs(cfg.ScreenshotDir); err == nil {
		cfg.ScreenshotDir = abs
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(env output.ConfigPort) {
	c.SheetURL = env.GetWithDefault("SHEET_URL", c.SheetURL)
	c.UserDataDir = env.GetWithDefault("USER_DATA_DIR", c.UserDataDir)
	c.ObjectAlt = env.GetWithDefault("OBJECT_ALT", c.ObjectAlt)

	c.ConfirmTimeout = env.GetDuration("CONFIRM_TIMEOUT_MS", c.ConfirmTimeout)
	c.SurfaceTimeout = env.GetDuration("SURFACE_TIMEOUT_MS", c.SurfaceTimeout)
	c.ScopeWait = env.GetDuration("SCOPE_WAIT_MS", c.ScopeWait)
	c.PollInterval = env.GetDuration("POLL_INTERVAL_MS", c.PollInterval)
	c.NavigationTimeout = env.GetDuration("NAVIGATION_TIMEOUT_MS", c.NavigationTimeout)
	c.PostNavigateDelay = env.GetDuration("POST_NAVIGATE_DELAY_MS", c.PostNavigateDelay)
	c.ActionTimeout = env.GetDuration("ACTION_TIMEOUT_MS", c.ActionTimeout)

	c.ScreenshotDir = env.GetWithDefault("SCREENSHOT_DIR", c.ScreenshotDir)
	c.LogDir = env.GetWithDefault("LOG_DIR", c.LogDir)
	c.Debug = env.GetBool("DEBUG", c.Debug)

	c.PromptSeconds = env.GetInt("PROMPT_SECONDS", c.PromptSeconds)
	c.SkipPrompt = env.GetBool("SKIP_PROMPT", c.SkipPrompt)
	c.SkipWeekends = env.GetBool("SKIP_WEEKENDS", c.SkipWeekends)

	c.Headless = env.GetBool("HEADLESS", c.Headless)
	c.BrowserBin = env.GetWithDefault("BROWSER_BIN", c.BrowserBin)
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error
	if c.SheetURL == "" {
		errs = append(errs, errors.New("SHEET_URL is required"))
	}
	if c.UserDataDir == "" {
		errs = append(errs, errors.New("USER_DATA_DIR is required"))
	}
	if c.ObjectAlt == "" {
		errs = append(errs, errors.New("OBJECT_ALT is required"))
	}
	if c.ConfirmTimeout <= 0 {
		errs = append(errs, fmt.Errorf("confirm timeout must be positive, got %s", c.ConfirmTimeout))
	}
	if c.SurfaceTimeout < 0 {
		errs = append(errs, fmt.Errorf("surface timeout must not be negative, got %s", c.SurfaceTimeout))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll interval must be positive, got %s", c.PollInterval))
	}
	switch c.Screenshot.Format {
	case "png", "jpeg":
	default:
		errs = append(errs, fmt.Errorf("screenshot format must be png or jpeg, got %q", c.Screenshot.Format))
	}
	return errors.Join(errs...)
}

// ValidateLogin checks only what the login bootstrap needs.
func (c Config) ValidateLogin() error {
	if c.UserDataDir == "" {
		return errors.New("USER_DATA_DIR is required")
	}
	return nil
}
