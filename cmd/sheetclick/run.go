package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"sheetclick/internal/config"
	"sheetclick/internal/di"
	"sheetclick/internal/domain/entity"
	"sheetclick/internal/infrastructure/userinteraction"
	"sheetclick/internal/usecase/clicker"

	"github.com/spf13/cobra"
)

const stopQuestion = "Stop this run? (Y/N)"

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the sheet, click the labelled object and resolve its popup",
	RunE:  runRun,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("yes", "y", false, "Skip the countdown prompt")
	cmd.Flags().Duration("timeout", 0, "Popup confirmation window (e.g. 15s)")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyRunFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}

	if cfg.SkipWeekends && clicker.IsWeekendKST(time.Now()) {
		yellow.Println("Weekend in KST, skipping run.")
		return nil
	}

	if err := checkProfile(cfg.UserDataDir); err != nil {
		return err
	}

	if !cfg.SkipPrompt {
		proceed, err := userinteraction.NewConsolePrompt().Ask(ctx, stopQuestion, cfg.PromptSeconds)
		if err != nil {
			return err
		}
		if !proceed {
			yellow.Println("Stopped by operator.")
			return nil
		}
	}

	c, err := di.NewContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	c.Logger.Info("Run started", "label", cfg.ObjectAlt, "timeout", cfg.ConfirmTimeout)

	page, err := c.Session.NewPage(ctx)
	if err != nil {
		c.Logger.Error("Failed to open page", "error", err)
		return err
	}

	report, err := c.Clicker.Execute(ctx, page)
	if err != nil {
		c.Logger.Error("Run failed", "error", err)
		return err
	}

	c.Logger.Info("Run finished",
		"outcome", report.Outcome,
		"scope", report.ScopeName,
		"duration", report.Duration,
	)
	printReport(report)
	return nil
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		cfg.SkipPrompt = true
	}
	if cmd.Flags().Changed("timeout") {
		cfg.ConfirmTimeout, _ = cmd.Flags().GetDuration("timeout")
	}
}

func checkProfile(dir string) error {
	info, err := os.Stat(dir)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("browser profile %s does not exist, run `sheetclick login` first", dir)
	}
	if err != nil {
		return fmt.Errorf("browser profile %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("browser profile %s is not a directory", dir)
	}
	return nil
}

func printReport(r *entity.RunReport) {
	line := clicker.StatusLine(r.Outcome)
	switch r.Outcome {
	case entity.OutcomeDOMError, entity.OutcomeTimedOut:
		yellow.Printf("%s (%s)\n", line, r.Outcome)
	default:
		green.Printf("%s (%s)\n", line, r.Outcome)
	}
	fmt.Printf("  run:   %s\n  scope: %s\n  took:  %s\n", r.RunID, r.ScopeName, r.Duration.Round(time.Millisecond))
	if r.Screenshot != "" {
		fmt.Printf("  shot:  %s\n", r.Screenshot)
	}
}
