package main

import (
	"sheetclick/internal/config"
	"sheetclick/internal/infrastructure/env"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "sheetclick",
	Short:         "Click a spreadsheet drawing by its label and resolve the popup it opens",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRun,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().Bool("headless", false, "Run the browser without a window")
	addRunFlags(rootCmd)
}

// loadConfig layers the YAML file, the environment and the flags, in that
// order of increasing priority.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path, env.NewEnvService())
	if err != nil {
		return config.Config{}, err
	}

	if cmd.Flags().Changed("headless") {
		cfg.Headless, _ = cmd.Flags().GetBool("headless")
	}
	return cfg, nil
}
