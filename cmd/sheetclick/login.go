package main

import (
	"fmt"

	"sheetclick/internal/di"

	"github.com/spf13/cobra"
)

const loginURL = "https://accounts.google.com/"

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Open the persistent browser profile to sign in by hand",
	Long:  "Opens the browser profile at USER_DATA_DIR on the sign-in page and waits until the browser window is closed.",
	RunE:  runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateLogin(); err != nil {
		return err
	}

	c, err := di.NewLoginContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	page, err := c.Session.NewPage(ctx)
	if err != nil {
		return err
	}
	if err := page.Navigate(ctx, loginURL); err != nil {
		return fmt.Errorf("open sign-in page: %w", err)
	}

	c.Logger.Info("Sign in, then close the browser window", "profile", cfg.UserDataDir)
	yellow.Println("Sign in, then close the browser window to save the session.")

	if err := c.Session.Wait(ctx); err != nil {
		return err
	}
	green.Println("Browser closed, session saved.")
	return nil
}
