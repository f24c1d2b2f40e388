package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"sheetclick/internal/config"
	"sheetclick/internal/domain/entity"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name     string
		ctx      context.Context
		err      error
		expected int
	}{
		{"success", context.Background(), nil, exitOK},
		{"failure", context.Background(), errors.New("navigation failed"), exitFailure},
		{"prompt ctrl-c", context.Background(), fmt.Errorf("prompt: %w", entity.ErrInterrupted), exitInterrupted},
		{"signal", canceled, fmt.Errorf("open sheet: %w", context.Canceled), exitInterrupted},
		{"race interrupted", canceled, fmt.Errorf("popup resolution interrupted: %w", context.Canceled), exitInterrupted},
		{"canceled without signal", context.Background(), context.Canceled, exitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exitCode(tt.ctx, tt.err))
		})
	}
}

func TestCheckProfile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	assert.NoError(t, checkProfile(dir))
	assert.ErrorContains(t, checkProfile(filepath.Join(dir, "missing")), "sheetclick login")
	assert.ErrorContains(t, checkProfile(file), "not a directory")
}

func TestApplyRunFlags(t *testing.T) {
	cmd := &cobra.Command{}
	addRunFlags(cmd)
	require.NoError(t, cmd.ParseFlags([]string{"--yes", "--timeout", "4s"}))

	cfg := config.Default()
	applyRunFlags(cmd, &cfg)

	assert.True(t, cfg.SkipPrompt)
	assert.Equal(t, 4*time.Second, cfg.ConfirmTimeout)
}

func TestApplyRunFlags_KeepsConfigWhenUnset(t *testing.T) {
	cmd := &cobra.Command{}
	addRunFlags(cmd)
	require.NoError(t, cmd.ParseFlags(nil))

	cfg := config.Default()
	applyRunFlags(cmd, &cfg)

	assert.False(t, cfg.SkipPrompt)
	assert.Equal(t, 15*time.Second, cfg.ConfirmTimeout)
}
