package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"sheetclick/internal/domain/entity"

	"github.com/fatih/color"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130
)

var (
	green  = color.New(color.FgGreen, color.Bold)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	code := exitCode(ctx, err)
	if err != nil && code != exitInterrupted {
		red.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	stop()
	os.Exit(code)
}

// exitCode maps a command error to the process status: 130 for an operator
// interrupt, 1 for anything else.
func exitCode(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, entity.ErrInterrupted):
		return exitInterrupted
	case ctx.Err() != nil && errors.Is(err, context.Canceled):
		return exitInterrupted
	default:
		return exitFailure
	}
}
