// Package commands implements the keypad command line: an interactive
// terminal calculator and a headless key replayer.
package commands

import (
	"context"
	"fmt"

	"go-chi-keypad/internal/terminal"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Execute runs the root command.
func Execute(ctx context.Context, version, commit string) error {
	return newRootCommand(version, commit).ExecuteContext(ctx)
}

func newRootCommand(version, commit string) *cobra.Command {
	var (
		logFile  string
		logLevel string
	)

	rootCmd := &cobra.Command{
		Use:   "keypad",
		Short: "Four-function calculator for the terminal",
		Long: `keypad draws a four-function calculator in the terminal.

Keys:
  0-9 .        enter a number
  + - * /      choose an operation
  Enter or =   show the result
  Esc          clear
  Ctrl+C       quit

Buttons can also be clicked with the mouse.`,
		Version:      fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(logFile, logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return runShell(cmd.Context(), logger)
		},
	}

	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write debug logs to this file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "debug", "log level for --log-file")

	rootCmd.AddCommand(newReplayCommand())

	return rootCmd
}

// newLogger returns a file logger, or a no-op logger when path is empty.
// The terminal owns stdout and stderr while the shell runs.
func newLogger(path, level string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

func runShell(ctx context.Context, logger *zap.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	screen.EnableMouse()
	screen.HideCursor()

	logger.Info("shell started")
	err = terminal.New(screen, logger).Run(ctx)
	logger.Info("shell stopped", zap.Error(err))

	if ctx.Err() != nil {
		return nil
	}
	return err
}
