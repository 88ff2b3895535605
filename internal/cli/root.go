// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// root.go - Cobra command tree.
//
// Command: smartcli [flags]
//
// Subcommands:
//   history [n]      Print recent shell history (--clear wipes it)
//   pin set          Set the unlock PIN
//   totp enroll      Switch unlock to one-time codes
//   version          Print version information
//
// Flags:
//   --config PATH    Config file (default ~/.smartcli/config.toml)
//   --log-level LVL  trace, debug, info, warn, error, disabled
//   --log-stderr     Also log to stderr
//   --no-auth        Skip the unlock challenge

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jeranaias/smartcli/internal/config"
	"github.com/jeranaias/smartcli/internal/logging"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	logLevel   string
	logStderr  bool
	noAuth     bool
}

// IO bundles the process streams so commands can be exercised in tests.
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Interactive selects liner input and the status bar.
	Interactive bool
}

// StdIO returns the process streams.
func StdIO() IO {
	return IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr, Interactive: IsTTY()}
}

// Execute runs the command tree against the process streams.
func Execute() error {
	return NewRootCommand(StdIO()).Execute()
}

// NewRootCommand builds the smartcli command tree.
func NewRootCommand(streams IO) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "smartcli",
		Short:         "SmartCLI is a text launcher shell for phone tasks",
		Long:          "SmartCLI maps typed commands such as 'call mom' or 'sms dad hi' to phone actions.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.Context(), flags, streams)
		},
	}
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default ~/.smartcli/config.toml)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: trace, debug, info, warn, error, disabled")
	pf.BoolVar(&flags.logStderr, "log-stderr", false, "also write logs to stderr")
	pf.BoolVar(&flags.noAuth, "no-auth", false, "skip the unlock challenge")

	root.AddCommand(
		newHistoryCommand(flags, streams),
		newPINCommand(flags, streams),
		newTOTPCommand(flags, streams),
		newVersionCommand(streams),
	)
	return root
}

func newVersionCommand(streams IO) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(streams.Out, "smartcli version %s\n", Version)
			fmt.Fprintf(streams.Out, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(streams.Out, "  Build date: %s\n", BuildDate)
		},
	}
}

// =============================================================================
// SHARED SETUP
// =============================================================================

// loadConfig resolves and loads the config file named by the flags.
func loadConfig(flags *rootFlags) (*config.Config, string, error) {
	path, err := config.ResolvePath(flags.configPath)
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// newLogger builds the process logger. The flag level wins over config.
func newLogger(cfg *config.Config, flags *rootFlags) (zerolog.Logger, io.Closer, error) {
	level := cfg.Log.Level
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	file, err := cfg.LogFilePath()
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	return logging.New(logging.Options{Level: level, File: file, Stderr: flags.logStderr})
}

// setup loads config, the logger and the app. The returned cleanup
// releases all of them.
func setup(flags *rootFlags) (*App, func(), error) {
	cfg, path, err := loadConfig(flags)
	if err != nil {
		return nil, nil, err
	}
	log, closer, err := newLogger(cfg, flags)
	if err != nil {
		return nil, nil, err
	}
	app, err := NewApp(cfg, path, log)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	cleanup := func() {
		if err := app.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close history")
		}
		closer.Close()
	}
	return app, cleanup, nil
}
