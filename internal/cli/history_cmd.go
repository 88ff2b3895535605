// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_cmd.go - Inspect the shell's command history from outside it.
//
// Command: history [n]
//
// Examples:
//   smartcli history           Last 10 commands
//   smartcli history 50        Last 50 commands
//   smartcli history --clear   Delete all stored commands
//   smartcli history 100 --format markdown --output history.md

package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jeranaias/smartcli/internal/commands"
	"github.com/jeranaias/smartcli/internal/export"
)

// ErrHistoryDisabled is returned when history.enabled is false.
var ErrHistoryDisabled = errors.New("history is disabled in the config")

func newHistoryCommand(flags *rootFlags, streams IO) *cobra.Command {
	var (
		clearAll bool
		format   string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "history [n]",
		Short: "Print recent shell commands",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var exp export.Exporter
			if format != "" {
				var err error
				if exp, err = export.ForFormat(format, nil); err != nil {
					return err
				}
			} else if output != "" {
				return errors.New("--output requires --format")
			}

			limit := commands.DefaultHistoryLimit
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("invalid count %q", args[0])
				}
				limit = n
			}

			app, cleanup, err := setup(flags)
			if err != nil {
				return err
			}
			defer cleanup()
			if app.Store == nil {
				return ErrHistoryDisabled
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if clearAll {
				n, err := app.Store.ClearHistory(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(streams.Out, "🗑️  Cleared %d commands\n", n)
				return nil
			}

			entries, total, err := app.Store.Recent(ctx, limit)
			if err != nil {
				return err
			}

			switch {
			case exp != nil && output != "":
				path, err := export.WriteFile(output, exp, entries, total)
				if err != nil {
					return err
				}
				fmt.Fprintf(streams.Out, "📄 Exported %d commands to %s\n", len(entries), path)
			case exp != nil:
				data, err := exp.Export(entries, total)
				if err != nil {
					return err
				}
				fmt.Fprintln(streams.Out, string(data))
			case total == 0:
				fmt.Fprintln(streams.Out, "📜 No commands in history")
			default:
				fmt.Fprintln(streams.Out, commands.FormatHistory(entries, total))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearAll, "clear", false, "delete all stored commands")
	cmd.Flags().StringVar(&format, "format", "", "export format: json or markdown")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the export to a file")
	return cmd
}
