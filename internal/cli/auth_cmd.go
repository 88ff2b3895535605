// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - Manage how the shell is unlocked.
//
// Subcommands:
//   pin set        Prompt for a new PIN twice and store its bcrypt hash
//   totp enroll    Generate a one-time code secret, verify one code, store it
//
// Both rewrite the config file atomically with 0600 permissions.

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jeranaias/smartcli/internal/auth"
	"github.com/jeranaias/smartcli/internal/config"
)

// ErrPINMismatch is returned when the confirmation differs.
var ErrPINMismatch = errors.New("PINs do not match")

func newPINCommand(flags *rootFlags, streams IO) *cobra.Command {
	pin := &cobra.Command{
		Use:   "pin",
		Short: "Manage the unlock PIN",
	}
	pin.AddCommand(&cobra.Command{
		Use:   "set",
		Short: "Set a new unlock PIN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(flags)
			if err != nil {
				return err
			}

			read := secretReader(streams)
			first, err := read("New PIN: ")
			if err != nil {
				return err
			}
			second, err := read("Confirm PIN: ")
			if err != nil {
				return err
			}
			if first != second {
				return ErrPINMismatch
			}

			hash, err := auth.HashPIN(first)
			if err != nil {
				return err
			}
			cfg.Auth.Method = string(auth.MethodPIN)
			cfg.Auth.PINHash = hash
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			fmt.Fprintln(streams.Out, "🔐 PIN updated")
			return nil
		},
	})
	return pin
}

func newTOTPCommand(flags *rootFlags, streams IO) *cobra.Command {
	var account string

	totpCmd := &cobra.Command{
		Use:   "totp",
		Short: "Manage one-time code unlock",
	}
	enroll := &cobra.Command{
		Use:   "enroll",
		Short: "Enroll an authenticator app and switch unlock to one-time codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig(flags)
			if err != nil {
				return err
			}

			key, err := auth.EnrollTOTP(account)
			if err != nil {
				return err
			}
			fmt.Fprintf(streams.Out, "Secret: %s\n", key.Secret())
			fmt.Fprintf(streams.Out, "URL:    %s\n", key.URL())

			verifier, err := auth.New(auth.Options{
				Method:     string(auth.MethodTOTP),
				TOTPSecret: key.Secret(),
			})
			if err != nil {
				return err
			}
			code, err := secretReader(streams)("Enter a code from the app: ")
			if err != nil {
				return err
			}
			if err := verifier.Verify(code); err != nil {
				return fmt.Errorf("enrollment not saved: %w", err)
			}

			cfg.Auth.Method = string(auth.MethodTOTP)
			cfg.Auth.TOTPSecret = key.Secret()
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			fmt.Fprintln(streams.Out, "🔐 One-time codes enabled")
			return nil
		},
	}
	enroll.Flags().StringVar(&account, "account", "smartcli", "account name shown in the authenticator app")
	totpCmd.AddCommand(enroll)
	return totpCmd
}

// secretReader returns a function that prompts on stderr and reads one
// secret. Terminals read without echo; pipes read plain lines.
func secretReader(streams IO) func(prompt string) (string, error) {
	if streams.Interactive {
		return func(prompt string) (string, error) {
			fmt.Fprint(streams.Err, prompt)
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(streams.Err)
			if err != nil {
				return "", fmt.Errorf("failed to read secret: %w", err)
			}
			return strings.TrimSpace(string(b)), nil
		}
	}

	scan := NewScanReader(streams.In, streams.Err, false)
	return func(prompt string) (string, error) {
		s, err := scan.PasswordPrompt(prompt)
		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}
		return strings.TrimSpace(s), nil
	}
}
