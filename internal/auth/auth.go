// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidPIN is returned when the PIN does not match.
	ErrInvalidPIN = errors.New("wrong PIN")

	// ErrInvalidCode is returned when a TOTP code does not validate.
	ErrInvalidCode = errors.New("wrong code")

	// ErrLockedOut is returned while the lockout window is active.
	ErrLockedOut = errors.New("too many failed attempts")

	// ErrWeakPIN is returned by HashPIN for PINs that are not 4-8 digits.
	ErrWeakPIN = errors.New("PIN must be 4 to 8 digits")

	// ErrMissingSecret is returned when TOTP is selected without a secret.
	ErrMissingSecret = errors.New("totp method needs auth.totp_secret")
)

// LockoutError reports an active lockout and its remaining time.
type LockoutError struct {
	Remaining time.Duration
}

func (e *LockoutError) Error() string {
	return fmt.Sprintf("%s, try again in %s", ErrLockedOut, e.Remaining.Round(time.Second))
}

func (e *LockoutError) Unwrap() error { return ErrLockedOut }

// =============================================================================
// METHODS
// =============================================================================

// Method selects how the launcher is unlocked.
type Method string

const (
	MethodPIN  Method = "pin"
	MethodTOTP Method = "totp"
	MethodNone Method = "none"
)

// DefaultPIN is accepted when no PIN hash has been configured.
const DefaultPIN = "1234"

// ParseMethod validates a configured method name.
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.ToLower(strings.TrimSpace(s))); m {
	case MethodPIN, MethodTOTP, MethodNone:
		return m, nil
	case "":
		return MethodPIN, nil
	default:
		return "", fmt.Errorf("unknown auth method %q (want pin, totp or none)", s)
	}
}

// =============================================================================
// AUTHENTICATOR
// =============================================================================

// Prompter reads a secret without echoing it.
type Prompter interface {
	PasswordPrompt(prompt string) (string, error)
}

// Options configures an Authenticator.
type Options struct {
	Method          string
	PINHash         string
	TOTPSecret      string
	MaxAttempts     int
	LockoutDuration time.Duration
	PersistPath     string
	Now             func() time.Time
	Logger          zerolog.Logger
}

// Authenticator verifies PINs or TOTP codes under a lockout policy.
type Authenticator struct {
	method     Method
	pinHash    []byte
	totpSecret string
	lockout    *Lockout
	now        func() time.Time
	log        zerolog.Logger
}

// New builds an Authenticator from opts.
func New(opts Options) (*Authenticator, error) {
	method, err := ParseMethod(opts.Method)
	if err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	a := &Authenticator{
		method:     method,
		totpSecret: strings.TrimSpace(opts.TOTPSecret),
		now:        opts.Now,
		log:        opts.Logger.With().Str("component", "auth").Logger(),
		lockout: NewLockout(
			WithMaxAttempts(opts.MaxAttempts),
			WithLockoutDuration(opts.LockoutDuration),
			WithPersistPath(opts.PersistPath),
			WithClock(opts.Now),
		),
	}

	switch method {
	case MethodPIN:
		if opts.PINHash == "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPIN), bcrypt.MinCost)
			if err != nil {
				return nil, fmt.Errorf("failed to hash factory PIN: %w", err)
			}
			a.pinHash = hash
			a.log.Warn().Msg("no PIN configured, factory PIN in use")
		} else {
			if _, err := bcrypt.Cost([]byte(opts.PINHash)); err != nil {
				return nil, fmt.Errorf("invalid auth.pin_hash: %w", err)
			}
			a.pinHash = []byte(opts.PINHash)
		}
	case MethodTOTP:
		if a.totpSecret == "" {
			return nil, ErrMissingSecret
		}
	}
	return a, nil
}

// Method returns the configured unlock method.
func (a *Authenticator) Method() Method { return a.method }

// Lockout exposes the attempt tracker.
func (a *Authenticator) Lockout() *Lockout { return a.lockout }

// Verify checks one secret against the configured method.
func (a *Authenticator) Verify(secret string) error {
	if a.method == MethodNone {
		return nil
	}
	if rem := a.lockout.Remaining(); rem > 0 {
		return &LockoutError{Remaining: rem}
	}

	err := a.check(strings.TrimSpace(secret))
	if err == nil {
		a.lockout.RecordSuccess()
		a.log.Info().Str("method", string(a.method)).Msg("unlocked")
		return nil
	}

	if a.lockout.RecordFailure() {
		rem := a.lockout.Remaining()
		a.log.Warn().Dur("lockout", rem).Msg("attempt budget exhausted")
		return &LockoutError{Remaining: rem}
	}
	a.log.Info().Int("attempts_left", a.lockout.AttemptsLeft()).Msg("unlock attempt failed")
	return err
}

func (a *Authenticator) check(secret string) error {
	switch a.method {
	case MethodTOTP:
		ok, err := totp.ValidateCustom(secret, a.totpSecret, a.now(), totp.ValidateOpts{
			Period:    30,
			Skew:      1,
			Digits:    otp.DigitsSix,
			Algorithm: otp.AlgorithmSHA1,
		})
		if err != nil || !ok {
			return ErrInvalidCode
		}
		return nil
	default:
		if bcrypt.CompareHashAndPassword(a.pinHash, []byte(secret)) != nil {
			return ErrInvalidPIN
		}
		return nil
	}
}

// Authenticate prompts until a secret verifies, the attempt budget runs
// out (a *LockoutError), or the prompter fails (its error is returned).
func (a *Authenticator) Authenticate(ctx context.Context, p Prompter, w io.Writer) error {
	if a.method == MethodNone {
		return nil
	}

	prompt := "🔐 Enter PIN: "
	if a.method == MethodTOTP {
		prompt = "🔐 Enter code: "
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if rem := a.lockout.Remaining(); rem > 0 {
			return &LockoutError{Remaining: rem}
		}

		secret, err := p.PasswordPrompt(prompt)
		if err != nil {
			return err
		}

		err = a.Verify(secret)
		switch {
		case err == nil:
			fmt.Fprintln(w, "🔓 Unlocked")
			return nil
		case errors.Is(err, ErrLockedOut):
			return err
		default:
			fmt.Fprintf(w, "❌ %s (%d attempts left)\n", capitalize(err.Error()), a.lockout.AttemptsLeft())
		}
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// =============================================================================
// ENROLMENT
// =============================================================================

// HashPIN validates pin and returns its bcrypt hash.
func HashPIN(pin string) (string, error) {
	if len(pin) < 4 || len(pin) > 8 {
		return "", ErrWeakPIN
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return "", ErrWeakPIN
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash PIN: %w", err)
	}
	return string(hash), nil
}

// EnrollTOTP creates a new TOTP key for account.
func EnrollTOTP(account string) (*otp.Key, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "SmartCLI",
		AccountName: account,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate TOTP key: %w", err)
	}
	return key, nil
}
