// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type scriptedPrompter struct {
	answers []string
	prompts []string
}

func (p *scriptedPrompter) PasswordPrompt(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if len(p.answers) == 0 {
		return "", io.EOF
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func hashFor(t *testing.T, pin string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// =============================================================================
// METHOD PARSING
// =============================================================================

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    Method
		wantErr bool
	}{
		{"pin", MethodPIN, false},
		{"TOTP", MethodTOTP, false},
		{" none ", MethodNone, false},
		{"", MethodPIN, false},
		{"face", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMethod(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{Method: "totp"})
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = New(Options{Method: "pin", PINHash: "not-a-bcrypt-hash"})
	assert.Error(t, err)

	_, err = New(Options{Method: "retina"})
	assert.Error(t, err)
}

// =============================================================================
// PIN VERIFICATION
// =============================================================================

func TestVerify_FactoryPIN(t *testing.T) {
	a, err := New(Options{})
	require.NoError(t, err)

	assert.Equal(t, MethodPIN, a.Method())
	assert.NoError(t, a.Verify("1234"))
	assert.ErrorIs(t, a.Verify("0000"), ErrInvalidPIN)
}

func TestVerify_ConfiguredPIN(t *testing.T) {
	a, err := New(Options{PINHash: hashFor(t, "9876")})
	require.NoError(t, err)

	assert.NoError(t, a.Verify(" 9876 "))
	assert.ErrorIs(t, a.Verify("1234"), ErrInvalidPIN)
}

func TestVerify_LockoutAfterBudget(t *testing.T) {
	c := &clock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	a, err := New(Options{MaxAttempts: 3, LockoutDuration: 15 * time.Minute, Now: c.now})
	require.NoError(t, err)

	assert.ErrorIs(t, a.Verify("1"), ErrInvalidPIN)
	assert.ErrorIs(t, a.Verify("2"), ErrInvalidPIN)
	assert.Equal(t, 1, a.Lockout().AttemptsLeft())

	err = a.Verify("3")
	require.ErrorIs(t, err, ErrLockedOut)
	var le *LockoutError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 15*time.Minute, le.Remaining)

	// Correct PIN is refused while locked.
	assert.ErrorIs(t, a.Verify("1234"), ErrLockedOut)

	c.advance(16 * time.Minute)
	assert.NoError(t, a.Verify("1234"))
	assert.Equal(t, 3, a.Lockout().AttemptsLeft())
}

func TestVerify_SuccessResetsCount(t *testing.T) {
	a, err := New(Options{MaxAttempts: 2})
	require.NoError(t, err)

	assert.ErrorIs(t, a.Verify("0"), ErrInvalidPIN)
	assert.NoError(t, a.Verify("1234"))
	assert.ErrorIs(t, a.Verify("0"), ErrInvalidPIN, "budget restarts after success")
}

func TestVerify_None(t *testing.T) {
	a, err := New(Options{Method: "none"})
	require.NoError(t, err)
	assert.NoError(t, a.Verify("anything"))
	assert.NoError(t, a.Authenticate(context.Background(), &scriptedPrompter{}, io.Discard))
}

// =============================================================================
// TOTP
// =============================================================================

func TestVerify_TOTP(t *testing.T) {
	key, err := EnrollTOTP("tester")
	require.NoError(t, err)
	assert.Contains(t, key.URL(), "SmartCLI")

	c := &clock{t: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	a, err := New(Options{Method: "totp", TOTPSecret: key.Secret(), Now: c.now})
	require.NoError(t, err)

	code, err := totp.GenerateCode(key.Secret(), c.t)
	require.NoError(t, err)

	assert.NoError(t, a.Verify(code))
	assert.ErrorIs(t, a.Verify("000000x"), ErrInvalidCode)
}

// =============================================================================
// INTERACTIVE FLOW
// =============================================================================

func TestAuthenticate_RetriesThenSucceeds(t *testing.T) {
	a, err := New(Options{})
	require.NoError(t, err)

	p := &scriptedPrompter{answers: []string{"1111", "1234"}}
	var out bytes.Buffer
	require.NoError(t, a.Authenticate(context.Background(), p, &out))

	assert.Len(t, p.prompts, 2)
	assert.Equal(t, "🔐 Enter PIN: ", p.prompts[0])
	assert.Contains(t, out.String(), "❌ Wrong PIN (2 attempts left)")
	assert.Contains(t, out.String(), "🔓 Unlocked")
}

func TestAuthenticate_ExhaustsBudget(t *testing.T) {
	a, err := New(Options{MaxAttempts: 3})
	require.NoError(t, err)

	p := &scriptedPrompter{answers: []string{"1", "2", "3", "1234"}}
	err = a.Authenticate(context.Background(), p, io.Discard)
	assert.ErrorIs(t, err, ErrLockedOut)
	assert.Len(t, p.prompts, 3, "no prompt after the budget is spent")

	err = a.Authenticate(context.Background(), p, io.Discard)
	assert.ErrorIs(t, err, ErrLockedOut)
	assert.Len(t, p.prompts, 3)
}

func TestAuthenticate_PrompterError(t *testing.T) {
	a, err := New(Options{})
	require.NoError(t, err)

	err = a.Authenticate(context.Background(), &scriptedPrompter{}, io.Discard)
	assert.ErrorIs(t, err, io.EOF)
}

// =============================================================================
// LOCKOUT PERSISTENCE AND ENROLMENT
// =============================================================================

func TestLockout_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lockout.json")
	c := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	l := NewLockout(WithMaxAttempts(2), WithPersistPath(path), WithClock(c.now))
	assert.False(t, l.RecordFailure())
	assert.True(t, l.RecordFailure())

	reloaded := NewLockout(WithMaxAttempts(2), WithPersistPath(path), WithClock(c.now))
	assert.Equal(t, DefaultLockoutDuration, reloaded.Remaining())
	assert.Equal(t, 1, reloaded.Record().LockoutCount)
}

func TestHashPIN(t *testing.T) {
	for _, bad := range []string{"", "123", "123456789", "12a4"} {
		_, err := HashPIN(bad)
		assert.ErrorIs(t, err, ErrWeakPIN, bad)
	}

	hash, err := HashPIN("4321")
	require.NoError(t, err)
	a, err := New(Options{PINHash: hash})
	require.NoError(t, err)
	assert.NoError(t, a.Verify("4321"))
}
