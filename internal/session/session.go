// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jeranaias/smartcli/internal/auth"
	"github.com/jeranaias/smartcli/internal/commands"
	"github.com/jeranaias/smartcli/internal/modes"
	"github.com/jeranaias/smartcli/internal/router"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// LineReader reads one line of user input without the trailing newline.
// It returns io.EOF at end of input and ErrInterrupt on Ctrl+C.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// Authenticator runs an unlock challenge.
type Authenticator interface {
	Authenticate(ctx context.Context, p auth.Prompter, w io.Writer) error
}

// Recorder stores dispatched lines.
type Recorder interface {
	Record(ctx context.Context, sessionID, mode, command string) (int64, error)
}

// AliasResolver expands user-defined aliases.
type AliasResolver interface {
	LookupAlias(ctx context.Context, name string) (string, error)
}

// clearSequence homes the cursor and erases the screen.
const clearSequence = "\033[H\033[2J"

// Options configures a Session.
type Options struct {
	Dispatcher *router.Dispatcher
	Reader     LineReader
	Prompter   auth.Prompter

	// Auth is nil when authentication is disabled; unlocking then succeeds
	// immediately.
	Auth Authenticator

	History Recorder
	Aliases AliasResolver
	Out     io.Writer

	// Prompt renders the input prompt. Defaults to "$ ".
	Prompt func(Status) string

	// StatusLine, when set, is printed before every prompt.
	StatusLine func(Status) string

	// Clear erases the terminal. Defaults to writing an ANSI sequence to Out.
	Clear func(io.Writer)

	IdleTimeout time.Duration
	LockOnStart bool
	SessionID   string
	Now         func() time.Time
	Logger      zerolog.Logger
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the single owner of the current mode and lock state.
type Session struct {
	mu    sync.RWMutex
	state State
	mode  modes.Mode

	id   string
	opts Options
	idle *IdleTimer
	log  zerolog.Logger
}

// New creates a session in the running state at home, or locked when
// LockOnStart is set.
func New(opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Prompt == nil {
		opts.Prompt = func(Status) string { return "$ " }
	}
	if opts.Clear == nil {
		opts.Clear = func(w io.Writer) { fmt.Fprint(w, clearSequence) }
	}
	id := opts.SessionID
	if id == "" {
		id = uuid.NewString()
	}

	s := &Session{
		state: StateRunning,
		mode:  modes.Home,
		id:    id,
		opts:  opts,
		idle:  NewIdleTimer(opts.IdleTimeout, opts.Now),
		log:   opts.Logger.With().Str("component", "session").Str("session_id", id).Logger(),
	}
	if opts.LockOnStart {
		s.state = StateLocked
	}
	return s
}

// ID returns the session identifier used for history rows.
func (s *Session) ID() string { return s.id }

// Idle returns the idle timer.
func (s *Session) Idle() *IdleTimer { return s.idle }

// State returns the current lock state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Mode returns the current mode.
func (s *Session) Mode() modes.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Status returns a snapshot for the status bar.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		State:     s.state,
		Mode:      s.mode,
		Now:       s.opts.Now(),
		SessionID: s.id,
		IdleLeft:  s.idle.Remaining(),
	}
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	prev := s.state
	s.state = st
	s.mu.Unlock()
	if prev != st {
		s.log.Info().Stringer("from", prev).Stringer("to", st).Msg("state changed")
	}
}

func (s *Session) setMode(m modes.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
}

// =============================================================================
// LOOP
// =============================================================================

// Run drives the session until the input source ends or is interrupted
// while locked. End of input is a normal shutdown and returns nil; a
// reader failure other than EOF or interrupt is returned.
func (s *Session) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			s.setState(StateTerminated)
			return nil
		}

		switch s.State() {
		case StateTerminated:
			return nil
		case StateLocked:
			if err := s.unlock(ctx); err != nil {
				s.setState(StateTerminated)
				return err
			}
		case StateRunning:
			if err := s.readAndStep(ctx); err != nil {
				s.setState(StateTerminated)
				return err
			}
		}
	}
}

// readAndStep handles one prompt while running. It returns a non-nil
// error only for reader failures that end the session abnormally.
func (s *Session) readAndStep(ctx context.Context) error {
	status := s.Status()
	if s.opts.StatusLine != nil {
		fmt.Fprintln(s.opts.Out, s.opts.StatusLine(status))
	}

	line, err := s.opts.Reader.ReadLine(s.opts.Prompt(status))
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		s.log.Info().Msg("end of input")
		s.setState(StateTerminated)
		return nil
	case errors.Is(err, ErrInterrupt):
		// Without a challenge the lock screen would reopen at once, so an
		// interrupt is the only way out.
		if s.opts.Auth == nil {
			s.log.Info().Msg("interrupt, no unlock challenge, terminating")
			s.setState(StateTerminated)
			return nil
		}
		s.log.Info().Msg("interrupt, locking")
		s.lock()
		return nil
	default:
		return fmt.Errorf("read input: %w", err)
	}

	if s.idle.Expired() {
		s.log.Info().Dur("timeout", s.idle.Timeout()).Msg("idle timeout, input discarded")
		fmt.Fprintln(s.opts.Out, "⏳ Session idle, locking")
		s.lock()
		return nil
	}
	s.idle.Touch()

	s.Step(ctx, line)
	return nil
}

// unlock runs the challenge while locked. Lockouts and bad secrets keep
// the session locked; EOF or an interrupt at the prompt terminates it.
func (s *Session) unlock(ctx context.Context) error {
	fmt.Fprintln(s.opts.Out, "🔒 SmartCLI locked")

	if s.opts.Auth == nil {
		s.unlocked()
		return nil
	}

	err := s.opts.Auth.Authenticate(ctx, s.opts.Prompter, s.opts.Out)
	var lockout *auth.LockoutError
	switch {
	case err == nil:
		s.unlocked()
		return nil
	case errors.As(err, &lockout):
		fmt.Fprintf(s.opts.Out, "⛔ Too many attempts. Try again in %s\n", FormatDuration(lockout.Remaining))
		return s.waitLockedOut()
	case errors.Is(err, io.EOF), errors.Is(err, ErrInterrupt), errors.Is(err, context.Canceled):
		s.log.Info().Err(err).Msg("unlock abandoned")
		s.setState(StateTerminated)
		return nil
	default:
		return fmt.Errorf("authenticate: %w", err)
	}
}

// waitLockedOut consumes one line so a locked-out terminal does not spin.
func (s *Session) waitLockedOut() error {
	_, err := s.opts.Reader.ReadLine("")
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF), errors.Is(err, ErrInterrupt):
		s.setState(StateTerminated)
		return nil
	default:
		return fmt.Errorf("read input: %w", err)
	}
}

func (s *Session) unlocked() {
	s.setMode(modes.Home)
	s.idle.Touch()
	s.setState(StateRunning)
}

func (s *Session) lock() {
	s.setMode(modes.Home)
	s.setState(StateLocked)
}

// =============================================================================
// STEP
// =============================================================================

// Step dispatches one line in the current mode and applies the result:
// it prints the text, records the line and handles the control signal.
func (s *Session) Step(ctx context.Context, line string) router.Result {
	line = strings.TrimSpace(line)
	mode := s.Mode()
	expanded := s.expand(ctx, mode, line)

	res := s.opts.Dispatcher.DispatchLine(ctx, mode, expanded)
	if res.Step != router.StepIgnored {
		s.record(ctx, mode, line)
	}
	if res.Text != "" {
		fmt.Fprintln(s.opts.Out, res.Text)
	}

	s.setMode(res.Next)
	switch res.Signal {
	case commands.SignalExit:
		if mode == modes.Home {
			s.lock()
		} else {
			s.setMode(modes.Home)
		}
	case commands.SignalLock, commands.SignalAuth:
		s.lock()
	case commands.SignalClear:
		s.opts.Clear(s.opts.Out)
	case commands.SignalExitApp:
		s.log.Info().Msg("exit requested, no outer launcher to return to")
	}
	return res
}

// expand replaces the first word of line with its alias definition. Words
// the dispatcher or the current mode already understand are never expanded.
func (s *Session) expand(ctx context.Context, mode modes.Mode, line string) string {
	if s.opts.Aliases == nil {
		return line
	}
	word, rest := commands.FirstWord(line)
	word = strings.ToLower(word)
	if word == "" || s.opts.Dispatcher.IsBuiltin(word) {
		return line
	}
	for _, v := range s.opts.Dispatcher.Modes().Vocabulary(mode) {
		if v == word {
			return line
		}
	}

	def, err := s.opts.Aliases.LookupAlias(ctx, word)
	if err != nil || def == "" {
		return line
	}
	s.log.Debug().Str("alias", word).Msg("alias expanded")
	return def + rest
}

func (s *Session) record(ctx context.Context, mode modes.Mode, line string) {
	if s.opts.History == nil {
		return
	}
	if _, err := s.opts.History.Record(ctx, s.id, string(mode), line); err != nil {
		s.log.Warn().Err(err).Msg("failed to record history")
	}
}
