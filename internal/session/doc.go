// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session runs the launcher's read-dispatch-print loop.
//
// A Session owns the only mutable shell state: the current mode and the
// lock state. It reads a line, expands user aliases, hands the line to
// the router, records it in history, prints the output and then applies
// the control signal the router returned.
//
// # States
//
//   - Running: lines are dispatched
//   - Locked: the next input is an authentication challenge
//   - Terminated: end of input, an interrupt while locked, or any interrupt
//     when no unlock challenge is configured
//
// # Idle lock
//
// When an idle timeout is configured, a line that arrives after the
// timeout is discarded and the session locks instead.
//
// # Usage
//
//	s := session.New(session.Options{
//		Dispatcher: d,
//		Reader:     reader,
//		Prompter:   reader,
//		Auth:       authenticator,
//		Out:        os.Stdout,
//	})
//	err := s.Run(ctx)
package session
