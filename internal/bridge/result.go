// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bridge

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimited is reported when intents arrive faster than allowed.
	ErrRateLimited = errors.New("too many device requests, try again shortly")

	// ErrTimeout is reported when a device command exceeds its deadline.
	ErrTimeout = errors.New("device did not respond in time")

	// ErrNotAllowed is reported for shell commands outside the allowlist.
	ErrNotAllowed = errors.New("command not allowed")
)

// Result is the outcome of a device operation.
type Result struct {
	OK     bool
	Reason string
	Err    error
}

// Success returns a successful Result.
func Success() Result {
	return Result{OK: true}
}

// Failure wraps err into a failed Result.
func Failure(err error) Result {
	return Result{OK: false, Reason: err.Error(), Err: err}
}

// Failuref builds a failed Result from a format string.
func Failuref(format string, args ...any) Result {
	return Failure(fmt.Errorf(format, args...))
}
