// SPDX-FileCopyrightText: © 2025 IDEA-FAST Project
//
// SPDX-License-Identifier: Apache-2.0

// Package dmperr defines the error taxonomy shared by the DMP SDK:
// configuration and validation failures, authentication preconditions,
// ambiguous user input, corrupted local state and rejected remote calls.
package dmperr

import (
	"fmt"
	"strings"
)

// ConfigurationError is a fatal, user-fixable problem: a missing data
// folder, an invalid state identifier, a relative path where an
// absolute one is required.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }

func Configurationf(format string, a ...any) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, a...)}
}

// AuthenticationError means the current operation needs a logged-in
// user (or a valid session) and there is none. Recoverable by re-login.
type AuthenticationError struct {
	Msg string
}

func (e *AuthenticationError) Error() string { return e.Msg }

// ErrNotLoggedIn is the common authentication precondition failure.
var ErrNotLoggedIn = &AuthenticationError{Msg: "you are not logged in"}

// InvalidStateError reports an inconsistent login-state mutation, such
// as supplying a credential without a username.
type InvalidStateError struct {
	Msg string
}

func (e *InvalidStateError) Error() string { return e.Msg }

// StateCorruptionError wraps a failure to decode persisted JSON state.
// It is fatal and must not be silently repaired by discarding data.
type StateCorruptionError struct {
	Path string
	Err  error
}

func (e *StateCorruptionError) Error() string {
	return fmt.Sprintf("corrupted state file %q: %v", e.Path, e.Err)
}

func (e *StateCorruptionError) Unwrap() error { return e.Err }

// NoMatchError reports a prefix that matched nothing.
type NoMatchError struct {
	Kind   string // what was being matched: "study", "file"
	Prefix string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no %s matching prefix %q", e.Kind, e.Prefix)
}

// AmbiguousMatchError reports a prefix that matched more than one
// candidate. Matches always lists every candidate so the caller can
// present them for disambiguation.
type AmbiguousMatchError struct {
	Kind    string
	Prefix  string
	Matches []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("ambiguous %s prefix %q, matches: %s",
		e.Kind, e.Prefix, strings.Join(e.Matches, ", "))
}

// RejectedError preserves the status code of a remote call that came
// back non-200, plus the server's error message when the response
// carried one.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("query was rejected by server (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("query was rejected by server (status %d)", e.Status)
}

// MissingDataError means a remote response decoded fine but lacked a
// required section.
type MissingDataError struct {
	What string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("no %s in server response", e.What)
}

// LoginFailedError means the server answered the login query without
// returning a user.
type LoginFailedError struct{}

func (e *LoginFailedError) Error() string { return "login failed" }

// MissingCredentialError means the login succeeded but no session
// credential was issued.
type MissingCredentialError struct{}

func (e *MissingCredentialError) Error() string {
	return "login request did not return a session credential"
}
