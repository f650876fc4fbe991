// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types and exit codes for pony commands.
//
// Handlers return errors; Main decides how to print them and which exit
// code to use.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jeranaias/pony-tui/internal/api"
	"github.com/jeranaias/pony-tui/internal/model"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates configuration file or settings error
	ExitConfigError = 3
	// ExitAuthError indicates a missing, rejected or expired credential
	ExitAuthError = 4
	// ExitNetworkError indicates the server could not be reached
	ExitNetworkError = 5
	// ExitNotFoundError indicates a resource was not found
	ExitNotFoundError = 7
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError is a failed command with context.
type CommandError struct {
	Command string // e.g. "messages"
	Action  string // e.g. "fetch"
	Message string // shown instead of api.UserMessage(Err) when set
	Err     error
}

func (e *CommandError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = api.UserMessage(e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Command, e.Action, msg)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// UsageError is returned for missing or malformed arguments.
type UsageError struct {
	Command string
	Reason  string
	Example string
}

func (e *UsageError) Error() string {
	msg := e.Reason
	if e.Command != "" {
		msg = e.Command + ": " + msg
	}
	if e.Example != "" {
		msg += "\nExample: " + e.Example
	}
	return msg
}

// ConfigError wraps a configuration failure.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return "config: " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// wrap attaches command context to err.
func wrap(command, action string, err error) error {
	if err == nil {
		return nil
	}
	return &CommandError{Command: command, Action: action, Err: err}
}

// usage reports a usage error for command.
func usage(command, reason, example string) error {
	return &UsageError{Command: command, Reason: reason, Example: example}
}

// ExitCodeFor maps err to a process exit code.
func ExitCodeFor(err error) int {
	var usageErr *UsageError
	var configErr *ConfigError
	var validationErr *model.ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &usageErr), errors.As(err, &validationErr):
		return ExitUsageError
	case errors.As(err, &configErr):
		return ExitConfigError
	case errors.Is(err, api.ErrUnauthorized), errors.Is(err, api.ErrNoCredential):
		return ExitAuthError
	case errors.Is(err, api.ErrNotFound):
		return ExitNotFoundError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	case errors.Is(err, api.ErrTransport):
		return ExitNetworkError
	default:
		return ExitGeneralError
	}
}

// PrintError writes err to w in the CLI error style.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+err.Error())
	if errors.Is(err, api.ErrNoCredential) || errors.Is(err, api.ErrUnauthorized) {
		fmt.Fprintln(w, DimStyle.Render("Run 'pony login' and export the printed PONY_TOKEN."))
	}
}
