// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/jeranaias/pony-tui/internal/model"
)

// LoginFailedMessage is shown for any login failure other than a 401.
const LoginFailedMessage = "error logging in"

// Error variables for the failure classes of the client.
var (
	// ErrTransport indicates the request never produced a response.
	ErrTransport = errors.New("transport failure")

	// ErrCircuitOpen indicates the breaker rejected the request without sending it.
	ErrCircuitOpen = errors.New("circuit open")

	// ErrUnauthorized matches every *AuthError.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound matches a *StatusError with status 404.
	ErrNotFound = errors.New("not found")

	// ErrMalformed indicates a 2xx body that does not match the endpoint's type.
	ErrMalformed = errors.New("malformed response")

	// ErrNoCredential indicates an authenticated endpoint was called without a token.
	ErrNoCredential = errors.New("not logged in")
)

// AuthError is a 401 response. Description is the server's
// error_description, verbatim.
type AuthError struct {
	Status      int
	Code        string
	Description string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("authentication failed [%s]: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("authentication failed: %s", e.Description)
}

// Is reports whether target is ErrUnauthorized.
func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthorized
}

// StatusError is any other non-2xx response.
type StatusError struct {
	Status int
	Type   string // detail.type, e.g. "entity_not_found" or "duplicate_value"
	Entity string
	Field  string
	Value  string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("request failed (HTTP %d): %s", e.Status, e.Type)
	}
	return fmt.Sprintf("request failed (HTTP %d)", e.Status)
}

// Is reports whether target is ErrNotFound and the status is 404.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// UserMessage returns the opaque message shown in views.
func (e *StatusError) UserMessage() string {
	switch {
	case e.Type == "duplicate_value" && e.Field != "":
		return e.Field + " already taken"
	case e.Status == http.StatusNotFound:
		if e.Entity != "" {
			return fmt.Sprintf("%s not found", e.Entity)
		}
		return "not found"
	case e.Status >= 500:
		return "server error"
	default:
		return "request failed"
	}
}

// UserMessage maps any error from this package to the single line a view
// renders.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var authErr *AuthError
	var statusErr *StatusError
	var validationErr *model.ValidationError
	switch {
	case errors.As(err, &authErr):
		if authErr.Description != "" {
			return authErr.Description
		}
		return "unauthorized"
	case errors.As(err, &statusErr):
		return statusErr.UserMessage()
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.Is(err, ErrCircuitOpen):
		return "server unavailable, try again shortly"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, ErrTransport):
		return "could not reach server"
	case errors.Is(err, ErrMalformed):
		return "unexpected response from server"
	case errors.Is(err, ErrNoCredential):
		return "not logged in"
	default:
		return "something went wrong"
	}
}

// LoginMessage is UserMessage for the login form: a 401 shows the server's
// description verbatim, everything else is LoginFailedMessage.
func LoginMessage(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Description != "" {
		return authErr.Description
	}
	return LoginFailedMessage
}

// errorDetail is the object form of a FastAPI "detail" field.
type errorDetail struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Type             string `json:"type"`
	EntityName       string `json:"entity_name"`
	EntityField      string `json:"entity_field"`
	EntityValue      any    `json:"entity_value"`
	EntityID         any    `json:"entity_id"`
}

// responseError converts a non-2xx response into *AuthError or *StatusError.
// Unparseable bodies still produce a typed error carrying the status.
func responseError(resp *Response) error {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	var detail errorDetail
	var detailText string
	if err := json.Unmarshal(resp.Body, &envelope); err == nil && len(envelope.Detail) > 0 {
		if err := json.Unmarshal(envelope.Detail, &detail); err != nil {
			_ = json.Unmarshal(envelope.Detail, &detailText)
		}
	}

	if resp.Status == http.StatusUnauthorized {
		desc := detail.ErrorDescription
		if desc == "" {
			desc = detailText
		}
		return &AuthError{Status: resp.Status, Code: detail.Error, Description: desc}
	}

	se := &StatusError{
		Status: resp.Status,
		Type:   detail.Type,
		Entity: detail.EntityName,
		Field:  detail.EntityField,
	}
	if detail.EntityValue != nil {
		se.Value = fmt.Sprint(detail.EntityValue)
	} else if detail.EntityID != nil {
		se.Value = fmt.Sprint(detail.EntityID)
	}
	return se
}
