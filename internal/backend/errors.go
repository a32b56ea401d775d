// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"errors"
	"strconv"
)

// DefaultChatErrorMessage is shown when a failed chat response carries no
// error text.
const DefaultChatErrorMessage = "Error sending message"

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	// ErrTypeTransport: the request never produced an HTTP response.
	ErrTypeTransport
	// ErrTypeTimeout: the configured request timeout elapsed.
	ErrTypeTimeout
	// ErrTypeBackend: the backend answered with a non-2xx status.
	ErrTypeBackend
	// ErrTypeInvalidResponse: a 2xx body that does not have the expected shape.
	ErrTypeInvalidResponse
)

// String returns a short name for logs.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeTransport:
		return "transport"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeBackend:
		return "backend"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	default:
		return "unknown"
	}
}

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	// Status is the HTTP status code, or 0 when no response was received.
	Status int
	Cause  error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if e.Status != 0 {
		msg += " (status " + strconv.Itoa(e.Status) + ")"
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the text to show the user for a backend-reported
// failure.
func (e *ClientError) UserMessage() string {
	if e.Type == ErrTypeBackend && e.Message != "" {
		return e.Message
	}
	return DefaultChatErrorMessage
}

func typeOf(err error) ErrorType {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type
	}
	return ErrTypeUnknown
}

// IsBackendError reports whether err was reported by the backend itself.
// These are surfaced to the user; everything else is only logged.
func IsBackendError(err error) bool {
	return typeOf(err) == ErrTypeBackend
}

// IsTransport reports whether err is a transport failure, a timeout or
// a malformed response.
func IsTransport(err error) bool {
	switch typeOf(err) {
	case ErrTypeTransport, ErrTypeTimeout, ErrTypeInvalidResponse:
		return true
	}
	return false
}

// IsTimeout reports whether err is a request timeout.
func IsTimeout(err error) bool {
	return typeOf(err) == ErrTypeTimeout
}

// IsInvalidResponse reports whether the backend answered with an
// unexpected body.
func IsInvalidResponse(err error) bool {
	return typeOf(err) == ErrTypeInvalidResponse
}

// AlertMessage returns the alert text for err, or "" when err should not be
// shown to the user.
func AlertMessage(err error) string {
	var ce *ClientError
	if errors.As(err, &ce) && ce.Type == ErrTypeBackend {
		return ce.UserMessage()
	}
	return ""
}
