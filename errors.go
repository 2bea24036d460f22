package authkit

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeIdentityNotFound = "IDENTITY_NOT_FOUND"
	textCodeInvalidPassword  = "INVALID_PASSWORD"
	textCodeIdentityExists   = "IDENTITY_EXISTS"
	textCodeSessionDecode    = "SESSION_DECODE_FAILED"
	textCodeUnknownProvider  = "UNKNOWN_PROVIDER"
)

// ErrIdentityNotFound is returned by Login when the email has no Directory entry.
// The message is user facing; consumers surface it verbatim.
var ErrIdentityNotFound = goerrors.New(
	"User not found. Please check your email or sign up.",
	goerrors.CategoryNotFound,
).WithTextCode(textCodeIdentityNotFound).WithCode(goerrors.CodeNotFound)

// ErrInvalidPassword is returned by Login when the password fails the length
// policy. No stored secret is ever compared; see Authenticator.Login.
var ErrInvalidPassword = goerrors.New(
	"Invalid password. Password must be at least 6 characters.",
	goerrors.CategoryAuth,
).WithTextCode(textCodeInvalidPassword).WithCode(goerrors.CodeUnauthorized)

// ErrIdentityExists is returned by Signup when the email is already registered.
var ErrIdentityExists = goerrors.New(
	"User already exists with this email. Please login instead.",
	goerrors.CategoryConflict,
).WithTextCode(textCodeIdentityExists).WithCode(goerrors.CodeConflict)

// ErrSessionDecode means the persisted session slot held malformed content.
// It never reaches flow callers; Load handles it by clearing the slot.
var ErrSessionDecode = goerrors.New(
	"unable to decode persisted session",
	goerrors.CategoryInternal,
).WithTextCode(textCodeSessionDecode)

// ErrUnknownProvider is returned when a social login names a provider outside
// the supported set.
var ErrUnknownProvider = goerrors.New(
	"unknown social provider",
	goerrors.CategoryBadInput,
).WithTextCode(textCodeUnknownProvider).WithCode(goerrors.CodeBadRequest)

// FlowErrorMessage extracts the user facing message a flow failure carries.
// This is the string the state machine stores in State.Error.
func FlowErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return err.Error()
	}

	// Wrap folds the source message into the wrapper's Message, so walk down
	// to the innermost rich error; it carries the bare user facing string.
	for rich.Source != nil {
		var inner *goerrors.Error
		if !goerrors.As(rich.Source, &inner) {
			break
		}
		rich = inner
	}

	return rich.Message
}
