package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input rejected before or by the provider.
	ErrValidation = errors.New("validation error")
	// ErrAuthentication marks well-formed but rejected credentials.
	ErrAuthentication = errors.New("authentication error")
	// ErrNotAuthenticated is returned when an operation needs a user and none is signed in.
	ErrNotAuthenticated = errors.New("User not authenticated")
	// ErrProvider marks a remote or storage failure of the provider itself.
	ErrProvider = errors.New("provider error")
	// ErrEmailTaken is returned by repositories when the e-mail is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

// ValidationError wraps a validation message so callers can distinguish
// client errors from internal failures.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// AuthenticationError reports rejected credentials or an unconfirmed account.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

func (e *AuthenticationError) Unwrap() error {
	return ErrAuthentication
}

// ProviderError reports a failed call into the provider.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrProvider) match any ProviderError.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

func validationErr(message string) error {
	return &ValidationError{Message: message}
}

func authenticationErr(message string) error {
	return &AuthenticationError{Message: message}
}

func providerErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *ProviderError
	if errors.As(err, &existing) {
		return err
	}
	return &ProviderError{Op: op, Err: err}
}
