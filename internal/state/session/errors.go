package session

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindInvalidCredentials         ErrorKind = "invalid_credentials"
	KindRegistrationFailed         ErrorKind = "registration_failed"
	KindSessionExpired             ErrorKind = "session_expired"
	KindPasswordResetRequestFailed ErrorKind = "password_reset_request_failed"
	KindPasswordResetFailed        ErrorKind = "password_reset_failed"
)

// AuthError is the structured error kept in State.Error. Code mirrors a
// wire status and is 0 when unknown; it is stored, never interpreted.
type AuthError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Code    int       `json:"code,omitempty"`
	Cause   error     `json:"-"`
}

func (e *AuthError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AuthError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches another *AuthError by kind, so errors.Is(err, ErrSessionExpired)
// works on any session-expired failure.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

func (e *AuthError) clone() *AuthError {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

var (
	ErrInvalidCredentials         = &AuthError{Kind: KindInvalidCredentials, Message: "Invalid email or password", Code: http.StatusUnauthorized}
	ErrRegistrationFailed         = &AuthError{Kind: KindRegistrationFailed, Message: "Registration failed", Code: http.StatusBadRequest}
	ErrSessionExpired             = &AuthError{Kind: KindSessionExpired, Message: "Session expired. Please login again.", Code: http.StatusForbidden}
	ErrPasswordResetRequestFailed = &AuthError{Kind: KindPasswordResetRequestFailed, Message: "Failed to request password reset", Code: http.StatusBadRequest}
	ErrPasswordResetFailed        = &AuthError{Kind: KindPasswordResetFailed, Message: "Password reset failed", Code: http.StatusBadRequest}
)

// statusCoder is implemented by collaborator errors that carry a wire status.
type statusCoder interface {
	StatusCode() int
}

// translate converts a collaborator failure into the store's error for the
// given operation. The wire status, when the collaborator exposes one,
// replaces the default code.
func translate(base *AuthError, cause error) *AuthError {
	out := base.clone()
	out.Cause = cause

	var ae *AuthError
	if errors.As(cause, &ae) && ae.Kind == base.Kind && ae.Message != "" {
		out.Message = ae.Message
		if ae.Code != 0 {
			out.Code = ae.Code
		}
	}
	var sc statusCoder
	if errors.As(cause, &sc) && sc.StatusCode() > 0 {
		out.Code = sc.StatusCode()
	}
	return out
}
