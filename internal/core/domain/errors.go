package domain

import "errors"

var (
	ErrInvalidPin        = errors.New("invalid pin")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrSessionExpired    = errors.New("session expired")
	ErrForbidden         = errors.New("access forbidden")
	ErrItemNotFound      = errors.New("item not found")
	ErrUserDataNotFound  = errors.New("user data not found")
	ErrSessionNotFound   = errors.New("chat session not found")
	ErrInvalidTransition = errors.New("invalid window state transition")
	ErrValidationFailed  = errors.New("response validation failed")
)
