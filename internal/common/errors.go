// Package common defines shared constants and sentinel errors used across
// GophMedia layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (

	// repository specific errors
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// service specific errors
	ErrorInternal        = errors.New("internal error")
	ErrorUnauthorized    = errors.New("unauthorized")
	ErrorInvalidArgument = errors.New("invalid argument")

	// ErrQuotaExceeded is terminal for the upload attempt that observed it.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrTransient marks object store and bus I/O failures; callers may retry.
	ErrTransient = errors.New("transient failure")

	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
