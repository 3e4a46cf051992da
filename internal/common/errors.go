// Package common defines shared constants and sentinel errors used across
// client and server layers of DataVault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")
	ErrorValidation   = errors.New("validation error")
	ErrorConflict     = errors.New("conflict")
	ErrorUnavailable  = errors.New("service unavailable")

	// ErrorEncryption reports that a payload could not be sealed or opened.
	ErrorEncryption = errors.New("encryption failure")

	// ErrorSnapshotsDisabled is returned when no object storage is configured.
	ErrorSnapshotsDisabled = errors.New("export snapshots are disabled")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
