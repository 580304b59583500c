package domain

import "errors"

var (
	// ErrPermissionDenied indicates that the required read or write grant is
	// absent.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrPlatformUnavailable indicates that the external health platform is
	// not present or not reachable on this device. Callers treat this the
	// same as a denial.
	ErrPlatformUnavailable = errors.New("health platform unavailable")
	// ErrNotFound indicates that a record no longer exists on the platform.
	// Deletes treat this as already done.
	ErrNotFound = errors.New("record not found")
	// ErrWriteFailed indicates a platform write or delete failed after
	// permission was granted.
	ErrWriteFailed = errors.New("platform write failed")
	// ErrReadFailed indicates a platform range read failed after permission
	// was granted.
	ErrReadFailed = errors.New("platform read failed")
)
