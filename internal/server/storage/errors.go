package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrIconNotFound indicates that icon was not found
	ErrIconNotFound = errors.New("icon not found")

	// ErrOperatingSystemNotFound indicates that operating system was not found
	ErrOperatingSystemNotFound = errors.New("operating system not found")

	// ErrSoftwareNotFound indicates that software entry was not found
	ErrSoftwareNotFound = errors.New("software not found")

	// ErrSoftwareListNotFound indicates that software list was not found
	// or is not owned by the requesting user
	ErrSoftwareListNotFound = errors.New("software list not found")

	// ErrRoleNotFound indicates that role does not exist
	ErrRoleNotFound = errors.New("role not found")
)
