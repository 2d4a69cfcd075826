package storage

import (
	"context"

	"github.com/appabyss/appabyss/internal/models"
)

// Identity failure codes returned by CreateUser.
// Codes are part of the HTTP contract: clients receive them as keys
// of the field->messages map in a 400 response.
const (
	CodeDuplicateUserName               = "DuplicateUserName"
	CodeDuplicateEmail                  = "DuplicateEmail"
	CodePasswordTooShort                = "PasswordTooShort"
	CodePasswordRequiresDigit           = "PasswordRequiresDigit"
	CodePasswordRequiresLower           = "PasswordRequiresLower"
	CodePasswordRequiresUpper           = "PasswordRequiresUpper"
	CodePasswordRequiresNonAlphanumeric = "PasswordRequiresNonAlphanumeric"
	CodePasswordRequiresUniqueChars     = "PasswordRequiresUniqueChars"
)

// IdentityError is a named business-rule rejection (duplicate identity or
// password policy violation) produced by the credential store.
type IdentityError struct {
	Code        string // machine-readable failure code
	Description string // human-readable message
}

// UserStorage is the credential store: it owns identity persistence,
// password hashing, uniqueness enforcement and role membership.
type UserStorage interface {
	// CreateUser validates the password against the composition policy,
	// checks username/email uniqueness, hashes the password and persists
	// the user with the default "User" role.
	// Business-rule rejections are returned as a non-empty IdentityError
	// slice with nil error; error is reserved for storage faults.
	CreateUser(ctx context.Context, user *models.User, password string) ([]IdentityError, error)

	// GetUserByUsername retrieves user by username (case-insensitive).
	// Returns ErrUserNotFound if user doesn't exist.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// GetUserByID retrieves user by ID.
	// Returns ErrUserNotFound if user doesn't exist.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// VerifyPassword reports whether the plaintext password matches the
	// stored hash. A mismatch is (false, nil); error means a storage or
	// hashing fault.
	VerifyPassword(ctx context.Context, user *models.User, password string) (bool, error)

	// GetRoles returns the user's role names in assignment order.
	GetRoles(ctx context.Context, user *models.User) ([]string, error)

	// AddToRole assigns an existing role to the user.
	// Returns ErrRoleNotFound if the role does not exist.
	// Assigning an already-held role is a no-op.
	AddToRole(ctx context.Context, user *models.User, role string) error
}
