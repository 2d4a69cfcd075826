package storage

import (
	"context"

	"github.com/appabyss/appabyss/internal/models"
)

// IconStorage defines interface for icon persistence
type IconStorage interface {
	// CreateIcon persists a new icon and returns its generated ID
	CreateIcon(ctx context.Context, icon *models.Icon) (int64, error)

	// GetIcon retrieves icon by ID.
	// Returns ErrIconNotFound if icon doesn't exist.
	GetIcon(ctx context.Context, id int64) (*models.Icon, error)

	// ListIcons retrieves all icons ordered by ID
	ListIcons(ctx context.Context) ([]*models.Icon, error)

	// UpdateIcon updates an existing icon.
	// Returns ErrIconNotFound if icon doesn't exist.
	UpdateIcon(ctx context.Context, icon *models.Icon) error

	// DeleteIcon deletes icon by ID.
	// Returns ErrIconNotFound if icon doesn't exist.
	DeleteIcon(ctx context.Context, id int64) error
}

// OperatingSystemStorage defines interface for operating system persistence
type OperatingSystemStorage interface {
	CreateOperatingSystem(ctx context.Context, os *models.OperatingSystem) (int64, error)
	GetOperatingSystem(ctx context.Context, id int64) (*models.OperatingSystem, error)
	ListOperatingSystems(ctx context.Context) ([]*models.OperatingSystem, error)
	UpdateOperatingSystem(ctx context.Context, os *models.OperatingSystem) error
	DeleteOperatingSystem(ctx context.Context, id int64) error
}

// SoftwareStorage defines interface for software catalog persistence
type SoftwareStorage interface {
	// CreateSoftware persists a new software entry and returns its ID.
	// Referenced icon and operating system must exist (FK enforced).
	CreateSoftware(ctx context.Context, sw *models.Software) (int64, error)

	// GetSoftware retrieves software by ID.
	// Returns ErrSoftwareNotFound if entry doesn't exist.
	GetSoftware(ctx context.Context, id int64) (*models.Software, error)

	// ListSoftware retrieves all software entries ordered by name
	ListSoftware(ctx context.Context) ([]*models.Software, error)

	// UpdateSoftware updates an existing software entry.
	UpdateSoftware(ctx context.Context, sw *models.Software) error

	// DeleteSoftware deletes software by ID.
	DeleteSoftware(ctx context.Context, id int64) error
}

// SoftwareListStorage defines interface for per-user software lists.
// All operations are scoped by the owning user: a list belonging to
// another user behaves as if it doesn't exist.
type SoftwareListStorage interface {
	// CreateSoftwareList persists a new empty list for the user
	CreateSoftwareList(ctx context.Context, userID, name string) (int64, error)

	// GetSoftwareList retrieves the user's list with its software IDs.
	// Returns ErrSoftwareListNotFound if the list doesn't exist
	// or belongs to another user.
	GetSoftwareList(ctx context.Context, userID string, listID int64) (*models.SoftwareList, error)

	// ListSoftwareLists retrieves all lists owned by the user
	ListSoftwareLists(ctx context.Context, userID string) ([]*models.SoftwareList, error)

	// DeleteSoftwareList deletes the user's list with its elements
	DeleteSoftwareList(ctx context.Context, userID string, listID int64) error

	// AddSoftwareToList adds a software entry to the user's list.
	// Adding an entry already in the list is a no-op.
	AddSoftwareToList(ctx context.Context, userID string, listID, softwareID int64) error

	// RemoveSoftwareFromList removes a software entry from the user's list
	RemoveSoftwareFromList(ctx context.Context, userID string, listID, softwareID int64) error
}
