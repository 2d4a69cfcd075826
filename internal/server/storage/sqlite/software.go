package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/appabyss/appabyss/internal/models"
	"github.com/appabyss/appabyss/internal/server/storage"
)

// CreateSoftware persists a new software entry and returns its ID.
// FK на иконку и ОС проверяются базой (PRAGMA foreign_keys = ON)
func (s *Storage) CreateSoftware(ctx context.Context, sw *models.Software) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO software (name, short_description, full_description,
			version, source_url, release_date, icon_id, operating_system_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sw.Name,
		sw.ShortDescription,
		sw.FullDescription,
		sw.Version,
		sw.SourceURL,
		sw.ReleaseDate,
		sw.IconID,
		sw.OperatingSystemID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert software: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get software id: %w", err)
	}

	return id, nil
}

// GetSoftware retrieves software by ID
func (s *Storage) GetSoftware(ctx context.Context, id int64) (*models.Software, error) {
	sw := &models.Software{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, short_description, full_description,
			version, source_url, release_date, icon_id, operating_system_id
		FROM software
		WHERE id = ?
	`, id).Scan(
		&sw.ID,
		&sw.Name,
		&sw.ShortDescription,
		&sw.FullDescription,
		&sw.Version,
		&sw.SourceURL,
		&sw.ReleaseDate,
		&sw.IconID,
		&sw.OperatingSystemID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSoftwareNotFound
		}
		return nil, fmt.Errorf("failed to get software: %w", err)
	}

	return sw, nil
}

// ListSoftware retrieves all software entries ordered by name
func (s *Storage) ListSoftware(ctx context.Context) ([]*models.Software, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, short_description, full_description,
			version, source_url, release_date, icon_id, operating_system_id
		FROM software
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query software: %w", err)
	}
	defer rows.Close()

	var items []*models.Software
	for rows.Next() {
		sw := &models.Software{}
		err := rows.Scan(
			&sw.ID,
			&sw.Name,
			&sw.ShortDescription,
			&sw.FullDescription,
			&sw.Version,
			&sw.SourceURL,
			&sw.ReleaseDate,
			&sw.IconID,
			&sw.OperatingSystemID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan software: %w", err)
		}
		items = append(items, sw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate software: %w", err)
	}

	return items, nil
}

// UpdateSoftware updates an existing software entry
func (s *Storage) UpdateSoftware(ctx context.Context, sw *models.Software) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE software
		SET name = ?, short_description = ?, full_description = ?,
			version = ?, source_url = ?, release_date = ?,
			icon_id = ?, operating_system_id = ?
		WHERE id = ?
	`,
		sw.Name,
		sw.ShortDescription,
		sw.FullDescription,
		sw.Version,
		sw.SourceURL,
		sw.ReleaseDate,
		sw.IconID,
		sw.OperatingSystemID,
		sw.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update software: %w", err)
	}

	return checkAffected(res, storage.ErrSoftwareNotFound)
}

// DeleteSoftware deletes software by ID
func (s *Storage) DeleteSoftware(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM software WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete software: %w", err)
	}

	return checkAffected(res, storage.ErrSoftwareNotFound)
}
