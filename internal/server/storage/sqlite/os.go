package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/appabyss/appabyss/internal/models"
	"github.com/appabyss/appabyss/internal/server/storage"
)

// CreateOperatingSystem persists a new operating system and returns its ID
func (s *Storage) CreateOperatingSystem(ctx context.Context, os *models.OperatingSystem) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO operating_systems (name) VALUES (?)
	`, os.Name)
	if err != nil {
		return 0, fmt.Errorf("failed to insert operating system: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get operating system id: %w", err)
	}

	return id, nil
}

// GetOperatingSystem retrieves operating system by ID
func (s *Storage) GetOperatingSystem(ctx context.Context, id int64) (*models.OperatingSystem, error) {
	os := &models.OperatingSystem{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name FROM operating_systems WHERE id = ?
	`, id).Scan(&os.ID, &os.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrOperatingSystemNotFound
		}
		return nil, fmt.Errorf("failed to get operating system: %w", err)
	}

	return os, nil
}

// ListOperatingSystems retrieves all operating systems ordered by name
func (s *Storage) ListOperatingSystems(ctx context.Context) ([]*models.OperatingSystem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name FROM operating_systems ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query operating systems: %w", err)
	}
	defer rows.Close()

	var systems []*models.OperatingSystem
	for rows.Next() {
		os := &models.OperatingSystem{}
		if err := rows.Scan(&os.ID, &os.Name); err != nil {
			return nil, fmt.Errorf("failed to scan operating system: %w", err)
		}
		systems = append(systems, os)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate operating systems: %w", err)
	}

	return systems, nil
}

// UpdateOperatingSystem updates an existing operating system
func (s *Storage) UpdateOperatingSystem(ctx context.Context, os *models.OperatingSystem) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE operating_systems SET name = ? WHERE id = ?
	`, os.Name, os.ID)
	if err != nil {
		return fmt.Errorf("failed to update operating system: %w", err)
	}

	return checkAffected(res, storage.ErrOperatingSystemNotFound)
}

// DeleteOperatingSystem deletes operating system by ID
func (s *Storage) DeleteOperatingSystem(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM operating_systems WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete operating system: %w", err)
	}

	return checkAffected(res, storage.ErrOperatingSystemNotFound)
}
