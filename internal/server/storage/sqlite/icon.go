package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/appabyss/appabyss/internal/models"
	"github.com/appabyss/appabyss/internal/server/storage"
)

// CreateIcon persists a new icon and returns its generated ID
func (s *Storage) CreateIcon(ctx context.Context, icon *models.Icon) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO icons (url, alternative_url) VALUES (?, ?)
	`, icon.URL, icon.AlternativeURL)
	if err != nil {
		return 0, fmt.Errorf("failed to insert icon: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get icon id: %w", err)
	}

	return id, nil
}

// GetIcon retrieves icon by ID
func (s *Storage) GetIcon(ctx context.Context, id int64) (*models.Icon, error) {
	icon := &models.Icon{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, url, alternative_url FROM icons WHERE id = ?
	`, id).Scan(&icon.ID, &icon.URL, &icon.AlternativeURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrIconNotFound
		}
		return nil, fmt.Errorf("failed to get icon: %w", err)
	}

	return icon, nil
}

// ListIcons retrieves all icons ordered by ID
func (s *Storage) ListIcons(ctx context.Context) ([]*models.Icon, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, alternative_url FROM icons ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query icons: %w", err)
	}
	defer rows.Close()

	var icons []*models.Icon
	for rows.Next() {
		icon := &models.Icon{}
		if err := rows.Scan(&icon.ID, &icon.URL, &icon.AlternativeURL); err != nil {
			return nil, fmt.Errorf("failed to scan icon: %w", err)
		}
		icons = append(icons, icon)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate icons: %w", err)
	}

	return icons, nil
}

// UpdateIcon updates an existing icon
func (s *Storage) UpdateIcon(ctx context.Context, icon *models.Icon) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE icons SET url = ?, alternative_url = ? WHERE id = ?
	`, icon.URL, icon.AlternativeURL, icon.ID)
	if err != nil {
		return fmt.Errorf("failed to update icon: %w", err)
	}

	return checkAffected(res, storage.ErrIconNotFound)
}

// DeleteIcon deletes icon by ID
func (s *Storage) DeleteIcon(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM icons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete icon: %w", err)
	}

	return checkAffected(res, storage.ErrIconNotFound)
}

// checkAffected возвращает notFound, если запрос не затронул ни одной строки
func checkAffected(res sql.Result, notFound error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
