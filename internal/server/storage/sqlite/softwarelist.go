package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/appabyss/appabyss/internal/models"
	"github.com/appabyss/appabyss/internal/server/storage"
)

// CreateSoftwareList persists a new empty list for the user
func (s *Storage) CreateSoftwareList(ctx context.Context, userID, name string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO software_lists (name, user_id) VALUES (?, ?)
	`, name, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert software list: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get software list id: %w", err)
	}

	return id, nil
}

// GetSoftwareList retrieves the user's list with its software IDs.
// Чужой список неотличим от несуществующего
func (s *Storage) GetSoftwareList(ctx context.Context, userID string, listID int64) (*models.SoftwareList, error) {
	list := &models.SoftwareList{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, user_id FROM software_lists
		WHERE id = ? AND user_id = ?
	`, listID, userID).Scan(&list.ID, &list.Name, &list.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSoftwareListNotFound
		}
		return nil, fmt.Errorf("failed to get software list: %w", err)
	}

	ids, err := s.listElements(ctx, list.ID)
	if err != nil {
		return nil, err
	}
	list.SoftwareIDs = ids

	return list, nil
}

// ListSoftwareLists retrieves all lists owned by the user
func (s *Storage) ListSoftwareLists(ctx context.Context, userID string) ([]*models.SoftwareList, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, user_id FROM software_lists
		WHERE user_id = ?
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query software lists: %w", err)
	}
	defer rows.Close()

	var lists []*models.SoftwareList
	for rows.Next() {
		list := &models.SoftwareList{}
		if err := rows.Scan(&list.ID, &list.Name, &list.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan software list: %w", err)
		}
		lists = append(lists, list)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate software lists: %w", err)
	}

	for _, list := range lists {
		ids, err := s.listElements(ctx, list.ID)
		if err != nil {
			return nil, err
		}
		list.SoftwareIDs = ids
	}

	return lists, nil
}

// DeleteSoftwareList deletes the user's list, элементы удаляются каскадом
func (s *Storage) DeleteSoftwareList(ctx context.Context, userID string, listID int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM software_lists WHERE id = ? AND user_id = ?
	`, listID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete software list: %w", err)
	}

	return checkAffected(res, storage.ErrSoftwareListNotFound)
}

// AddSoftwareToList adds a software entry to the user's list.
// Повторное добавление — no-op
func (s *Storage) AddSoftwareToList(ctx context.Context, userID string, listID, softwareID int64) error {
	if err := s.checkListOwner(ctx, userID, listID); err != nil {
		return err
	}

	// FK на software(id) отклонит несуществующее приложение
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO software_list_elements (software_list_id, software_id)
		VALUES (?, ?)
		ON CONFLICT (software_list_id, software_id) DO NOTHING
	`, listID, softwareID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrSoftwareNotFound
		}
		return fmt.Errorf("failed to add software to list: %w", err)
	}

	return nil
}

// RemoveSoftwareFromList removes a software entry from the user's list
func (s *Storage) RemoveSoftwareFromList(ctx context.Context, userID string, listID, softwareID int64) error {
	if err := s.checkListOwner(ctx, userID, listID); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM software_list_elements
		WHERE software_list_id = ? AND software_id = ?
	`, listID, softwareID)
	if err != nil {
		return fmt.Errorf("failed to remove software from list: %w", err)
	}

	return checkAffected(res, storage.ErrSoftwareNotFound)
}

func (s *Storage) checkListOwner(ctx context.Context, userID string, listID int64) error {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM software_lists WHERE id = ? AND user_id = ?
	`, listID, userID).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check list owner: %w", err)
	}
	if count == 0 {
		return storage.ErrSoftwareListNotFound
	}
	return nil
}

func (s *Storage) listElements(ctx context.Context, listID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT software_id FROM software_list_elements
		WHERE software_list_id = ?
		ORDER BY software_id
	`, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query list elements: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan list element: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate list elements: %w", err)
	}

	return ids, nil
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
