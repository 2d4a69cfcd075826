package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/appabyss/appabyss/internal/models"
	"github.com/appabyss/appabyss/internal/server/storage"
)

// Политика композиции пароля (проверяется хранилищем, не issuer'ом)
const (
	passwordMinLen        = 8
	requiredUniqueChars   = 1
	duplicateUsernameText = "UNIQUE constraint failed: users.normalized_username"
	duplicateEmailText    = "UNIQUE constraint failed: users.normalized_email"
)

// CreateUser проверяет пароль на политику композиции, уникальность
// username/email, хеширует пароль bcrypt и сохраняет пользователя
// с ролью "User" в одной транзакции.
// Business-rule отказы возвращаются как []IdentityError с nil error
func (s *Storage) CreateUser(ctx context.Context, user *models.User, password string) ([]storage.IdentityError, error) {
	rejections := validatePasswordPolicy(password)

	user.NormalizedUsername = strings.ToUpper(user.Username)
	user.NormalizedEmail = strings.ToUpper(user.Email)

	// Pre-check дубликатов, чтобы сообщить оба нарушения сразу.
	// Гонку двух конкурентных регистраций все равно разрешают
	// unique индексы при INSERT ниже
	dup, err := s.checkDuplicates(ctx, user)
	if err != nil {
		return nil, err
	}
	rejections = append(rejections, dup...)

	if len(rejections) > 0 {
		return rejections, nil
	}

	hash, err := bcrypt.GenerateFromPassword(passwordDigest(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback после commit безопасен

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, username, normalized_username, email, normalized_email,
			password_hash, security_stamp, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		user.ID,
		user.Username,
		user.NormalizedUsername,
		user.Email,
		user.NormalizedEmail,
		user.PasswordHash,
		user.SecurityStamp,
		user.CreatedAt,
	)
	if err != nil {
		// Проигравший гонку получает соответствующий Duplicate* код
		if strings.Contains(err.Error(), duplicateUsernameText) {
			return []storage.IdentityError{duplicateUsername(user.Username)}, nil
		}
		if strings.Contains(err.Error(), duplicateEmailText) {
			return []storage.IdentityError{duplicateEmail(user.Email)}, nil
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role_name, assigned_at) VALUES (?, ?, ?)
	`, user.ID, models.RoleUser, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to assign default role: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit user: %w", err)
	}

	return nil, nil
}

// GetUserByUsername retrieves user by username (case-insensitive)
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, "normalized_username = ?", strings.ToUpper(username))
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.getUser(ctx, "id = ?", userID)
}

// passwordDigest сводит пароль к SHA-256 дайджесту в base64:
// bcrypt принимает не больше 72 байт, а политика допускает пароли до 256
// символов. base64 исключает NUL байты во входе bcrypt
func passwordDigest(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.RawStdEncoding.EncodeToString(sum[:]))
}

// VerifyPassword сравнивает пароль с bcrypt хешем.
// Несовпадение — это (false, nil), а не ошибка
func (s *Storage) VerifyPassword(ctx context.Context, user *models.User, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), passwordDigest(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, fmt.Errorf("failed to verify password: %w", err)
	}
	return true, nil
}

// GetRoles возвращает роли пользователя в порядке назначения
func (s *Storage) GetRoles(ctx context.Context, user *models.User) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT role_name FROM user_roles
		WHERE user_id = ?
		ORDER BY assigned_at, role_name
	`, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query roles: %w", err)
	}
	defer rows.Close()

	var roles []string
	for rows.Next() {
		var role string
		if err := rows.Scan(&role); err != nil {
			return nil, fmt.Errorf("failed to scan role: %w", err)
		}
		roles = append(roles, role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate roles: %w", err)
	}

	return roles, nil
}

// AddToRole назначает пользователю существующую роль.
// Повторное назначение — no-op
func (s *Storage) AddToRole(ctx context.Context, user *models.User, role string) error {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM roles WHERE name = ?`, role).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check role: %w", err)
	}
	if exists == 0 {
		return storage.ErrRoleNotFound
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role_name, assigned_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, role_name) DO NOTHING
	`, user.ID, role, time.Now())
	if err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}

	return nil
}

func (s *Storage) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `
		SELECT id, username, normalized_username, email, normalized_email,
			password_hash, security_stamp, created_at
		FROM users
		WHERE ` + where

	user := &models.User{}
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.NormalizedUsername,
		&user.Email,
		&user.NormalizedEmail,
		&user.PasswordHash,
		&user.SecurityStamp,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

func (s *Storage) checkDuplicates(ctx context.Context, user *models.User) ([]storage.IdentityError, error) {
	var rejections []storage.IdentityError

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE normalized_username = ?`, user.NormalizedUsername,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to check username uniqueness: %w", err)
	}
	if count > 0 {
		rejections = append(rejections, duplicateUsername(user.Username))
	}

	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE normalized_email = ?`, user.NormalizedEmail,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if count > 0 {
		rejections = append(rejections, duplicateEmail(user.Email))
	}

	return rejections, nil
}

// validatePasswordPolicy проверяет композицию пароля.
// Все нарушения собираются, без short-circuit
func validatePasswordPolicy(password string) []storage.IdentityError {
	var rejections []storage.IdentityError

	if utf8.RuneCountInString(password) < passwordMinLen {
		rejections = append(rejections, storage.IdentityError{
			Code:        storage.CodePasswordTooShort,
			Description: fmt.Sprintf("Passwords must be at least %d characters.", passwordMinLen),
		})
	}

	var hasDigit, hasLower, hasUpper, hasNonAlnum bool
	unique := make(map[rune]struct{})
	for _, r := range password {
		unique[r] = struct{}{}
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		default:
			hasNonAlnum = true
		}
	}

	if !hasNonAlnum {
		rejections = append(rejections, storage.IdentityError{
			Code:        storage.CodePasswordRequiresNonAlphanumeric,
			Description: "Passwords must have at least one non alphanumeric character.",
		})
	}
	if !hasDigit {
		rejections = append(rejections, storage.IdentityError{
			Code:        storage.CodePasswordRequiresDigit,
			Description: "Passwords must have at least one digit ('0'-'9').",
		})
	}
	if !hasLower {
		rejections = append(rejections, storage.IdentityError{
			Code:        storage.CodePasswordRequiresLower,
			Description: "Passwords must have at least one lowercase ('a'-'z').",
		})
	}
	if !hasUpper {
		rejections = append(rejections, storage.IdentityError{
			Code:        storage.CodePasswordRequiresUpper,
			Description: "Passwords must have at least one uppercase ('A'-'Z').",
		})
	}
	if len(unique) < requiredUniqueChars {
		rejections = append(rejections, storage.IdentityError{
			Code:        storage.CodePasswordRequiresUniqueChars,
			Description: fmt.Sprintf("Passwords must use at least %d different characters.", requiredUniqueChars),
		})
	}

	return rejections
}

func duplicateUsername(username string) storage.IdentityError {
	return storage.IdentityError{
		Code:        storage.CodeDuplicateUserName,
		Description: fmt.Sprintf("Username '%s' is already taken.", username),
	}
}

func duplicateEmail(email string) storage.IdentityError {
	return storage.IdentityError{
		Code:        storage.CodeDuplicateEmail,
		Description: fmt.Sprintf("Email '%s' is already taken.", email),
	}
}
