package sqlite

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appabyss/appabyss/internal/models"
	"github.com/appabyss/appabyss/internal/server/storage"
)

func setupTestStorage(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	// Используем in-memory database для тестов
	s, err := New(ctx, ":memory:")
	require.NoError(t, err)

	cleanup := func() {
		_ = s.Close()
	}

	return s, cleanup
}

func newTestUser(username, email string) *models.User {
	return &models.User{
		ID:            uuid.New().String(),
		Username:      username,
		Email:         email,
		SecurityStamp: uuid.New().String(),
		CreatedAt:     time.Now(),
	}
}

func createTestUser(t *testing.T, s *Storage, username, email, password string) *models.User {
	t.Helper()

	user := newTestUser(username, email)
	rejections, err := s.CreateUser(context.Background(), user, password)
	require.NoError(t, err)
	require.Empty(t, rejections)
	return user
}

func TestUserStorage_CreateUser(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createTestUser(t, s, "gopher", "gopher@example.com", "Passw0rd!")

	retrieved, err := s.GetUserByUsername(ctx, "gopher")
	require.NoError(t, err)
	assert.Equal(t, user.ID, retrieved.ID)
	assert.Equal(t, "gopher", retrieved.Username)
	assert.Equal(t, "GOPHER", retrieved.NormalizedUsername)
	assert.Equal(t, "gopher@example.com", retrieved.Email)
	assert.Equal(t, "GOPHER@EXAMPLE.COM", retrieved.NormalizedEmail)
	assert.NotEmpty(t, retrieved.PasswordHash)
	assert.NotEqual(t, "Passw0rd!", retrieved.PasswordHash)

	// Новый пользователь получает роль User
	roles, err := s.GetRoles(ctx, retrieved)
	require.NoError(t, err)
	assert.Equal(t, []string{models.RoleUser}, roles)
}

func TestUserStorage_GetUserByUsername_CaseInsensitive(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createTestUser(t, s, "Gopher", "gopher@example.com", "Passw0rd!")

	for _, username := range []string{"gopher", "GOPHER", "Gopher"} {
		retrieved, err := s.GetUserByUsername(ctx, username)
		require.NoError(t, err)
		assert.Equal(t, user.ID, retrieved.ID)
		// Оригинальное написание сохраняется
		assert.Equal(t, "Gopher", retrieved.Username)
	}
}

func TestUserStorage_GetUserByUsername_NotFound(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	_, err := s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_GetUserByID(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createTestUser(t, s, "gopher", "gopher@example.com", "Passw0rd!")

	retrieved, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "gopher", retrieved.Username)

	_, err = s.GetUserByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestUserStorage_CreateUser_DuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, s, "gopher", "first@example.com", "Passw0rd!")

	// Дубликат ловится независимо от регистра
	dup := newTestUser("GOPHER", "second@example.com")
	rejections, err := s.CreateUser(ctx, dup, "Passw0rd!")
	require.NoError(t, err)
	require.Len(t, rejections, 1)
	assert.Equal(t, storage.CodeDuplicateUserName, rejections[0].Code)
	assert.Equal(t, "Username 'GOPHER' is already taken.", rejections[0].Description)
}

func TestUserStorage_CreateUser_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, s, "gopher", "gopher@example.com", "Passw0rd!")

	dup := newTestUser("другой", "Gopher@Example.Com")
	rejections, err := s.CreateUser(ctx, dup, "Passw0rd!")
	require.NoError(t, err)
	require.Len(t, rejections, 1)
	assert.Equal(t, storage.CodeDuplicateEmail, rejections[0].Code)
}

func TestUserStorage_CreateUser_DuplicateBoth(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, s, "gopher", "gopher@example.com", "Passw0rd!")

	// Оба нарушения сообщаются сразу
	dup := newTestUser("gopher", "gopher@example.com")
	rejections, err := s.CreateUser(ctx, dup, "Passw0rd!")
	require.NoError(t, err)
	require.Len(t, rejections, 2)

	codes := []string{rejections[0].Code, rejections[1].Code}
	assert.ElementsMatch(t, []string{storage.CodeDuplicateUserName, storage.CodeDuplicateEmail}, codes)
}

func TestUserStorage_CreateUser_PasswordPolicy(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	tests := []struct {
		name      string
		password  string
		wantCodes []string
	}{
		{
			name:      "no digit",
			password:  "Password!",
			wantCodes: []string{storage.CodePasswordRequiresDigit},
		},
		{
			name:      "no lowercase",
			password:  "PASSW0RD!",
			wantCodes: []string{storage.CodePasswordRequiresLower},
		},
		{
			name:      "no uppercase",
			password:  "passw0rd!",
			wantCodes: []string{storage.CodePasswordRequiresUpper},
		},
		{
			name:      "no non-alphanumeric",
			password:  "Passw0rdd",
			wantCodes: []string{storage.CodePasswordRequiresNonAlphanumeric},
		},
		{
			name:     "short and weak",
			password: "aaaaaaa",
			wantCodes: []string{
				storage.CodePasswordTooShort,
				storage.CodePasswordRequiresNonAlphanumeric,
				storage.CodePasswordRequiresDigit,
				storage.CodePasswordRequiresUpper,
			},
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := newTestUser(
				fmt.Sprintf("gopher%d", i),
				fmt.Sprintf("gopher%d@example.com", i),
			)
			rejections, err := s.CreateUser(ctx, user, tt.password)
			require.NoError(t, err)

			var codes []string
			for _, r := range rejections {
				codes = append(codes, r.Code)
			}
			assert.ElementsMatch(t, tt.wantCodes, codes)

			// Отклоненный пользователь не сохраняется
			_, err = s.GetUserByUsername(ctx, user.Username)
			assert.ErrorIs(t, err, storage.ErrUserNotFound)
		})
	}
}

func TestUserStorage_CreateUser_ConcurrentSameUsername(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	const attempts = 8

	var wg sync.WaitGroup
	results := make([][]storage.IdentityError, attempts)
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := newTestUser("gopher", fmt.Sprintf("gopher%d@example.com", i))
			results[i], errs[i] = s.CreateUser(ctx, user, "Passw0rd!")
		}(i)
	}
	wg.Wait()

	// Ровно одна регистрация выигрывает, остальные получают
	// DuplicateUserName, а не внутреннюю ошибку
	succeeded := 0
	for i := 0; i < attempts; i++ {
		require.NoError(t, errs[i])
		if len(results[i]) == 0 {
			succeeded++
			continue
		}
		require.Len(t, results[i], 1)
		assert.Equal(t, storage.CodeDuplicateUserName, results[i][0].Code)
	}
	assert.Equal(t, 1, succeeded)
}

func TestUserStorage_VerifyPassword(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, s, "gopher", "gopher@example.com", "Passw0rd!")

	user, err := s.GetUserByUsername(ctx, "gopher")
	require.NoError(t, err)

	ok, err := s.VerifyPassword(ctx, user, "Passw0rd!")
	require.NoError(t, err)
	assert.True(t, ok)

	// Неверный пароль — не ошибка, а false
	ok, err = s.VerifyPassword(ctx, user, "WrongPass1!")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserStorage_VerifyPassword_MaxLength(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	// 256 символов — верхняя граница политики, заметно больше
	// 72-байтового лимита bcrypt
	password := strings.Repeat("Aa1!", 64)
	require.Len(t, password, 256)

	createTestUser(t, s, "gopher", "gopher@example.com", password)

	user, err := s.GetUserByUsername(ctx, "gopher")
	require.NoError(t, err)

	ok, err := s.VerifyPassword(ctx, user, password)
	require.NoError(t, err)
	assert.True(t, ok)

	// Длинные пароли не должны совпадать по общему префиксу
	other := password[:255] + "?"
	ok, err = s.VerifyPassword(ctx, user, other)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserStorage_AddToRole(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createTestUser(t, s, "gopher", "gopher@example.com", "Passw0rd!")

	require.NoError(t, s.AddToRole(ctx, user, models.RoleAdmin))

	roles, err := s.GetRoles(ctx, user)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{models.RoleUser, models.RoleAdmin}, roles)

	// Повторное назначение — no-op
	require.NoError(t, s.AddToRole(ctx, user, models.RoleAdmin))
	roles, err = s.GetRoles(ctx, user)
	require.NoError(t, err)
	assert.Len(t, roles, 2)
}

func TestUserStorage_AddToRole_UnknownRole(t *testing.T) {
	ctx := context.Background()
	s, cleanup := setupTestStorage(t)
	defer cleanup()

	user := createTestUser(t, s, "gopher", "gopher@example.com", "Passw0rd!")

	err := s.AddToRole(ctx, user, "Moderator")
	assert.ErrorIs(t, err, storage.ErrRoleNotFound)
}
