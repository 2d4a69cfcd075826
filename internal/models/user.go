package models

import "time"

// User представляет учетную запись пользователя в системе
type User struct {
	ID                 string    `json:"id"`                  // UUID пользователя
	Username           string    `json:"username"`            // уникальный username
	NormalizedUsername string    `json:"normalized_username"` // username в верхнем регистре для проверки уникальности
	Email              string    `json:"email"`               // уникальный email
	NormalizedEmail    string    `json:"normalized_email"`    // email в верхнем регистре для проверки уникальности
	PasswordHash       string    `json:"-"`                   // bcrypt хеш пароля
	SecurityStamp      string    `json:"-"`                   // opaque значение, меняется при смене credentials
	CreatedAt          time.Time `json:"created_at"`          // время создания
}

// Предопределенные роли, создаются миграцией
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)
