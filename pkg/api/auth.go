package api

import "time"

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Email    string `json:"email"`    // email пользователя
	Username string `json:"username"` // username пользователя
	Password string `json:"password"` // пароль в открытом виде, хешируется на сервере
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	UserName string `json:"userName"` // username пользователя
	Password string `json:"password"` // пароль в открытом виде
}

// TokenResponse представляет ответ с выданным session token
type TokenResponse struct {
	Token      string    `json:"token"`      // подписанный JWT
	Expiration time.Time `json:"expiration"` // абсолютное время истечения токена (ISO-8601)
}

// ValidationErrors представляет 400 ответ: отображение поле/код -> сообщения.
// Ключи — имена полей при структурных ошибках ("Username", "Password")
// либо коды отказа credential store ("DuplicateUserName", "PasswordRequiresDigit", ...)
type ValidationErrors map[string][]string
