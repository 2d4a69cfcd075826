package handlers

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims представляет фиксированный набор claims session token:
// subject, дублирующий его nameid и упорядоченный список ролей.
// Никаких динамических claim bag
type SessionClaims struct {
	NameID string   `json:"nameid"`         // равен subject
	Roles  []string `json:"role,omitempty"` // роли в порядке enumeration credential store
	jwt.RegisteredClaims
}

// TokenConfig содержит конфигурацию подписи session token.
// Заполняется при старте процесса и не мутируется
type TokenConfig struct {
	Secret      []byte        // общий секрет для HMAC-SHA256, никогда не выводится из user data
	TrustDomain string        // issuer и audience токена
	TokenTTL    time.Duration // срок жизни токена (120 минут)
}

// MintSessionToken выпускает подписанный session token для пользователя.
// Возвращает encoded токен и абсолютное время истечения
func MintSessionToken(cfg TokenConfig, userID string, roles []string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(cfg.TokenTTL)

	claims := SessionClaims{
		NameID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    cfg.TrustDomain,
			Audience:  jwt.ClaimStrings{cfg.TrustDomain},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(cfg.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateSessionToken валидирует подпись, срок действия, issuer и audience
// токена и возвращает его claims
func ValidateSessionToken(cfg TokenConfig, tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&SessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			// Принимаем только HMAC-подписанные токены
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return cfg.Secret, nil
		},
		jwt.WithIssuer(cfg.TrustDomain),
		jwt.WithAudience(cfg.TrustDomain),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
