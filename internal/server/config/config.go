package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Значения по умолчанию
const (
	DefaultAddress     = ":8080"
	DefaultDBPath      = "appabyss.db"
	DefaultTrustDomain = "http://www.security.org"
	DefaultTokenTTL    = 120 * time.Minute
	DefaultAuthRate    = 30
	DefaultAuthWindow  = time.Minute
)

// Config содержит конфигурацию сервера.
// Загружается один раз при старте и не мутируется
type Config struct {
	Address        string        // адрес HTTP сервера
	DatabasePath   string        // путь к SQLite базе
	JWTSecret      string        // секрет подписи session tokens, обязателен
	TrustDomain    string        // issuer и audience токенов
	TokenTTL       time.Duration // срок жизни session token
	AuthRateLimit  int           // лимит запросов к auth endpoints
	AuthRateWindow time.Duration // окно rate limit
}

// Load читает конфигурацию: сначала флаги, затем переменные окружения
// (окружение имеет приоритет). JWT секрет обязателен
func Load(args []string) (*Config, error) {
	cfg := &Config{
		Address:        DefaultAddress,
		DatabasePath:   DefaultDBPath,
		TrustDomain:    DefaultTrustDomain,
		TokenTTL:       DefaultTokenTTL,
		AuthRateLimit:  DefaultAuthRate,
		AuthRateWindow: DefaultAuthWindow,
	}

	fs := flag.NewFlagSet("appabyss-server", flag.ContinueOnError)
	fs.StringVar(&cfg.Address, "a", cfg.Address, "HTTP listen address")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to SQLite database file")
	fs.StringVar(&cfg.JWTSecret, "s", "", "JWT signing secret")
	fs.StringVar(&cfg.TrustDomain, "t", cfg.TrustDomain, "token issuer/audience trust domain")
	fs.DurationVar(&cfg.TokenTTL, "ttl", cfg.TokenTTL, "session token lifetime")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	// Переменные окружения перекрывают флаги
	applyEnvString(&cfg.Address, "ADDRESS")
	applyEnvString(&cfg.DatabasePath, "DATABASE_PATH")
	applyEnvString(&cfg.JWTSecret, "JWT_SECRET")
	applyEnvString(&cfg.TrustDomain, "TRUST_DOMAIN")
	if err := applyEnvDuration(&cfg.TokenTTL, "TOKEN_TTL"); err != nil {
		return nil, err
	}
	if err := applyEnvInt(&cfg.AuthRateLimit, "AUTH_RATE_LIMIT"); err != nil {
		return nil, err
	}
	if err := applyEnvDuration(&cfg.AuthRateWindow, "AUTH_RATE_WINDOW"); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT secret is required (flag -s or env JWT_SECRET)")
	}

	return cfg, nil
}

func applyEnvString(target *string, name string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*target = v
	}
}

func applyEnvDuration(target *time.Duration, name string) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*target = d
	return nil
}

func applyEnvInt(target *int, name string) error {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	*target = n
	return nil
}
