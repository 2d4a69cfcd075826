package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/appabyss/appabyss/internal/models"
	"github.com/appabyss/appabyss/internal/server/handlers"
	"github.com/appabyss/appabyss/internal/server/middleware"
	"github.com/appabyss/appabyss/internal/server/storage"
)

// Deps — зависимости HTTP роутера
type Deps struct {
	Logger   *slog.Logger
	Tokens   handlers.TokenConfig
	Users    storage.UserStorage
	Icons    storage.IconStorage
	Systems  storage.OperatingSystemStorage
	Software storage.SoftwareStorage
	Lists    storage.SoftwareListStorage
	Version  string

	// Лимит запросов к auth endpoints (защита от password brute force)
	AuthRate   int
	AuthWindow time.Duration
}

// NewRouter собирает все HTTP endpoints приложения:
//   - /api/auth/* — session issuer, с отдельным rate limit
//   - /api/software, /api/icons, /api/os — каталог: чтение публичное,
//     запись только для роли Admin
//   - /api/lists — пользовательские списки, требуют аутентификации
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger

	authHandler := handlers.NewAuthHandler(logger, deps.Users, deps.Tokens)
	healthHandler := handlers.NewHealthHandler(logger, deps.Version)
	catalogHandler := handlers.NewCatalogHandler(logger, deps.Icons, deps.Systems, deps.Software)
	listHandler := handlers.NewSoftwareListHandler(logger, deps.Lists)

	authLimit := middleware.RateLimitMiddleware(deps.AuthRate, deps.AuthWindow, logger)
	authn := middleware.AuthMiddleware(logger, deps.Tokens)
	admin := middleware.RequireRole(logger, models.RoleAdmin)

	// Запись каталога: аутентификация + роль Admin
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return authn(admin(h))
	}
	// Списки: достаточно аутентификации
	userOnly := func(h http.HandlerFunc) http.Handler {
		return authn(h)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", healthHandler.Health)

	mux.Handle("POST /api/auth/register", authLimit(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/auth/login", authLimit(http.HandlerFunc(authHandler.Login)))

	mux.HandleFunc("GET /api/software", catalogHandler.ListSoftware)
	mux.HandleFunc("GET /api/software/{id}", catalogHandler.GetSoftware)
	mux.Handle("POST /api/software", adminOnly(catalogHandler.CreateSoftware))
	mux.Handle("PUT /api/software/{id}", adminOnly(catalogHandler.UpdateSoftware))
	mux.Handle("DELETE /api/software/{id}", adminOnly(catalogHandler.DeleteSoftware))

	mux.HandleFunc("GET /api/icons", catalogHandler.ListIcons)
	mux.HandleFunc("GET /api/icons/{id}", catalogHandler.GetIcon)
	mux.Handle("POST /api/icons", adminOnly(catalogHandler.CreateIcon))
	mux.Handle("PUT /api/icons/{id}", adminOnly(catalogHandler.UpdateIcon))
	mux.Handle("DELETE /api/icons/{id}", adminOnly(catalogHandler.DeleteIcon))

	mux.HandleFunc("GET /api/os", catalogHandler.ListOperatingSystems)
	mux.HandleFunc("GET /api/os/{id}", catalogHandler.GetOperatingSystem)
	mux.Handle("POST /api/os", adminOnly(catalogHandler.CreateOperatingSystem))
	mux.Handle("PUT /api/os/{id}", adminOnly(catalogHandler.UpdateOperatingSystem))
	mux.Handle("DELETE /api/os/{id}", adminOnly(catalogHandler.DeleteOperatingSystem))

	mux.Handle("GET /api/lists", userOnly(listHandler.ListLists))
	mux.Handle("GET /api/lists/{id}", userOnly(listHandler.GetList))
	mux.Handle("POST /api/lists", userOnly(listHandler.CreateList))
	mux.Handle("DELETE /api/lists/{id}", userOnly(listHandler.DeleteList))
	mux.Handle("PUT /api/lists/{id}/software/{sid}", userOnly(listHandler.AddSoftware))
	mux.Handle("DELETE /api/lists/{id}/software/{sid}", userOnly(listHandler.RemoveSoftware))

	// Внешние слои: recovery снаружи, чтобы ловить панику и в logging
	var handler http.Handler = mux
	handler = middleware.LoggingMiddleware(logger)(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	return handler
}
