package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/appabyss/appabyss/internal/models"
	"github.com/appabyss/appabyss/internal/server/storage"
	"github.com/appabyss/appabyss/internal/validation"
	"github.com/appabyss/appabyss/pkg/api"
)

// invalidCredentials — единый текст для неизвестного пользователя и
// неверного пароля: ответ не должен позволять enumeration пользователей
const invalidCredentials = "Invalid username or password"

// AuthHandler — session issuer: обрабатывает регистрацию и вход,
// выпускает подписанные session tokens
type AuthHandler struct {
	logger *slog.Logger
	users  storage.UserStorage
	tokens TokenConfig
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, users storage.UserStorage, tokens TokenConfig) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		users:  users,
		tokens: tokens,
	}
}

// Register обрабатывает POST /api/auth/register
// Успех — 200 с пустым телом; структурные ошибки и отказы credential store —
// 400 с единой map поле/код -> сообщения; сбой хранилища — пустой 500
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		h.sendFieldErrors(w, api.ValidationErrors{"$": {"The request body is not valid JSON."}})
		return
	}

	// Структурная валидация: все нарушения сразу, без short-circuit
	if errs := validation.ValidateRegistration(req.Email, req.Username, req.Password); len(errs) > 0 {
		h.logger.WarnContext(ctx, "invalid registration model", slog.Int("errors", len(errs)))
		h.sendFieldErrors(w, api.ValidationErrors(errs))
		return
	}

	user := &models.User{
		ID:            uuid.New().String(),
		Username:      req.Username,
		Email:         req.Email,
		SecurityStamp: uuid.New().String(),
		CreatedAt:     time.Now(),
	}

	// Хеширование пароля и проверка уникальности — зона ответственности
	// credential store; plaintext пароль дальше этого вызова не уходит
	rejections, err := h.users.CreateUser(ctx, user, req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to create user",
			slog.String("username", req.Username),
			slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if len(rejections) > 0 {
		errs := api.ValidationErrors{}
		for _, rejection := range rejections {
			errs[rejection.Code] = append(errs[rejection.Code], rejection.Description)
		}
		h.logger.WarnContext(ctx, "user registration rejected",
			slog.String("username", req.Username),
			slog.Int("errors", len(rejections)))
		h.sendFieldErrors(w, errs)
		return
	}

	h.logger.InfoContext(ctx, "user registered successfully",
		slog.String("username", req.Username),
		slog.String("user_id", user.ID))

	w.WriteHeader(http.StatusOK)
}

// Login обрабатывает POST /api/auth/login
// Успех — 200 с {token, expiration}; неверные credentials — 401 с
// фиксированным текстом; сбой хранилища — пустой 500
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		h.sendFieldErrors(w, api.ValidationErrors{"$": {"The request body is not valid JSON."}})
		return
	}

	if errs := validation.ValidateLogin(req.UserName, req.Password); len(errs) > 0 {
		h.logger.WarnContext(ctx, "login attempt with invalid model", slog.Int("errors", len(errs)))
		h.sendFieldErrors(w, api.ValidationErrors(errs))
		return
	}

	user, err := h.users.GetUserByUsername(ctx, req.UserName)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			h.logger.WarnContext(ctx, "unauthorized login attempt",
				slog.String("username", req.UserName))
			h.sendUnauthorized(w)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user",
			slog.String("username", req.UserName),
			slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	ok, err := h.users.VerifyPassword(ctx, user, req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to verify password",
			slog.String("username", req.UserName),
			slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !ok {
		// Тот же ответ, что и для несуществующего пользователя
		h.logger.WarnContext(ctx, "unauthorized login attempt",
			slog.String("username", req.UserName))
		h.sendUnauthorized(w)
		return
	}

	roles, err := h.users.GetRoles(ctx, user)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get roles",
			slog.String("username", req.UserName),
			slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	token, expiresAt, err := MintSessionToken(h.tokens, user.ID, roles)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to mint session token",
			slog.String("username", req.UserName),
			slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged in successfully",
		slog.String("username", req.UserName),
		slog.String("user_id", user.ID))

	h.sendJSON(w, api.TokenResponse{Token: token, Expiration: expiresAt}, http.StatusOK)
}

// sendJSON отправляет JSON ответ
func (h *AuthHandler) sendJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendFieldErrors отправляет 400 с map поле/код -> сообщения
func (h *AuthHandler) sendFieldErrors(w http.ResponseWriter, errs api.ValidationErrors) {
	h.sendJSON(w, errs, http.StatusBadRequest)
}

// sendUnauthorized отправляет 401 с фиксированным текстом без деталей
func (h *AuthHandler) sendUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	if _, err := w.Write([]byte(invalidCredentials)); err != nil {
		h.logger.Error("failed to write response", slog.Any("error", err))
	}
}
