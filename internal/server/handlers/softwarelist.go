package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/appabyss/appabyss/internal/models"
	"github.com/appabyss/appabyss/internal/server/storage"
	"github.com/appabyss/appabyss/pkg/api"
)

// SoftwareListHandler обрабатывает пользовательские списки приложений.
// Все операции требуют аутентификации: владелец берется из контекста,
// который заполняет auth middleware
type SoftwareListHandler struct {
	logger *slog.Logger
	lists  storage.SoftwareListStorage
}

// NewSoftwareListHandler создает новый handler списков
func NewSoftwareListHandler(logger *slog.Logger, lists storage.SoftwareListStorage) *SoftwareListHandler {
	return &SoftwareListHandler{
		logger: logger,
		lists:  lists,
	}
}

// ListLists обрабатывает GET /api/lists
func (h *SoftwareListHandler) ListLists(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	lists, err := h.lists.ListSoftwareLists(r.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list software lists",
			slog.String("user_id", userID),
			slog.Any("error", err))
		writeError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if lists == nil {
		lists = []*models.SoftwareList{}
	}
	writeJSON(h.logger, w, lists, http.StatusOK)
}

// GetList обрабатывает GET /api/lists/{id}
func (h *SoftwareListHandler) GetList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	listID, ok := pathID(h.logger, w, r)
	if !ok {
		return
	}

	list, err := h.lists.GetSoftwareList(r.Context(), userID, listID)
	if err != nil {
		h.listError(w, r, err)
		return
	}

	writeJSON(h.logger, w, list, http.StatusOK)
}

// CreateList обрабатывает POST /api/lists
func (h *SoftwareListHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req api.SoftwareListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeError(h.logger, w, "name is required", http.StatusBadRequest)
		return
	}

	id, err := h.lists.CreateSoftwareList(r.Context(), userID, req.Name)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to create software list",
			slog.String("user_id", userID),
			slog.Any("error", err))
		writeError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	list := &models.SoftwareList{ID: id, Name: req.Name, UserID: userID}
	writeJSON(h.logger, w, list, http.StatusCreated)
}

// DeleteList обрабатывает DELETE /api/lists/{id}
func (h *SoftwareListHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	listID, ok := pathID(h.logger, w, r)
	if !ok {
		return
	}

	if err := h.lists.DeleteSoftwareList(r.Context(), userID, listID); err != nil {
		h.listError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddSoftware обрабатывает PUT /api/lists/{id}/software/{sid}
func (h *SoftwareListHandler) AddSoftware(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	listID, ok := pathID(h.logger, w, r)
	if !ok {
		return
	}
	softwareID, ok := h.softwareID(w, r)
	if !ok {
		return
	}

	if err := h.lists.AddSoftwareToList(r.Context(), userID, listID, softwareID); err != nil {
		h.listError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveSoftware обрабатывает DELETE /api/lists/{id}/software/{sid}
func (h *SoftwareListHandler) RemoveSoftware(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	listID, ok := pathID(h.logger, w, r)
	if !ok {
		return
	}
	softwareID, ok := h.softwareID(w, r)
	if !ok {
		return
	}

	if err := h.lists.RemoveSoftwareFromList(r.Context(), userID, listID, softwareID); err != nil {
		h.listError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// userID достает владельца из контекста; отсутствие — ошибка конфигурации
// роутера (endpoint не обернут в AuthMiddleware)
func (h *SoftwareListHandler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok || userID == "" {
		h.logger.ErrorContext(r.Context(), "missing user id in request context")
		writeError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

func (h *SoftwareListHandler) softwareID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("sid"), 10, 64)
	if err != nil {
		writeError(h.logger, w, "invalid software id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *SoftwareListHandler) listError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, storage.ErrSoftwareListNotFound):
		writeError(h.logger, w, "software list not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrSoftwareNotFound):
		writeError(h.logger, w, "software not found", http.StatusNotFound)
	default:
		h.logger.ErrorContext(r.Context(), "software list storage error", slog.Any("error", err))
		writeError(h.logger, w, "internal server error", http.StatusInternalServerError)
	}
}
