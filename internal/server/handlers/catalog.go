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

// CatalogHandler обрабатывает запросы каталога:
// иконки, операционные системы и записи приложений.
// Чтение публичное, запись — только для роли Admin (гарантируется роутером)
type CatalogHandler struct {
	logger   *slog.Logger
	icons    storage.IconStorage
	systems  storage.OperatingSystemStorage
	software storage.SoftwareStorage
}

// NewCatalogHandler создает новый handler каталога
func NewCatalogHandler(
	logger *slog.Logger,
	icons storage.IconStorage,
	systems storage.OperatingSystemStorage,
	software storage.SoftwareStorage,
) *CatalogHandler {
	return &CatalogHandler{
		logger:   logger,
		icons:    icons,
		systems:  systems,
		software: software,
	}
}

// ListSoftware обрабатывает GET /api/software
func (h *CatalogHandler) ListSoftware(w http.ResponseWriter, r *http.Request) {
	items, err := h.software.ListSoftware(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list software", slog.Any("error", err))
		writeError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if items == nil {
		items = []*models.Software{}
	}
	writeJSON(h.logger, w, items, http.StatusOK)
}

// GetSoftware обрабатывает GET /api/software/{id}
func (h *CatalogHandler) GetSoftware(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(h.logger, w, r)
	if !ok {
		return
	}

	sw, err := h.software.GetSoftware(r.Context(), id)
	if err != nil {
		h.catalogError(w, r, err, storage.ErrSoftwareNotFound, "software not found")
		return
	}

	writeJSON(h.logger, w, sw, http.StatusOK)
}

// CreateSoftware обрабатывает POST /api/software
func (h *CatalogHandler) CreateSoftware(w http.ResponseWriter, r *http.Request) {
	var req api.SoftwareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeError(h.logger, w, "name is required", http.StatusBadRequest)
		return
	}

	sw := &models.Software{
		Name:              req.Name,
		ShortDescription:  req.ShortDescription,
		FullDescription:   req.FullDescription,
		Version:           req.Version,
		SourceURL:         req.SourceURL,
		ReleaseDate:       req.ReleaseDate,
		IconID:            req.IconID,
		OperatingSystemID: req.OperatingSystemID,
	}

	id, err := h.software.CreateSoftware(r.Context(), sw)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to create software",
			slog.String("name", req.Name),
			slog.Any("error", err))
		writeError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	sw.ID = id

	writeJSON(h.logger, w, sw, http.StatusCreated)
}

// UpdateSoftware обрабатывает PUT /api/software/{id}
func (h *CatalogHandler) UpdateSoftware(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(h.logger, w, r)
	if !ok {
		return
	}

	var req api.SoftwareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	sw := &models.Software{
		ID:                id,
		Name:              req.Name,
		ShortDescription:  req.ShortDescription,
		FullDescription:   req.FullDescription,
		Version:           req.Version,
		SourceURL:         req.SourceURL,
		ReleaseDate:       req.ReleaseDate,
		IconID:            req.IconID,
		OperatingSystemID: req.OperatingSystemID,
	}

	if err := h.software.UpdateSoftware(r.Context(), sw); err != nil {
		h.catalogError(w, r, err, storage.ErrSoftwareNotFound, "software not found")
		return
	}

	writeJSON(h.logger, w, sw, http.StatusOK)
}

// DeleteSoftware обрабатывает DELETE /api/software/{id}
func (h *CatalogHandler) DeleteSoftware(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(h.logger, w, r)
	if !ok {
		return
	}

	if err := h.software.DeleteSoftware(r.Context(), id); err != nil {
		h.catalogError(w, r, err, storage.ErrSoftwareNotFound, "software not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListIcons обрабатывает GET /api/icons
func (h *CatalogHandler) ListIcons(w http.ResponseWriter, r *http.Request) {
	icons, err := h.icons.ListIcons(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list icons", slog.Any("error", err))
		writeError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if icons == nil {
		icons = []*models.Icon{}
	}
	writeJSON(h.logger, w, icons, http.StatusOK)
}

// GetIcon обрабатывает GET /api/icons/{id}
func (h *CatalogHandler) GetIcon(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(h.logger, w, r)
	if !ok {
		return
	}

	icon, err := h.icons.GetIcon(r.Context(), id)
	if err != nil {
		h.catalogError(w, r, err, storage.ErrIconNotFound, "icon not found")
		return
	}

	writeJSON(h.logger, w, icon, http.StatusOK)
}

// CreateIcon обрабатывает POST /api/icons
func (h *CatalogHandler) CreateIcon(w http.ResponseWriter, r *http.Request) {
	var req api.IconRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		writeError(h.logger, w, "url is required", http.StatusBadRequest)
		return
	}

	icon := &models.Icon{URL: req.URL, AlternativeURL: req.AlternativeURL}
	id, err := h.icons.CreateIcon(r.Context(), icon)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to create icon", slog.Any("error", err))
		writeError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	icon.ID = id

	writeJSON(h.logger, w, icon, http.StatusCreated)
}

// UpdateIcon обрабатывает PUT /api/icons/{id}
func (h *CatalogHandler) UpdateIcon(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(h.logger, w, r)
	if !ok {
		return
	}

	var req api.IconRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	icon := &models.Icon{ID: id, URL: req.URL, AlternativeURL: req.AlternativeURL}
	if err := h.icons.UpdateIcon(r.Context(), icon); err != nil {
		h.catalogError(w, r, err, storage.ErrIconNotFound, "icon not found")
		return
	}

	writeJSON(h.logger, w, icon, http.StatusOK)
}

// DeleteIcon обрабатывает DELETE /api/icons/{id}
func (h *CatalogHandler) DeleteIcon(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(h.logger, w, r)
	if !ok {
		return
	}

	if err := h.icons.DeleteIcon(r.Context(), id); err != nil {
		h.catalogError(w, r, err, storage.ErrIconNotFound, "icon not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListOperatingSystems обрабатывает GET /api/os
func (h *CatalogHandler) ListOperatingSystems(w http.ResponseWriter, r *http.Request) {
	systems, err := h.systems.ListOperatingSystems(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list operating systems", slog.Any("error", err))
		writeError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if systems == nil {
		systems = []*models.OperatingSystem{}
	}
	writeJSON(h.logger, w, systems, http.StatusOK)
}

// GetOperatingSystem обрабатывает GET /api/os/{id}
func (h *CatalogHandler) GetOperatingSystem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(h.logger, w, r)
	if !ok {
		return
	}

	os, err := h.systems.GetOperatingSystem(r.Context(), id)
	if err != nil {
		h.catalogError(w, r, err, storage.ErrOperatingSystemNotFound, "operating system not found")
		return
	}

	writeJSON(h.logger, w, os, http.StatusOK)
}

// CreateOperatingSystem обрабатывает POST /api/os
func (h *CatalogHandler) CreateOperatingSystem(w http.ResponseWriter, r *http.Request) {
	var req api.OperatingSystemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		writeError(h.logger, w, "name is required", http.StatusBadRequest)
		return
	}

	os := &models.OperatingSystem{Name: req.Name}
	id, err := h.systems.CreateOperatingSystem(r.Context(), os)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to create operating system", slog.Any("error", err))
		writeError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	os.ID = id

	writeJSON(h.logger, w, os, http.StatusCreated)
}

// UpdateOperatingSystem обрабатывает PUT /api/os/{id}
func (h *CatalogHandler) UpdateOperatingSystem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(h.logger, w, r)
	if !ok {
		return
	}

	var req api.OperatingSystemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	os := &models.OperatingSystem{ID: id, Name: req.Name}
	if err := h.systems.UpdateOperatingSystem(r.Context(), os); err != nil {
		h.catalogError(w, r, err, storage.ErrOperatingSystemNotFound, "operating system not found")
		return
	}

	writeJSON(h.logger, w, os, http.StatusOK)
}

// DeleteOperatingSystem обрабатывает DELETE /api/os/{id}
func (h *CatalogHandler) DeleteOperatingSystem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(h.logger, w, r)
	if !ok {
		return
	}

	if err := h.systems.DeleteOperatingSystem(r.Context(), id); err != nil {
		h.catalogError(w, r, err, storage.ErrOperatingSystemNotFound, "operating system not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// catalogError преобразует ошибку хранилища в HTTP ответ:
// notFound -> 404, остальное -> 500 с логированием
func (h *CatalogHandler) catalogError(w http.ResponseWriter, r *http.Request, err, notFound error, message string) {
	if errors.Is(err, notFound) {
		writeError(h.logger, w, message, http.StatusNotFound)
		return
	}
	h.logger.ErrorContext(r.Context(), "catalog storage error", slog.Any("error", err))
	writeError(h.logger, w, "internal server error", http.StatusInternalServerError)
}

// pathID извлекает числовой {id} из пути запроса
func pathID(logger *slog.Logger, w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(logger, w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
