package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/styloxstar/prosite-backend/internal/middleware"
	"github.com/styloxstar/prosite-backend/internal/model"
	"github.com/styloxstar/prosite-backend/internal/service"
)

type themeResponse struct {
	ThemeID  string            `json:"themeId"`
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Premium  bool              `json:"premium"`
	IsCustom bool              `json:"isCustom"`
	Colors   model.ThemeColors `json:"colors"`
}

func newThemeResponse(t model.Theme) themeResponse {
	return themeResponse{
		ThemeID:  t.ThemeID,
		Name:     t.Name,
		Type:     t.Type,
		Premium:  t.Premium,
		IsCustom: t.IsCustom,
		Colors:   t.Colors,
	}
}

// GetThemes возвращает встроенные темы и собственные темы пользователя.
func (h *Handler) GetThemes(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	themes, err := h.service.GetThemes(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := make([]themeResponse, 0, len(themes))
	for _, t := range themes {
		resp = append(resp, newThemeResponse(t))
	}

	writeJSON(w, http.StatusOK, map[string]any{"themes": resp})
}

type themeRequest struct {
	Name   string             `json:"name"`
	Type   string             `json:"type"`
	Colors *model.ThemeColors `json:"colors"`
}

// CreateCustomTheme создаёт пользовательскую тему на тарифах, где это разрешено.
func (h *Handler) CreateCustomTheme(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Type == "" || req.Colors == nil {
		writeError(w, http.StatusBadRequest, "Name, type, and colors are required")
		return
	}

	theme, err := h.service.CreateCustomTheme(r.Context(), userID, req.Name, req.Type, *req.Colors)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"theme": newThemeResponse(theme)})
}

// UpdateCustomTheme применяет частичное обновление к собственной теме пользователя.
func (h *Handler) UpdateCustomTheme(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	theme, err := h.service.UpdateCustomTheme(r.Context(), userID, chi.URLParam(r, "themeID"), service.ThemeUpdate{
		Name:   req.Name,
		Type:   req.Type,
		Colors: req.Colors,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"theme": newThemeResponse(theme)})
}

// DeleteCustomTheme удаляет собственную тему пользователя.
func (h *Handler) DeleteCustomTheme(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.service.DeleteCustomTheme(r.Context(), userID, chi.URLParam(r, "themeID")); err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Theme deleted"})
}

type settingsResponse struct {
	ActiveTheme      string `json:"activeTheme"`
	SidebarCollapsed bool   `json:"sidebarCollapsed"`
	LastActivePage   string `json:"lastActivePage"`
}

// GetSettings возвращает настройки текущего пользователя.
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	s, err := h.service.GetSettings(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"settings": settingsResponse{
		ActiveTheme:      s.ActiveTheme,
		SidebarCollapsed: s.SidebarCollapsed,
		LastActivePage:   s.LastActivePage,
	}})
}

type updateSettingsRequest struct {
	ActiveTheme      *string `json:"activeTheme"`
	SidebarCollapsed *bool   `json:"sidebarCollapsed"`
	LastActivePage   *string `json:"lastActivePage"`
}

// UpdateSettings применяет частичное обновление к настройкам пользователя.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s, err := h.service.UpdateSettings(r.Context(), userID, service.SettingsUpdate{
		ActiveTheme:      req.ActiveTheme,
		SidebarCollapsed: req.SidebarCollapsed,
		LastActivePage:   req.LastActivePage,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"settings": settingsResponse{
		ActiveTheme:      s.ActiveTheme,
		SidebarCollapsed: s.SidebarCollapsed,
		LastActivePage:   s.LastActivePage,
	}})
}
