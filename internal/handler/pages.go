package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/styloxstar/prosite-backend/internal/middleware"
	"github.com/styloxstar/prosite-backend/internal/model"
	"github.com/styloxstar/prosite-backend/internal/service"
)

type pageResponse struct {
	PageID      string   `json:"pageId"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Components  []string `json:"components"`
	IsPublished bool     `json:"isPublished"`
	Order       int      `json:"order"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

func newPageResponse(p model.Page) pageResponse {
	return pageResponse{
		PageID:      p.PageID,
		Name:        p.Name,
		Slug:        p.Slug,
		Components:  p.Components,
		IsPublished: p.IsPublished,
		Order:       p.Order,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}

// GetPages возвращает страницы текущего пользователя.
func (h *Handler) GetPages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	pages, err := h.service.GetPages(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := make([]pageResponse, 0, len(pages))
	for _, p := range pages {
		resp = append(resp, newPageResponse(p))
	}

	writeJSON(w, http.StatusOK, map[string]any{"pages": resp})
}

type createPageRequest struct {
	Name       string   `json:"name"`
	Components []string `json:"components"`
}

// CreatePage создаёт новую страницу в пределах квоты тарифа.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req createPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Page name is required")
		return
	}

	page, err := h.service.CreatePage(r.Context(), userID, req.Name, req.Components)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"page": newPageResponse(page)})
}

type updatePageRequest struct {
	Name        *string  `json:"name"`
	Components  []string `json:"components"`
	IsPublished *bool    `json:"isPublished"`
	Order       *int     `json:"order"`
}

// UpdatePage применяет частичное обновление к странице.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req updatePageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	page, err := h.service.UpdatePage(r.Context(), userID, chi.URLParam(r, "pageID"), service.PageUpdate{
		Name:        req.Name,
		Components:  req.Components,
		IsPublished: req.IsPublished,
		Order:       req.Order,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"page": newPageResponse(page)})
}

// DeletePage удаляет страницу вместе с содержимым её компонентов.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.service.DeletePage(r.Context(), userID, chi.URLParam(r, "pageID")); err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Page deleted"})
}

type reorderRequest struct {
	Components []string `json:"components"`
}

// ReorderPage заменяет порядок компонентов страницы.
func (h *Handler) ReorderPage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Components == nil {
		writeError(w, http.StatusBadRequest, "Components array is required")
		return
	}

	page, err := h.service.ReorderPage(r.Context(), userID, chi.URLParam(r, "pageID"), req.Components)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"page": newPageResponse(page)})
}

// GetPageContents возвращает содержимое компонентов страницы.
func (h *Handler) GetPageContents(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	contents, err := h.service.GetPageContents(r.Context(), userID, chi.URLParam(r, "pageID"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"contents": contents})
}

// SaveComponentContent сохраняет содержимое компонента страницы.
func (h *Handler) SaveComponentContent(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var content json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&content); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.service.SaveComponentContent(r.Context(), userID,
		chi.URLParam(r, "pageID"), chi.URLParam(r, "componentID"), content)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Content saved"})
}
