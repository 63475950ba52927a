// Package handler содержит HTTP-обработчики API сервиса prosite.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/styloxstar/prosite-backend/internal/middleware"
	"github.com/styloxstar/prosite-backend/internal/model"
	"github.com/styloxstar/prosite-backend/internal/orderstore"
	"github.com/styloxstar/prosite-backend/internal/plan"
	"github.com/styloxstar/prosite-backend/internal/repository"
	"github.com/styloxstar/prosite-backend/internal/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	RegisterUser(ctx context.Context, username, password, email, name string) (*model.User, error)
	AuthenticateUser(ctx context.Context, username, password string) (*model.User, error)
	GetUser(ctx context.Context, userID int64) (*model.User, error)

	CreateOrder(ctx context.Context, userID int64, planID model.PlanID, currency model.Currency) (service.CreateOrderResult, error)
	ConfirmPayment(ctx context.Context, userID int64, orderID, transactionRef string) (service.ConfirmResult, error)
	OrderStatus(userID int64, orderID string) (model.Order, error)
	GetInvoices(ctx context.Context, userID int64) ([]model.Invoice, error)
	InvoicePDF(ctx context.Context, userID, invoiceID int64) (model.Invoice, []byte, error)
	LegacyUpgrade(ctx context.Context, userID int64, planID model.PlanID, cardLast4, cardBrand string) (*model.User, error)

	GetPages(ctx context.Context, userID int64) ([]model.Page, error)
	CreatePage(ctx context.Context, userID int64, name string, components []string) (model.Page, error)
	UpdatePage(ctx context.Context, userID int64, pageID string, upd service.PageUpdate) (model.Page, error)
	DeletePage(ctx context.Context, userID int64, pageID string) error
	ReorderPage(ctx context.Context, userID int64, pageID string, components []string) (model.Page, error)
	GetPageContents(ctx context.Context, userID int64, pageID string) (map[string]json.RawMessage, error)
	SaveComponentContent(ctx context.Context, userID int64, pageID, componentID string, content json.RawMessage) error

	GetThemes(ctx context.Context, userID int64) ([]model.Theme, error)
	CreateCustomTheme(ctx context.Context, userID int64, name, themeType string, colors model.ThemeColors) (model.Theme, error)
	UpdateCustomTheme(ctx context.Context, userID int64, themeID string, upd service.ThemeUpdate) (model.Theme, error)
	DeleteCustomTheme(ctx context.Context, userID int64, themeID string) error

	GetSettings(ctx context.Context, userID int64) (model.Settings, error)
	UpdateSettings(ctx context.Context, userID int64, upd service.SettingsUpdate) (model.Settings, error)
}

// Handler реализует HTTP-обработчики API сервиса prosite.
type Handler struct {
	service        Service
	logger         *zap.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{
		service:        s,
		logger:         logger,
		authMiddleware: auth,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError переводит доменные ошибки в коды HTTP; неизвестные
// ошибки логируются и отдаются как 500 без деталей.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, plan.ErrInvalidPlan):
		writeError(w, http.StatusBadRequest, "Invalid plan")
	case errors.Is(err, orderstore.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "Order not found or expired")
	case errors.Is(err, orderstore.ErrOrderAlreadyCompleted):
		writeError(w, http.StatusBadRequest, "Order already completed")
	case errors.Is(err, service.ErrNotOrderOwner):
		writeError(w, http.StatusForbidden, "Order belongs to another user")
	case errors.Is(err, service.ErrPageQuotaExceeded):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrCustomThemesNotAllowed):
		writeError(w, http.StatusForbidden, "Upgrade your plan to access this feature")
	case errors.Is(err, repository.ErrInvoiceNotFound):
		writeError(w, http.StatusNotFound, "Invoice not found")
	case errors.Is(err, repository.ErrPageNotFound):
		writeError(w, http.StatusNotFound, "Page not found")
	case errors.Is(err, repository.ErrThemeNotFound):
		writeError(w, http.StatusNotFound, "Theme not found")
	case errors.Is(err, repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	default:
		h.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

type userResponse struct {
	ID       int64          `json:"id"`
	Username string         `json:"username"`
	Name     string         `json:"name"`
	Role     model.Role     `json:"role"`
	Plan     model.UserPlan `json:"plan"`
}

func newUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Role:     u.Role,
		Plan:     u.Plan,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

// Register обрабатывает регистрацию нового пользователя и выдаёт токен.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
		return
	}

	user, err := h.service.RegisterUser(r.Context(), req.Username, req.Password, req.Email, req.Name)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			writeError(w, http.StatusConflict, "Username already taken")
			return
		}
		h.logger.Error("register user error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	token, err := h.authMiddleware.IssueToken(user.ID)
	if err != nil {
		h.logger.Error("issue token error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"user":  newUserResponse(user),
	})
}

// Login выполняет аутентификацию пользователя и выдаёт токен.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.service.AuthenticateUser(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) || errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("login user error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	token, err := h.authMiddleware.IssueToken(user.ID)
	if err != nil {
		h.logger.Error("issue token error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  newUserResponse(user),
	})
}

// Me возвращает профиль текущего пользователя.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":        user.ID,
			"username":  user.Username,
			"name":      user.Name,
			"email":     user.Email,
			"role":      user.Role,
			"plan":      user.Plan,
			"createdAt": user.CreatedAt.Format(time.RFC3339),
		},
	})
}

// Health возвращает состояние сервиса.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
