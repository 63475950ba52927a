// Package service реализует бизнес-логику сервиса prosite.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/styloxstar/prosite-backend/internal/model"
	"github.com/styloxstar/prosite-backend/internal/orderstore"
)

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotOrderOwner возвращается при попытке работать с чужим ордером.
	ErrNotOrderOwner = errors.New("order belongs to another user")
	// ErrPageQuotaExceeded возвращается при превышении квоты страниц тарифа.
	ErrPageQuotaExceeded = errors.New("page quota exceeded")
	// ErrCustomThemesNotAllowed возвращается, если тариф не разрешает собственные темы.
	ErrCustomThemesNotAllowed = errors.New("custom themes not allowed on this plan")
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error

	CreateUser(ctx context.Context, username, email, name string, passwordHash []byte) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	UpdateUserPlan(ctx context.Context, userID int64, newPlan model.UserPlan, role model.Role, payment model.PaymentMeta) (*model.User, error)

	CreateInvoice(ctx context.Context, inv model.Invoice) (model.Invoice, error)
	GetInvoicesByUser(ctx context.Context, userID int64, limit int) ([]model.Invoice, error)
	GetInvoiceByID(ctx context.Context, userID, invoiceID int64) (model.Invoice, error)

	GetPagesByUser(ctx context.Context, userID int64) ([]model.Page, error)
	CountPagesByUser(ctx context.Context, userID int64) (int, error)
	GetPage(ctx context.Context, userID int64, pageID string) (model.Page, error)
	CreatePage(ctx context.Context, p model.Page) (model.Page, error)
	SavePage(ctx context.Context, p model.Page) (model.Page, error)
	DeletePage(ctx context.Context, userID int64, pageID string) error
	GetComponentContents(ctx context.Context, userID int64, pageID string) (map[string]json.RawMessage, error)
	UpsertComponentContent(ctx context.Context, userID int64, pageID, componentID string, content json.RawMessage) error

	GetThemesForUser(ctx context.Context, userID int64) ([]model.Theme, error)
	CreateTheme(ctx context.Context, t model.Theme) (model.Theme, error)
	GetCustomTheme(ctx context.Context, userID int64, themeID string) (model.Theme, error)
	SaveCustomTheme(ctx context.Context, t model.Theme) (model.Theme, error)
	DeleteCustomTheme(ctx context.Context, userID int64, themeID string) error

	GetSettings(ctx context.Context, userID int64) (model.Settings, error)
	SaveSettings(ctx context.Context, s model.Settings) (model.Settings, error)
}

// Notifier описывает отправку уведомления о подтверждённом платеже.
// Вызов не блокирует и никогда не влияет на результат подтверждения.
type Notifier interface {
	NotifyPaymentConfirmed(inv model.Invoice, email string)
}

// InvoiceRenderer описывает генерацию PDF-версии счёта.
type InvoiceRenderer interface {
	Render(inv model.Invoice) ([]byte, error)
}

// Service содержит бизнес-логику сервиса prosite.
type Service struct {
	repo     Repository
	orders   *orderstore.Store
	notifier Notifier
	renderer InvoiceRenderer
	logger   *zap.Logger

	payeeVPA  string
	payeeName string

	now func() time.Time
}

// Options задаёт зависимости и параметры сервиса.
type Options struct {
	Repo     Repository
	Orders   *orderstore.Store
	Notifier Notifier
	Renderer InvoiceRenderer
	Logger   *zap.Logger

	PayeeVPA  string
	PayeeName string

	// Now переопределяет источник времени в тестах.
	Now func() time.Time
}

// NewService создаёт новый сервис с указанными зависимостями.
func NewService(opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:      opts.Repo,
		orders:    opts.Orders,
		notifier:  opts.Notifier,
		renderer:  opts.Renderer,
		logger:    logger,
		payeeVPA:  opts.PayeeVPA,
		payeeName: opts.PayeeName,
		now:       now,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// RegisterUser регистрирует нового пользователя с тарифом demo и создаёт
// настройки и стартовые страницы по умолчанию.
func (s *Service) RegisterUser(ctx context.Context, username, password, email, name string) (*model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if name == "" {
		name = username
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}

	id, err := s.repo.CreateUser(ctx, username, email, name, hash)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetSettings(ctx, id); err != nil {
		s.logger.Warn("create default settings", zap.Error(err), zap.Int64("userID", id))
	}

	defaults := []model.Page{
		{UserID: id, PageID: "home", Name: "Home", Slug: "home", Components: []string{}, Order: 0},
		{UserID: id, PageID: "about", Name: "About", Slug: "about", Components: []string{}, Order: 1},
	}
	for _, p := range defaults {
		if _, err := s.repo.CreatePage(ctx, p); err != nil {
			s.logger.Warn("create default page", zap.Error(err), zap.Int64("userID", id), zap.String("page", p.PageID))
		}
	}

	return s.repo.GetUserByID(ctx, id)
}

// AuthenticateUser проверяет логин и пароль и возвращает пользователя.
func (s *Service) AuthenticateUser(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.repo.GetUserByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// GetUser возвращает пользователя по идентификатору.
func (s *Service) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}
