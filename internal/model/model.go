// Package model содержит доменные сущности сервиса prosite.
package model

import "time"

// Role описывает роль пользователя в системе.
type Role string

const (
	RoleAdmin   Role = "admin"
	RolePro     Role = "pro"
	RoleStarter Role = "starter"
	RoleDemo    Role = "demo"
)

// PlanID описывает идентификатор тарифного плана.
type PlanID string

const (
	PlanStarter    PlanID = "starter"
	PlanPro        PlanID = "pro"
	PlanEnterprise PlanID = "enterprise"
	PlanDemo       PlanID = "demo"
)

// Currency описывает код валюты платежа.
type Currency string

const (
	CurrencyINR Currency = "INR"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// DefaultCurrency используется, когда цена в запрошенной валюте не задана.
const DefaultCurrency = CurrencyINR

// UserPlan описывает активный тариф пользователя.
type UserPlan struct {
	ID           PlanID     `json:"id"`
	MaxPages     int        `json:"maxPages"`
	CustomThemes bool       `json:"customThemes"`
	ExpiresAt    *time.Time `json:"expiresAt"`
}

// PaymentMeta содержит метаданные последнего платежа пользователя.
type PaymentMeta struct {
	Method         string `json:"method,omitempty"`
	TransactionRef string `json:"transactionRef,omitempty"`
	CardLast4      string `json:"cardLast4,omitempty"`
	CardBrand      string `json:"cardBrand,omitempty"`
}

// User представляет зарегистрированного пользователя платформы.
type User struct {
	ID           int64
	Username     string
	Email        string
	Name         string
	PasswordHash []byte
	Role         Role
	Plan         UserPlan
	Payment      PaymentMeta
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderStatus описывает статус платёжного ордера.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
)

// Order описывает эфемерный ордер на оплату тарифа.
type Order struct {
	ID        string
	UserID    int64
	PlanID    PlanID
	Amount    int64
	Currency  Currency
	Status    OrderStatus
	CreatedAt time.Time
}

// InvoiceStatus описывает статус счёта.
type InvoiceStatus string

const (
	InvoiceStatusPaid     InvoiceStatus = "paid"
	InvoiceStatusPending  InvoiceStatus = "pending"
	InvoiceStatusFailed   InvoiceStatus = "failed"
	InvoiceStatusRefunded InvoiceStatus = "refunded"
)

// Invoice представляет постоянный счёт за подтверждённый платёж.
type Invoice struct {
	ID             int64
	Number         string
	UserID         int64
	OrderID        string
	PlanID         PlanID
	PlanName       string
	Amount         int64
	Currency       Currency
	PaymentMethod  string
	TransactionRef string
	Status         InvoiceStatus
	UserEmail      string
	UserName       string
	CreatedAt      time.Time
}

// Page описывает страницу сайта пользователя.
type Page struct {
	ID          int64
	UserID      int64
	PageID      string
	Name        string
	Slug        string
	Components  []string
	IsPublished bool
	Order       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ThemeColors содержит цветовую схему темы.
type ThemeColors struct {
	Bg            string `json:"bg,omitempty"`
	Surface       string `json:"surface,omitempty"`
	SurfaceAlt    string `json:"surfaceAlt,omitempty"`
	Text          string `json:"text,omitempty"`
	TextSecondary string `json:"textSecondary,omitempty"`
	Primary       string `json:"primary,omitempty"`
	PrimaryHover  string `json:"primaryHover,omitempty"`
	Accent        string `json:"accent,omitempty"`
	Border        string `json:"border,omitempty"`
	Card          string `json:"card,omitempty"`
	Gradient      string `json:"gradient,omitempty"`
	Shadow        string `json:"shadow,omitempty"`
}

// Theme описывает тему оформления: встроенную либо созданную пользователем.
type Theme struct {
	ID        int64
	ThemeID   string
	Name      string
	Type      string
	Premium   bool
	IsCustom  bool
	CreatedBy *int64
	Colors    ThemeColors
	CreatedAt time.Time
}

// Settings содержит пользовательские настройки конструктора.
type Settings struct {
	UserID           int64
	ActiveTheme      string
	SidebarCollapsed bool
	LastActivePage   string
	UpdatedAt        time.Time
}
