package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/styloxstar/prosite-backend/internal/middleware"
	"github.com/styloxstar/prosite-backend/internal/model"
	"github.com/styloxstar/prosite-backend/internal/orderstore"
	"github.com/styloxstar/prosite-backend/internal/plan"
	"github.com/styloxstar/prosite-backend/internal/repository"
	"github.com/styloxstar/prosite-backend/internal/service"
)

type stubService struct {
	user    *model.User
	userErr error

	createOrderResp service.CreateOrderResult
	createOrderErr  error

	confirmResp service.ConfirmResult
	confirmErr  error

	orderResp model.Order
	orderErr  error

	invoices    []model.Invoice
	invoicesErr error

	pdfInvoice model.Invoice
	pdfData    []byte
	pdfErr     error

	pages    []model.Page
	pagesErr error

	page    model.Page
	pageErr error

	themes    []model.Theme
	themesErr error
	theme     model.Theme
	themeErr  error

	settings    model.Settings
	settingsErr error
}

func (s *stubService) RegisterUser(ctx context.Context, username, password, email, name string) (*model.User, error) {
	return s.user, s.userErr
}

func (s *stubService) AuthenticateUser(ctx context.Context, username, password string) (*model.User, error) {
	return s.user, s.userErr
}

func (s *stubService) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	return s.user, s.userErr
}

func (s *stubService) CreateOrder(ctx context.Context, userID int64, planID model.PlanID, currency model.Currency) (service.CreateOrderResult, error) {
	return s.createOrderResp, s.createOrderErr
}

func (s *stubService) ConfirmPayment(ctx context.Context, userID int64, orderID, transactionRef string) (service.ConfirmResult, error) {
	return s.confirmResp, s.confirmErr
}

func (s *stubService) OrderStatus(userID int64, orderID string) (model.Order, error) {
	return s.orderResp, s.orderErr
}

func (s *stubService) GetInvoices(ctx context.Context, userID int64) ([]model.Invoice, error) {
	return s.invoices, s.invoicesErr
}

func (s *stubService) InvoicePDF(ctx context.Context, userID, invoiceID int64) (model.Invoice, []byte, error) {
	return s.pdfInvoice, s.pdfData, s.pdfErr
}

func (s *stubService) LegacyUpgrade(ctx context.Context, userID int64, planID model.PlanID, cardLast4, cardBrand string) (*model.User, error) {
	return s.user, s.userErr
}

func (s *stubService) GetPages(ctx context.Context, userID int64) ([]model.Page, error) {
	return s.pages, s.pagesErr
}

func (s *stubService) CreatePage(ctx context.Context, userID int64, name string, components []string) (model.Page, error) {
	return s.page, s.pageErr
}

func (s *stubService) UpdatePage(ctx context.Context, userID int64, pageID string, upd service.PageUpdate) (model.Page, error) {
	return s.page, s.pageErr
}

func (s *stubService) DeletePage(ctx context.Context, userID int64, pageID string) error {
	return s.pageErr
}

func (s *stubService) ReorderPage(ctx context.Context, userID int64, pageID string, components []string) (model.Page, error) {
	return s.page, s.pageErr
}

func (s *stubService) GetPageContents(ctx context.Context, userID int64, pageID string) (map[string]json.RawMessage, error) {
	return nil, s.pageErr
}

func (s *stubService) SaveComponentContent(ctx context.Context, userID int64, pageID, componentID string, content json.RawMessage) error {
	return s.pageErr
}

func (s *stubService) GetThemes(ctx context.Context, userID int64) ([]model.Theme, error) {
	return s.themes, s.themesErr
}

func (s *stubService) CreateCustomTheme(ctx context.Context, userID int64, name, themeType string, colors model.ThemeColors) (model.Theme, error) {
	return s.theme, s.themeErr
}

func (s *stubService) UpdateCustomTheme(ctx context.Context, userID int64, themeID string, upd service.ThemeUpdate) (model.Theme, error) {
	return s.theme, s.themeErr
}

func (s *stubService) DeleteCustomTheme(ctx context.Context, userID int64, themeID string) error {
	return s.themeErr
}

func (s *stubService) GetSettings(ctx context.Context, userID int64) (model.Settings, error) {
	return s.settings, s.settingsErr
}

func (s *stubService) UpdateSettings(ctx context.Context, userID int64, upd service.SettingsUpdate) (model.Settings, error) {
	return s.settings, s.settingsErr
}

func newTestHandler(t *testing.T, svc Service) *Handler {
	t.Helper()

	logger, err := zap.NewDevelopment()
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}

	auth := middleware.NewAuthMiddleware("test-secret")

	return NewHandler(svc, logger, auth)
}

func authRequest(t *testing.T, h *Handler, method, target string, body []byte) *http.Request {
	t.Helper()

	token, err := h.authMiddleware.IssueToken(1)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestRegister_Success(t *testing.T) {
	svc := &stubService{user: &model.User{ID: 42, Username: "alice", Name: "Alice"}}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(credentialsRequest{
		Username: "alice",
		Password: "secret1",
		Email:    "a@example.com",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusCreated)
	}

	var resp struct {
		Token string       `json:"token"`
		User  userResponse `json:"user"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("expected token in response")
	}
	if resp.User.ID != 42 {
		t.Fatalf("user id = %d, want 42", resp.User.ID)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	h := newTestHandler(t, &stubService{})

	body, _ := json.Marshal(credentialsRequest{Username: "alice", Password: "12345"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := &stubService{userErr: repository.ErrUserExists}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(credentialsRequest{Username: "alice", Password: "secret1"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Register(rec, req)

	if rec.Result().StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusConflict)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := &stubService{userErr: service.ErrInvalidCredentials}
	h := newTestHandler(t, svc)

	body, _ := json.Marshal(credentialsRequest{Username: "alice", Password: "wrong1"})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.Login(rec, req)

	if rec.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestMe_RequiresAuth(t *testing.T) {
	h := newTestHandler(t, &stubService{})
	r := h.SetupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestCreateOrder_Success(t *testing.T) {
	svc := &stubService{
		createOrderResp: service.CreateOrderResult{
			Order: model.Order{
				ID:       "ORD-1-abc",
				Amount:   1499,
				Currency: model.CurrencyINR,
				Status:   model.OrderStatusPending,
			},
			PlanName:    "Professional",
			PaymentLink: "upi://pay?pa=prosite%40upi&tr=ORD-1-abc",
			PayeeID:     "prosite@upi",
		},
	}
	h := newTestHandler(t, svc)
	r := h.SetupRouter()

	body, _ := json.Marshal(createOrderRequest{PlanID: model.PlanPro, Currency: model.CurrencyINR})
	req := authRequest(t, h, http.MethodPost, "/api/billing/create-order", body)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusCreated)
	}

	var resp struct {
		OrderID     string `json:"orderId"`
		Amount      int64  `json:"amount"`
		PaymentLink string `json:"paymentLink"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.OrderID != "ORD-1-abc" || resp.Amount != 1499 || resp.PaymentLink == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCreateOrder_InvalidPlan(t *testing.T) {
	svc := &stubService{createOrderErr: plan.ErrInvalidPlan}
	h := newTestHandler(t, svc)
	r := h.SetupRouter()

	body, _ := json.Marshal(createOrderRequest{PlanID: "ultimate"})
	req := authRequest(t, h, http.MethodPost, "/api/billing/create-order", body)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestConfirmPayment_Success(t *testing.T) {
	inv := model.Invoice{ID: 7, Number: "INV-007"}
	svc := &stubService{
		confirmResp: service.ConfirmResult{
			User:    &model.User{ID: 1, Plan: model.UserPlan{ID: model.PlanPro}},
			Invoice: &inv,
		},
	}
	h := newTestHandler(t, svc)
	r := h.SetupRouter()

	body, _ := json.Marshal(confirmPaymentRequest{OrderID: "ORD-1", TransactionRef: "TXN1"})
	req := authRequest(t, h, http.MethodPost, "/api/billing/confirm-payment", body)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var resp map[string]any
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["invoiceNumber"] != "INV-007" {
		t.Fatalf("invoiceNumber = %v", resp["invoiceNumber"])
	}
}

func TestConfirmPayment_MissingOrderID(t *testing.T) {
	h := newTestHandler(t, &stubService{})
	r := h.SetupRouter()

	body, _ := json.Marshal(confirmPaymentRequest{TransactionRef: "TXN1"})
	req := authRequest(t, h, http.MethodPost, "/api/billing/confirm-payment", body)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestConfirmPayment_ExpiredOrder(t *testing.T) {
	svc := &stubService{confirmErr: orderstore.ErrOrderNotFound}
	h := newTestHandler(t, svc)
	r := h.SetupRouter()

	body, _ := json.Marshal(confirmPaymentRequest{OrderID: "ORD-old", TransactionRef: "TXN1"})
	req := authRequest(t, h, http.MethodPost, "/api/billing/confirm-payment", body)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusNotFound)
	}
}

func TestConfirmPayment_AlreadyCompleted(t *testing.T) {
	svc := &stubService{confirmErr: orderstore.ErrOrderAlreadyCompleted}
	h := newTestHandler(t, svc)
	r := h.SetupRouter()

	body, _ := json.Marshal(confirmPaymentRequest{OrderID: "ORD-1", TransactionRef: "TXN1"})
	req := authRequest(t, h, http.MethodPost, "/api/billing/confirm-payment", body)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestConfirmPayment_ForeignOrder(t *testing.T) {
	svc := &stubService{confirmErr: service.ErrNotOrderOwner}
	h := newTestHandler(t, svc)
	r := h.SetupRouter()

	body, _ := json.Marshal(confirmPaymentRequest{OrderID: "ORD-1", TransactionRef: "TXN1"})
	req := authRequest(t, h, http.MethodPost, "/api/billing/confirm-payment", body)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusForbidden)
	}
}

func TestGetInvoices_JSONResponse(t *testing.T) {
	svc := &stubService{
		invoices: []model.Invoice{
			{ID: 1, Number: "INV-001", PlanName: "Professional", Amount: 1499, Currency: model.CurrencyINR, Status: model.InvoiceStatusPaid, CreatedAt: time.Now()},
		},
	}
	h := newTestHandler(t, svc)
	r := h.SetupRouter()

	req := authRequest(t, h, http.MethodGet, "/api/billing/invoices", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type = %q, want application/json", ct)
	}
}

func TestDownloadInvoice_PDFHeaders(t *testing.T) {
	svc := &stubService{
		pdfInvoice: model.Invoice{ID: 3, Number: "INV-003"},
		pdfData:    []byte("%PDF-1.4 test"),
	}
	h := newTestHandler(t, svc)
	r := h.SetupRouter()

	req := authRequest(t, h, http.MethodGet, "/api/billing/invoices/3/download", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	if ct := res.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content-type = %q, want application/pdf", ct)
	}
	if cd := res.Header.Get("Content-Disposition"); cd != `attachment; filename="INV-003.pdf"` {
		t.Fatalf("content-disposition = %q", cd)
	}
}

func TestDownloadInvoice_NotFound(t *testing.T) {
	svc := &stubService{pdfErr: repository.ErrInvoiceNotFound}
	h := newTestHandler(t, svc)
	r := h.SetupRouter()

	req := authRequest(t, h, http.MethodGet, "/api/billing/invoices/99/download", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusNotFound)
	}
}

func TestCreatePage_QuotaForbidden(t *testing.T) {
	svc := &stubService{pageErr: service.ErrPageQuotaExceeded}
	h := newTestHandler(t, svc)
	r := h.SetupRouter()

	body, _ := json.Marshal(map[string]any{"name": "Contact"})
	req := authRequest(t, h, http.MethodPost, "/api/pages/", body)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusForbidden)
	}
}

func TestCreateCustomTheme_PlanForbidden(t *testing.T) {
	svc := &stubService{themeErr: service.ErrCustomThemesNotAllowed}
	h := newTestHandler(t, svc)
	r := h.SetupRouter()

	body, _ := json.Marshal(map[string]any{
		"name":   "Night",
		"type":   "dark",
		"colors": model.ThemeColors{Bg: "#000"},
	})
	req := authRequest(t, h, http.MethodPost, "/api/themes/custom", body)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusForbidden)
	}
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t, &stubService{})
	r := h.SetupRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	if rec.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Result().StatusCode, http.StatusOK)
	}
}
