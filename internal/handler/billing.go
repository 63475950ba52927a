package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/styloxstar/prosite-backend/internal/middleware"
	"github.com/styloxstar/prosite-backend/internal/model"
	"github.com/styloxstar/prosite-backend/internal/plan"
)

// BillingOverview возвращает текущий тариф пользователя и каталог планов.
func (h *Handler) BillingOverview(w http.ResponseWriter, r *http.Request) {
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
		"currentPlan": user.Plan,
		"plans":       plan.All(),
		"payment":     user.Payment,
	})
}

type createOrderRequest struct {
	PlanID   model.PlanID   `json:"planId"`
	Currency model.Currency `json:"currency"`
}

// CreateOrder создаёт платёжный ордер и возвращает платёжную ссылку.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.service.CreateOrder(r.Context(), userID, req.PlanID, req.Currency)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"orderId":     res.Order.ID,
		"amount":      res.Order.Amount,
		"currency":    res.Order.Currency,
		"planName":    res.PlanName,
		"paymentLink": res.PaymentLink,
		"payeeId":     res.PayeeID,
	})
}

type confirmPaymentRequest struct {
	OrderID        string `json:"orderId"`
	TransactionRef string `json:"transactionRef"`
}

// ConfirmPayment подтверждает оплату ордера и активирует тариф.
func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req confirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.OrderID == "" {
		writeError(w, http.StatusBadRequest, "orderId is required")
		return
	}

	res, err := h.service.ConfirmPayment(r.Context(), userID, req.OrderID, req.TransactionRef)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := map[string]any{
		"message":       fmt.Sprintf("Successfully upgraded to %s plan", res.User.Plan.ID),
		"user":          newUserResponse(res.User),
		"invoiceId":     nil,
		"invoiceNumber": nil,
	}
	if res.Invoice != nil {
		resp["invoiceId"] = res.Invoice.ID
		resp["invoiceNumber"] = res.Invoice.Number
	}

	writeJSON(w, http.StatusOK, resp)
}

// OrderStatus возвращает статус ордера текущего пользователя.
func (h *Handler) OrderStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	o, err := h.service.OrderStatus(userID, chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": o.Status,
		"planId": o.PlanID,
	})
}

type invoiceResponse struct {
	ID            int64  `json:"id"`
	InvoiceNumber string `json:"invoiceNumber"`
	PlanName      string `json:"planName"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
}

// GetInvoices возвращает последние счета текущего пользователя.
func (h *Handler) GetInvoices(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	invoices, err := h.service.GetInvoices(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	resp := make([]invoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		resp = append(resp, invoiceResponse{
			ID:            inv.ID,
			InvoiceNumber: inv.Number,
			PlanName:      inv.PlanName,
			Amount:        inv.Amount,
			Currency:      string(inv.Currency),
			Status:        string(inv.Status),
			CreatedAt:     inv.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"invoices": resp})
}

// DownloadInvoice отдаёт PDF-версию счёта текущего пользователя.
func (h *Handler) DownloadInvoice(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var invoiceID int64
	if _, err := fmt.Sscanf(chi.URLParam(r, "invoiceID"), "%d", &invoiceID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid invoice id")
		return
	}

	inv, data, err := h.service.InvoicePDF(r.Context(), userID, invoiceID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", inv.Number+".pdf"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("write invoice pdf", zap.Error(err), zap.Int64("invoiceID", invoiceID))
	}
}

type upgradeRequest struct {
	PlanID    model.PlanID `json:"planId"`
	CardLast4 string       `json:"cardLast4"`
	CardBrand string       `json:"cardBrand"`
}

// LegacyUpgrade меняет тариф напрямую, минуя ордера и счета. Оставлено для
// обратной совместимости со старым клиентом.
func (h *Handler) LegacyUpgrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req upgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.LegacyUpgrade(r.Context(), userID, req.PlanID, req.CardLast4, req.CardBrand)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": fmt.Sprintf("Successfully upgraded to %s plan", req.PlanID),
		"user":    newUserResponse(user),
	})
}
