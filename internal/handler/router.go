package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/styloxstar/prosite-backend/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware сервиса prosite.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Get("/api/health", h.Health)

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware.Middleware)
			r.Get("/me", h.Me)
		})
	})

	r.Route("/api/billing", func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)

		r.Get("/", h.BillingOverview)
		r.Post("/create-order", h.CreateOrder)
		r.Post("/confirm-payment", h.ConfirmPayment)
		r.Get("/order-status/{orderID}", h.OrderStatus)
		r.Get("/invoices", h.GetInvoices)
		r.Get("/invoices/{invoiceID}/download", h.DownloadInvoice)
		r.Post("/upgrade", h.LegacyUpgrade)
	})

	r.Route("/api/pages", func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)

		r.Get("/", h.GetPages)
		r.Post("/", h.CreatePage)
		r.Put("/{pageID}", h.UpdatePage)
		r.Delete("/{pageID}", h.DeletePage)
		r.Put("/{pageID}/reorder", h.ReorderPage)
	})

	r.Route("/api/content", func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)

		r.Get("/{pageID}", h.GetPageContents)
		r.Put("/{pageID}/{componentID}", h.SaveComponentContent)
	})

	r.Route("/api/themes", func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)

		r.Get("/", h.GetThemes)
		r.Post("/custom", h.CreateCustomTheme)
		r.Put("/custom/{themeID}", h.UpdateCustomTheme)
		r.Delete("/custom/{themeID}", h.DeleteCustomTheme)
	})

	r.Route("/api/settings", func(r chi.Router) {
		r.Use(h.authMiddleware.Middleware)

		r.Get("/", h.GetSettings)
		r.Put("/", h.UpdateSettings)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	})

	return r
}
