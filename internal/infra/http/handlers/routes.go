package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/clinica-console/internal/infra/queue"
	"github.com/xavierca1/clinica-console/internal/workspace"
)

type Dependencies struct {
	Manager      *workspace.Manager
	Publisher    queue.ReceiptPublisher
	Health       *HealthHandler
	SecureCookie bool
	Logger       *zap.Logger
}

// RegisterRoutes monta a API do console no router.
func RegisterRoutes(r chi.Router, deps Dependencies) {
	sessions := NewSessionMiddleware(deps.Manager, deps.SecureCookie, deps.Logger)
	authHandler := NewAuthHandler(deps.Manager, sessions, NewRateLimiter(10, time.Minute)) // 10 tentativas/min por IP
	clientHandler := NewClientHandler()
	paymentHandler := NewPaymentHandler()
	documentHandler := NewDocumentHandler(deps.Publisher, deps.Logger)

	if deps.Health != nil {
		r.Get("/health", deps.Health.Handle)
	}

	r.Group(func(r chi.Router) {
		r.Use(sessions.Attach)

		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/auth/session", authHandler.Current)
		r.Get("/notifications", Notifications)

		r.Group(func(r chi.Router) {
			r.Use(RequireLogin)

			r.Get("/clients", clientHandler.List)
			r.Post("/clients", clientHandler.Create)
			r.Post("/clients/refresh", clientHandler.Refresh)
			r.Get("/clients/{cpf}", clientHandler.Get)
			r.Put("/clients/{cpf}", clientHandler.Update)
			r.Delete("/clients/{cpf}", clientHandler.Delete)

			r.Get("/clients/{cpf}/payments", paymentHandler.List)
			r.Post("/clients/{cpf}/payments", paymentHandler.Create)
			r.Put("/clients/{cpf}/payments/{id}", paymentHandler.Update)
			r.Delete("/clients/{cpf}/payments/{id}", paymentHandler.Delete)

			r.Get("/clients/{cpf}/receipt", documentHandler.Receipt)
			r.Post("/clients/{cpf}/receipt/email", documentHandler.EmailReceipt)
			r.Get("/reports", documentHandler.Report)
		})
	})
}
