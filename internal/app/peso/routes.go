package peso

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация OpenAPI-описания для /docs.
	_ "github.com/magabrotheeeer/peso/docs"
	"github.com/magabrotheeeer/peso/internal/config"
	"github.com/magabrotheeeer/peso/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/peso/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/peso/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/peso/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/peso/internal/http/handlers/client/clientcreate"
	"github.com/magabrotheeeer/peso/internal/http/handlers/client/clientget"
	"github.com/magabrotheeeer/peso/internal/http/handlers/client/clientremove"
	"github.com/magabrotheeeer/peso/internal/http/handlers/client/clientupdate"
	"github.com/magabrotheeeer/peso/internal/http/handlers/dashboard"
	"github.com/magabrotheeeer/peso/internal/http/handlers/health"
	"github.com/magabrotheeeer/peso/internal/http/handlers/invoice/invoicecreate"
	"github.com/magabrotheeeer/peso/internal/http/handlers/invoice/invoiceget"
	"github.com/magabrotheeeer/peso/internal/http/handlers/invoice/invoiceremove"
	"github.com/magabrotheeeer/peso/internal/http/handlers/invoice/invoiceupdate"
	"github.com/magabrotheeeer/peso/internal/http/handlers/payment/paymentcreate"
	"github.com/magabrotheeeer/peso/internal/http/handlers/payment/paymentlist"
	"github.com/magabrotheeeer/peso/internal/http/handlers/payment/paymentremove"
	"github.com/magabrotheeeer/peso/internal/http/middlewarectx"
	"github.com/magabrotheeeer/peso/internal/http/response"
	"github.com/magabrotheeeer/peso/internal/lib/cookie"
	"github.com/magabrotheeeer/peso/internal/lib/metrics"
	authservice "github.com/magabrotheeeer/peso/internal/services/auth"
	clientservice "github.com/magabrotheeeer/peso/internal/services/client"
	dashboardservice "github.com/magabrotheeeer/peso/internal/services/dashboard"
	invoiceservice "github.com/magabrotheeeer/peso/internal/services/invoice"
	paymentservice "github.com/magabrotheeeer/peso/internal/services/payment"
)

// Deps всё, что нужно маршрутам приложения.
type Deps struct {
	Log       *slog.Logger
	DB        health.Pinger
	Jar       *cookie.Jar
	Metrics   *metrics.Metrics
	RateLimit config.RateLimit

	Auth      *authservice.AuthService
	Clients   *clientservice.ClientService
	Invoices  *invoiceservice.InvoiceService
	Payments  *paymentservice.PaymentService
	Dashboard *dashboardservice.DashboardService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, d Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.MetricsMiddleware(d.Metrics),
	)

	r.Get("/health", health.New(d.Log, d.DB).ServeHTTP)
	r.Handle("/metrics", d.Metrics.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RateLimitMiddleware(d.Log, d.RateLimit.RPS, d.RateLimit.Burst))
			r.Post("/auth/register", register.New(d.Log, d.Auth, d.Jar).ServeHTTP)
			r.Post("/auth/login", login.New(d.Log, d.Auth, d.Jar).ServeHTTP)
		})
		r.Post("/auth/logout", logout.New(d.Log, d.Auth, d.Jar).ServeHTTP)

		// Группа с сессией из cookie
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(d.Auth, d.Jar, d.Log))

			r.Get("/auth/me", me.New(d.Log).ServeHTTP)

			r.Get("/clients", clientget.New(d.Log, d.Clients).ServeHTTP)
			r.Post("/clients", clientcreate.New(d.Log, d.Clients).ServeHTTP)
			r.Put("/clients", clientupdate.New(d.Log, d.Clients).ServeHTTP)
			r.Delete("/clients", clientremove.New(d.Log, d.Clients).ServeHTTP)

			r.Get("/invoices", invoiceget.New(d.Log, d.Invoices).ServeHTTP)
			r.Post("/invoices", invoicecreate.New(d.Log, d.Invoices).ServeHTTP)
			r.Put("/invoices", invoiceupdate.New(d.Log, d.Invoices).ServeHTTP)
			r.Delete("/invoices", invoiceremove.New(d.Log, d.Invoices).ServeHTTP)

			r.Get("/payments", paymentlist.New(d.Log, d.Payments).ServeHTTP)
			r.Post("/payments", paymentcreate.New(d.Log, d.Payments).ServeHTTP)
			r.Delete("/payments", paymentremove.New(d.Log, d.Payments).ServeHTTP)

			r.Get("/dashboard", dashboard.New(d.Log, d.Dashboard).ServeHTTP)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Fail(w, r, http.StatusNotFound, "not found")
	})
}
