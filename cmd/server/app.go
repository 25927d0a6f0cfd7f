package main

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/diewo77/go-curtains/auth"
	"github.com/diewo77/go-curtains/gate"
	"github.com/diewo77/go-curtains/httpx"
	"github.com/diewo77/go-curtains/internal/config"
	"github.com/diewo77/go-curtains/internal/db"
	"github.com/diewo77/go-curtains/internal/handlers"
	"github.com/diewo77/go-curtains/internal/metrics"
	"github.com/diewo77/go-curtains/internal/middleware"
	"github.com/diewo77/go-curtains/internal/policy"
	"github.com/diewo77/go-curtains/internal/services"
	"github.com/diewo77/go-curtains/view"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	handler http.Handler
	db      *gorm.DB
	gate    *policy.AccessGate
	gather  prometheus.Gatherer

	auth       *handlers.AuthHandler
	dashboard  *handlers.DashboardHandler
	customers  *handlers.CustomerHandler
	quotations *handlers.QuotationHandler
	jobs       *handlers.JobHandler
	referrers  *handlers.ReferrerHandler
	documents  *handlers.DocumentHandler
	employees  *handlers.EmployeeHandler
}

// NewApp wires services, handlers and middleware. m and gather may share a
// registry; gather serves /metrics.
func NewApp(conn *gorm.DB, cfg *config.Config, logger *logrus.Logger, m *metrics.Metrics, gather prometheus.Gatherer) *App {
	ag := policy.NewAccessGate(conn, gate.DefaultTable(), cfg.App.RoleCacheTTL, m)
	ag.SetDeniedHandler(func(w http.ResponseWriter, r *http.Request, status int) {
		code := "access_denied"
		if status >= http.StatusInternalServerError {
			code = "generic_failure"
		}
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, status, code, nil)
			return
		}
		handlers.RenderError(w, r, status, code)
	})

	customerSvc := services.NewCustomerService(conn)
	referrerSvc := services.NewReferrerService(conn)
	employeeSvc := services.NewEmployeeService(conn, ag.InvalidateUser)

	auth.SetUserVerifier(employeeSvc.IsActive)

	// Templates resolve links and the role badge through the gate so the
	// view package stays free of policy types.
	view.SetDev(cfg.App.Dev)
	view.SetAccessChecker(func(r *http.Request, route string) bool {
		return ag.CanAccess(r.Context(), route)
	})
	view.SetRoleResolver(func(r *http.Request) string {
		if role := gate.RoleFromContext(r.Context()); role != gate.RoleNone {
			return role.String()
		}
		role, err := ag.Role(r.Context())
		if err != nil {
			return ""
		}
		return role.String()
	})

	app := &App{
		mux:        http.NewServeMux(),
		db:         conn,
		gate:       ag,
		gather:     gather,
		auth:       handlers.NewAuthHandler(employeeSvc),
		dashboard:  handlers.NewDashboardHandler(services.NewDashboardService(conn)),
		customers:  handlers.NewCustomerHandler(customerSvc, referrerSvc),
		quotations: handlers.NewQuotationHandler(services.NewQuotationService(conn, m), customerSvc),
		jobs:       handlers.NewJobHandler(services.NewJobService(conn), customerSvc, employeeSvc),
		referrers:  handlers.NewReferrerHandler(referrerSvc),
		documents:  handlers.NewDocumentHandler(services.NewAccountingService(conn), customerSvc),
		employees:  handlers.NewEmployeeHandler(employeeSvc),
	}
	app.setupRoutes()

	var h http.Handler = app.mux
	h = middleware.Prefs(cfg.App.DefaultLang)(h)
	h = auth.Middleware(h)
	h = middleware.Recover(h)
	h = middleware.RequestLogger(logger, m)(h)
	app.handler = h
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// protect requires a live session and a role allowed on the request path.
func (a *App) protect(h http.HandlerFunc) http.Handler {
	return auth.RequireAuth(a.gate.RequireRoute()(h))
}

func redirectTo(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	m := a.mux

	// ─────────────────────────────────────────────────────────────────────────
	// Public routes
	// ─────────────────────────────────────────────────────────────────────────
	m.HandleFunc("GET /{$}", a.landingPage)
	m.HandleFunc("GET /login", a.auth.Login)
	m.HandleFunc("POST /login", a.auth.Login)
	m.HandleFunc("POST /logout", a.auth.Logout)
	m.HandleFunc("GET /healthz", a.healthz)
	m.Handle("GET /metrics", promhttp.HandlerFor(a.gather, promhttp.HandlerOpts{}))
	m.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Section roots land on their first page.
	m.HandleFunc("GET /projects", redirectTo("/projects/quotations"))
	m.HandleFunc("GET /marketing", redirectTo("/marketing/referrers"))
	m.HandleFunc("GET /accounting", redirectTo("/accounting/documents"))
	m.HandleFunc("GET /settings", redirectTo("/settings/employees"))

	// ─────────────────────────────────────────────────────────────────────────
	// Gated routes: session + role allowed on the path prefix
	// ─────────────────────────────────────────────────────────────────────────
	m.Handle("GET /dashboard", a.protect(a.dashboard.Show))

	// Customers
	ch := a.customers
	m.Handle("GET /customers", a.protect(ch.List))
	m.Handle("GET /customers/new", a.protect(ch.New))
	m.Handle("POST /customers", a.protect(ch.Create))
	m.Handle("GET /customers/{id}", a.protect(ch.View))
	m.Handle("GET /customers/{id}/edit", a.protect(ch.Edit))
	m.Handle("POST /customers/{id}", a.protect(ch.Update))
	m.Handle("PUT /customers/{id}", a.protect(ch.Update))
	m.Handle("POST /customers/{id}/delete", a.protect(ch.Delete))
	m.Handle("DELETE /customers/{id}", a.protect(ch.Delete))

	// Quotations and their items
	qh := a.quotations
	m.Handle("GET /projects/quotations", a.protect(qh.List))
	m.Handle("GET /projects/quotations/new", a.protect(qh.New))
	m.Handle("POST /projects/quotations", a.protect(qh.Create))
	m.Handle("GET /projects/quotations/{id}", a.protect(qh.View))
	m.Handle("GET /projects/quotations/{id}/edit", a.protect(qh.Edit))
	m.Handle("POST /projects/quotations/{id}", a.protect(qh.Update))
	m.Handle("PUT /projects/quotations/{id}", a.protect(qh.Update))
	m.Handle("POST /projects/quotations/{id}/delete", a.protect(qh.Delete))
	m.Handle("DELETE /projects/quotations/{id}", a.protect(qh.Delete))
	m.Handle("POST /projects/quotations/{id}/status", a.protect(qh.SetStatus))
	m.Handle("POST /projects/quotations/{id}/recalculate", a.protect(qh.Recalculate))
	m.Handle("POST /projects/quotations/{id}/items", a.protect(qh.AddItem))
	m.Handle("POST /projects/quotations/{id}/items/{itemID}/delete", a.protect(qh.RemoveItem))
	m.Handle("DELETE /projects/quotations/{id}/items/{itemID}", a.protect(qh.RemoveItem))

	// Installation jobs
	jh := a.jobs
	m.Handle("GET /projects/jobs", a.protect(jh.List))
	m.Handle("GET /projects/jobs/new", a.protect(jh.New))
	m.Handle("POST /projects/jobs", a.protect(jh.Create))
	m.Handle("GET /projects/jobs/{id}", a.protect(jh.View))
	m.Handle("GET /projects/jobs/{id}/edit", a.protect(jh.Edit))
	m.Handle("POST /projects/jobs/{id}", a.protect(jh.Update))
	m.Handle("PUT /projects/jobs/{id}", a.protect(jh.Update))
	m.Handle("POST /projects/jobs/{id}/delete", a.protect(jh.Delete))
	m.Handle("DELETE /projects/jobs/{id}", a.protect(jh.Delete))
	m.Handle("POST /projects/jobs/{id}/status", a.protect(jh.SetStatus))
	m.Handle("POST /projects/jobs/{id}/advance", a.protect(jh.Advance))
	m.Handle("POST /projects/jobs/{id}/cancel", a.protect(jh.Cancel))

	// Referrers
	rh := a.referrers
	m.Handle("GET /marketing/referrers", a.protect(rh.List))
	m.Handle("GET /marketing/referrers/new", a.protect(rh.New))
	m.Handle("POST /marketing/referrers", a.protect(rh.Create))
	m.Handle("GET /marketing/referrers/{id}", a.protect(rh.View))
	m.Handle("GET /marketing/referrers/{id}/edit", a.protect(rh.Edit))
	m.Handle("POST /marketing/referrers/{id}", a.protect(rh.Update))
	m.Handle("PUT /marketing/referrers/{id}", a.protect(rh.Update))
	m.Handle("POST /marketing/referrers/{id}/delete", a.protect(rh.Delete))
	m.Handle("DELETE /marketing/referrers/{id}", a.protect(rh.Delete))

	// Accounting documents
	dh := a.documents
	m.Handle("GET /accounting/documents", a.protect(dh.List))
	m.Handle("GET /accounting/documents/new", a.protect(dh.New))
	m.Handle("POST /accounting/documents", a.protect(dh.Create))
	m.Handle("GET /accounting/documents/{id}", a.protect(dh.View))
	m.Handle("POST /accounting/documents/{id}", a.protect(dh.Update))
	m.Handle("PUT /accounting/documents/{id}", a.protect(dh.Update))
	m.Handle("POST /accounting/documents/{id}/delete", a.protect(dh.Delete))
	m.Handle("DELETE /accounting/documents/{id}", a.protect(dh.Delete))
	m.Handle("POST /accounting/documents/{id}/status", a.protect(dh.SetStatus))

	// Employees (admin only through the table)
	eh := a.employees
	m.Handle("GET /settings/employees", a.protect(eh.List))
	m.Handle("GET /settings/employees/new", a.protect(eh.New))
	m.Handle("POST /settings/employees", a.protect(eh.Create))
	m.Handle("POST /settings/employees/{id}/role", a.protect(eh.SetRole))
	m.Handle("POST /settings/employees/{id}/active", a.protect(eh.SetActive))
}

func (a *App) landingPage(w http.ResponseWriter, r *http.Request) {
	if err := view.Render(w, r, "index.html", nil); err != nil {
		handlers.RenderError(w, r, http.StatusInternalServerError, "generic_failure")
	}
}

func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := db.Ping(ctx, a.db); err != nil {
		httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
