package server

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/diewo77/invoice-umkm/internal/handlers"
	"github.com/diewo77/invoice-umkm/internal/httpx"
	"github.com/diewo77/invoice-umkm/internal/services"
)

// New constructs the root http.Handler with all routes applied.
// Cross-cutting middleware (logging, metrics, rate limiting) wraps this in
// cmd/server.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	usageSvc := services.NewUsageService(db)
	invSvc := services.NewInvoiceService(db, usageSvc)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.OK(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// Readiness includes a database round trip.
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.Fail(w, http.StatusServiceUnavailable, "degraded")
			return
		}
		httpx.OK(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Invoice endpoints
	ih := handlers.NewInvoiceHandler(invSvc)
	mux.HandleFunc("/invoices", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ih.List(w, r)
		case http.MethodPost:
			ih.Create(w, r)
		default:
			methodNotAllowed(w, "GET,POST")
		}
	})
	mux.HandleFunc("/invoices/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/invoices/")
		if id == "" || strings.Contains(id, "/") {
			httpx.Fail(w, http.StatusNotFound, "invoice not found")
			return
		}
		switch r.Method {
		case http.MethodGet:
			ih.Get(w, r, id)
		case http.MethodPut:
			ih.Update(w, r, id)
		case http.MethodDelete:
			ih.Delete(w, r, id)
		default:
			methodNotAllowed(w, "GET,PUT,DELETE")
		}
	})

	// Usage & plan endpoints
	uh := handlers.NewUsageHandler(usageSvc)
	mux.HandleFunc("/usage", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, "GET")
			return
		}
		uh.Usage(w, r)
	})
	mux.HandleFunc("/upgrade", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, "POST")
			return
		}
		uh.Upgrade(w, r)
	})

	// User endpoints
	userH := handlers.NewUserHandler(db, usageSvc)
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			userH.GetByEmail(w, r)
		case http.MethodPost:
			userH.Create(w, r)
		default:
			methodNotAllowed(w, "GET,POST")
		}
	})
	mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/users/")
		if id == "" || strings.Contains(id, "/") {
			httpx.Fail(w, http.StatusNotFound, "user not found")
			return
		}
		switch r.Method {
		case http.MethodGet:
			userH.Get(w, r, id)
		case http.MethodDelete:
			userH.Delete(w, r, id)
		default:
			methodNotAllowed(w, "GET,DELETE")
		}
	})

	// Invoice document rendering
	pdfH := handlers.NewPDFHandler(invSvc)
	mux.HandleFunc("/pdf/generate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, "POST")
			return
		}
		pdfH.Generate(w, r)
	})

	return mux
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	httpx.Fail(w, http.StatusMethodNotAllowed, "method not allowed")
}
