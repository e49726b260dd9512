/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Client routes (no DELETE: client deletion is not exposed)
		r.Route("/clients", func(r chi.Router) {
			r.Get("/", h.ListClients)
			r.Post("/", h.CreateClient)
			r.Get("/{id}", h.GetClient)
			r.Put("/{id}", h.UpdateClient)
			r.Get("/{id}/entries", h.ClientEntries)
			r.Get("/{id}/sheets/current", h.CurrentSheet)
		})

		// Sheet routes
		r.Route("/sheets", func(r chi.Router) {
			r.Get("/", h.ListSheets)
			r.Post("/", h.CreateSheet)
			r.Get("/{id}", h.GetSheet)
			r.Put("/{id}", h.UpdateSheet)
			r.Delete("/{id}", h.DeleteSheet)
			r.Get("/{id}/totals", h.SheetTotals)
		})

		// Entry routes
		r.Route("/entries", func(r chi.Router) {
			r.Get("/", h.ListEntries)
			r.Post("/", h.CreateEntry)
			r.Get("/orphaned", h.OrphanedEntries)
			r.Get("/{id}", h.GetEntry)
			r.Put("/{id}", h.UpdateEntry)
			r.Delete("/{id}", h.DeleteEntry)
		})

		// Settings routes
		r.Route("/settings", func(r chi.Router) {
			r.Get("/sync", h.GetSyncSettings)
			r.Put("/sync", h.UpdateSyncSettings)
		})

		// Snapshot exchange routes
		r.Get("/export", h.ExportDocument)
		r.Post("/import", h.ImportDocument)
		r.Route("/sync", func(r chi.Router) {
			r.Post("/pull", h.SyncPull)
			r.Post("/push", h.SyncPush)
		})
	})

	// The frontend is a separate artifact; the root just points at the API.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Timesheet Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Timesheet Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/clients">/api/clients</a> - List clients</li>
<li><a href="/api/sheets">/api/sheets</a> - List sheets</li>
<li><a href="/api/entries">/api/entries</a> - List entries</li>
<li><a href="/api/export">/api/export</a> - Export snapshot</li>
</ul>
</body>
</html>`))
	})

	return r
}
