package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"carteira/pkg/carteira"
)

// Options configures the API router.
type Options struct {
	Core         *carteira.Core
	Logger       *slog.Logger
	GeminiAPIKey string
}

// NewRouter builds the HTTP API router.
func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLoggingMiddleware(opts.Logger))
	r.Use(recoveryLoggingMiddleware(opts.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	h := &handler{core: opts.Core, geminiAPIKey: opts.GeminiAPIKey}

	r.Get("/api/health", h.health)

	// Record CRUD
	r.Get("/api/purchases", h.getPurchases)
	r.Post("/api/purchases", h.addPurchase)
	r.Put("/api/purchases/{id}", h.updatePurchase)
	r.Delete("/api/purchases/{id}", h.deletePurchase)

	r.Get("/api/sales", h.getSales)
	r.Post("/api/sales", h.addSale)
	r.Put("/api/sales/{id}", h.updateSale)
	r.Delete("/api/sales/{id}", h.deleteSale)

	r.Get("/api/earnings", h.getEarnings)
	r.Post("/api/earnings", h.addEarnings)
	r.Put("/api/earnings/{id}", h.updateEarnings)
	r.Delete("/api/earnings/{id}", h.deleteEarnings)

	r.Get("/api/derivatives", h.getDerivatives)
	r.Post("/api/derivatives", h.addDerivative)
	r.Put("/api/derivatives/{id}", h.updateDerivative)
	r.Delete("/api/derivatives/{id}", h.deleteDerivative)

	r.Get("/api/reference-prices", h.getReferencePrices)
	r.Post("/api/reference-prices", h.setReferencePrice)
	r.Delete("/api/reference-prices/{id}", h.deleteReferencePrice)

	// Derived views
	r.Get("/api/positions", h.getPositions)
	r.Get("/api/closed-positions", h.getClosedPositions)
	r.Get("/api/summary", h.getSummary)
	r.Get("/api/allocation", h.getAllocation)

	// Portfolio insight
	r.Get("/api/ai-settings", h.getAISettings)
	r.Put("/api/ai-settings", h.setAISettings)
	r.Post("/api/insight", h.generateInsight)

	return r
}

type handler struct {
	core         *carteira.Core
	geminiAPIKey string
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
