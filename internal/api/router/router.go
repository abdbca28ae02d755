package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/tirechange-hub/internal/availability"
	"github.com/wolfman30/tirechange-hub/internal/booking"
	"github.com/wolfman30/tirechange-hub/internal/catalog"
	httpmiddleware "github.com/wolfman30/tirechange-hub/internal/http/middleware"
	"github.com/wolfman30/tirechange-hub/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	Catalog             *catalog.Catalog
	AvailabilityHandler *availability.Handler
	BookingHandler      *booking.Handler
	LocationsHandler    *catalog.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
	RateLimitRPS        float64
	RateLimitBurst      int
	TrustProxyHeaders   bool
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthHandler(cfg.Catalog))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		api.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		if cfg.AvailabilityHandler != nil {
			api.Get("/times", cfg.AvailabilityHandler.ListTimes)
		}
		if cfg.BookingHandler != nil {
			api.Post("/book", cfg.BookingHandler.Book)
		}
		if cfg.LocationsHandler != nil {
			api.Get("/locations", cfg.LocationsHandler.ListLocations)
		}
	})

	return r
}

func healthHandler(c *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"vendors": c.Len(),
		})
	}
}
