package router

import (
	"net/http"
	"time"

	"github.com/Abdurahmanit/estate-marketplace/internal/adapter/http/handler"
	"github.com/Abdurahmanit/estate-marketplace/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/estate-marketplace/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Options struct {
	JWTSecret      string
	CORSOrigins    []string
	RequestTimeout time.Duration
	// Metrics is optional.
	Metrics middleware.HTTPMetrics
}

// New wires the listing routes and the shared middleware stack.
func New(h *handler.ListingHandler, opts Options, log *logger.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if opts.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(opts.RequestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	SetupListingRoutes(r, h, opts.JWTSecret, log)
	SetupUserRoutes(r, h, opts.JWTSecret, log)
	return r
}

// SetupListingRoutes registers /api/listing. Reads are public, writes need a token.
func SetupListingRoutes(mux chi.Router, h *handler.ListingHandler, jwtSecret string, log *logger.Logger) {
	mux.Route("/api/listing", func(r chi.Router) {
		r.Get("/get/{id}", h.HandleGetListing)
		r.Get("/get", h.HandleGetListings)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(jwtSecret, log))
			r.Post("/create", h.HandleCreateListing)
			r.Post("/update/{id}", h.HandleUpdateListing)
			r.Delete("/delete/{id}", h.HandleDeleteListing)
			r.Post("/images", h.HandleUploadImages)
		})
	})
}

// SetupUserRoutes registers the user facing lookups. All of them need a token.
func SetupUserRoutes(mux chi.Router, h *handler.ListingHandler, jwtSecret string, log *logger.Logger) {
	mux.Route("/api/user", func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtSecret, log))
		r.Get("/listings/{id}", h.HandleGetUserListings)
		r.Get("/{id}", h.HandleGetUser)
	})
}
