package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"rental-analytics/config"
	"rental-analytics/models"
	"rental-analytics/utils"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates the HTTP server over a finished report. The report and
// the query source must not change while the server runs.
func NewServer(cfg *config.Config, logger *utils.Logger, report *models.Report, queries ListingQuerier) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CorsOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	h := NewReportHandler(report, queries, logger)

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		r.Get("/year-room-type", h.GetYearRoomType)
		r.Get("/average-price", h.GetAveragePrice)
		r.Get("/locations", h.GetLocations)
		r.Get("/room-types", h.GetRoomTypes)
		r.Get("/sampled-locations", h.GetSampledLocations)

		r.Get("/location-yearly-listings-price", h.GetLocationYearlyListingsPrice)
		r.Get("/location-yearly-reviews", h.GetLocationYearlyReviews)
		r.Get("/location-yearly-sentiment", h.GetLocationYearlySentiment)
	})

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// requestLogger writes one access log line per request.
func requestLogger(logger *utils.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.Info("[http] %s %s %d %dB %v (req %s)",
					r.Method, r.URL.RequestURI(), ww.Status(), ww.BytesWritten(),
					time.Since(start).Round(time.Microsecond), middleware.GetReqID(r.Context()))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
