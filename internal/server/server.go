package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"trendpulse/internal/config"
	"trendpulse/internal/server/handlers"
	"trendpulse/internal/service/ingestion"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	pipelineCfg config.PipelineConfig,
	processor handlers.TrendProcessor,
	coordinator *ingestion.Coordinator,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	trendHandler := handlers.NewTrendHandler(processor, pipelineCfg.ReportLimit)
	sourceHandler := handlers.NewSourceHandler(coordinator, pipelineCfg.ItemsPerSource)
	statusHandler := handlers.NewStatusHandler(coordinator.Sources())

	// Routes
	router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"Fashion Trending API","main_endpoint":"/trends","description":"Use GET /trends?limit=10&region=US to get fashion trends"}`))
	})

	router.Get("/trends", trendHandler.GetTrends)
	router.Get("/health", statusHandler.GetHealth)
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/status", statusHandler.GetStatus)
		r.Get("/trending/all", sourceHandler.GetAllTrending)

		r.Route("/fashion", func(r chi.Router) {
			r.Get("/all", sourceHandler.GetAllFashion)

			r.Route("/trends", func(r chi.Router) {
				r.Get("/processed", trendHandler.GetProcessedTrends)
				r.Get("/summary", trendHandler.GetTrendSummary)
			})

			r.Get("/{platform}", sourceHandler.GetPlatform)
		})
	})

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
