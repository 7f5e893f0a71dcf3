package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mithilai/Customer-Call-Analyzer/internal/config"
	"github.com/mithilai/Customer-Call-Analyzer/pkg/logger"
)

// Router is the API router
type Router struct {
	handler    *Handler
	middleware *Middleware
	config     *config.Config
	logger     *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(analyzer Analyzer, reports ReportStore, config *config.Config, logger *logger.Logger) *Router {
	return &Router{
		handler:    NewHandler(analyzer, reports, logger),
		middleware: NewMiddleware(logger),
		config:     config,
		logger:     logger.Named("api-router"),
	}
}

// Routes returns the API routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)
	router.Use(r.middleware.CORS(r.config.Server.CORSAllowedOrigins))

	// API routes
	router.Route("/api/v1", func(router chi.Router) {
		// Analysis route (write path)
		router.Post("/calls", r.handler.AnalyzeCall)

		// Report routes (read path + maintenance)
		router.Get("/reports", r.handler.ListReports)
		router.Get("/reports/export", r.handler.ExportReports)
		router.Delete("/reports", r.handler.ClearReports)

		// Health check
		router.Get("/health", r.handler.GetHealth)
	})

	return router
}
