package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"laborviz/internal/charts"
	"laborviz/internal/config"
	"laborviz/internal/dashboard"
	"laborviz/internal/export"
	"laborviz/internal/fetchers"
	"laborviz/internal/logger"
	"laborviz/internal/models"
	"laborviz/internal/storage"
	"laborviz/internal/view"
)

// Server represents the dashboard HTTP service
type Server struct {
	Config    *config.Config
	Data      *fetchers.DataAccess
	View      *view.Controller
	Exporter  *export.Exporter
	Dashboard *dashboard.Builder
	Exports   storage.StorageClient

	catalog *models.Catalog
	layout  charts.Layout
	log     *logger.Logger
}

// NewServer wires the view, exporter and page builder around data.
// exports may be nil, which disables storing exported charts.
func NewServer(cfg *config.Config, data *fetchers.DataAccess, exports storage.StorageClient) (*Server, error) {
	layout := charts.DefaultLayout()
	layout.Width, layout.Height = cfg.ChartWidth, cfg.ChartHeight

	controller, err := view.NewController(data, view.Options{Layout: layout, BannerTTL: cfg.BannerTTL})
	if err != nil {
		return nil, fmt.Errorf("failed to create view controller: %w", err)
	}
	exporter, err := export.NewExporter(controller, exports, cfg.ExportCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}
	catalog := models.DefaultCatalog()
	builder, err := dashboard.NewBuilder(catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard builder: %w", err)
	}

	return &Server{
		Config:    cfg,
		Data:      data,
		View:      controller,
		Exporter:  exporter,
		Dashboard: builder,
		Exports:   exports,
		catalog:   catalog,
		layout:    layout,
		log:       logger.Component("server"),
	}, nil
}

// Start prefetches every resource and draws the initial chart. Failures
// are logged and shown on the banner; the server still comes up.
func (s *Server) Start(ctx context.Context) {
	if err := s.Data.Warm(ctx); err != nil {
		s.log.Warn("Prefetch incomplete", map[string]interface{}{"error": err.Error()})
	}
	if err := s.View.Init(ctx); err != nil {
		s.log.Error("Initial render failed", err)
	}
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.HandleHealth)

	// data API
	mux.HandleFunc("GET /api/data", s.HandleData)
	mux.HandleFunc("GET /api/year-range", s.HandleYearRange)
	mux.HandleFunc("GET /api/correlation", s.HandleCorrelation)
	mux.HandleFunc("GET /api/metadata", s.HandleMetadata)
	mux.HandleFunc("GET /api/indicators", s.HandleIndicators)
	mux.HandleFunc("GET /api/timeseries", s.HandleTimeSeries)

	// dashboard view state
	mux.HandleFunc("GET /view", s.HandleViewState)
	mux.HandleFunc("POST /view/tab", s.HandleSwitchTab)
	mux.HandleFunc("POST /view/indicator", s.HandleSetIndicator)
	mux.HandleFunc("POST /view/filter", s.HandleApplyFilter)
	mux.HandleFunc("POST /view/banner/dismiss", s.HandleDismissBanner)
	mux.HandleFunc("GET /view/chart.svg", s.HandleViewChart)
	mux.HandleFunc("GET /view/chart.png", s.HandleViewChart)
	mux.HandleFunc("GET /view/hover", s.HandleHover)
	mux.HandleFunc("POST /view/leave", s.HandleLeave)
	mux.HandleFunc("GET /view/export", s.HandleExport)
	mux.HandleFunc("POST /view/export", s.HandleStoreExport)

	// stored exports
	mux.HandleFunc("GET /exports/", s.HandleExportFile)

	mux.HandleFunc("GET /charts/{file}", s.HandleChart)
	mux.HandleFunc("GET /interactive", s.HandleInteractive)
	mux.HandleFunc("GET /{$}", s.HandleRoot)

	return mux
}

// Handler returns the routes wrapped with request logging
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.SetupRoutes())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		reqLog := s.log.WithFields(map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		})
		fields := map[string]interface{}{
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}
		if rec.status >= http.StatusInternalServerError {
			reqLog.Warn("Request failed", fields)
			return
		}
		reqLog.Debug("Request served", fields)
	})
}

// Close cleans up server resources
func (s *Server) Close() error {
	s.View.Close()
	if s.Exports != nil {
		return s.Exports.Close()
	}
	return nil
}
