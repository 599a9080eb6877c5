package api

import (
	"log/slog"
	"net/http"

	"github.com/darrellg/lectern/internal/config"
	"github.com/darrellg/lectern/internal/llm"
	"github.com/darrellg/lectern/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for lectern.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	registry     *llm.Registry
	stats        *llm.Stats
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, registry *llm.Registry, stats *llm.Stats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		registry:     registry,
		stats:        stats,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.LecternAPIKey, s.log))

		r.Post("/api/lectures", s.handleCreateLecture)
		r.Get("/api/lectures/{jobID}", s.handleLectureStatus)
		r.Get("/api/lectures/{jobID}/summary", s.handleLectureSummary)
		r.Get("/api/lectures/{jobID}/quiz", s.handleLectureQuiz)

		r.Get("/api/models", s.handleListModels)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
