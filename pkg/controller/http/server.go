package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/conformity/pkg/usecase"
	"github.com/secmon-lab/conformity/pkg/utils/errutil"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	now    func() time.Time
}

type Options func(*Server)

// WithClock overrides the clock used by the health endpoint
func WithClock(now func() time.Time) Options {
	return func(s *Server) {
		s.now = now
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.health)

		r.Route("/assessments", func(r chi.Router) {
			r.Get("/", s.listAssessments)
			r.Post("/", s.createAssessment)
			r.Get("/framework/{frameworkType}", s.listAssessmentsByFramework)
			r.Get("/{id}", s.getAssessment)
			r.Put("/{id}", s.updateAssessment)
			r.Get("/{id}/evaluation", s.evaluateAssessment)
			r.Get("/{id}/report", s.assessmentReport)
		})

		r.Route("/frameworks", func(r chi.Router) {
			r.Get("/", s.listFrameworks)
			r.Get("/{name}", s.getFramework)
			r.Post("/{name}/score", s.scoreFramework)
		})

		r.Route("/action-items", func(r chi.Router) {
			r.Get("/", s.listActionItems)
			r.Post("/", s.createActionItem)
			r.Get("/assessment/{assessmentId}", s.listActionItemsByAssessment)
			r.Get("/framework/{frameworkType}", s.listActionItemsByFramework)
			r.Get("/{id}", s.getActionItem)
			r.Put("/{id}", s.updateActionItem)
		})

		r.Get("/dashboard", s.dashboard)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	errutil.WriteJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": s.now().UTC().Format(time.RFC3339Nano),
	})
}
