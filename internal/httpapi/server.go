package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"fixflow/internal/domain/maintenance"
	"fixflow/internal/usecase/feedback"
	"fixflow/internal/usecase/incident"
	"fixflow/internal/usecase/job"
	"fixflow/internal/usecase/matcher"
	"fixflow/internal/usecase/trust"
)

// Server exposes the engine's public operation surface over HTTP. Calling
// layers (chat agent, dashboards, notification dispatch) are expected to
// pass actor identity explicitly in each mutating request; the engine keeps
// no session state.
type Server struct {
	Incidents *incident.Service
	Jobs      *job.Service
	Feedback  *feedback.Service
	Trust     *trust.Service
	Matcher   *matcher.Service
}

func NewServer(incidents *incident.Service, jobs *job.Service, fb *feedback.Service, tr *trust.Service, m *matcher.Service) *Server {
	return &Server{
		Incidents: incidents,
		Jobs:      jobs,
		Feedback:  fb,
		Trust:     tr,
		Matcher:   m,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/incidents", s.handleCreateIncident)
		r.Get("/incidents", s.handleListIncidents)
		r.Get("/incidents/{id}", s.handleGetIncident)

		r.Post("/jobs", s.handleCreateJob)
		r.Get("/jobs/{id}", s.handleGetJob)
		r.Get("/jobs/{id}/status", s.handleGetJobStatus)
		r.Post("/jobs/{id}/assign", s.handleAssignJob)
		r.Post("/jobs/{id}/accept", s.handleAcceptJob)
		r.Post("/jobs/{id}/reject", s.handleRejectJob)
		r.Post("/jobs/{id}/schedule", s.handleProposeSchedule)
		r.Post("/jobs/{id}/complete", s.handleCompleteJob)

		r.Get("/contractors/{id}/jobs", s.handleContractorJobs)
		r.Get("/contractors/{id}/scorecard", s.handleContractorScorecard)

		r.Post("/feedback", s.handleSubmitFeedback)
		r.Get("/feedback", s.handleListFeedback)

		r.Get("/trust-scores", s.handleTrustScores)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps the engine's error taxonomy onto HTTP status codes.
func writeErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, maintenance.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, maintenance.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, maintenance.ErrState), errors.Is(err, maintenance.ErrDuplicateFeedback):
		status = http.StatusConflict
	case errors.Is(err, maintenance.ErrAssignment):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", maintenance.ErrValidation, err)
	}
	return nil
}
