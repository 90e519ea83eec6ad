package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fixflow/internal/ports"
	"fixflow/internal/usecase/feedback"
	"fixflow/internal/usecase/incident"
	"fixflow/internal/usecase/job"
)

type incidentView struct {
	IncidentID string              `json:"incident_id"`
	TenantID   string              `json:"tenant_id"`
	PropertyID string              `json:"property_id"`
	Issue      string              `json:"issue"`
	Priority   string              `json:"priority"`
	ChatData   []ports.ChatMessage `json:"chat_data"`
	Timestamp  string              `json:"timestamp"`
	CreatedBy  string              `json:"created_by"`
}

func incidentToView(rec ports.IncidentRecord) incidentView {
	return incidentView{
		IncidentID: rec.IncidentID,
		TenantID:   rec.TenantID,
		PropertyID: rec.PropertyID,
		Issue:      rec.Issue,
		Priority:   rec.Priority,
		ChatData:   rec.ChatData,
		Timestamp:  rec.Timestamp,
		CreatedBy:  rec.CreatedBy,
	}
}

type jobView struct {
	JobID                string  `json:"job_id"`
	IncidentID           string  `json:"incident_id"`
	JobType              string  `json:"job_type"`
	Price                float64 `json:"price"`
	Priority             string  `json:"priority"`
	Description          string  `json:"description"`
	Status               string  `json:"status"`
	AssignedContractorID *string `json:"assigned_contractor_id"`
	Accepted             *bool   `json:"accepted"`
	ProposedSchedule     *string `json:"proposed_schedule"`
	CreatedBy            string  `json:"created_by"`
	Timestamp            string  `json:"timestamp"`
}

func jobToView(rec ports.JobRecord) jobView {
	return jobView{
		JobID:                rec.JobID,
		IncidentID:           rec.IncidentID,
		JobType:              rec.JobType,
		Price:                rec.Price,
		Priority:             rec.Priority,
		Description:          rec.Description,
		Status:               string(rec.Status),
		AssignedContractorID: rec.AssignedContractorID,
		Accepted:             rec.Accepted,
		ProposedSchedule:     rec.ProposedSchedule,
		CreatedBy:            rec.CreatedBy,
		Timestamp:            rec.Timestamp,
	}
}

func jobsToViews(recs []ports.JobRecord) []jobView {
	out := make([]jobView, 0, len(recs))
	for _, rec := range recs {
		out = append(out, jobToView(rec))
	}
	return out
}

type jobEventView struct {
	EventID   uint64 `json:"event_id"`
	JobID     string `json:"job_id"`
	Actor     string `json:"actor"`
	Action    string `json:"action"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

type jobDetailView struct {
	jobView
	Events []jobEventView `json:"events"`
}

func jobDetailToView(detail job.JobDetail) jobDetailView {
	events := make([]jobEventView, 0, len(detail.Events))
	for _, ev := range detail.Events {
		events = append(events, jobEventView{
			EventID:   ev.EventID,
			JobID:     ev.JobID,
			Actor:     ev.Actor,
			Action:    ev.Action,
			Detail:    ev.Detail,
			CreatedAt: ev.CreatedAt,
		})
	}
	return jobDetailView{jobView: jobToView(detail.Job), Events: events}
}

type feedbackView struct {
	FeedbackID  string `json:"feedback_id"`
	JobID       string `json:"job_id"`
	SubmittedBy string `json:"submitted_by"`
	Role        string `json:"role"`
	Rating      int    `json:"rating"`
	Notes       string `json:"notes"`
	Timestamp   string `json:"timestamp"`
}

func feedbackToView(rec ports.FeedbackRecord) feedbackView {
	return feedbackView{
		FeedbackID:  rec.FeedbackID,
		JobID:       rec.JobID,
		SubmittedBy: rec.SubmittedBy,
		Role:        string(rec.Role),
		Rating:      rec.Rating,
		Notes:       rec.Notes,
		Timestamp:   rec.Timestamp,
	}
}

type createIncidentRequest struct {
	TenantID   string              `json:"tenant_id"`
	PropertyID string              `json:"property_id"`
	Issue      string              `json:"issue"`
	Priority   string              `json:"priority"`
	ChatData   []ports.ChatMessage `json:"chat_data"`
	CreatedBy  string              `json:"created_by"`
}

func (s *Server) handleCreateIncident(w http.ResponseWriter, r *http.Request) {
	var req createIncidentRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	rec, err := s.Incidents.CreateIncident(r.Context(), incident.CreateIncidentInput{
		TenantID:   req.TenantID,
		PropertyID: req.PropertyID,
		Issue:      req.Issue,
		Priority:   req.Priority,
		ChatData:   req.ChatData,
		CreatedBy:  req.CreatedBy,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, incidentToView(rec))
}

func (s *Server) handleListIncidents(w http.ResponseWriter, r *http.Request) {
	recs, err := s.Incidents.GetAllIncidents(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	views := make([]incidentView, 0, len(recs))
	for _, rec := range recs {
		views = append(views, incidentToView(rec))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetIncident(w http.ResponseWriter, r *http.Request) {
	rec, err := s.Incidents.GetIncidentByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, incidentToView(rec))
}

type createJobRequest struct {
	IncidentID  string  `json:"incident_id"`
	JobType     string  `json:"job_type"`
	Price       float64 `json:"price"`
	Priority    string  `json:"priority"`
	Description string  `json:"description"`
	CreatedBy   string  `json:"created_by"`
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	rec, err := s.Jobs.CreateJob(r.Context(), job.CreateJobInput{
		IncidentID:  req.IncidentID,
		JobType:     req.JobType,
		Price:       req.Price,
		Priority:    req.Priority,
		Description: req.Description,
		CreatedBy:   req.CreatedBy,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jobToView(rec))
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	detail, err := s.Jobs.GetJob(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobDetailToView(detail))
}

type jobStatusView struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

func (s *Server) handleGetJobStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status, err := s.Jobs.GetJobStatus(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobStatusView{JobID: id, Status: string(status)})
}

type assignJobRequest struct {
	ContractorID string   `json:"contractor_id"`
	CandidateIDs []string `json:"candidate_ids"`
	Actor        string   `json:"actor"`
}

func (s *Server) handleAssignJob(w http.ResponseWriter, r *http.Request) {
	var req assignJobRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	rec, err := s.Jobs.AssignJob(r.Context(), job.AssignJobInput{
		JobID:        chi.URLParam(r, "id"),
		ContractorID: req.ContractorID,
		CandidateIDs: req.CandidateIDs,
		Actor:        req.Actor,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToView(rec))
}

type decisionRequest struct {
	ContractorID string `json:"contractor_id"`
}

func (s *Server) handleAcceptJob(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	rec, err := s.Jobs.AcceptJob(r.Context(), chi.URLParam(r, "id"), req.ContractorID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToView(rec))
}

func (s *Server) handleRejectJob(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	rec, err := s.Jobs.RejectJob(r.Context(), chi.URLParam(r, "id"), req.ContractorID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToView(rec))
}

type scheduleRequest struct {
	ContractorID string `json:"contractor_id"`
	Schedule     string `json:"schedule"`
}

func (s *Server) handleProposeSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	rec, err := s.Jobs.ProposeSchedule(r.Context(), chi.URLParam(r, "id"), req.ContractorID, req.Schedule)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToView(rec))
}

type completeRequest struct {
	Actor string `json:"actor"`
}

func (s *Server) handleCompleteJob(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	rec, err := s.Jobs.CompleteJob(r.Context(), chi.URLParam(r, "id"), req.Actor)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToView(rec))
}

func (s *Server) handleContractorJobs(w http.ResponseWriter, r *http.Request) {
	recs, err := s.Jobs.GetJobsForContractor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobsToViews(recs))
}

func (s *Server) handleContractorScorecard(w http.ResponseWriter, r *http.Request) {
	card, err := s.Matcher.BuildScorecard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

type submitFeedbackRequest struct {
	JobID       string `json:"job_id"`
	SubmittedBy string `json:"submitted_by"`
	Role        string `json:"role"`
	Rating      int    `json:"rating"`
	Notes       string `json:"notes"`
}

func (s *Server) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req submitFeedbackRequest
	if err := decodeBody(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	rec, err := s.Feedback.SubmitFeedback(r.Context(), feedback.SubmitFeedbackInput{
		JobID:       req.JobID,
		SubmittedBy: req.SubmittedBy,
		Role:        req.Role,
		Rating:      req.Rating,
		Notes:       req.Notes,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, feedbackToView(rec))
}

func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	jobID := r.URL.Query().Get("job_id")
	var (
		recs []ports.FeedbackRecord
		err  error
	)
	if jobID != "" {
		recs, err = s.Feedback.GetFeedbackByJob(r.Context(), jobID)
	} else {
		recs, err = s.Feedback.LoadAllFeedback(r.Context())
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	views := make([]feedbackView, 0, len(recs))
	for _, rec := range recs {
		views = append(views, feedbackToView(rec))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleTrustScores(w http.ResponseWriter, r *http.Request) {
	scores, err := s.Trust.ComputeContractorTrustScores(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, scores)
}
