package http

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/conformity/pkg/domain/model"
	"github.com/secmon-lab/conformity/pkg/domain/types"
	"github.com/secmon-lab/conformity/pkg/usecase"
	"github.com/secmon-lab/conformity/pkg/utils/errutil"
	"github.com/secmon-lab/conformity/pkg/utils/safe"
)

type createAssessmentRequest struct {
	OrganizationName string            `json:"organizationName"`
	FrameworkType    string            `json:"frameworkType"`
	Responses        map[string]string `json:"responses"`
	Status           string            `json:"status"`
}

type updateAssessmentRequest struct {
	OrganizationName *string           `json:"organizationName"`
	Responses        map[string]string `json:"responses"`
	Status           *string           `json:"status"`
}

// parseResponses converts raw answers, recording every invalid value
func parseResponses(raw map[string]string, errs *validationErrors) model.Responses {
	if raw == nil {
		return nil
	}
	responses := make(model.Responses, len(raw))
	for id, value := range raw {
		status, err := types.ParseResponseStatus(value)
		if err != nil {
			errs.add("responses."+id, err.Error())
			continue
		}
		responses[id] = status
	}
	return responses
}

func parseAssessmentStatus(raw string, errs *validationErrors) types.AssessmentStatus {
	status, err := types.ParseAssessmentStatus(raw)
	if err != nil {
		errs.add("status", err.Error())
	}
	return status
}

func (s *Server) listAssessments(w http.ResponseWriter, r *http.Request) {
	assessments, err := s.uc.Assessment.ListAssessments(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	errutil.WriteJSON(r.Context(), w, http.StatusOK, toAssessmentResponses(assessments))
}

func (s *Server) listAssessmentsByFramework(w http.ResponseWriter, r *http.Request) {
	assessments, err := s.uc.Assessment.ListAssessmentsByFramework(r.Context(), chi.URLParam(r, "frameworkType"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	errutil.WriteJSON(r.Context(), w, http.StatusOK, toAssessmentResponses(assessments))
}

func (s *Server) getAssessment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	assessment, err := s.uc.Assessment.GetAssessment(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	errutil.WriteJSON(r.Context(), w, http.StatusOK, toAssessmentResponse(assessment))
}

func (s *Server) createAssessment(w http.ResponseWriter, r *http.Request) {
	var req createAssessmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	errs := validationErrors{}
	if req.OrganizationName == "" {
		errs.add("organizationName", "required")
	}
	if req.FrameworkType == "" {
		errs.add("frameworkType", "required")
	}
	input := usecase.CreateAssessmentInput{
		OrganizationName: req.OrganizationName,
		FrameworkType:    req.FrameworkType,
		Responses:        parseResponses(req.Responses, &errs),
	}
	if req.Status != "" {
		input.Status = parseAssessmentStatus(req.Status, &errs)
	}
	if !errs.empty() {
		writeValidationError(w, r, errs)
		return
	}

	created, err := s.uc.Assessment.CreateAssessment(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	errutil.WriteJSON(r.Context(), w, http.StatusCreated, toAssessmentResponse(created))
}

func (s *Server) updateAssessment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateAssessmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	errs := validationErrors{}
	input := usecase.UpdateAssessmentInput{
		OrganizationName: req.OrganizationName,
		Responses:        parseResponses(req.Responses, &errs),
	}
	if req.OrganizationName != nil && *req.OrganizationName == "" {
		errs.add("organizationName", "must not be empty")
	}
	if req.Status != nil {
		status := parseAssessmentStatus(*req.Status, &errs)
		input.Status = &status
	}
	if !errs.empty() {
		writeValidationError(w, r, errs)
		return
	}

	updated, err := s.uc.Assessment.UpdateAssessment(r.Context(), id, input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	errutil.WriteJSON(r.Context(), w, http.StatusOK, toAssessmentResponse(updated))
}

func (s *Server) evaluateAssessment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	eval, err := s.uc.Assessment.EvaluateAssessment(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	errutil.WriteJSON(r.Context(), w, http.StatusOK, eval)
}

func (s *Server) assessmentReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "", "json", "markdown":
	default:
		errs := validationErrors{}
		errs.add("format", "must be json or markdown")
		writeValidationError(w, r, errs)
		return
	}

	report, err := s.uc.Report.Build(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	contentType := "application/json"
	render := report.RenderJSON
	if format == "markdown" {
		contentType = "text/markdown; charset=utf-8"
		render = report.RenderMarkdown
	}
	if err := render(&buf); err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	safe.Write(r.Context(), w, buf.Bytes())
}
