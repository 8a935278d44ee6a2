package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/conformity/pkg/domain/types"
	"github.com/secmon-lab/conformity/pkg/usecase"
	"github.com/secmon-lab/conformity/pkg/utils/errutil"
)

type createActionItemRequest struct {
	AssessmentID  *int64  `json:"assessmentId"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Priority      string  `json:"priority"`
	Status        string  `json:"status"`
	DueDate       *string `json:"dueDate"`
	FrameworkType string  `json:"frameworkType"`
}

type updateActionItemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	DueDate     *string `json:"dueDate"`
}

// parseDueDate accepts RFC 3339 timestamps and plain dates
func parseDueDate(raw string, errs *validationErrors) *time.Time {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	errs.add("dueDate", "must be an RFC 3339 timestamp or YYYY-MM-DD date")
	return nil
}

func parsePriority(raw string, errs *validationErrors) types.Priority {
	priority, err := types.ParsePriority(raw)
	if err != nil {
		errs.add("priority", err.Error())
	}
	return priority
}

func parseActionStatus(raw string, errs *validationErrors) types.ActionStatus {
	status, err := types.ParseActionStatus(raw)
	if err != nil {
		errs.add("status", err.Error())
	}
	return status
}

func (s *Server) listActionItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.uc.ActionItem.ListActionItems(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	errutil.WriteJSON(r.Context(), w, http.StatusOK, toActionItemResponses(items))
}

func (s *Server) listActionItemsByAssessment(w http.ResponseWriter, r *http.Request) {
	assessmentID, ok := pathID(w, r, "assessmentId")
	if !ok {
		return
	}

	items, err := s.uc.ActionItem.ListActionItemsByAssessment(r.Context(), assessmentID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	errutil.WriteJSON(r.Context(), w, http.StatusOK, toActionItemResponses(items))
}

func (s *Server) listActionItemsByFramework(w http.ResponseWriter, r *http.Request) {
	items, err := s.uc.ActionItem.ListActionItemsByFramework(r.Context(), chi.URLParam(r, "frameworkType"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	errutil.WriteJSON(r.Context(), w, http.StatusOK, toActionItemResponses(items))
}

func (s *Server) getActionItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	item, err := s.uc.ActionItem.GetActionItem(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	errutil.WriteJSON(r.Context(), w, http.StatusOK, toActionItemResponse(item))
}

func (s *Server) createActionItem(w http.ResponseWriter, r *http.Request) {
	var req createActionItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	errs := validationErrors{}
	if req.Title == "" {
		errs.add("title", "required")
	}
	input := usecase.CreateActionItemInput{
		AssessmentID:  req.AssessmentID,
		Title:         req.Title,
		Description:   req.Description,
		Priority:      parsePriority(req.Priority, &errs),
		FrameworkType: req.FrameworkType,
	}
	if req.Status != "" {
		input.Status = parseActionStatus(req.Status, &errs)
	}
	if req.DueDate != nil && *req.DueDate != "" {
		input.DueDate = parseDueDate(*req.DueDate, &errs)
	}
	if !errs.empty() {
		writeValidationError(w, r, errs)
		return
	}

	created, err := s.uc.ActionItem.CreateActionItem(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	errutil.WriteJSON(r.Context(), w, http.StatusCreated, toActionItemResponse(created))
}

func (s *Server) updateActionItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateActionItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	errs := validationErrors{}
	input := usecase.UpdateActionItemInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Title != nil && *req.Title == "" {
		errs.add("title", "must not be empty")
	}
	if req.Priority != nil {
		priority := parsePriority(*req.Priority, &errs)
		input.Priority = &priority
	}
	if req.Status != nil {
		status := parseActionStatus(*req.Status, &errs)
		input.Status = &status
	}
	if req.DueDate != nil {
		input.DueDate = parseDueDate(*req.DueDate, &errs)
	}
	if !errs.empty() {
		writeValidationError(w, r, errs)
		return
	}

	updated, err := s.uc.ActionItem.UpdateActionItem(r.Context(), id, input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	errutil.WriteJSON(r.Context(), w, http.StatusOK, toActionItemResponse(updated))
}
