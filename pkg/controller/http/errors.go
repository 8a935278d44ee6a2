package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/conformity/pkg/usecase"
	"github.com/secmon-lab/conformity/pkg/utils/errutil"
)

const invalidRequestMessage = "Invalid request data"

// fieldError describes one rejected request field
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validationErrors collects request field problems so they can be reported
// together
type validationErrors []fieldError

func (v *validationErrors) add(field, message string) {
	*v = append(*v, fieldError{Field: field, Message: message})
}

func (v validationErrors) empty() bool {
	return len(v) == 0
}

func writeValidationError(w http.ResponseWriter, r *http.Request, details validationErrors) {
	errutil.WriteJSON(r.Context(), w, http.StatusBadRequest, errutil.ErrorResponse{
		Error:   invalidRequestMessage,
		Details: details,
	})
}

// handleError maps use case errors onto HTTP status codes
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	switch {
	case errors.Is(err, usecase.ErrAssessmentNotFound):
		errutil.WriteJSON(ctx, w, http.StatusNotFound, errutil.ErrorResponse{Error: "Assessment not found"})
	case errors.Is(err, usecase.ErrActionItemNotFound):
		errutil.WriteJSON(ctx, w, http.StatusNotFound, errutil.ErrorResponse{Error: "Action item not found"})
	case errors.Is(err, usecase.ErrFrameworkNotFound):
		errutil.WriteJSON(ctx, w, http.StatusNotFound, errutil.ErrorResponse{Error: "Framework not found"})
	case errors.Is(err, usecase.ErrInvalidInput):
		details := validationErrors{}
		details.add(errorField(err), err.Error())
		writeValidationError(w, r, details)
	default:
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError)
	}
}

// errorField picks the offending field out of the goerr values, if any
func errorField(err error) string {
	var ge *goerr.Error
	if !errors.As(err, &ge) {
		return ""
	}
	values := ge.Values()
	if _, ok := values["question_id"]; ok {
		return "responses"
	}
	for _, key := range []string{"status", "priority"} {
		if _, ok := values[key]; ok {
			return key
		}
	}
	return ""
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		details := validationErrors{}
		details.add("body", err.Error())
		writeValidationError(w, r, details)
		return false
	}
	return true
}

// pathID parses a numeric URL parameter, writing a 400 response on failure
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		details := validationErrors{}
		details.add(name, "must be a positive integer")
		writeValidationError(w, r, details)
		return 0, false
	}
	return id, true
}
