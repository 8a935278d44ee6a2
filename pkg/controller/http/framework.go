package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/secmon-lab/conformity/pkg/utils/errutil"
)

type scoreRequest struct {
	Responses map[string]string `json:"responses"`
}

func (s *Server) listFrameworks(w http.ResponseWriter, r *http.Request) {
	frameworks, err := s.uc.Framework.ListFrameworks(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]frameworkResponse, len(frameworks))
	for i, fw := range frameworks {
		resp[i] = toFrameworkResponse(fw)
	}
	errutil.WriteJSON(r.Context(), w, http.StatusOK, resp)
}

func (s *Server) getFramework(w http.ResponseWriter, r *http.Request) {
	fw, err := s.uc.Framework.GetFramework(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	errutil.WriteJSON(r.Context(), w, http.StatusOK, toFrameworkResponse(fw))
}

// scoreFramework evaluates ad-hoc responses without storing them
func (s *Server) scoreFramework(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	errs := validationErrors{}
	responses := parseResponses(req.Responses, &errs)
	if !errs.empty() {
		writeValidationError(w, r, errs)
		return
	}

	eval, err := s.uc.Framework.Score(r.Context(), chi.URLParam(r, "name"), responses)
	if err != nil {
		handleError(w, r, err)
		return
	}
	errutil.WriteJSON(r.Context(), w, http.StatusOK, eval)
}
