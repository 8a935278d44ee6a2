package http

import (
	"net/http"

	"github.com/secmon-lab/conformity/pkg/utils/errutil"
)

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := s.uc.Dashboard.Summary(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	errutil.WriteJSON(r.Context(), w, http.StatusOK, summary)
}
