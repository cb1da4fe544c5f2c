package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListCohorts(w http.ResponseWriter, r *http.Request) {
	cohorts, err := s.tracker.Cohorts(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, envelope{"cohorts": cohorts, "count": len(cohorts)})
}

func (s *Server) handleRegisterCohort(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.ID == "" {
		badRequest(w, "cohort id is required")
		return
	}

	if err := s.tracker.RegisterCohort(r.Context(), req.ID, req.Name); err != nil {
		fail(w, err)
		return
	}
	ok(w, envelope{"id": req.ID})
}

func (s *Server) handleDeleteCohort(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.DeleteCohort(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, err)
		return
	}
	ok(w, nil)
}

func (s *Server) handleClearCohorts(w http.ResponseWriter, r *http.Request) {
	n, err := s.tracker.ClearCohorts(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, envelope{"deleted": n})
}
