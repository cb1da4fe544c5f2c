package server

import "net/http"

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	n, err := s.tracker.ExportMirror(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, envelope{"exported": n})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	contacts, cohorts, err := s.tracker.ResetAll(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, envelope{"contacts_deleted": contacts, "cohorts_deleted": cohorts})
}
