package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/torrico/rollcall/internal/contact"
	"github.com/torrico/rollcall/internal/tracker"
)

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	params, err := listParamsFromQuery(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	res, err := s.tracker.List(r.Context(), params)
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, envelope{"contacts": res.Items, "total": res.Total, "count": res.Count})
}

func listParamsFromQuery(r *http.Request) (tracker.ListParams, error) {
	q := r.URL.Query()
	params := tracker.ListParams{
		Cohort: q.Get("cohort"),
		Phone:  q.Get("phone"),
		From:   q.Get("from"),
		To:     q.Get("to"),
	}

	for name, dst := range map[string]*int{"limit": &params.Limit, "offset": &params.Offset} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return params, tracker.ErrInvalidQuery
		}
		*dst = v
	}
	return params, nil
}

func (s *Server) handleRecordContact(w http.ResponseWriter, r *http.Request) {
	var p contact.Patch
	if err := decodeJSON(r, &p); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	res, err := s.tracker.Record(r.Context(), p)
	if err != nil {
		fail(w, err)
		return
	}

	body := envelope{"contact": res.Contact}
	if res.MirrorErr != nil {
		body["warning"] = res.MirrorErr.Error()
	}
	ok(w, body)
}

func (s *Server) handleRecordBatch(w http.ResponseWriter, r *http.Request) {
	var patches []contact.Patch
	if err := decodeJSON(r, &patches); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	outcomes := s.tracker.RecordMany(r.Context(), patches)

	type itemResult struct {
		Phone   string `json:"phone"`
		Error   string `json:"error,omitempty"`
		Warning string `json:"warning,omitempty"`
	}

	results := make([]itemResult, 0, len(outcomes))
	recorded := 0
	for _, o := range outcomes {
		item := itemResult{Phone: o.Phone}
		if o.Err != nil {
			item.Error = o.Err.Error()
		} else {
			recorded++
			if o.Result.MirrorErr != nil {
				item.Warning = o.Result.MirrorErr.Error()
			}
		}
		results = append(results, item)
	}
	ok(w, envelope{"total": len(outcomes), "recorded": recorded, "results": results})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.tracker.Stats(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, envelope{"stats": stats})
}

func (s *Server) handlePending(w http.ResponseWriter, r *http.Request) {
	pending, err := s.tracker.Pending(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, envelope{"contacts": pending, "count": len(pending)})
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")

	var fields map[string]string
	if err := decodeJSON(r, &fields); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if len(fields) == 0 {
		badRequest(w, "no fields to update")
		return
	}

	if err := s.tracker.UpdateFields(r.Context(), phone, fields); err != nil {
		fail(w, err)
		return
	}
	ok(w, envelope{"updated": len(fields)})
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Delete(r.Context(), chi.URLParam(r, "phone")); err != nil {
		fail(w, err)
		return
	}
	ok(w, nil)
}

func (s *Server) handleClearContacts(w http.ResponseWriter, r *http.Request) {
	n, err := s.tracker.ClearContacts(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, envelope{"deleted": n})
}
