package server

import (
	"net/http"

	"github.com/torrico/rollcall/internal/message"
)

func (s *Server) handleSendSimple(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone    string `json:"phone"`
		Template string `json:"template"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.Phone == "" {
		badRequest(w, "phone is required")
		return
	}
	if req.Template == "" {
		req.Template = message.DefaultConfirmation().Name
	}

	outcome, err := s.sender.SendTo(r.Context(), req.Phone, req.Template)
	if err != nil {
		fail(w, err)
		return
	}
	if outcome.Error != "" {
		ok(w, envelope{"sent": false, "phone": outcome.Phone, "error_detail": outcome.Error})
		return
	}
	ok(w, envelope{"sent": true, "phone": outcome.Phone, "message_id": outcome.MessageID})
}

func (s *Server) handleSendBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Template string `json:"template"`
		Limit    int    `json:"limit"`
	}
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if req.Template == "" {
		req.Template = message.DefaultConfirmation().Name
	}

	report, err := s.sender.SendPending(r.Context(), req.Template, req.Limit)
	if err != nil {
		fail(w, err)
		return
	}
	ok(w, envelope{"report": report})
}
