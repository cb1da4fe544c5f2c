package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/torrico/rollcall/internal/contact"
	"github.com/torrico/rollcall/internal/drive"
	"github.com/torrico/rollcall/internal/sender"
	"github.com/torrico/rollcall/internal/store"
	"github.com/torrico/rollcall/internal/tracker"
)

// envelope is the uniform response shape. Extra payload fields ride in
// Data and are flattened into the JSON object.
type envelope map[string]any

func respond(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// ok writes a 200 envelope with success set.
func ok(w http.ResponseWriter, body envelope) {
	if body == nil {
		body = envelope{}
	}
	body["success"] = true
	respond(w, http.StatusOK, body)
}

// fail maps a domain error to a status code and writes the error
// envelope.
func fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, contact.ErrInvalidPhone),
		errors.Is(err, contact.ErrUnknownField),
		errors.Is(err, tracker.ErrInvalidQuery),
		errors.Is(err, sender.ErrUnknownTemplate):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound), errors.Is(err, drive.ErrFileNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrBusy):
		status = http.StatusServiceUnavailable
		w.Header().Set("Retry-After", "1")
	case errors.Is(err, drive.ErrTokenInvalid):
		status = http.StatusUnauthorized
	case errors.Is(err, drive.ErrForbidden):
		status = http.StatusForbidden
	}

	respond(w, status, envelope{"success": false, "error": err.Error()})
}

// badRequest writes a 400 for malformed request bodies.
func badRequest(w http.ResponseWriter, msg string) {
	respond(w, http.StatusBadRequest, envelope{"success": false, "error": msg})
}

// decodeJSON decodes a request body, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
