package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/torrico/rollcall/internal/contact"
	"github.com/torrico/rollcall/internal/message"
	"github.com/torrico/rollcall/internal/store"
	"github.com/torrico/rollcall/internal/whatsapp"
)

const thankYouMessage = "¡Muchas gracias por tu respuesta! 🙏\n\n" +
	"Hemos registrado tu confirmación correctamente. " +
	"Si tienes alguna pregunta adicional, no dudes en contactarnos. " +
	"¡Que tengas un excelente día!"

const invalidResponseMessage = "⚠️ Solo se aceptan respuestas de *Sí* o *No*.\n\n" +
	"Por favor, responde con:\n" +
	"• *Sí* (o Si, yes, y)\n" +
	"• *No* (o no, n)\n\n" +
	"Gracias por tu comprensión."

// handleWebhookVerify answers the Meta subscription handshake.
func (s *Server) handleWebhookVerify(w http.ResponseWriter, r *http.Request) {
	challenge, valid := whatsapp.VerifyChallenge(r.URL.Query(), s.verifyToken)
	if !valid {
		s.log.Warn().Msg("webhook verification failed: token mismatch")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	s.log.Info().Msg("webhook verified")
	w.Write([]byte(challenge))
}

// handleWebhookEvent receives notifications. Failures on individual
// events are logged, not surfaced: Meta retries the whole delivery on a
// non-200, and one unknown phone must not replay the batch forever.
func (s *Server) handleWebhookEvent(w http.ResponseWriter, r *http.Request) {
	events, err := whatsapp.DecodeEvents(r.Body)
	if err != nil {
		badRequest(w, "invalid webhook payload: "+err.Error())
		return
	}

	processed := 0
	for _, ev := range events {
		if s.processEvent(r.Context(), ev) {
			processed++
		}
	}
	ok(w, envelope{"received": len(events), "processed": processed})
}

func (s *Server) processEvent(ctx context.Context, ev whatsapp.Event) bool {
	log := s.log.With().Str("phone", ev.Phone).Str("kind", string(ev.Kind)).Logger()

	switch ev.Kind {
	case whatsapp.EventReply:
		now := time.Now().UTC().Format(time.RFC3339)
		if err := s.tracker.RecordResponse(ctx, ev.Phone, ev.Response, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Warn().Msg("reply from a phone the campaign never contacted, dropped")
			} else {
				log.Error().Err(err).Msg("recording response failed")
			}
			return false
		}
		log.Info().Str("response", ev.Response).Msg("response recorded")
		s.courtesyReply(ctx, ev.Phone, thankYouMessage)
		return true

	case whatsapp.EventUnclassified:
		log.Info().Str("text", ev.Text).Msg("unclassified reply, asking for yes/no")
		s.courtesyReply(ctx, ev.Phone, invalidResponseMessage)
		return false

	case whatsapp.EventStatus:
		if ev.Status != "failed" {
			log.Debug().Str("status", ev.Status).Msg("delivery status")
			return false
		}
		err := s.tracker.UpdateFields(ctx, ev.Phone, map[string]string{
			"send_status": contact.StatusError,
		})
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Error().Err(err).Msg("marking failed delivery")
			return false
		}
		return err == nil
	}
	return false
}

// courtesyReply sends a best-effort follow-up text. No client means no
// credentials are configured, which is fine for a receive-only setup.
func (s *Server) courtesyReply(ctx context.Context, phone, text string) {
	if s.client == nil {
		return
	}
	tpl := message.Template{Name: "courtesy", Kind: message.KindText}
	if _, err := s.client.Send(ctx, phone, tpl, text); err != nil {
		s.log.Warn().Err(err).Str("phone", phone).Msg("courtesy reply failed")
	}
}
