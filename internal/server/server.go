package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/torrico/rollcall/internal/drive"
	"github.com/torrico/rollcall/internal/sender"
	"github.com/torrico/rollcall/internal/tracker"
	"github.com/torrico/rollcall/internal/whatsapp"
)

// Server wires the HTTP surface over the tracker, the send pipeline and
// the Drive importer.
type Server struct {
	tracker     *tracker.Tracker
	sender      *sender.Sender
	client      whatsapp.Sender
	drive       *drive.Service
	verifyToken string
	log         zerolog.Logger
}

// New builds a server. client may be nil when no credentials are
// configured; the webhook then skips courtesy replies.
func New(tr *tracker.Tracker, snd *sender.Sender, client whatsapp.Sender, drv *drive.Service, verifyToken string, log zerolog.Logger) *Server {
	return &Server{
		tracker:     tr,
		sender:      snd,
		client:      client,
		drive:       drv,
		verifyToken: verifyToken,
		log:         log,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)

	r.Get("/webhook", s.handleWebhookVerify)
	r.Post("/webhook", s.handleWebhookEvent)

	r.Route("/api", func(r chi.Router) {
		r.Route("/contacts", func(r chi.Router) {
			r.Get("/", s.handleListContacts)
			r.Post("/", s.handleRecordContact)
			r.Post("/batch", s.handleRecordBatch)
			r.Get("/stats", s.handleStats)
			r.Get("/pending", s.handlePending)
			r.Delete("/", s.handleClearContacts)
			r.Patch("/{phone}", s.handleUpdateContact)
			r.Delete("/{phone}", s.handleDeleteContact)
		})

		r.Route("/cohorts", func(r chi.Router) {
			r.Get("/", s.handleListCohorts)
			r.Post("/", s.handleRegisterCohort)
			r.Delete("/", s.handleClearCohorts)
			r.Delete("/{id}", s.handleDeleteCohort)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Post("/send-simple", s.handleSendSimple)
			r.Post("/send-batch", s.handleSendBatch)
		})

		r.Post("/export", s.handleExport)
		r.Post("/admin/reset", s.handleReset)
		r.Post("/google/upload", s.handleGoogleUpload)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ok(w, envelope{"status": "active"})
}

// requestLogger emits one structured line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
