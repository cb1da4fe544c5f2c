// Package sender runs outbound message batches.
//
// A batch walks the pending opted-in contacts, renders the chosen
// template per contact, hands it to the WhatsApp client and records the
// outcome back through the tracker so both representations see the send.
// Provider failures mark the contact instead of aborting the batch, and
// a configurable pause between sends keeps the account under the Cloud
// API rate limits.
package sender

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/torrico/rollcall/internal/contact"
	"github.com/torrico/rollcall/internal/message"
	"github.com/torrico/rollcall/internal/store"
	"github.com/torrico/rollcall/internal/tracker"
	"github.com/torrico/rollcall/internal/whatsapp"
)

// ErrUnknownTemplate names a template the catalog does not have.
var ErrUnknownTemplate = errors.New("unknown template")

// Sender coordinates one outbound batch at a time.
type Sender struct {
	tracker *tracker.Tracker
	client  whatsapp.Sender
	catalog *message.Catalog
	delay   time.Duration
	log     zerolog.Logger
}

// New builds a sender. A nil catalog falls back to the built-in
// confirmation template.
func New(tr *tracker.Tracker, client whatsapp.Sender, catalog *message.Catalog, delay time.Duration, log zerolog.Logger) *Sender {
	if catalog == nil {
		catalog = message.DefaultCatalog()
	}
	return &Sender{tracker: tr, client: client, catalog: catalog, delay: delay, log: log}
}

// Outcome is the per-contact result of a batch send.
type Outcome struct {
	Phone     string `json:"phone"`
	Name      string `json:"name,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Report summarizes one batch.
type Report struct {
	BatchID  string    `json:"batch_id"`
	Template string    `json:"template"`
	Total    int       `json:"total"`
	Sent     int       `json:"sent"`
	Failed   int       `json:"failed"`
	Outcomes []Outcome `json:"outcomes"`
}

// SendPending sends the named template to every pending opted-in
// contact. A limit above zero caps the batch size. The context cancels
// between sends; a message already handed to the provider is still
// recorded.
func (s *Sender) SendPending(ctx context.Context, templateName string, limit int) (*Report, error) {
	tpl, ok := s.catalog.Get(templateName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, templateName)
	}

	pending, err := s.tracker.Pending(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}

	report := &Report{
		BatchID:  uuid.Must(uuid.NewV7()).String(),
		Template: tpl.Name,
		Total:    len(pending),
	}
	log := s.log.With().Str("batch_id", report.BatchID).Str("template", tpl.Name).Logger()
	log.Info().Int("total", len(pending)).Msg("starting batch send")

	for i, c := range pending {
		if i > 0 && s.delay > 0 {
			if err := sleep(ctx, s.delay); err != nil {
				return report, err
			}
		}

		outcome := s.sendOne(ctx, tpl, c)
		report.Outcomes = append(report.Outcomes, outcome)
		if outcome.Error == "" {
			report.Sent++
		} else {
			report.Failed++
		}
	}

	log.Info().Int("sent", report.Sent).Int("failed", report.Failed).Msg("batch send finished")
	return report, nil
}

// SendTo sends the named template to a single contact by phone,
// regardless of its send status.
func (s *Sender) SendTo(ctx context.Context, phone, templateName string) (Outcome, error) {
	tpl, ok := s.catalog.Get(templateName)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, templateName)
	}

	res, err := s.tracker.List(ctx, tracker.ListParams{Phone: phone})
	if err != nil {
		return Outcome{}, err
	}
	if len(res.Items) == 0 {
		return Outcome{}, fmt.Errorf("contact %s: %w", phone, store.ErrNotFound)
	}
	return s.sendOne(ctx, tpl, res.Items[0]), nil
}

// sendOne renders, sends and records. Any failure lands on the contact
// as an error status so the batch can keep moving.
func (s *Sender) sendOne(ctx context.Context, tpl message.Template, c contact.Contact) Outcome {
	outcome := Outcome{Phone: c.Phone, Name: c.Name}

	body, err := tpl.Render(c)
	if err != nil {
		outcome.Error = err.Error()
		s.record(ctx, c.Phone, contact.Patch{SendStatus: contact.StatusError})
		return outcome
	}

	id, err := s.client.Send(ctx, c.Phone, tpl, body)
	now := time.Now().UTC().Format(time.RFC3339)
	if err != nil {
		outcome.Error = err.Error()
		s.log.Error().Err(err).Str("phone", c.Phone).Msg("send failed")
		s.record(ctx, c.Phone, contact.Patch{SendStatus: contact.StatusError, SentAt: now})
		return outcome
	}

	outcome.MessageID = id
	s.record(ctx, c.Phone, contact.Patch{SendStatus: contact.StatusSent, SentAt: now, MessageID: id})
	return outcome
}

func (s *Sender) record(ctx context.Context, phone string, p contact.Patch) {
	p.Phone = phone
	if _, err := s.tracker.Record(ctx, p); err != nil {
		s.log.Error().Err(err).Str("phone", phone).Msg("recording send outcome failed")
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
