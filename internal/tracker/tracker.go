package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/torrico/rollcall/internal/contact"
	"github.com/torrico/rollcall/internal/mirror"
	"github.com/torrico/rollcall/internal/store"
)

// ErrMirrorWrite marks a failed mirror write attached to an otherwise
// successful record. It is a warning, never a failure of the write itself.
var ErrMirrorWrite = errors.New("mirror write failed")

// Tracker is the single entry point external collaborators use for writes.
type Tracker struct {
	store  *store.Store
	mirror *mirror.Mirror
	log    zerolog.Logger

	maxPageSize int
}

// New builds a tracker over the given store and mirror.
func New(s *store.Store, m *mirror.Mirror, log zerolog.Logger) *Tracker {
	return &Tracker{store: s, mirror: m, log: log, maxPageSize: DefaultMaxPageSize}
}

// Result is the outcome of recording one patch.
type Result struct {
	Contact contact.Contact
	// MirrorErr is non-nil when the store write succeeded but the mirror
	// write did not. Wraps ErrMirrorWrite.
	MirrorErr error
}

// Record fans a single logical write out to both representations: the
// relational store first (source of truth), then the CSV mirror. A mirror
// failure is logged and reported in the result, never returned as the
// error.
func (t *Tracker) Record(ctx context.Context, p contact.Patch) (Result, error) {
	c, err := t.store.Upsert(ctx, p)
	if err != nil {
		return Result{}, err
	}

	res := Result{Contact: c}
	if err := t.mirror.Upsert(p); err != nil {
		res.MirrorErr = fmt.Errorf("%w: %v", ErrMirrorWrite, err)
		t.log.Warn().
			Err(err).
			Str("phone", c.Phone).
			Msg("mirror write failed; mirror will fall behind until the next export")
	}
	return res, nil
}

// Outcome is the per-record result of a batch write.
type Outcome struct {
	Phone  string
	Result Result
	Err    error
}

// RecordMany records a batch with the same store-then-mirror ordering per
// record, continuing past individual failures.
func (t *Tracker) RecordMany(ctx context.Context, patches []contact.Patch) []Outcome {
	outcomes := make([]Outcome, 0, len(patches))
	for _, p := range patches {
		res, err := t.Record(ctx, p)
		outcomes = append(outcomes, Outcome{Phone: p.Phone, Result: res, Err: err})
	}
	return outcomes
}

// UpdateField edits one field of a contact.
func (t *Tracker) UpdateField(ctx context.Context, phone, field, value string) error {
	return t.UpdateFields(ctx, phone, map[string]string{field: value})
}

// UpdateFields edits several fields of a contact, then best-effort mirrors
// the edit.
func (t *Tracker) UpdateFields(ctx context.Context, phone string, fields map[string]string) error {
	if err := t.store.UpdateFields(ctx, phone, fields); err != nil {
		return err
	}
	p, err := contact.PatchFromFields(phone, fields)
	if err != nil {
		return err
	}
	if err := t.mirror.Upsert(p); err != nil {
		t.log.Warn().Err(err).Str("phone", phone).Msg("mirror write failed after field edit")
	}
	return nil
}

// RecordResponse stores an inbound yes/no answer with its timestamp.
// Unknown phones return store.ErrNotFound; replies from numbers the
// campaign never contacted are dropped by the caller.
func (t *Tracker) RecordResponse(ctx context.Context, phone, response, respondedAt string) error {
	return t.UpdateFields(ctx, phone, map[string]string{
		"response":     response,
		"responded_at": respondedAt,
	})
}

// Delete removes a contact from the store. The mirror keeps its row until
// the next export; it is a projection, not a second source of truth.
func (t *Tracker) Delete(ctx context.Context, phone string) error {
	return t.store.Delete(ctx, phone)
}

// DeleteCohort removes a cohort by code.
func (t *Tracker) DeleteCohort(ctx context.Context, id string) error {
	return t.store.DeleteCohort(ctx, id)
}

// RegisterCohort registers or renames a cohort.
func (t *Tracker) RegisterCohort(ctx context.Context, id, name string) error {
	return t.store.UpsertCohort(ctx, id, name)
}

// ClearContacts bulk-deletes every contact.
func (t *Tracker) ClearContacts(ctx context.Context) (int, error) {
	return t.store.ClearContacts(ctx)
}

// ClearCohorts bulk-deletes every cohort.
func (t *Tracker) ClearCohorts(ctx context.Context) (int, error) {
	return t.store.ClearCohorts(ctx)
}

// ResetAll wipes contacts and cohorts and rewrites the mirror empty.
func (t *Tracker) ResetAll(ctx context.Context) (contacts, cohorts int, err error) {
	contacts, cohorts, err = t.store.ResetAll(ctx)
	if err != nil {
		return 0, 0, err
	}
	if err := t.mirror.WriteAll(nil); err != nil {
		t.log.Warn().Err(err).Msg("mirror reset failed")
	}
	return contacts, cohorts, nil
}

// AllContacts returns every contact without pagination, for full-file
// rebuilds like the mirror export and the Drive push back.
func (t *Tracker) AllContacts(ctx context.Context) ([]contact.Contact, error) {
	rows, _, err := t.store.All(ctx, -1, 0)
	return rows, err
}

// ExportMirror rebuilds the mirror file from the store, the one sanctioned
// path for the mirror to catch up after falling behind.
func (t *Tracker) ExportMirror(ctx context.Context) (int, error) {
	rows, _, err := t.store.All(ctx, -1, 0)
	if err != nil {
		return 0, err
	}
	if err := t.mirror.WriteAll(rows); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMirrorWrite, err)
	}
	return len(rows), nil
}
