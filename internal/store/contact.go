package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/torrico/rollcall/internal/contact"
)

// contactColumns is the canonical column order used by every contact
// SELECT and by scanContact.
const contactColumns = `phone, name, cohort_id, cohort_name, modality,
	english_start, english_end, training_start, schedule, location, opt_in,
	send_status, sent_at, message_id, response, responded_at,
	created_at, updated_at`

// Upsert inserts or merge-updates a contact keyed by its normalized phone.
// The lookup, merge, and write happen inside one immediate transaction, so
// concurrent upserts for the same phone serialize and both land. A
// uniqueness violation can never surface: the write conflicts on the same
// key the lookup used.
func (s *Store) Upsert(ctx context.Context, p contact.Patch) (contact.Contact, error) {
	phone, err := contact.NormalizePhone(p.Phone)
	if err != nil {
		return contact.Contact{}, err
	}
	p.Phone = phone

	var merged contact.Contact
	err = s.write(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin upsert: %w", err)
		}
		defer tx.Rollback()

		existing, found, err := getContactTx(ctx, tx, phone)
		if err != nil {
			return err
		}

		merged = contact.Merge(existing, p)
		ts := now()
		merged.UpdatedAt = ts
		if !found {
			merged.CreatedAt = ts
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO contacts (
				phone, name, cohort_id, cohort_name, modality,
				english_start, english_end, training_start, schedule, location,
				opt_in, send_status, sent_at, message_id, response, responded_at,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(phone) DO UPDATE SET
				name = excluded.name,
				cohort_id = excluded.cohort_id,
				cohort_name = excluded.cohort_name,
				modality = excluded.modality,
				english_start = excluded.english_start,
				english_end = excluded.english_end,
				training_start = excluded.training_start,
				schedule = excluded.schedule,
				location = excluded.location,
				opt_in = excluded.opt_in,
				send_status = excluded.send_status,
				sent_at = excluded.sent_at,
				message_id = excluded.message_id,
				response = excluded.response,
				responded_at = excluded.responded_at,
				updated_at = excluded.updated_at
		`,
			merged.Phone, merged.Name, merged.CohortID, merged.CohortName,
			merged.Modality, merged.EnglishStart, merged.EnglishEnd,
			merged.TrainingStart, merged.Schedule, merged.Location,
			merged.OptIn, merged.SendStatus, merged.SentAt, merged.MessageID,
			merged.Response, merged.RespondedAt,
			merged.CreatedAt, merged.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("upsert contact: %w", err)
		}

		return tx.Commit()
	})
	if err != nil {
		return contact.Contact{}, err
	}
	return merged, nil
}

// UpdateField updates a single editable field of the contact with the given
// phone. Fails with contact.ErrUnknownField before touching storage when the
// field name is outside the editable enumeration, and with ErrNotFound when
// no contact matches.
func (s *Store) UpdateField(ctx context.Context, phone, field, value string) error {
	return s.UpdateFields(ctx, phone, map[string]string{field: value})
}

// UpdateFields updates several editable fields at once. Validation order
// matters: every field name is checked before the write, so a request
// naming one unknown field changes nothing.
func (s *Store) UpdateFields(ctx context.Context, phone string, fields map[string]string) error {
	normalized, err := contact.NormalizePhone(phone)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}

	assignments := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	for name, value := range fields {
		f, err := contact.ParseField(name)
		if err != nil {
			return err
		}
		assignments = append(assignments, f.Column()+" = ?")
		args = append(args, value)
	}
	assignments = append(assignments, "updated_at = ?")
	args = append(args, now(), normalized)

	query := "UPDATE contacts SET " + strings.Join(assignments, ", ") + " WHERE phone = ?"

	return s.write(ctx, func() error {
		res, err := s.db.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update contact fields: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update contact fields: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: contact %s", ErrNotFound, normalized)
		}
		return nil
	})
}

// Delete removes the contact with the given phone.
// Fails with ErrNotFound when zero rows are affected.
func (s *Store) Delete(ctx context.Context, phone string) error {
	normalized, err := contact.NormalizePhone(phone)
	if err != nil {
		return err
	}

	return s.write(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE phone = ?`, normalized)
		if err != nil {
			return fmt.Errorf("delete contact: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete contact: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: contact %s", ErrNotFound, normalized)
		}
		return nil
	})
}

// getContactTx reads a contact by canonical phone inside a transaction.
func getContactTx(ctx context.Context, tx *sql.Tx, phone string) (contact.Contact, bool, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE phone = ?
	`, phone)

	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return contact.Contact{}, false, nil
	}
	if err != nil {
		return contact.Contact{}, false, fmt.Errorf("lookup contact: %w", err)
	}
	return c, true, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanContact scans a row selected with contactColumns.
func scanContact(r rowScanner) (contact.Contact, error) {
	var c contact.Contact
	err := r.Scan(
		&c.Phone, &c.Name, &c.CohortID, &c.CohortName, &c.Modality,
		&c.EnglishStart, &c.EnglishEnd, &c.TrainingStart, &c.Schedule,
		&c.Location, &c.OptIn, &c.SendStatus, &c.SentAt, &c.MessageID,
		&c.Response, &c.RespondedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}
