package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/torrico/rollcall/internal/contact"
)

// FindByCohort returns all contacts referencing the cohort code, most
// recently sent first.
func (s *Store) FindByCohort(ctx context.Context, cohortID string) ([]contact.Contact, error) {
	return s.queryContacts(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE cohort_id = ?
		ORDER BY sent_at DESC, phone ASC
	`, cohortID)
}

// FindByPhone returns contacts matching the phone. Under the phone
// uniqueness invariant this is 0 or 1 rows; the slice shape is kept for
// callers that tolerate historical duplicates.
func (s *Store) FindByPhone(ctx context.Context, phone string) ([]contact.Contact, error) {
	normalized, err := contact.NormalizePhone(phone)
	if err != nil {
		return nil, err
	}
	return s.queryContacts(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE phone = ?
		ORDER BY sent_at DESC, phone ASC
	`, normalized)
}

// FindByDateRange returns contacts whose send date falls inside the
// inclusive [from, to] range. Either bound may be empty (unbounded).
// Bounds are ISO dates (YYYY-MM-DD); validation happens upstream.
func (s *Store) FindByDateRange(ctx context.Context, from, to string) ([]contact.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE sent_at != ''`
	var args []any

	if from != "" {
		query += ` AND DATE(sent_at) >= ?`
		args = append(args, from)
	}
	if to != "" {
		query += ` AND DATE(sent_at) <= ?`
		args = append(args, to)
	}
	query += ` ORDER BY sent_at DESC, phone ASC`

	return s.queryContacts(ctx, query, args...)
}

// All returns a page of contacts and the total row count.
// The count and page are read inside one transaction so the total matches
// the snapshot the page came from.
func (s *Store) All(ctx context.Context, limit, offset int) ([]contact.Contact, int, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin list: %w", err)
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		ORDER BY sent_at DESC, phone ASC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	items, err := collectContacts(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("list contacts: %w", err)
	}
	return items, total, nil
}

// FindUnsent returns contacts that have not been successfully sent to yet
// (pending or errored), oldest first. Opt-in filtering happens upstream.
func (s *Store) FindUnsent(ctx context.Context) ([]contact.Contact, error) {
	return s.queryContacts(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE send_status != ?
		ORDER BY created_at ASC, phone ASC
	`, contact.StatusSent)
}

func (s *Store) queryContacts(ctx context.Context, query string, args ...any) ([]contact.Contact, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()
	return collectContacts(rows)
}

func collectContacts(rows *sql.Rows) ([]contact.Contact, error) {
	// Return empty slice instead of nil.
	contacts := []contact.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}
