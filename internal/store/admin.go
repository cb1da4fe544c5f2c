package store

import (
	"context"
	"fmt"
)

// ClearContacts unconditionally deletes every contact and returns the
// number removed. Holds the exclusive gate: no concurrent write (webhook
// upsert included) can interleave mid-deletion.
func (s *Store) ClearContacts(ctx context.Context) (int, error) {
	return s.clear(ctx, "contacts")
}

// ClearCohorts unconditionally deletes every cohort and returns the number
// removed. Contacts keep their (now dangling) cohort references.
func (s *Store) ClearCohorts(ctx context.Context) (int, error) {
	return s.clear(ctx, "cohorts")
}

// ResetAll deletes all contacts and cohorts in one transaction and returns
// the counts removed.
func (s *Store) ResetAll(ctx context.Context) (contactsRemoved, cohortsRemoved int, err error) {
	err = s.bulkWrite(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin reset: %w", err)
		}
		defer tx.Rollback()

		res, err := tx.ExecContext(ctx, `DELETE FROM contacts`)
		if err != nil {
			return fmt.Errorf("reset contacts: %w", err)
		}
		n, _ := res.RowsAffected()
		contactsRemoved = int(n)

		res, err = tx.ExecContext(ctx, `DELETE FROM cohorts`)
		if err != nil {
			return fmt.Errorf("reset cohorts: %w", err)
		}
		n, _ = res.RowsAffected()
		cohortsRemoved = int(n)

		return tx.Commit()
	})
	if err != nil {
		return 0, 0, err
	}
	return contactsRemoved, cohortsRemoved, nil
}

func (s *Store) clear(ctx context.Context, table string) (int, error) {
	var removed int
	err := s.bulkWrite(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM `+table)
		if err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
		removed = int(n)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
