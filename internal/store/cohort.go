package store

import (
	"context"
	"fmt"

	"github.com/torrico/rollcall/internal/contact"
)

// UpsertCohort registers a cohort or renames an existing one.
func (s *Store) UpsertCohort(ctx context.Context, id, name string) error {
	if id == "" || name == "" {
		return fmt.Errorf("cohort id and name are required")
	}

	return s.write(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO cohorts (cohort_id, cohort_name, created_at)
			VALUES (?, ?, ?)
			ON CONFLICT(cohort_id) DO UPDATE SET cohort_name = excluded.cohort_name
		`, id, name, now())
		if err != nil {
			return fmt.Errorf("upsert cohort: %w", err)
		}
		return nil
	})
}

// Cohorts returns all registered cohorts ordered by name.
func (s *Store) Cohorts(ctx context.Context) ([]contact.Cohort, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cohort_id, cohort_name, created_at
		FROM cohorts
		ORDER BY cohort_name ASC, cohort_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query cohorts: %w", err)
	}
	defer rows.Close()

	cohorts := []contact.Cohort{}
	for rows.Next() {
		var c contact.Cohort
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan cohort: %w", err)
		}
		cohorts = append(cohorts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cohorts: %w", err)
	}
	return cohorts, nil
}

// DeleteCohort removes a cohort by code. Contacts referencing it are left
// in place with a dangling cohort_id; that is tolerated, not a violation.
// Fails with ErrNotFound when zero rows are affected.
func (s *Store) DeleteCohort(ctx context.Context, id string) error {
	return s.write(ctx, func() error {
		res, err := s.db.ExecContext(ctx, `DELETE FROM cohorts WHERE cohort_id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete cohort: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete cohort: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("%w: cohort %s", ErrNotFound, id)
		}
		return nil
	})
}
