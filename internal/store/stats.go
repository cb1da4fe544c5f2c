package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/torrico/rollcall/internal/contact"
)

// Stats aggregates the tracking state of the whole store.
type Stats struct {
	Total           int     `json:"total"`
	Sent            int     `json:"sent"`
	Errors          int     `json:"errors"`
	Yes             int     `json:"yes"`
	No              int     `json:"no"`
	PendingResponse int     `json:"pending_response"`
	Cohorts         int     `json:"cohorts"`
	ResponseRate    float64 `json:"response_rate"`
}

// Stats computes all counts from a single read transaction so the numbers
// come from one consistent snapshot, never from sequential independent
// counts that concurrent writers could skew.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return Stats{}, fmt.Errorf("begin stats: %w", err)
	}
	defer tx.Rollback()

	var st Stats
	err = tx.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(send_status = ?), 0),
			COALESCE(SUM(send_status = ?), 0),
			COALESCE(SUM(response = ?), 0),
			COALESCE(SUM(response = ?), 0)
		FROM contacts
	`, contact.StatusSent, contact.StatusError, contact.ResponseYes, contact.ResponseNo).
		Scan(&st.Total, &st.Sent, &st.Errors, &st.Yes, &st.No)
	if err != nil {
		return Stats{}, fmt.Errorf("aggregate contacts: %w", err)
	}

	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM cohorts`).Scan(&st.Cohorts); err != nil {
		return Stats{}, fmt.Errorf("count cohorts: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}

	st.PendingResponse = st.Sent - st.Yes - st.No
	if st.Sent > 0 {
		st.ResponseRate = float64(st.Yes+st.No) / float64(st.Sent)
	}
	return st, nil
}
