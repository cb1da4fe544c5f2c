package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/torrico/rollcall/internal/contact"
	"github.com/torrico/rollcall/internal/store"
)

// ErrInvalidQuery indicates malformed pagination or date-range parameters.
// Detected before anything reaches storage.
var ErrInvalidQuery = errors.New("invalid query")

// DefaultMaxPageSize caps the page size a caller may request.
const DefaultMaxPageSize = 500

// DefaultPageSize applies when a caller requests no limit.
const DefaultPageSize = 100

// dateLayout is the ISO date format for range bounds.
const dateLayout = "2006-01-02"

// ListParams filters and paginates a contact listing. Zero values mean
// "no filter". Phone takes precedence over Cohort, which takes precedence
// over the date range.
type ListParams struct {
	Cohort string
	Phone  string
	From   string // inclusive ISO date (YYYY-MM-DD)
	To     string // inclusive ISO date
	Limit  int
	Offset int
}

// ListResult is a page of contacts plus the total matching count.
type ListResult struct {
	Items []contact.Contact
	Total int
	Count int
}

// normalize validates the parameters, clamping the limit and rejecting
// malformed input with ErrInvalidQuery.
func (p *ListParams) normalize(maxPageSize int) error {
	if p.Offset < 0 {
		return fmt.Errorf("%w: offset must be >= 0, got %d", ErrInvalidQuery, p.Offset)
	}
	if p.Limit < 0 {
		return fmt.Errorf("%w: limit must be >= 0, got %d", ErrInvalidQuery, p.Limit)
	}
	if p.Limit == 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}

	var from, to time.Time
	var err error
	if p.From != "" {
		if from, err = time.Parse(dateLayout, p.From); err != nil {
			return fmt.Errorf("%w: bad from date %q", ErrInvalidQuery, p.From)
		}
	}
	if p.To != "" {
		if to, err = time.Parse(dateLayout, p.To); err != nil {
			return fmt.Errorf("%w: bad to date %q", ErrInvalidQuery, p.To)
		}
	}
	if p.From != "" && p.To != "" && to.Before(from) {
		return fmt.Errorf("%w: range end %s before start %s", ErrInvalidQuery, p.To, p.From)
	}
	return nil
}

// List serves filtered, paginated contact reads from the store only; the
// mirror is never consulted.
func (t *Tracker) List(ctx context.Context, params ListParams) (ListResult, error) {
	if err := params.normalize(t.maxPageSize); err != nil {
		return ListResult{}, err
	}

	switch {
	case params.Phone != "":
		items, err := t.store.FindByPhone(ctx, params.Phone)
		if err != nil {
			return ListResult{}, err
		}
		return paginate(items, params.Limit, params.Offset), nil
	case params.Cohort != "":
		items, err := t.store.FindByCohort(ctx, params.Cohort)
		if err != nil {
			return ListResult{}, err
		}
		return paginate(items, params.Limit, params.Offset), nil
	case params.From != "" || params.To != "":
		items, err := t.store.FindByDateRange(ctx, params.From, params.To)
		if err != nil {
			return ListResult{}, err
		}
		return paginate(items, params.Limit, params.Offset), nil
	default:
		items, total, err := t.store.All(ctx, params.Limit, params.Offset)
		if err != nil {
			return ListResult{}, err
		}
		return ListResult{Items: items, Total: total, Count: len(items)}, nil
	}
}

// Pending returns opted-in contacts still waiting for a successful send.
func (t *Tracker) Pending(ctx context.Context) ([]contact.Contact, error) {
	unsent, err := t.store.FindUnsent(ctx)
	if err != nil {
		return nil, err
	}
	pending := []contact.Contact{}
	for _, c := range unsent {
		if c.OptedIn() {
			pending = append(pending, c)
		}
	}
	return pending, nil
}

// Stats returns the aggregate tracking counts from one store snapshot.
func (t *Tracker) Stats(ctx context.Context) (store.Stats, error) {
	return t.store.Stats(ctx)
}

// Cohorts lists registered cohorts.
func (t *Tracker) Cohorts(ctx context.Context) ([]contact.Cohort, error) {
	return t.store.Cohorts(ctx)
}

// paginate windows an already-filtered result set.
func paginate(items []contact.Contact, limit, offset int) ListResult {
	total := len(items)
	if offset >= total {
		return ListResult{Items: []contact.Contact{}, Total: total}
	}
	end := offset + limit
	if end > total {
		end = total
	}
	page := items[offset:end]
	return ListResult{Items: page, Total: total, Count: len(page)}
}
