package store

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrNotFound indicates an edit or delete that matched no row.
var ErrNotFound = errors.New("not found")

// ErrBusy indicates write contention that survived the full retry budget.
// It is the only error expected under normal concurrent load; callers
// should re-issue the request after a short delay. Never conflate it with
// a data error.
var ErrBusy = errors.New("store busy")

// isBusy reports whether err is transient SQLite lock contention.
func isBusy(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.Code == sqlite3.ErrBusy || se.Code == sqlite3.ErrLocked
	}
	return false
}
