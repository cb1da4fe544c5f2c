// Package store provides SQLite-backed durable storage for contacts and
// cohorts. It is the single source of truth; the CSV mirror is a derived
// projection maintained elsewhere.
//
// # Critical Patterns
//
// CP-1: Phone Uniqueness
//   - UNIQUE constraint on contacts.phone
//   - Upsert looks up and writes keyed on the same normalized phone, so a
//     uniqueness violation can never surface to a caller
//
// CP-2: Atomic Merge
//   - Upsert runs read-merge-write inside one immediate transaction; the
//     merge policy (contact.Merge) never lets an empty incoming field erase
//     stored data
//
// CP-3: Bulk Clears Take the Gate
//   - ClearContacts/ClearCohorts/ResetAll hold a store-wide write lock;
//     every other write holds a read lock, so nothing interleaves with a
//     half-finished deletion
//
// CP-4: Bounded Retry
//   - Every write runs through RetryPolicy; transient SQLITE_BUSY contention
//     is retried with increasing delay before surfacing ErrBusy
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=10000: writers wait for locks up to 10 seconds
//   - foreign_keys deliberately NOT enforced between contacts and cohorts:
//     deleting a cohort leaves orphaned references, which is a tolerated,
//     reportable state
package store
