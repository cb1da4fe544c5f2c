// Package mirror maintains the flat CSV projection of the contact store.
//
// The file keeps the legacy sheet layout (Spanish headers, tracking columns
// named *_simple) so existing spreadsheets keep working. It applies the same
// merge policy as the SQLite store but offers no transactional guarantees
// beyond whole-file rewrite-on-write: it is a best-effort mirror, never a
// consistency source, and is never read back into the store automatically.
package mirror
