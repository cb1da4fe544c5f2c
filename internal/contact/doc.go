// Package contact defines the record model for the notification tracker.
//
// A Contact is one tracked student, identified by a canonical phone number.
// A Cohort is a training program a contact belongs to. Both are pure data
// definitions; the only behavior here is validation (phone normalization,
// editable-field checking) and the merge policy.
//
// # Critical Patterns
//
// CP-1: Phone Identity
//   - NormalizePhone is the single canonicalization function. Every lookup,
//     write, and webhook match goes through it. The canonical form is
//     digits-only (no '+', spaces, or punctuation).
//
// CP-2: Non-Destructive Merge
//   - Merge never replaces a populated field with an empty incoming value.
//     Both the SQLite store and the CSV mirror apply this same rule, so their
//     divergence is bounded by propagation timing, not by semantics.
//
// CP-3: Closed Field Enumeration
//   - Edit requests name fields as strings. ParseField validates the name
//     against the editable set before anything reaches storage.
package contact
