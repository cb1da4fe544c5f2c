// Package message defines the outbound message catalog.
//
// Campaign messages are declared in CUE files and validated against an
// embedded schema before anything is sent: a template with a bad kind, an
// empty button id, or a non-string parameter is rejected at load time, not
// at send time. Rendering substitutes per-contact values (name, cohort,
// schedule, location) into the body.
package message
