// Package types defines the entity field model shared by the casemap
// marshaling engine: entities with static and custom fields, custom field
// options and their dependency records, entity references, attachments,
// the per-type schema table, and the standard error values.
//
// Everything here is in-memory and per call. Entities are not synchronized;
// callers serialize access to a single instance. Distinct instances share no
// mutable state.
package types
