// Package settings models editor settings documents and reconciles them.
//
// A Document is an ordered mapping from keys to JSON values. Documents are
// decoded from JSON-with-comments by JSONCCodec and are treated as
// immutable once loaded: Diff, MergeDefaults and Apply always return new
// documents.
//
// Diff works at top-level key granularity. Any difference anywhere inside
// a top-level value, including a nested key present on only one side,
// puts the whole remote value for that key into the delta. Deltas only
// ever add or replace keys; they never delete.
package settings
