// Package history persists the outcome of every split request in SQLite.
//
// The database lives at <log_dir>/history.db. Its schema is versioned; a
// version mismatch is reported as ErrSchemaMismatch and resolved by deleting
// the file. Writes retry briefly on SQLITE_BUSY so concurrent requests and
// separate CLI invocations can share the file.
package history
