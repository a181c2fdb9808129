// Package postgres provides PostgreSQL implementations of the store
// interfaces defined in internal/store. All task queries are owner-scoped
// at the SQL level so a mismatched owner is indistinguishable from a
// missing row.
package postgres
