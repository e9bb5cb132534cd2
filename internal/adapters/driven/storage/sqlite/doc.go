// Package sqlite implements the session journal over a local SQLite
// database. One row is written per completed annotation session; the
// schema is managed through embedded, numbered migration files.
package sqlite
