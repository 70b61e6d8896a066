// Package sqlitec implements the sqliteh native boundary on top of the SQLite
// C library through cgo. It links against the system libsqlite3.
//
// The package translates Go values into C calls and nothing more: it never
// builds errors, never logs, and never keeps a C pointer past the call that
// produced it. Text and blob binds use SQLITE_TRANSIENT, so SQLite copies the
// caller's bytes before the bind returns.
//
//   - https://www.sqlite.org/cintro.html
//   - https://www.sqlite.org/c3ref/intro.html
package sqlitec
