// Package database stores counting results in SQLite so runs can be listed
// and compared later.
//
// Every successful result is one row in the runs table, keyed by its source
// label. The full result is kept as JSON next to a few summary columns used
// for listing history without decoding every row.
//
// The driver is modernc.org/sqlite, a CGO-free implementation, so the
// binary cross-compiles without a C toolchain.
package database
