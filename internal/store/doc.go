// Package store persists the poet mapping.
//
// Two backends implement Store:
//
//   - JSONStore: a single pretty-printed JSON file, rewritten in full on
//     every Save. A missing file loads as an empty mapping.
//   - DocumentStore: one document per poet and one per poem in a SQL
//     database. Every document is an independent upsert; there is no
//     transaction around a poet. Local stores use modernc.org/sqlite,
//     hosted stores use libSQL (Turso) through libsql-client-go.
//
// Hosted credentials are read from a JSON file and passed to the driver
// explicitly. They are never exported to the process environment.
package store
