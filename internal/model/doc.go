// Package model defines the core data structures used throughout diwan.
//
// This package contains the following main types:
//   - Poem: A single titled text attributed to one poet
//   - Poet: A named poet and the poems collected under that name
//   - Mapping: The persisted poet name -> Poet snapshot
//   - Anthology: The concurrency-safe owner of a Mapping during a crawl
//   - Summary: Aggregate statistics over a Mapping, used by reports
//
// The models serialize to the JSON document layout written by the JSON
// store and mirrored into the document store.
package model
