// Package snapshot exports the current state of a mount: its tree (as a
// JSON document) and its rendered HTML.
//
// Three stores are provided:
//
//   - Memory: process-local, for tests and single-node servers
//   - Redis: one key per mount plus a sorted-set index, with optional TTL
//   - S3: one object per mount under a key prefix
//
// All stores implement Store and are selected at startup with Open.
package snapshot
