// Package inmemorystore provides an ephemeral, thread-safe, in-memory store
// of per-file conversion outcomes.
//
// # Purpose
//
// The application converts many source files concurrently. Each worker
// records the status of its file, the summaries of the records it produced
// and the error it ended with. The final report and the exit code are built
// from this store once every worker is done.
//
// # Concurrency Model
//
// The store uses sync.Map: every file is written by exactly one worker, keys
// are independent, and reads happen mostly after the writes are finished.
package inmemorystore
