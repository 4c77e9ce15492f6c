// Package notebook is the application-state container of notely.
//
// A Service owns the current core.State snapshot. Every mutation runs a pure
// reducer from package core, swaps the snapshot, writes the affected slot to
// the key-value store and publishes an Event. Reads (views, filtering) are
// recomputed from the current snapshot on every call.
//
// Slot writes are fire-and-forget from the caller's point of view: a failed
// write keeps the new in-memory snapshot, is logged and reported to the
// configured error handler, and is retried by Flush.
package notebook
