// Package schedule provides the one-shot job table driving event automation.
//
// # Overview
//
// Jobs are keyed by a string identity derived from the event id
// ("event_<id>"). Upsert replaces any pending job under the same key, so at
// most one live timer exists per event at any time. When a job's fire time
// arrives, its payload is submitted to a bounded queue drained by a worker
// pool; payloads never run on the timer goroutine.
//
// # Lifecycle
//
// The table is transient: Clear() drops every pending job (reconciliation
// rebuilds the table from remote state), and a job disappears once it fires.
// Nothing is persisted across restarts.
//
// # Concurrency
//
// Clear/Upsert/Jobs/Next serialize on one mutex. Timer callbacks are
// version-checked, so a callback belonging to a replaced or cleared job is
// ignored even if it was already in flight.
package schedule
